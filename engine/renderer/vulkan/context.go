package vulkan

import (
	vk "github.com/goki/vulkan"
)

// VulkanContext carries the device objects render pass creation needs. The
// device itself is created and owned elsewhere.
type VulkanContext struct {
	LogicalDevice vk.Device
	Allocator     *vk.AllocationCallbacks
	Locks         *VulkanLockPool
}

func NewVulkanContext(device vk.Device, allocator *vk.AllocationCallbacks) *VulkanContext {
	return &VulkanContext{
		LogicalDevice: device,
		Allocator:     allocator,
		Locks:         NewVulkanLockPool(),
	}
}
