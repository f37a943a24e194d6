package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

type VulkanFramebuffer struct {
	Handle          vk.Framebuffer
	AttachmentCount uint32
	Attachments     []vk.ImageView
	Renderpass      *VulkanRenderpass
}

// FramebufferCreateInfo checks that one image view is given per render pass
// attachment and builds the create info for a single layer framebuffer.
func FramebufferCreateInfo(renderpass *VulkanRenderpass, width, height uint32, attachments []vk.ImageView) (vk.FramebufferCreateInfo, error) {
	if uint32(len(attachments)) != renderpass.AttachmentCount {
		err := fmt.Errorf("%w: render pass %q has %d attachments, got %d image views",
			core.ErrInvalidArgument, renderpass.Name, renderpass.AttachmentCount, len(attachments))
		return vk.FramebufferCreateInfo{}, err
	}
	return vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderpass.Handle,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           width,
		Height:          height,
		Layers:          1,
	}, nil
}

func FramebufferCreate(context *VulkanContext, renderpass *VulkanRenderpass, width uint32, height uint32, attachments []vk.ImageView) (*VulkanFramebuffer, error) {
	outFramebuffer := &VulkanFramebuffer{
		Attachments:     make([]vk.ImageView, len(attachments)),
		Renderpass:      renderpass,
		AttachmentCount: uint32(len(attachments)),
	}
	// Take a copy of the attachments
	copy(outFramebuffer.Attachments, attachments)

	framebufferCreateInfo, err := FramebufferCreateInfo(renderpass, width, height, outFramebuffer.Attachments)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	var pFramebuffer vk.Framebuffer
	err = context.Locks.SafeCall(FramebufferManagement, func() error {
		if res := vk.CreateFramebuffer(context.LogicalDevice, &framebufferCreateInfo, context.Allocator, &pFramebuffer); res != vk.Success {
			return fmt.Errorf("failed to create framebuffer: %s", VulkanResultString(res, true))
		}
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	outFramebuffer.Handle = pFramebuffer
	return outFramebuffer, nil
}

func (vfb *VulkanFramebuffer) Destroy(context *VulkanContext) {
	_ = context.Locks.SafeCall(FramebufferManagement, func() error {
		vk.DestroyFramebuffer(context.LogicalDevice, vfb.Handle, context.Allocator)
		return nil
	})
	if len(vfb.Attachments) > 0 {
		vfb.Attachments = nil
	}
	vfb.Handle = nil
	vfb.AttachmentCount = 0
	vfb.Renderpass = nil
}
