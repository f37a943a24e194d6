package renderpass

import (
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

// Lookup tables for the names used in render pass descriptions. Names follow
// the Vulkan enumerant without its prefix and are matched case-insensitively.

var formats = map[string]vk.Format{
	"UNDEFINED":           vk.FormatUndefined,
	"R8G8B8A8_UNORM":      vk.FormatR8g8b8a8Unorm,
	"R8G8B8A8_SRGB":       vk.FormatR8g8b8a8Srgb,
	"B8G8R8A8_UNORM":      vk.FormatB8g8r8a8Unorm,
	"B8G8R8A8_SRGB":       vk.FormatB8g8r8a8Srgb,
	"R16G16B16A16_SFLOAT": vk.FormatR16g16b16a16Sfloat,
	"R32G32B32A32_SFLOAT": vk.FormatR32g32b32a32Sfloat,
	"R32_SFLOAT":          vk.FormatR32Sfloat,
	"R32_UINT":            vk.FormatR32Uint,
	"D16_UNORM":           vk.FormatD16Unorm,
	"D32_SFLOAT":          vk.FormatD32Sfloat,
	"D24_UNORM_S8_UINT":   vk.FormatD24UnormS8Uint,
	"D32_SFLOAT_S8_UINT":  vk.FormatD32SfloatS8Uint,
}

var layouts = map[string]vk.ImageLayout{
	"UNDEFINED":                        vk.ImageLayoutUndefined,
	"GENERAL":                          vk.ImageLayoutGeneral,
	"COLOR_ATTACHMENT_OPTIMAL":         vk.ImageLayoutColorAttachmentOptimal,
	"DEPTH_STENCIL_ATTACHMENT_OPTIMAL": vk.ImageLayoutDepthStencilAttachmentOptimal,
	"DEPTH_STENCIL_READ_ONLY_OPTIMAL":  vk.ImageLayoutDepthStencilReadOnlyOptimal,
	"SHADER_READ_ONLY_OPTIMAL":         vk.ImageLayoutShaderReadOnlyOptimal,
	"TRANSFER_SRC_OPTIMAL":             vk.ImageLayoutTransferSrcOptimal,
	"TRANSFER_DST_OPTIMAL":             vk.ImageLayoutTransferDstOptimal,
	"PRESENT_SRC":                      vk.ImageLayoutPresentSrc,
}

var loadOps = map[string]vk.AttachmentLoadOp{
	"LOAD":      vk.AttachmentLoadOpLoad,
	"CLEAR":     vk.AttachmentLoadOpClear,
	"DONT_CARE": vk.AttachmentLoadOpDontCare,
}

var storeOps = map[string]vk.AttachmentStoreOp{
	"STORE":     vk.AttachmentStoreOpStore,
	"DONT_CARE": vk.AttachmentStoreOpDontCare,
}

var sampleCounts = map[uint32]vk.SampleCountFlagBits{
	1:  vk.SampleCount1Bit,
	2:  vk.SampleCount2Bit,
	4:  vk.SampleCount4Bit,
	8:  vk.SampleCount8Bit,
	16: vk.SampleCount16Bit,
	32: vk.SampleCount32Bit,
	64: vk.SampleCount64Bit,
}

var pipelineStages = map[string]vk.PipelineStageFlagBits{
	"TOP_OF_PIPE":             vk.PipelineStageTopOfPipeBit,
	"VERTEX_SHADER":           vk.PipelineStageVertexShaderBit,
	"FRAGMENT_SHADER":         vk.PipelineStageFragmentShaderBit,
	"EARLY_FRAGMENT_TESTS":    vk.PipelineStageEarlyFragmentTestsBit,
	"LATE_FRAGMENT_TESTS":     vk.PipelineStageLateFragmentTestsBit,
	"COLOR_ATTACHMENT_OUTPUT": vk.PipelineStageColorAttachmentOutputBit,
	"TRANSFER":                vk.PipelineStageTransferBit,
	"BOTTOM_OF_PIPE":          vk.PipelineStageBottomOfPipeBit,
	"ALL_GRAPHICS":            vk.PipelineStageAllGraphicsBit,
	"ALL_COMMANDS":            vk.PipelineStageAllCommandsBit,
}

var accessFlags = map[string]vk.AccessFlagBits{
	"INPUT_ATTACHMENT_READ":          vk.AccessInputAttachmentReadBit,
	"SHADER_READ":                    vk.AccessShaderReadBit,
	"SHADER_WRITE":                   vk.AccessShaderWriteBit,
	"COLOR_ATTACHMENT_READ":          vk.AccessColorAttachmentReadBit,
	"COLOR_ATTACHMENT_WRITE":         vk.AccessColorAttachmentWriteBit,
	"DEPTH_STENCIL_ATTACHMENT_READ":  vk.AccessDepthStencilAttachmentReadBit,
	"DEPTH_STENCIL_ATTACHMENT_WRITE": vk.AccessDepthStencilAttachmentWriteBit,
	"TRANSFER_READ":                  vk.AccessTransferReadBit,
	"TRANSFER_WRITE":                 vk.AccessTransferWriteBit,
	"MEMORY_READ":                    vk.AccessMemoryReadBit,
	"MEMORY_WRITE":                   vk.AccessMemoryWriteBit,
}

func lookup[V any](table map[string]V, what, name string, fallback V) (V, error) {
	if name == "" {
		return fallback, nil
	}
	v, ok := table[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return v, fmt.Errorf("%w: unknown %s %q", core.ErrInvalidArgument, what, name)
	}
	return v, nil
}

func ParseFormat(name string) (vk.Format, error) {
	return lookup(formats, "format", name, vk.FormatUndefined)
}

// ParseImageLayout maps a layout name to its value. An empty name is UNDEFINED.
func ParseImageLayout(name string) (vk.ImageLayout, error) {
	return lookup(layouts, "image layout", name, vk.ImageLayoutUndefined)
}

func ParseLoadOp(name string) (vk.AttachmentLoadOp, error) {
	return lookup(loadOps, "load op", name, vk.AttachmentLoadOpDontCare)
}

func ParseStoreOp(name string) (vk.AttachmentStoreOp, error) {
	return lookup(storeOps, "store op", name, vk.AttachmentStoreOpDontCare)
}

// ParseSampleCount maps a sample count to its flag bit. Zero means one sample.
func ParseSampleCount(samples uint32) (vk.SampleCountFlagBits, error) {
	if samples == 0 {
		return vk.SampleCount1Bit, nil
	}
	bit, ok := sampleCounts[samples]
	if !ok {
		return vk.SampleCount1Bit, fmt.Errorf("%w: unsupported sample count %d", core.ErrInvalidArgument, samples)
	}
	return bit, nil
}

func ParsePipelineStages(names []string) (vk.PipelineStageFlags, error) {
	var mask vk.PipelineStageFlags
	for _, name := range names {
		bit, err := lookup(pipelineStages, "pipeline stage", name, vk.PipelineStageFlagBits(0))
		if err != nil {
			return 0, err
		}
		mask |= vk.PipelineStageFlags(bit)
	}
	return mask, nil
}

func ParseAccessFlags(names []string) (vk.AccessFlags, error) {
	var mask vk.AccessFlags
	for _, name := range names {
		bit, err := lookup(accessFlags, "access flag", name, vk.AccessFlagBits(0))
		if err != nil {
			return 0, err
		}
		mask |= vk.AccessFlags(bit)
	}
	return mask, nil
}

// nameOf returns the table key for v, used when reporting.
func nameOf[V comparable](table map[string]V, v V) string {
	for name, candidate := range table {
		if candidate == v {
			return name
		}
	}
	return fmt.Sprintf("%v", v)
}

func FormatName(f vk.Format) string {
	return nameOf(formats, f)
}

func ImageLayoutName(l vk.ImageLayout) string {
	return nameOf(layouts, l)
}
