package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/renderpass"
)

type VulkanRenderPassState int

const (
	READY VulkanRenderPassState = iota
	RECORDING
	IN_RENDER_PASS
	RECORDING_ENDED
	SUBMITTED
	NOT_ALLOCATED
)

type VulkanRenderpass struct {
	Handle     vk.RenderPass
	Name       string
	X, Y, W, H float32
	R, G, B, A float32
	Depth      float32
	Stencil    uint32
	State      VulkanRenderPassState
	// Number of attachments a compatible framebuffer must provide.
	AttachmentCount uint32
}

// RenderPassCreateInfoFromInfo translates a render pass model into the
// structures vkCreateRenderPass expects. Preserved attachments are resolved
// as part of the translation.
func RenderPassCreateInfoFromInfo(info *renderpass.Info) (vk.RenderPassCreateInfo, error) {
	attachmentDescriptions := make([]vk.AttachmentDescription, info.AttachmentCount())
	for i := range attachmentDescriptions {
		a, err := info.Attachment(renderpass.AttachmentID(i))
		if err != nil {
			return vk.RenderPassCreateInfo{}, err
		}
		var flags vk.AttachmentDescriptionFlags
		if a.MayAlias {
			flags |= vk.AttachmentDescriptionFlags(vk.AttachmentDescriptionMayAliasBit)
		}
		attachmentDescriptions[i] = vk.AttachmentDescription{
			Flags:          flags,
			Format:         a.Format,
			Samples:        a.SampleCount,
			LoadOp:         a.ColorDepthLoadOp,
			StoreOp:        a.ColorDepthStoreOp,
			StencilLoadOp:  a.StencilLoadOp,
			StencilStoreOp: a.StencilStoreOp,
			InitialLayout:  a.InitialLayout,
			FinalLayout:    a.FinalLayout,
		}
	}

	subpasses := make([]vk.SubpassDescription, info.SubPassCount())
	for i := range subpasses {
		subpass, err := subpassDescription(info, renderpass.SubPassID(i))
		if err != nil {
			return vk.RenderPassCreateInfo{}, err
		}
		subpasses[i] = subpass
	}

	dependencies := make([]vk.SubpassDependency, info.DependencyCount())
	for i := range dependencies {
		dep, err := info.DependencyProperties(uint32(i))
		if err != nil {
			return vk.RenderPassCreateInfo{}, err
		}
		var flags vk.DependencyFlags
		if dep.ByRegion {
			flags |= vk.DependencyFlags(vk.DependencyByRegionBit)
		}
		// SubPassExternal has the same value as VK_SUBPASS_EXTERNAL.
		dependencies[i] = vk.SubpassDependency{
			SrcSubpass:      uint32(dep.SourceSubPass),
			DstSubpass:      uint32(dep.DestinationSubPass),
			SrcStageMask:    dep.SourceStageMask,
			DstStageMask:    dep.DestinationStageMask,
			SrcAccessMask:   dep.SourceAccessMask,
			DstAccessMask:   dep.DestinationAccessMask,
			DependencyFlags: flags,
		}
	}

	return vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}, nil
}

func subpassDescription(info *renderpass.Info, id renderpass.SubPassID) (vk.SubpassDescription, error) {
	subpass := vk.SubpassDescription{
		PipelineBindPoint: vk.PipelineBindPointGraphics,
	}

	colorRefs, err := denseReferences(info, id, renderpass.ATTACHMENT_TYPE_COLOR, 0)
	if err != nil {
		return subpass, err
	}
	subpass.ColorAttachmentCount = uint32(len(colorRefs))
	subpass.PColorAttachments = colorRefs

	// Attachments used for multisampling colour attachments. When present the
	// array is as long as the colour array.
	if n, err := info.SubPassAttachmentCount(id, renderpass.ATTACHMENT_TYPE_RESOLVE); err != nil {
		return subpass, err
	} else if n > 0 {
		resolveRefs, err := denseReferences(info, id, renderpass.ATTACHMENT_TYPE_RESOLVE, len(colorRefs))
		if err != nil {
			return subpass, err
		}
		subpass.PResolveAttachments = resolveRefs
	}

	// Input from a shader
	inputRefs, err := denseReferences(info, id, renderpass.ATTACHMENT_TYPE_INPUT, 0)
	if err != nil {
		return subpass, err
	}
	subpass.InputAttachmentCount = uint32(len(inputRefs))
	subpass.PInputAttachments = inputRefs

	// Depth stencil data.
	if n, err := info.SubPassAttachmentCount(id, renderpass.ATTACHMENT_TYPE_DEPTH_STENCIL); err != nil {
		return subpass, err
	} else if n == 1 {
		attachment, layout, err := info.SubPassAttachmentProperties(id, renderpass.ATTACHMENT_TYPE_DEPTH_STENCIL, 0)
		if err != nil {
			return subpass, err
		}
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: uint32(attachment),
			Layout:     layout,
		}
	}

	// Attachments not used in this subpass, but must be preserved for the next.
	n, err := info.SubPassAttachmentCount(id, renderpass.ATTACHMENT_TYPE_PRESERVE)
	if err != nil {
		return subpass, err
	}
	if n > 0 {
		preserved := make([]uint32, n)
		for i := uint32(0); i < n; i++ {
			attachment, err := info.SubPassPreservedAttachment(id, i)
			if err != nil {
				return subpass, err
			}
			preserved[i] = uint32(attachment)
		}
		subpass.PreserveAttachmentCount = n
		subpass.PPreserveAttachments = preserved
	}
	return subpass, nil
}

// denseReferences turns a location keyed map into an array indexed by
// location. Unused locations are VK_ATTACHMENT_UNUSED. minLength pads the
// result, which keeps resolve arrays aligned with colour arrays.
func denseReferences(info *renderpass.Info, id renderpass.SubPassID, t renderpass.AttachmentType, minLength int) ([]vk.AttachmentReference, error) {
	locations, err := info.SubPassAttachmentLocations(id, t)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, nil
	}
	highest := locations[len(locations)-1]
	if highest > VULKAN_MAX_ATTACHMENT_LOCATION {
		err := fmt.Errorf("%w: subpass %d uses %s location %d, max is %d", core.ErrInvalidArgument, id, t, highest, VULKAN_MAX_ATTACHMENT_LOCATION)
		return nil, err
	}

	length := int(highest) + 1
	if length < minLength {
		length = minLength
	}
	refs := make([]vk.AttachmentReference, length)
	for i := range refs {
		refs[i] = vk.AttachmentReference{
			Attachment: vk.AttachmentUnused,
			Layout:     vk.ImageLayoutUndefined,
		}
	}
	for _, loc := range locations {
		attachment, layout, err := info.SubPassAttachmentProperties(id, t, loc)
		if err != nil {
			return nil, err
		}
		refs[loc] = vk.AttachmentReference{
			Attachment: uint32(attachment),
			Layout:     layout,
		}
	}
	return refs, nil
}

func RenderpassCreate(context *VulkanContext, info *renderpass.Info, x, y, w, h, r, g, b, a, depth float32, stencil uint32) (*VulkanRenderpass, error) {
	outRenderpass := &VulkanRenderpass{
		Name:            info.Name,
		X:               x,
		Y:               y,
		W:               w,
		H:               h,
		R:               r,
		G:               g,
		B:               b,
		A:               a,
		Depth:           depth,
		Stencil:         stencil,
		State:           NOT_ALLOCATED,
		AttachmentCount: info.AttachmentCount(),
	}

	renderpassCreateInfo, err := RenderPassCreateInfoFromInfo(info)
	if err != nil {
		core.LogError("failed to translate render pass %q: %s", info.Name, err)
		return nil, err
	}

	var pRenderPass vk.RenderPass
	err = context.Locks.SafeCall(RenderpassManagement, func() error {
		if res := vk.CreateRenderPass(context.LogicalDevice, &renderpassCreateInfo, context.Allocator, &pRenderPass); res != vk.Success {
			return fmt.Errorf("failed to create render pass %q: %s", info.Name, VulkanResultString(res, true))
		}
		return nil
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	outRenderpass.Handle = pRenderPass
	outRenderpass.State = READY
	core.LogDebug("render pass %q created with %d subpasses", info.Name, renderpassCreateInfo.SubpassCount)
	return outRenderpass, nil
}

func (vr *VulkanRenderpass) RenderpassDestroy(context *VulkanContext) {
	if vr.Handle != nil {
		_ = context.Locks.SafeCall(RenderpassManagement, func() error {
			vk.DestroyRenderPass(context.LogicalDevice, vr.Handle, context.Allocator)
			return nil
		})
		vr.Handle = nil
	}
	vr.State = NOT_ALLOCATED
}

// ClearValues returns one clear value per attachment of info, indexed by
// attachment id, as vkCmdBeginRenderPass expects.
func (vr *VulkanRenderpass) ClearValues(info *renderpass.Info) ([]vk.ClearValue, error) {
	clearValues := make([]vk.ClearValue, info.AttachmentCount())
	for i := range clearValues {
		t, err := info.AttachmentType(renderpass.AttachmentID(i))
		if err != nil {
			return nil, err
		}
		if t == renderpass.ATTACHMENT_TYPE_DEPTH_STENCIL {
			clearValues[i].SetDepthStencil(vr.Depth, vr.Stencil)
		} else {
			clearValues[i].SetColor([]float32{vr.R, vr.G, vr.B, vr.A})
		}
	}
	return clearValues, nil
}
