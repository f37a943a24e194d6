package renderpass

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

// Attachment describes one image the render pass reads or writes. For
// depth/stencil attachments the ColorDepth ops apply to the depth aspect.
type Attachment struct {
	Type  AttachmentType
	Index AttachmentID

	Format      vk.Format
	SampleCount vk.SampleCountFlagBits

	ColorDepthLoadOp  vk.AttachmentLoadOp
	ColorDepthStoreOp vk.AttachmentStoreOp
	StencilLoadOp     vk.AttachmentLoadOp
	StencilStoreOp    vk.AttachmentStoreOp

	InitialLayout vk.ImageLayout
	FinalLayout   vk.ImageLayout
	MayAlias      bool
}

type ColorAttachmentProperties struct {
	SampleCount   vk.SampleCountFlagBits
	LoadOp        vk.AttachmentLoadOp
	StoreOp       vk.AttachmentStoreOp
	InitialLayout vk.ImageLayout
	FinalLayout   vk.ImageLayout
	MayAlias      bool
}

type DepthStencilAttachmentProperties struct {
	DepthLoadOp    vk.AttachmentLoadOp
	DepthStoreOp   vk.AttachmentStoreOp
	StencilLoadOp  vk.AttachmentLoadOp
	StencilStoreOp vk.AttachmentStoreOp
	InitialLayout  vk.ImageLayout
	FinalLayout    vk.ImageLayout
	MayAlias       bool
}

// AddColorAttachment registers a color attachment and returns its id.
func (ri *Info) AddColorAttachment(format vk.Format, samples vk.SampleCountFlagBits, loadOp vk.AttachmentLoadOp, storeOp vk.AttachmentStoreOp,
	initialLayout, finalLayout vk.ImageLayout, mayAlias bool) AttachmentID {
	id := AttachmentID(len(ri.attachments))
	ri.attachments = append(ri.attachments, Attachment{
		Type:              ATTACHMENT_TYPE_COLOR,
		Index:             id,
		Format:            format,
		SampleCount:       samples,
		ColorDepthLoadOp:  loadOp,
		ColorDepthStoreOp: storeOp,
		StencilLoadOp:     vk.AttachmentLoadOpDontCare,
		StencilStoreOp:    vk.AttachmentStoreOpDontCare,
		InitialLayout:     initialLayout,
		FinalLayout:       finalLayout,
		MayAlias:          mayAlias,
	})
	return id
}

// AddDepthStencilAttachment registers a depth/stencil attachment and returns its id.
func (ri *Info) AddDepthStencilAttachment(format vk.Format, samples vk.SampleCountFlagBits,
	depthLoadOp vk.AttachmentLoadOp, depthStoreOp vk.AttachmentStoreOp,
	stencilLoadOp vk.AttachmentLoadOp, stencilStoreOp vk.AttachmentStoreOp,
	initialLayout, finalLayout vk.ImageLayout, mayAlias bool) AttachmentID {
	id := AttachmentID(len(ri.attachments))
	ri.attachments = append(ri.attachments, Attachment{
		Type:              ATTACHMENT_TYPE_DEPTH_STENCIL,
		Index:             id,
		Format:            format,
		SampleCount:       samples,
		ColorDepthLoadOp:  depthLoadOp,
		ColorDepthStoreOp: depthStoreOp,
		StencilLoadOp:     stencilLoadOp,
		StencilStoreOp:    stencilStoreOp,
		InitialLayout:     initialLayout,
		FinalLayout:       finalLayout,
		MayAlias:          mayAlias,
	})
	return id
}

func (ri *Info) AttachmentCount() uint32 {
	return uint32(len(ri.attachments))
}

func (ri *Info) attachmentInRange(id AttachmentID) bool {
	return uint32(id) < uint32(len(ri.attachments))
}

// Attachment returns a copy of the attachment descriptor.
func (ri *Info) Attachment(id AttachmentID) (Attachment, error) {
	if !ri.attachmentInRange(id) {
		return Attachment{}, ri.violation(core.ErrOutOfRange, "attachment id %d (have %d)", id, len(ri.attachments))
	}
	return ri.attachments[id], nil
}

func (ri *Info) AttachmentType(id AttachmentID) (AttachmentType, error) {
	a, err := ri.Attachment(id)
	if err != nil {
		return ATTACHMENT_TYPE_COLOR, err
	}
	return a.Type, nil
}

func (ri *Info) ColorAttachmentProperties(id AttachmentID) (ColorAttachmentProperties, error) {
	a, err := ri.Attachment(id)
	if err != nil {
		return ColorAttachmentProperties{}, err
	}
	return ColorAttachmentProperties{
		SampleCount:   a.SampleCount,
		LoadOp:        a.ColorDepthLoadOp,
		StoreOp:       a.ColorDepthStoreOp,
		InitialLayout: a.InitialLayout,
		FinalLayout:   a.FinalLayout,
		MayAlias:      a.MayAlias,
	}, nil
}

func (ri *Info) DepthStencilAttachmentProperties(id AttachmentID) (DepthStencilAttachmentProperties, error) {
	a, err := ri.Attachment(id)
	if err != nil {
		return DepthStencilAttachmentProperties{}, err
	}
	return DepthStencilAttachmentProperties{
		DepthLoadOp:    a.ColorDepthLoadOp,
		DepthStoreOp:   a.ColorDepthStoreOp,
		StencilLoadOp:  a.StencilLoadOp,
		StencilStoreOp: a.StencilStoreOp,
		InitialLayout:  a.InitialLayout,
		FinalLayout:    a.FinalLayout,
		MayAlias:       a.MayAlias,
	}, nil
}
