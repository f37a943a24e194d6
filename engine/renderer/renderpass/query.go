package renderpass

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

func (sp *subPass) locationMap(t AttachmentType) (locationMap, bool) {
	switch t {
	case ATTACHMENT_TYPE_COLOR:
		return sp.colorAttachments, true
	case ATTACHMENT_TYPE_INPUT:
		return sp.inputAttachments, true
	case ATTACHMENT_TYPE_RESOLVE:
		return sp.resolvedAttachments, true
	}
	return nil, false
}

// SubPassAttachmentCount returns how many usages of the given type a subpass
// has. Asking for ATTACHMENT_TYPE_PRESERVE resolves preserved attachments first
// if needed.
func (ri *Info) SubPassAttachmentCount(subpassID SubPassID, t AttachmentType) (uint32, error) {
	sp, err := ri.subPass(subpassID)
	if err != nil {
		return 0, err
	}

	switch t {
	case ATTACHMENT_TYPE_COLOR, ATTACHMENT_TYPE_INPUT, ATTACHMENT_TYPE_RESOLVE:
		m, _ := sp.locationMap(t)
		return uint32(len(m)), nil
	case ATTACHMENT_TYPE_DEPTH_STENCIL:
		if sp.hasDepthStencil() {
			return 1, nil
		}
		return 0, nil
	case ATTACHMENT_TYPE_PRESERVE:
		ri.ensurePreservedAttachments()
		return uint32(len(sp.preservedAttachments)), nil
	default:
		return 0, ri.violation(core.ErrUnreachable, "attachment type %s", t)
	}
}

// SubPassAttachmentLocations returns the occupied locations of a color, input
// or resolve map in increasing order.
func (ri *Info) SubPassAttachmentLocations(subpassID SubPassID, t AttachmentType) ([]uint32, error) {
	sp, err := ri.subPass(subpassID)
	if err != nil {
		return nil, err
	}
	m, ok := sp.locationMap(t)
	if !ok {
		return nil, ri.violation(core.ErrInvalidArgument, "attachment type %s has no locations", t)
	}
	return m.sortedLocations(), nil
}

/**
 * @brief Returns the attachment and layout of one usage of a subpass.
 * @param n For color, input and resolve usages, the location of the usage.
 * For the depth/stencil usage, must be 0.
 * Preserved attachments carry no layout: use SubPassPreservedAttachment instead.
 */
func (ri *Info) SubPassAttachmentProperties(subpassID SubPassID, t AttachmentType, n uint32) (AttachmentID, vk.ImageLayout, error) {
	if t == ATTACHMENT_TYPE_PRESERVE {
		return 0, vk.ImageLayoutUndefined, ri.violation(core.ErrInvalidArgument, "preserved attachments have no layout")
	}
	sp, err := ri.subPass(subpassID)
	if err != nil {
		return 0, vk.ImageLayoutUndefined, err
	}

	switch t {
	case ATTACHMENT_TYPE_COLOR, ATTACHMENT_TYPE_INPUT, ATTACHMENT_TYPE_RESOLVE:
		m, _ := sp.locationMap(t)
		h, ok := m[n]
		if !ok {
			return 0, vk.ImageLayoutUndefined, ri.violation(core.ErrOutOfRange, "subpass %d has no %s attachment at location %d", subpassID, t, n)
		}
		usage, ok := ri.usages.Get(h)
		if !ok {
			return 0, vk.ImageLayoutUndefined, ri.violation(core.ErrUnreachable, "dangling usage %d", h)
		}
		return usage.Attachment, usage.Layout, nil
	case ATTACHMENT_TYPE_DEPTH_STENCIL:
		if n != 0 || !sp.hasDepthStencil() {
			return 0, vk.ImageLayoutUndefined, ri.violation(core.ErrOutOfRange, "subpass %d has no depth/stencil attachment %d", subpassID, n)
		}
		usage, ok := ri.usages.Get(sp.depthStencilAttachment)
		if !ok {
			return 0, vk.ImageLayoutUndefined, ri.violation(core.ErrUnreachable, "dangling usage %d", sp.depthStencilAttachment)
		}
		return usage.Attachment, usage.Layout, nil
	default:
		return 0, vk.ImageLayoutUndefined, ri.violation(core.ErrUnreachable, "attachment type %s", t)
	}
}

// SubPassPreservedAttachment returns the n-th attachment the subpass must preserve.
func (ri *Info) SubPassPreservedAttachment(subpassID SubPassID, n uint32) (AttachmentID, error) {
	sp, err := ri.subPass(subpassID)
	if err != nil {
		return 0, err
	}
	ri.ensurePreservedAttachments()
	if n >= uint32(len(sp.preservedAttachments)) {
		return 0, ri.violation(core.ErrInvalidArgument, "subpass %d preserves %d attachments, asked for %d", subpassID, len(sp.preservedAttachments), n)
	}
	usage, ok := ri.usages.Get(sp.preservedAttachments[n])
	if !ok {
		return 0, ri.violation(core.ErrUnreachable, "dangling usage %d", sp.preservedAttachments[n])
	}
	return usage.Attachment, nil
}

// SubPassUsage returns a copy of a color, input, resolve or depth/stencil
// usage record, including its liveness span once preserved attachments have
// been resolved.
func (ri *Info) SubPassUsage(subpassID SubPassID, t AttachmentType, n uint32) (SubPassAttachment, error) {
	if _, _, err := ri.SubPassAttachmentProperties(subpassID, t, n); err != nil {
		return SubPassAttachment{}, err
	}
	ri.ensurePreservedAttachments()
	sp := ri.subpasses[subpassID]
	h := sp.depthStencilAttachment
	if m, ok := sp.locationMap(t); ok {
		h = m[n]
	}
	usage, _ := ri.usages.Get(h)
	return *usage, nil
}
