package renderpass

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/containers"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SubPassAttachment is a usage record: the attachment a subpass touches and
// the layout it must be in while the subpass runs.
type SubPassAttachment struct {
	Attachment AttachmentID
	Layout     vk.ImageLayout

	// Only set for color usages that resolve into another attachment.
	ResolveAttachment AttachmentID
	HasResolve        bool

	// First and last subpass in which the attachment is live. Filled in by
	// preserved attachment resolution.
	LowestSubPassIndex  uint32
	HighestSubPassIndex uint32
}

type locationMap map[uint32]containers.Handle

// sortedLocations returns the keys of m in increasing order.
func (m locationMap) sortedLocations() []uint32 {
	locations := maps.Keys(m)
	slices.Sort(locations)
	return locations
}

type subPass struct {
	index SubPassID

	colorAttachments    locationMap
	inputAttachments    locationMap
	resolvedAttachments locationMap

	depthStencilAttachment containers.Handle

	preservedAttachments []containers.Handle
}

func newSubPass(index SubPassID) *subPass {
	return &subPass{
		index:                  index,
		colorAttachments:       make(locationMap),
		inputAttachments:       make(locationMap),
		resolvedAttachments:    make(locationMap),
		depthStencilAttachment: containers.InvalidHandle,
		preservedAttachments:   make([]containers.Handle, 0),
	}
}

func (sp *subPass) hasDepthStencil() bool {
	return sp.depthStencilAttachment != containers.InvalidHandle
}

// usageHandles lists every usage the subpass references: color, depth/stencil,
// resolve and input, each group ordered by location.
func (sp *subPass) usageHandles() []containers.Handle {
	handles := make([]containers.Handle, 0, len(sp.colorAttachments)+len(sp.resolvedAttachments)+len(sp.inputAttachments)+1)
	for _, loc := range sp.colorAttachments.sortedLocations() {
		handles = append(handles, sp.colorAttachments[loc])
	}
	if sp.hasDepthStencil() {
		handles = append(handles, sp.depthStencilAttachment)
	}
	for _, loc := range sp.resolvedAttachments.sortedLocations() {
		handles = append(handles, sp.resolvedAttachments[loc])
	}
	for _, loc := range sp.inputAttachments.sortedLocations() {
		handles = append(handles, sp.inputAttachments[loc])
	}
	return handles
}

// AddSubPass appends an empty subpass and returns its id.
func (ri *Info) AddSubPass() SubPassID {
	id := SubPassID(len(ri.subpasses))
	ri.subpasses = append(ri.subpasses, newSubPass(id))
	return id
}

func (ri *Info) SubPassCount() uint32 {
	return uint32(len(ri.subpasses))
}

func (ri *Info) subPass(id SubPassID) (*subPass, error) {
	if uint32(id) >= uint32(len(ri.subpasses)) {
		return nil, ri.violation(core.ErrOutOfRange, "subpass id %d (have %d)", id, len(ri.subpasses))
	}
	return ri.subpasses[id], nil
}

/**
 * @brief Adds a color or input usage to a subpass.
 * @param isColor true for a color attachment, false for an input attachment.
 * @param layout The layout the attachment is transitioned to for the subpass.
 * @param location The slot under which the attachment is accessible. Color and
 * input locations are separate namespaces.
 * @param shouldResolve When true the color usage is resolved into resolveAttachment
 * at the end of the subpass, and a resolve usage is recorded at the same location.
 * @return An error wrapping core.ErrOutOfRange or core.ErrSlotOccupied. Nothing is
 * modified on error.
 */
func (ri *Info) AddSubPassAttachment(subpassID SubPassID, isColor bool, layout vk.ImageLayout, attachmentID AttachmentID,
	location uint32, shouldResolve bool, resolveAttachmentID AttachmentID) error {
	sp, err := ri.subPass(subpassID)
	if err != nil {
		return err
	}
	if !ri.attachmentInRange(attachmentID) {
		return ri.violation(core.ErrOutOfRange, "attachment id %d (have %d)", attachmentID, len(ri.attachments))
	}
	if shouldResolve && !ri.attachmentInRange(resolveAttachmentID) {
		return ri.violation(core.ErrOutOfRange, "resolve attachment id %d (have %d)", resolveAttachmentID, len(ri.attachments))
	}

	target := sp.inputAttachments
	kind := ATTACHMENT_TYPE_INPUT
	if isColor {
		target = sp.colorAttachments
		kind = ATTACHMENT_TYPE_COLOR
	}
	if _, ok := target[location]; ok {
		return ri.violation(core.ErrSlotOccupied, "subpass %d already has a %s attachment at location %d", subpassID, kind, location)
	}

	target[location] = ri.usages.Add(SubPassAttachment{
		Attachment:        attachmentID,
		Layout:            layout,
		ResolveAttachment: resolveAttachmentID,
		HasResolve:        shouldResolve,
	})
	if shouldResolve {
		sp.resolvedAttachments[location] = ri.usages.Add(SubPassAttachment{
			Attachment: resolveAttachmentID,
			Layout:     layout,
		})
	}

	ri.preservedState = PRESERVED_ATTACHMENTS_STALE
	return nil
}

// AddSubPassColorAttachment adds a color usage. A non-nil resolveAttachmentID
// requests a multisample resolve into that attachment.
func (ri *Info) AddSubPassColorAttachment(subpassID SubPassID, layout vk.ImageLayout, attachmentID AttachmentID, location uint32, resolveAttachmentID *AttachmentID) error {
	if resolveAttachmentID != nil {
		return ri.AddSubPassAttachment(subpassID, true, layout, attachmentID, location, true, *resolveAttachmentID)
	}
	return ri.AddSubPassAttachment(subpassID, true, layout, attachmentID, location, false, 0)
}

func (ri *Info) AddSubPassInputAttachment(subpassID SubPassID, layout vk.ImageLayout, attachmentID AttachmentID, location uint32) error {
	return ri.AddSubPassAttachment(subpassID, false, layout, attachmentID, location, false, 0)
}

// AddSubPassDepthStencilAttachment sets the depth/stencil usage of a subpass.
// A subpass holds at most one.
func (ri *Info) AddSubPassDepthStencilAttachment(subpassID SubPassID, attachmentID AttachmentID, layout vk.ImageLayout) error {
	sp, err := ri.subPass(subpassID)
	if err != nil {
		return err
	}
	if !ri.attachmentInRange(attachmentID) {
		return ri.violation(core.ErrOutOfRange, "attachment id %d (have %d)", attachmentID, len(ri.attachments))
	}
	if sp.hasDepthStencil() {
		return ri.violation(core.ErrSlotOccupied, "subpass %d already has a depth/stencil attachment", subpassID)
	}

	sp.depthStencilAttachment = ri.usages.Add(SubPassAttachment{
		Attachment: attachmentID,
		Layout:     layout,
	})
	ri.preservedState = PRESERVED_ATTACHMENTS_STALE
	return nil
}
