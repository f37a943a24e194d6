package renderpass

import (
	"fmt"

	"github.com/spaghettifunk/anima-renderpass/engine/containers"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

type attachmentSpan struct {
	lowest  uint32
	highest uint32
}

// ensurePreservedAttachments recomputes preserve lists if a usage changed
// since the last run.
func (ri *Info) ensurePreservedAttachments() {
	if ri.preservedState == PRESERVED_ATTACHMENTS_STALE {
		ri.updatePreservedAttachments()
	}
	core.Assert(ri.preservedState == PRESERVED_ATTACHMENTS_CURRENT, "render pass %q: preserved attachments still stale", ri.Name)
}

/**
 * @brief Fills in the preserve list of every subpass.
 *
 * An attachment is live from the first to the last subpass that references it,
 * through any kind of usage. Every subpass inside that range that does not
 * reference the attachment itself must preserve it, once.
 */
func (ri *Info) updatePreservedAttachments() {
	// Unique usage records, in subpass order.
	unique := make([]containers.Handle, 0, ri.usages.Len())
	seen := make(map[containers.Handle]struct{}, ri.usages.Len())
	referenced := make([]map[AttachmentID]struct{}, len(ri.subpasses))
	for i, sp := range ri.subpasses {
		referenced[i] = make(map[AttachmentID]struct{})
		for _, h := range sp.usageHandles() {
			usage, ok := ri.usages.Get(h)
			if !ok {
				core.AssertFail("render pass %q: subpass %d holds dangling usage %d", ri.Name, i, h)
				continue
			}
			referenced[i][usage.Attachment] = struct{}{}
			if _, dup := seen[h]; !dup {
				seen[h] = struct{}{}
				unique = append(unique, h)
			}
		}
		sp.preservedAttachments = sp.preservedAttachments[:0]
	}

	// Liveness span of each attachment.
	ri.spans = make(map[AttachmentID]attachmentSpan)
	for i := range ri.subpasses {
		idx := uint32(i)
		for id := range referenced[i] {
			span, ok := ri.spans[id]
			if !ok {
				span = attachmentSpan{lowest: idx, highest: idx}
			}
			if idx < span.lowest {
				span.lowest = idx
			}
			if idx > span.highest {
				span.highest = idx
			}
			ri.spans[id] = span
		}
	}
	ri.usages.Each(func(_ containers.Handle, usage *SubPassAttachment) {
		span := ri.spans[usage.Attachment]
		usage.LowestSubPassIndex = span.lowest
		usage.HighestSubPassIndex = span.highest
	})

	// Fill the gaps.
	preserved := make([]map[AttachmentID]struct{}, len(ri.subpasses))
	for _, h := range unique {
		usage, _ := ri.usages.Get(h)
		if usage.LowestSubPassIndex == usage.HighestSubPassIndex {
			// Only one subpass touches the attachment, nothing to keep alive.
			continue
		}
		for i := usage.LowestSubPassIndex; containers.InRange(i, usage.LowestSubPassIndex, usage.HighestSubPassIndex); i++ {
			if _, ok := referenced[i][usage.Attachment]; ok {
				continue
			}
			if preserved[i] == nil {
				preserved[i] = make(map[AttachmentID]struct{})
			}
			if _, ok := preserved[i][usage.Attachment]; ok {
				continue
			}
			preserved[i][usage.Attachment] = struct{}{}
			ri.subpasses[i].preservedAttachments = append(ri.subpasses[i].preservedAttachments, h)
		}
	}

	ri.preservedState = PRESERVED_ATTACHMENTS_CURRENT
	core.LogDebug("render pass %q: resolved preserved attachments for %d subpasses, %d usages", ri.Name, len(ri.subpasses), len(unique))
}

// AttachmentSpan returns the first and last subpass in which the attachment
// is live. It fails when no subpass references the attachment.
func (ri *Info) AttachmentSpan(id AttachmentID) (uint32, uint32, error) {
	if !ri.attachmentInRange(id) {
		return 0, 0, ri.violation(core.ErrOutOfRange, "attachment id %d (have %d)", id, len(ri.attachments))
	}
	ri.ensurePreservedAttachments()
	span, ok := ri.spans[id]
	if !ok {
		return 0, 0, fmt.Errorf("%w: render pass %q: attachment %d is not used by any subpass", core.ErrInvalidArgument, ri.Name, id)
	}
	return span.lowest, span.highest, nil
}
