package renderpass

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-renderpass/engine/containers"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

// AttachmentID is the dense, zero-based index of an attachment, in creation order.
type AttachmentID uint32

// SubPassID is the dense, zero-based index of a subpass, in creation order.
type SubPassID uint32

// SubPassExternal stands for "outside of the render pass" in dependencies.
const SubPassExternal SubPassID = SubPassID(vk.SubpassExternal)

type AttachmentType int

const (
	ATTACHMENT_TYPE_COLOR AttachmentType = iota
	ATTACHMENT_TYPE_DEPTH_STENCIL
	ATTACHMENT_TYPE_INPUT
	ATTACHMENT_TYPE_PRESERVE
	ATTACHMENT_TYPE_RESOLVE
)

func (t AttachmentType) String() string {
	switch t {
	case ATTACHMENT_TYPE_COLOR:
		return "color"
	case ATTACHMENT_TYPE_DEPTH_STENCIL:
		return "depth_stencil"
	case ATTACHMENT_TYPE_INPUT:
		return "input"
	case ATTACHMENT_TYPE_PRESERVE:
		return "preserve"
	case ATTACHMENT_TYPE_RESOLVE:
		return "resolve"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// PreservedAttachmentsState tells whether the preserve lists of the subpasses
// reflect the current usage maps.
type PreservedAttachmentsState int

const (
	PRESERVED_ATTACHMENTS_STALE PreservedAttachmentsState = iota
	PRESERVED_ATTACHMENTS_CURRENT
)

/**
 * @brief Info is the in-memory model of a render pass: attachments, subpasses,
 * the usages that bind the two and the dependencies between subpasses.
 * It is not safe for concurrent use.
 */
type Info struct {
	/** @brief Name used to correlate log lines. A random uuid when not given. */
	Name string

	attachments  []Attachment
	subpasses    []*subPass
	dependencies []SubPassDependency

	// Usage records shared by the subpass maps. Subpasses store handles.
	usages *containers.Arena[SubPassAttachment]
	spans  map[AttachmentID]attachmentSpan

	preservedState PreservedAttachmentsState
}

func NewInfo(name string) *Info {
	if name == "" {
		name = uuid.NewString()
	}
	return &Info{
		Name:           name,
		attachments:    make([]Attachment, 0),
		subpasses:      make([]*subPass, 0),
		dependencies:   make([]SubPassDependency, 0),
		usages:         containers.NewArena[SubPassAttachment](8),
		spans:          make(map[AttachmentID]attachmentSpan),
		preservedState: PRESERVED_ATTACHMENTS_CURRENT,
	}
}

// PreservedAttachmentsState reports whether preserve lists need recomputing.
func (ri *Info) PreservedAttachmentsState() PreservedAttachmentsState {
	return ri.preservedState
}

// violation builds an error of the given kind and fires an assertion for it.
func (ri *Info) violation(kind error, msg string, args ...interface{}) error {
	err := fmt.Errorf("%w: render pass %q: %s", kind, ri.Name, fmt.Sprintf(msg, args...))
	core.AssertFail("%s", err.Error())
	return err
}
