package renderpass

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/metadata"
)

// ExternalSubPassName refers to work outside of the render pass in dependency descriptions.
const ExternalSubPassName = "external"

// FromDescription builds an Info by replaying a render pass description through
// the builder. Attachments are created in description order, then subpasses
// and their usages, then dependencies.
func FromDescription(desc *metadata.RenderPassDescription) (*Info, error) {
	if desc == nil {
		err := fmt.Errorf("%w: FromDescription requires a description", core.ErrInvalidArgument)
		return nil, err
	}
	ri := NewInfo(desc.Name)

	attachmentIDs := make(map[string]AttachmentID, len(desc.Attachments))
	for i := range desc.Attachments {
		a := &desc.Attachments[i]
		if err := requireUniqueName(attachmentIDs, a.Name, "attachment", i); err != nil {
			return nil, err
		}
		id, err := ri.addDescribedAttachment(a)
		if err != nil {
			return nil, fmt.Errorf("attachment %q: %w", a.Name, err)
		}
		attachmentIDs[a.Name] = id
	}

	subpassIDs := make(map[string]SubPassID, len(desc.SubPasses))
	for i := range desc.SubPasses {
		sp := &desc.SubPasses[i]
		if err := requireUniqueName(subpassIDs, sp.Name, "subpass", i); err != nil {
			return nil, err
		}
		if strings.EqualFold(sp.Name, ExternalSubPassName) {
			return nil, fmt.Errorf("%w: subpass name %q is reserved", core.ErrInvalidArgument, sp.Name)
		}
		id := ri.AddSubPass()
		subpassIDs[sp.Name] = id
		if err := ri.addDescribedUsages(id, sp, attachmentIDs); err != nil {
			return nil, fmt.Errorf("subpass %q: %w", sp.Name, err)
		}
	}

	for i := range desc.Dependencies {
		dep := &desc.Dependencies[i]
		if err := ri.addDescribedDependency(dep, subpassIDs); err != nil {
			return nil, fmt.Errorf("dependency %d (%s -> %s): %w", i, dep.Source, dep.Destination, err)
		}
	}

	core.LogDebug("render pass %q: built from description (%d attachments, %d subpasses, %d dependencies)",
		ri.Name, ri.AttachmentCount(), ri.SubPassCount(), ri.DependencyCount())
	return ri, nil
}

func requireUniqueName[V any](known map[string]V, name, what string, index int) error {
	if name == "" {
		return fmt.Errorf("%w: %s %d has no name", core.ErrInvalidArgument, what, index)
	}
	if _, ok := known[name]; ok {
		return fmt.Errorf("%w: duplicate %s name %q", core.ErrInvalidArgument, what, name)
	}
	return nil
}

func (ri *Info) addDescribedAttachment(a *metadata.AttachmentDescription) (AttachmentID, error) {
	format, err := ParseFormat(a.Format)
	if err != nil {
		return 0, err
	}
	samples, err := ParseSampleCount(a.Samples)
	if err != nil {
		return 0, err
	}
	loadOp, err := ParseLoadOp(a.LoadOp)
	if err != nil {
		return 0, err
	}
	storeOp, err := ParseStoreOp(a.StoreOp)
	if err != nil {
		return 0, err
	}
	initialLayout, err := ParseImageLayout(a.InitialLayout)
	if err != nil {
		return 0, err
	}
	finalLayout, err := ParseImageLayout(a.FinalLayout)
	if err != nil {
		return 0, err
	}

	switch strings.ToLower(a.Kind) {
	case "", "color":
		return ri.AddColorAttachment(format, samples, loadOp, storeOp, initialLayout, finalLayout, a.MayAlias), nil
	case "depth_stencil":
		stencilLoadOp, err := ParseLoadOp(a.StencilLoadOp)
		if err != nil {
			return 0, err
		}
		stencilStoreOp, err := ParseStoreOp(a.StencilStoreOp)
		if err != nil {
			return 0, err
		}
		return ri.AddDepthStencilAttachment(format, samples, loadOp, storeOp, stencilLoadOp, stencilStoreOp, initialLayout, finalLayout, a.MayAlias), nil
	default:
		return 0, fmt.Errorf("%w: unknown attachment kind %q", core.ErrInvalidArgument, a.Kind)
	}
}

func resolveAttachmentName(ids map[string]AttachmentID, name string) (AttachmentID, error) {
	id, ok := ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown attachment %q", core.ErrOutOfRange, name)
	}
	return id, nil
}

func (ri *Info) addDescribedUsages(id SubPassID, sp *metadata.SubPassDescription, attachmentIDs map[string]AttachmentID) error {
	for _, u := range sp.Color {
		attachment, err := resolveAttachmentName(attachmentIDs, u.Attachment)
		if err != nil {
			return err
		}
		layout, err := ParseImageLayout(u.Layout)
		if err != nil {
			return err
		}
		var resolve *AttachmentID
		if u.Resolve != "" {
			target, err := resolveAttachmentName(attachmentIDs, u.Resolve)
			if err != nil {
				return err
			}
			resolve = &target
		}
		if err := ri.AddSubPassColorAttachment(id, layout, attachment, u.Location, resolve); err != nil {
			return err
		}
	}

	for _, u := range sp.Input {
		attachment, err := resolveAttachmentName(attachmentIDs, u.Attachment)
		if err != nil {
			return err
		}
		layout, err := ParseImageLayout(u.Layout)
		if err != nil {
			return err
		}
		if err := ri.AddSubPassInputAttachment(id, layout, attachment, u.Location); err != nil {
			return err
		}
	}

	if sp.DepthStencil != nil {
		attachment, err := resolveAttachmentName(attachmentIDs, sp.DepthStencil.Attachment)
		if err != nil {
			return err
		}
		layout, err := ParseImageLayout(sp.DepthStencil.Layout)
		if err != nil {
			return err
		}
		if err := ri.AddSubPassDepthStencilAttachment(id, attachment, layout); err != nil {
			return err
		}
	}
	return nil
}

func subPassByName(ids map[string]SubPassID, name string) (SubPassID, error) {
	if strings.EqualFold(name, ExternalSubPassName) {
		return SubPassExternal, nil
	}
	id, ok := ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown subpass %q", core.ErrOutOfRange, name)
	}
	return id, nil
}

func (ri *Info) addDescribedDependency(dep *metadata.SubPassDependencyDescription, subpassIDs map[string]SubPassID) error {
	source, err := subPassByName(subpassIDs, dep.Source)
	if err != nil {
		return err
	}
	destination, err := subPassByName(subpassIDs, dep.Destination)
	if err != nil {
		return err
	}
	sourceStages, err := ParsePipelineStages(dep.SourceStages)
	if err != nil {
		return err
	}
	destinationStages, err := ParsePipelineStages(dep.DestinationStages)
	if err != nil {
		return err
	}
	sourceAccess, err := ParseAccessFlags(dep.SourceAccess)
	if err != nil {
		return err
	}
	destinationAccess, err := ParseAccessFlags(dep.DestinationAccess)
	if err != nil {
		return err
	}

	switch {
	case source == SubPassExternal && destination == SubPassExternal:
		return fmt.Errorf("%w: a dependency needs at least one subpass", core.ErrInvalidArgument)
	case source == SubPassExternal:
		return ri.AddExternalToSubPassDependency(destination, sourceStages, destinationStages, sourceAccess, destinationAccess, dep.ByRegion)
	case destination == SubPassExternal:
		return ri.AddSubPassToExternalDependency(source, sourceStages, destinationStages, sourceAccess, destinationAccess, dep.ByRegion)
	case source == destination:
		return ri.AddSelfSubPassDependency(source, sourceStages, destinationStages, sourceAccess, destinationAccess, dep.ByRegion)
	default:
		return ri.AddSubPassToSubPassDependency(source, destination, sourceStages, destinationStages, sourceAccess, destinationAccess, dep.ByRegion)
	}
}
