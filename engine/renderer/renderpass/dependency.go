package renderpass

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
)

// SubPassDependency is an execution and memory dependency between two
// subpasses. Either end may be SubPassExternal. Two dependencies are the
// same dependency when all fields are equal.
type SubPassDependency struct {
	SourceSubPass      SubPassID
	DestinationSubPass SubPassID

	SourceStageMask      vk.PipelineStageFlags
	DestinationStageMask vk.PipelineStageFlags

	SourceAccessMask      vk.AccessFlags
	DestinationAccessMask vk.AccessFlags

	ByRegion bool
}

// addDependency inserts the dependency unless an equal one is already known.
func (ri *Info) addDependency(destination, source SubPassID, sourceStageMask, destinationStageMask vk.PipelineStageFlags,
	sourceAccessMask, destinationAccessMask vk.AccessFlags, byRegion bool) {
	dep := SubPassDependency{
		SourceSubPass:         source,
		DestinationSubPass:    destination,
		SourceStageMask:       sourceStageMask,
		DestinationStageMask:  destinationStageMask,
		SourceAccessMask:      sourceAccessMask,
		DestinationAccessMask: destinationAccessMask,
		ByRegion:              byRegion,
	}
	for _, existing := range ri.dependencies {
		if existing == dep {
			core.LogDebug("render pass %q: dependency %d -> %d already declared", ri.Name, source, destination)
			return
		}
	}
	ri.dependencies = append(ri.dependencies, dep)
}

func (ri *Info) AddExternalToSubPassDependency(destination SubPassID, sourceStageMask, destinationStageMask vk.PipelineStageFlags,
	sourceAccessMask, destinationAccessMask vk.AccessFlags, byRegion bool) error {
	if _, err := ri.subPass(destination); err != nil {
		return err
	}
	ri.addDependency(destination, SubPassExternal, sourceStageMask, destinationStageMask, sourceAccessMask, destinationAccessMask, byRegion)
	return nil
}

func (ri *Info) AddSubPassToExternalDependency(source SubPassID, sourceStageMask, destinationStageMask vk.PipelineStageFlags,
	sourceAccessMask, destinationAccessMask vk.AccessFlags, byRegion bool) error {
	if _, err := ri.subPass(source); err != nil {
		return err
	}
	ri.addDependency(SubPassExternal, source, sourceStageMask, destinationStageMask, sourceAccessMask, destinationAccessMask, byRegion)
	return nil
}

// AddSelfSubPassDependency declares a dependency of a subpass on itself.
func (ri *Info) AddSelfSubPassDependency(subpass SubPassID, sourceStageMask, destinationStageMask vk.PipelineStageFlags,
	sourceAccessMask, destinationAccessMask vk.AccessFlags, byRegion bool) error {
	if _, err := ri.subPass(subpass); err != nil {
		return err
	}
	ri.addDependency(subpass, subpass, sourceStageMask, destinationStageMask, sourceAccessMask, destinationAccessMask, byRegion)
	return nil
}

func (ri *Info) AddSubPassToSubPassDependency(source, destination SubPassID, sourceStageMask, destinationStageMask vk.PipelineStageFlags,
	sourceAccessMask, destinationAccessMask vk.AccessFlags, byRegion bool) error {
	if _, err := ri.subPass(destination); err != nil {
		return err
	}
	if _, err := ri.subPass(source); err != nil {
		return err
	}
	ri.addDependency(destination, source, sourceStageMask, destinationStageMask, sourceAccessMask, destinationAccessMask, byRegion)
	return nil
}

func (ri *Info) DependencyCount() uint32 {
	return uint32(len(ri.dependencies))
}

// DependencyProperties returns the n-th dependency in declaration order.
func (ri *Info) DependencyProperties(n uint32) (SubPassDependency, error) {
	if n >= uint32(len(ri.dependencies)) {
		return SubPassDependency{}, ri.violation(core.ErrOutOfRange, "dependency index %d (have %d)", n, len(ri.dependencies))
	}
	return ri.dependencies[n], nil
}
