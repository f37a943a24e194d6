package engine

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/renderpass"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/vulkan"
)

var usageTypes = []renderpass.AttachmentType{
	renderpass.ATTACHMENT_TYPE_COLOR,
	renderpass.ATTACHMENT_TYPE_INPUT,
	renderpass.ATTACHMENT_TYPE_RESOLVE,
}

// Report logs the attachments, per-subpass usages (preserved attachments
// included) and dependencies of info. It also checks that info translates
// into a vk.RenderPassCreateInfo.
func Report(info *renderpass.Info) error {
	core.LogInfo("render pass %s: %d attachments, %d subpasses, %d dependencies",
		info.Name, info.AttachmentCount(), info.SubPassCount(), info.DependencyCount())

	for id := renderpass.AttachmentID(0); uint32(id) < info.AttachmentCount(); id++ {
		a, err := info.Attachment(id)
		if err != nil {
			return err
		}
		core.LogInfo("  attachment %d: %s %s x%d %s -> %s alias=%t",
			id, a.Type, renderpass.FormatName(a.Format), a.SampleCount,
			renderpass.ImageLayoutName(a.InitialLayout), renderpass.ImageLayoutName(a.FinalLayout), a.MayAlias)
	}

	for sp := renderpass.SubPassID(0); uint32(sp) < info.SubPassCount(); sp++ {
		line, err := describeSubPass(info, sp)
		if err != nil {
			return err
		}
		core.LogInfo("  subpass %d: %s", sp, line)
	}

	for n := uint32(0); n < info.DependencyCount(); n++ {
		dep, err := info.DependencyProperties(n)
		if err != nil {
			return err
		}
		core.LogInfo("  dependency %d: %s -> %s stages 0x%x -> 0x%x access 0x%x -> 0x%x by_region=%t",
			n, subPassName(dep.SourceSubPass), subPassName(dep.DestinationSubPass),
			dep.SourceStageMask, dep.DestinationStageMask, dep.SourceAccessMask, dep.DestinationAccessMask, dep.ByRegion)
	}

	createInfo, err := vulkan.RenderPassCreateInfoFromInfo(info)
	if err != nil {
		return fmt.Errorf("render pass %s does not translate: %w", info.Name, err)
	}
	core.LogDebug("render pass %s translates to %d attachment descriptions and %d subpass descriptions",
		info.Name, createInfo.AttachmentCount, createInfo.SubpassCount)
	return nil
}

func describeSubPass(info *renderpass.Info, sp renderpass.SubPassID) (string, error) {
	var parts []string
	for _, t := range usageTypes {
		locations, err := info.SubPassAttachmentLocations(sp, t)
		if err != nil {
			return "", err
		}
		for _, loc := range locations {
			usage, err := info.SubPassUsage(sp, t, loc)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s[%d]=%d(%s)", t, loc, usage.Attachment, renderpass.ImageLayoutName(usage.Layout)))
		}
	}

	count, err := info.SubPassAttachmentCount(sp, renderpass.ATTACHMENT_TYPE_DEPTH_STENCIL)
	if err != nil {
		return "", err
	}
	if count == 1 {
		usage, err := info.SubPassUsage(sp, renderpass.ATTACHMENT_TYPE_DEPTH_STENCIL, 0)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s=%d(%s)", renderpass.ATTACHMENT_TYPE_DEPTH_STENCIL, usage.Attachment, renderpass.ImageLayoutName(usage.Layout)))
	}

	preserved, err := info.SubPassAttachmentCount(sp, renderpass.ATTACHMENT_TYPE_PRESERVE)
	if err != nil {
		return "", err
	}
	for n := uint32(0); n < preserved; n++ {
		id, err := info.SubPassPreservedAttachment(sp, n)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s=%d", renderpass.ATTACHMENT_TYPE_PRESERVE, id))
	}

	if len(parts) == 0 {
		return "empty", nil
	}
	return strings.Join(parts, " "), nil
}

func subPassName(id renderpass.SubPassID) string {
	if id == renderpass.SubPassExternal {
		return renderpass.ExternalSubPassName
	}
	return fmt.Sprintf("%d", id)
}
