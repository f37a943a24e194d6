package vulkan

import (
	"errors"
	"os"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/renderpass"
)

func TestMain(m *testing.M) {
	_ = core.SetLogLevel("fatal")
	os.Exit(m.Run())
}

// threePassInfo: msaa colour resolved in subpass 0, read back as input in
// subpass 2, depth shared by 0 and 2, nothing used by subpass 1.
func threePassInfo(t *testing.T) *renderpass.Info {
	t.Helper()
	ri := renderpass.NewInfo("three")
	msaa := ri.AddColorAttachment(vk.FormatR8g8b8a8Unorm, vk.SampleCount4Bit, vk.AttachmentLoadOpClear, vk.AttachmentStoreOpDontCare,
		vk.ImageLayoutUndefined, vk.ImageLayoutColorAttachmentOptimal, true)
	resolved := ri.AddColorAttachment(vk.FormatB8g8r8a8Unorm, vk.SampleCount1Bit, vk.AttachmentLoadOpDontCare, vk.AttachmentStoreOpStore,
		vk.ImageLayoutUndefined, vk.ImageLayoutPresentSrc, false)
	depth := ri.AddDepthStencilAttachment(vk.FormatD32Sfloat, vk.SampleCount1Bit, vk.AttachmentLoadOpClear, vk.AttachmentStoreOpDontCare,
		vk.AttachmentLoadOpDontCare, vk.AttachmentStoreOpDontCare, vk.ImageLayoutUndefined, vk.ImageLayoutDepthStencilAttachmentOptimal, false)

	s0 := ri.AddSubPass()
	ri.AddSubPass()
	s2 := ri.AddSubPass()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(ri.AddSubPassColorAttachment(s0, vk.ImageLayoutColorAttachmentOptimal, msaa, 1, &resolved))
	must(ri.AddSubPassDepthStencilAttachment(s0, depth, vk.ImageLayoutDepthStencilAttachmentOptimal))
	must(ri.AddSubPassInputAttachment(s2, vk.ImageLayoutShaderReadOnlyOptimal, resolved, 0))
	must(ri.AddSubPassDepthStencilAttachment(s2, depth, vk.ImageLayoutDepthStencilReadOnlyOptimal))
	must(ri.AddExternalToSubPassDependency(s0, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), 0, vk.AccessFlags(vk.AccessColorAttachmentWriteBit), false))
	must(ri.AddSubPassToSubPassDependency(s0, s2, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit), vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		vk.AccessFlags(vk.AccessInputAttachmentReadBit), true))
	return ri
}

func TestRenderPassCreateInfoFromInfo(t *testing.T) {
	ri := threePassInfo(t)
	ci, err := RenderPassCreateInfoFromInfo(ri)
	if err != nil {
		t.Fatal(err)
	}
	if ci.SType != vk.StructureTypeRenderPassCreateInfo || ci.AttachmentCount != 3 || ci.SubpassCount != 3 || ci.DependencyCount != 2 {
		t.Fatalf("create info counts = %d/%d/%d", ci.AttachmentCount, ci.SubpassCount, ci.DependencyCount)
	}

	if ci.PAttachments[0].Flags != vk.AttachmentDescriptionFlags(vk.AttachmentDescriptionMayAliasBit) {
		t.Errorf("may alias flag not set on attachment 0")
	}
	if ci.PAttachments[1].Flags != 0 || ci.PAttachments[1].FinalLayout != vk.ImageLayoutPresentSrc {
		t.Errorf("attachment 1 = %+v", ci.PAttachments[1])
	}
	if ci.PAttachments[2].Format != vk.FormatD32Sfloat {
		t.Errorf("attachment 2 = %+v", ci.PAttachments[2])
	}

	s0 := ci.PSubpasses[0]
	if s0.ColorAttachmentCount != 2 || s0.PColorAttachments[0].Attachment != vk.AttachmentUnused || s0.PColorAttachments[1].Attachment != 0 {
		t.Errorf("subpass 0 colour refs = %+v", s0.PColorAttachments)
	}
	if len(s0.PResolveAttachments) != 2 || s0.PResolveAttachments[0].Attachment != vk.AttachmentUnused || s0.PResolveAttachments[1].Attachment != 1 {
		t.Errorf("subpass 0 resolve refs = %+v", s0.PResolveAttachments)
	}
	if s0.PDepthStencilAttachment == nil || s0.PDepthStencilAttachment.Attachment != 2 {
		t.Errorf("subpass 0 depth ref = %+v", s0.PDepthStencilAttachment)
	}
	if s0.PreserveAttachmentCount != 0 {
		t.Errorf("subpass 0 preserves %v", s0.PPreserveAttachments)
	}

	s1 := ci.PSubpasses[1]
	if s1.ColorAttachmentCount != 0 || s1.PDepthStencilAttachment != nil || s1.PResolveAttachments != nil {
		t.Errorf("subpass 1 has usages: %+v", s1)
	}
	if s1.PreserveAttachmentCount != 2 {
		t.Fatalf("subpass 1 preserves %v, want resolved and depth", s1.PPreserveAttachments)
	}
	preserved := map[uint32]bool{}
	for _, id := range s1.PPreserveAttachments {
		preserved[id] = true
	}
	if !preserved[1] || !preserved[2] {
		t.Errorf("subpass 1 preserves %v, want [1 2]", s1.PPreserveAttachments)
	}

	s2 := ci.PSubpasses[2]
	if s2.InputAttachmentCount != 1 || s2.PInputAttachments[0].Attachment != 1 || s2.PInputAttachments[0].Layout != vk.ImageLayoutShaderReadOnlyOptimal {
		t.Errorf("subpass 2 input refs = %+v", s2.PInputAttachments)
	}

	in := ci.PDependencies[0]
	if in.SrcSubpass != vk.SubpassExternal || in.DstSubpass != 0 || in.DependencyFlags != 0 {
		t.Errorf("dependency 0 = %+v", in)
	}
	byRegion := ci.PDependencies[1]
	if byRegion.SrcSubpass != 0 || byRegion.DstSubpass != 2 || byRegion.DependencyFlags != vk.DependencyFlags(vk.DependencyByRegionBit) {
		t.Errorf("dependency 1 = %+v", byRegion)
	}
}

func TestDenseReferencesRejectsHugeLocations(t *testing.T) {
	ri := renderpass.NewInfo("huge")
	a := ri.AddColorAttachment(vk.FormatR8g8b8a8Unorm, vk.SampleCount1Bit, vk.AttachmentLoadOpClear, vk.AttachmentStoreOpStore,
		vk.ImageLayoutUndefined, vk.ImageLayoutGeneral, false)
	sp := ri.AddSubPass()
	if err := ri.AddSubPassColorAttachment(sp, vk.ImageLayoutGeneral, a, VULKAN_MAX_ATTACHMENT_LOCATION+1, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := RenderPassCreateInfoFromInfo(ri); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("error = %v", err)
	}
}

func TestFramebufferCreateInfoChecksAttachmentCount(t *testing.T) {
	rp := &VulkanRenderpass{Name: "three", AttachmentCount: 3}
	if _, err := FramebufferCreateInfo(rp, 640, 480, make([]vk.ImageView, 2)); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("error = %v", err)
	}
	ci, err := FramebufferCreateInfo(rp, 640, 480, make([]vk.ImageView, 3))
	if err != nil {
		t.Fatal(err)
	}
	if ci.AttachmentCount != 3 || ci.Width != 640 || ci.Height != 480 || ci.Layers != 1 {
		t.Fatalf("framebuffer create info = %+v", ci)
	}
}

func TestClearValuesPerAttachment(t *testing.T) {
	ri := threePassInfo(t)
	rp := &VulkanRenderpass{R: 0.1, G: 0.2, B: 0.3, A: 1, Depth: 1}
	values, err := rp.ClearValues(ri)
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != int(ri.AttachmentCount()) {
		t.Fatalf("got %d clear values for %d attachments", len(values), ri.AttachmentCount())
	}
}

func TestVulkanResultString(t *testing.T) {
	if got := VulkanResultString(vk.ErrorOutOfHostMemory, false); got != "VK_ERROR_OUT_OF_HOST_MEMORY" {
		t.Errorf("short string = %q", got)
	}
	if got := VulkanResultString(vk.Success, true); got == "VK_SUCCESS" {
		t.Errorf("extended string not used")
	}
}
