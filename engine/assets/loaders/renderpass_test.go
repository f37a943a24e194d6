package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/metadata"
)

const forwardPass = `
[[attachments]]
name = "color"
kind = "color"
format = "B8G8R8A8_SRGB"
samples = 1
load_op = "CLEAR"
store_op = "STORE"
final_layout = "PRESENT_SRC"

[[attachments]]
name = "depth"
kind = "depth_stencil"
format = "D32_SFLOAT"
load_op = "CLEAR"
store_op = "DONT_CARE"
final_layout = "DEPTH_STENCIL_ATTACHMENT_OPTIMAL"
may_alias = true

[[subpasses]]
name = "main"
color = [{ attachment = "color", location = 0, layout = "COLOR_ATTACHMENT_OPTIMAL" }]
depth_stencil = { attachment = "depth", layout = "DEPTH_STENCIL_ATTACHMENT_OPTIMAL" }

[[dependencies]]
source = "external"
destination = "main"
source_stages = ["COLOR_ATTACHMENT_OUTPUT"]
destination_stages = ["COLOR_ATTACHMENT_OUTPUT"]
destination_access = ["COLOR_ATTACHMENT_READ", "COLOR_ATTACHMENT_WRITE"]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderPassLoaderLoad(t *testing.T) {
	path := writeFile(t, "forward.rpass", forwardPass)
	rl := &RenderPassLoader{}

	res, err := rl.Load(path, metadata.ResourceTypeRenderPass, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != "forward" || res.Type != metadata.ResourceTypeRenderPass || res.DataSize == 0 {
		t.Fatalf("resource = %+v", res)
	}
	desc, ok := res.Data.(*metadata.RenderPassDescription)
	if !ok {
		t.Fatalf("resource data is %T", res.Data)
	}
	if desc.Name != "forward" {
		t.Errorf("description name = %q, want the file name", desc.Name)
	}
	if len(desc.Attachments) != 2 || !desc.Attachments[1].MayAlias || desc.Attachments[0].Format != "B8G8R8A8_SRGB" {
		t.Errorf("attachments = %+v", desc.Attachments)
	}
	if len(desc.SubPasses) != 1 || desc.SubPasses[0].DepthStencil == nil || desc.SubPasses[0].Color[0].Attachment != "color" {
		t.Errorf("subpasses = %+v", desc.SubPasses)
	}
	if len(desc.Dependencies) != 1 || len(desc.Dependencies[0].DestinationAccess) != 2 {
		t.Errorf("dependencies = %+v", desc.Dependencies)
	}

	if err := rl.Unload(res); err != nil || res.Data != nil {
		t.Errorf("Unload: %v, data = %v", err, res.Data)
	}
}

func TestRenderPassLoaderKeepsExplicitName(t *testing.T) {
	path := writeFile(t, "file.rpass", "name = \"shadow\"\n")
	res, err := (&RenderPassLoader{}).Load(path, metadata.ResourceTypeRenderPass, nil)
	if err != nil {
		t.Fatal(err)
	}
	if desc := res.Data.(*metadata.RenderPassDescription); desc.Name != "shadow" {
		t.Fatalf("name = %q", desc.Name)
	}
}

func TestRenderPassLoaderErrors(t *testing.T) {
	rl := &RenderPassLoader{}

	if _, err := rl.Load(writeFile(t, "typo.rpass", "attachmentz = []\n"), metadata.ResourceTypeRenderPass, nil); err == nil {
		t.Errorf("unknown key accepted")
	}
	if _, err := rl.Load(writeFile(t, "broken.rpass", "[[attachments]\n"), metadata.ResourceTypeRenderPass, nil); err == nil {
		t.Errorf("malformed TOML accepted")
	}
	if _, err := rl.Load(filepath.Join(t.TempDir(), "missing.rpass"), metadata.ResourceTypeRenderPass, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := rl.Load(writeFile(t, "ok.rpass", forwardPass), metadata.ResourceTypeCustom, nil); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("wrong resource type error = %v", err)
	}
	if err := rl.Unload(nil); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("Unload(nil) error = %v", err)
	}
}
