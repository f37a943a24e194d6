package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/renderpass"
)

const deferredPass = `
[[attachments]]
name = "gbuffer"
format = "R16G16B16A16_SFLOAT"
load_op = "CLEAR"

[[attachments]]
name = "swapchain"
format = "B8G8R8A8_SRGB"
final_layout = "PRESENT_SRC"

[[subpasses]]
name = "geometry"
color = [{ attachment = "gbuffer", location = 0, layout = "COLOR_ATTACHMENT_OPTIMAL" }]

[[subpasses]]
name = "decals"

[[subpasses]]
name = "lighting"
input = [{ attachment = "gbuffer", location = 0, layout = "SHADER_READ_ONLY_OPTIMAL" }]
color = [{ attachment = "swapchain", location = 0, layout = "COLOR_ATTACHMENT_OPTIMAL" }]

[[dependencies]]
source = "geometry"
destination = "lighting"
source_stages = ["COLOR_ATTACHMENT_OUTPUT"]
destination_stages = ["FRAGMENT_SHADER"]
source_access = ["COLOR_ATTACHMENT_WRITE"]
destination_access = ["INPUT_ATTACHMENT_READ"]
by_region = true
`

func TestMain(m *testing.M) {
	_ = core.SetLogLevel("fatal")
	os.Exit(m.Run())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("empty path config = %+v", cfg)
	}

	dir := t.TempDir()
	cfg, err = LoadConfig(writeFile(t, dir, "rpinfo.toml", "assets_dir = \"passes\"\nwatch = true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssetsDir != "passes" || !cfg.Watch || cfg.LogLevel != "info" {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := LoadConfig(writeFile(t, dir, "bad.toml", "log_levle = \"debug\"\n")); err == nil {
		t.Errorf("unknown key accepted")
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func newEngine(t *testing.T, watch bool) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "deferred.rpass", deferredPass)

	e, err := New(&Config{LogLevel: "fatal", AssetsDir: dir, Watch: watch}, "deferred")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.Shutdown() })
	return e, dir
}

func TestEngineBuild(t *testing.T) {
	e, _ := newEngine(t, false)

	info, err := e.Build()
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "deferred" || info.SubPassCount() != 3 || info.DependencyCount() != 1 {
		t.Fatalf("info %s: %d subpasses, %d dependencies", info.Name, info.SubPassCount(), info.DependencyCount())
	}
	id, err := info.SubPassPreservedAttachment(1, 0)
	if err != nil || id != 0 {
		t.Fatalf("decals preserve = %d, %v", id, err)
	}
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
}

func TestEngineLifecycle(t *testing.T) {
	if _, err := New(DefaultConfig(), ""); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("New without pass name = %v", err)
	}

	e, _ := newEngine(t, false)
	if err := e.Initialize(); err == nil {
		t.Errorf("second Initialize succeeded")
	}

	missing, err := New(&Config{LogLevel: "fatal", AssetsDir: t.TempDir()}, "nope")
	if err != nil {
		t.Fatal(err)
	}
	defer missing.Shutdown()
	if err := missing.Run(); err == nil {
		t.Errorf("Run before Initialize succeeded")
	}
	if err := missing.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := missing.Run(); err == nil {
		t.Errorf("Run with a missing description succeeded")
	}
}

func TestEngineWatchStopsOnShutdown(t *testing.T) {
	e, _ := newEngine(t, true)

	result := make(chan error, 1)
	go func() { result <- e.Run() }()

	time.Sleep(50 * time.Millisecond)
	_ = e.Shutdown()

	select {
	case err := <-result:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
	if got := e.Stage(); got != EngineStageShuttingDown {
		t.Errorf("stage after Shutdown = %d, want %d", got, EngineStageShuttingDown)
	}
	if err := e.Run(); err == nil {
		t.Errorf("Run after Shutdown succeeded")
	}
}

func TestEngineShutdownFromAnotherGoroutine(t *testing.T) {
	e, _ := newEngine(t, true)
	if got := e.Stage(); got != EngineStageInitialized {
		t.Fatalf("stage after Initialize = %d", got)
	}

	stopped := make(chan struct{})
	go func() {
		_ = e.Shutdown()
		close(stopped)
	}()
	// Run either starts watching and returns on shutdown, or finds the
	// engine already shutting down.
	_ = e.Run()
	<-stopped

	if got := e.Stage(); got != EngineStageShuttingDown {
		t.Errorf("stage = %d, want %d", got, EngineStageShuttingDown)
	}
}

func TestReport(t *testing.T) {
	info := renderpass.NewInfo("report")
	color := info.AddColorAttachment(vk.FormatR8g8b8a8Unorm, vk.SampleCount1Bit, vk.AttachmentLoadOpClear, vk.AttachmentStoreOpStore,
		vk.ImageLayoutUndefined, vk.ImageLayoutPresentSrc, false)
	depth := info.AddDepthStencilAttachment(vk.FormatD32Sfloat, vk.SampleCount1Bit, vk.AttachmentLoadOpClear, vk.AttachmentStoreOpDontCare,
		vk.AttachmentLoadOpDontCare, vk.AttachmentStoreOpDontCare, vk.ImageLayoutUndefined, vk.ImageLayoutDepthStencilAttachmentOptimal, false)
	sp := info.AddSubPass()
	if err := info.AddSubPassColorAttachment(sp, vk.ImageLayoutColorAttachmentOptimal, color, 0, nil); err != nil {
		t.Fatal(err)
	}
	if err := info.AddSubPassDepthStencilAttachment(sp, depth, vk.ImageLayoutDepthStencilAttachmentOptimal); err != nil {
		t.Fatal(err)
	}
	info.AddSubPass()
	info.AddExternalToSubPassDependency(sp, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), 0, vk.AccessFlags(vk.AccessColorAttachmentWriteBit), false)

	if err := Report(info); err != nil {
		t.Fatal(err)
	}

	line, err := describeSubPass(info, 1)
	if err != nil || line != "empty" {
		t.Errorf("empty subpass line = %q, %v", line, err)
	}
	if got := subPassName(renderpass.SubPassExternal); got != renderpass.ExternalSubPassName {
		t.Errorf("external name = %q", got)
	}
}

func TestShippedExample(t *testing.T) {
	e, err := New(&Config{LogLevel: "fatal", AssetsDir: filepath.Join("..", "assets")}, "deferred")
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown()
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}

	info, err := e.Build()
	if err != nil {
		t.Fatal(err)
	}
	if info.AttachmentCount() != 4 || info.SubPassCount() != 3 || info.DependencyCount() != 4 {
		t.Fatalf("example has %d attachments, %d subpasses, %d dependencies",
			info.AttachmentCount(), info.SubPassCount(), info.DependencyCount())
	}
	// normals are written by geometry and read by lighting, so decals keep them
	id, err := info.SubPassPreservedAttachment(1, 0)
	if err != nil || id != 1 {
		t.Fatalf("decals preserve = %d, %v", id, err)
	}
	if err := Report(info); err != nil {
		t.Fatal(err)
	}
}
