package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spaghettifunk/anima-renderpass/engine/assets"
	"github.com/spaghettifunk/anima-renderpass/engine/assets/loaders"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/renderpass"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	stageMu      sync.Mutex
	currentStage Stage
	config       *Config
	passName     string
	assetManager *assets.AssetManager

	done     chan struct{}
	stopOnce sync.Once
}

// New prepares an engine reporting the render pass description called
// passName.
func New(config *Config, passName string) (*Engine, error) {
	if passName == "" {
		return nil, fmt.Errorf("%w: no render pass name given", core.ErrInvalidArgument)
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       config,
		passName:     passName,
		assetManager: am,
		done:         make(chan struct{}),
	}, nil
}

func (e *Engine) Stage() Stage {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	return e.currentStage
}

func (e *Engine) setStage(stage Stage) {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	e.currentStage = stage
}

// transition moves the engine to next if it is currently in from.
func (e *Engine) transition(from, next Stage) bool {
	e.stageMu.Lock()
	defer e.stageMu.Unlock()
	if e.currentStage != from {
		return false
	}
	e.currentStage = next
	return true
}

func (e *Engine) Initialize() error {
	if !e.transition(EngineStageUninitialized, EngineStageInitializing) {
		return fmt.Errorf("engine already initialized")
	}

	if err := core.SetLogLevel(e.config.LogLevel); err != nil {
		return err
	}
	if err := e.assetManager.Initialize(e.config.AssetsDir); err != nil {
		core.LogError("failed to index assets in %s: %s", e.config.AssetsDir, err)
		return err
	}

	e.setStage(EngineStageInitialized)
	return nil
}

// Build loads the configured description and replays it into a render pass
// info.
func (e *Engine) Build() (*renderpass.Info, error) {
	res, err := e.assetManager.LoadAsset(e.passName, metadata.ResourceTypeRenderPass, nil)
	if err != nil {
		return nil, err
	}
	defer e.assetManager.UnloadAsset(res)

	desc, ok := res.Data.(*metadata.RenderPassDescription)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a render pass description", core.ErrUnreachable, res.FullPath)
	}
	return renderpass.FromDescription(desc)
}

func (e *Engine) report() error {
	info, err := e.Build()
	if err != nil {
		return err
	}
	return Report(info)
}

// Run reports the render pass once. In watch mode it reports again on every
// change of the description and returns after Shutdown.
func (e *Engine) Run() error {
	if !e.transition(EngineStageInitialized, EngineStageRunning) {
		return fmt.Errorf("engine not initialized")
	}

	if err := e.report(); err != nil && !e.config.Watch {
		return err
	} else if err != nil {
		core.LogError(err.Error())
	}
	if !e.config.Watch {
		return nil
	}

	e.assetManager.Subscribe(func(path string) {
		if strings.TrimSuffix(filepath.Base(path), loaders.RenderPassExtension) != e.passName {
			return
		}
		core.LogInfo("%s changed", path)
		if err := e.report(); err != nil {
			core.LogError(err.Error())
		}
	})
	core.LogInfo("watching %s for changes", e.config.AssetsDir)

	<-e.done
	return nil
}

func (e *Engine) Shutdown() error {
	e.stopOnce.Do(func() {
		e.setStage(EngineStageShuttingDown)
		e.assetManager.Shutdown()
		close(e.done)
	})
	return nil
}
