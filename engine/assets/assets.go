package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-renderpass/engine/assets/loaders"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/metadata"
)

var (
	ErrClosed         = errors.New("asset manager already closed")
	ErrAlreadyStarted = errors.New("asset manager already initialized")
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// ChangeFunc is called with the path of an indexed asset that was created,
// written or removed.
type ChangeFunc func(path string)

type AssetManager struct {
	assets      map[string]AssetInfo
	loaders     map[metadata.ResourceType]Loader
	subscribers []ChangeFunc

	mutex sync.RWMutex

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	fsnotify  *fsnotify.Watcher
	isClosed  bool
	started   bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	am.registerLoader(metadata.ResourceTypeRenderPass, &loaders.RenderPassLoader{})

	return am, nil
}

// Initialize indexes every known asset under assetsDir and starts watching
// the directory tree for changes.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.mutex.RLock()
	started := am.started
	am.mutex.RUnlock()
	if started {
		return ErrAlreadyStarted
	}

	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if am.isClosed {
		return ErrClosed
	}
	if am.started {
		return ErrAlreadyStarted
	}
	am.started = true
	go am.start()
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.closed() {
		return ErrClosed
	}
	return am.watchRecursive(name)
}

func (am *AssetManager) closed() bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return am.isClosed
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// Subscribe registers fn to be called after the index changed.
func (am *AssetManager) Subscribe(fn ChangeFunc) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.subscribers = append(am.subscribers, fn)
}

// Assets returns the indexed paths of the given type.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var paths []string
	for path, info := range am.assets {
		if info.Type == resourceType {
			paths = append(paths, path)
		}
	}
	return paths
}

// LoadAsset finds the indexed asset called name (its file name without
// extension) and loads it with the loader registered for resourceType.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var ext string
	switch resourceType {
	case metadata.ResourceTypeRenderPass:
		ext = loaders.RenderPassExtension
	default:
		return nil, fmt.Errorf("%w: unknown resource type %s", core.ErrInvalidArgument, resourceType)
	}

	am.mutex.Lock()
	var (
		asset  AssetInfo
		exists bool
	)
	for path, info := range am.assets {
		if info.Type == resourceType && strings.TrimSuffix(filepath.Base(path), ext) == name {
			asset, exists = info, true
			asset.LastLoaded = time.Now()
			am.assets[path] = asset
			break
		}
	}
	loader, loaderExists := am.loaders[resourceType]
	am.mutex.Unlock()

	if !exists {
		return nil, fmt.Errorf("asset not found: %s%s", name, ext)
	}
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}

	core.LogDebug("loading %s asset %s", resourceType, asset.Path)
	return loader.Load(asset.Path, resourceType, params)
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource) error {
	if resource == nil {
		return fmt.Errorf("%w: nil resource", core.ErrInvalidArgument)
	}
	am.mutex.RLock()
	loader, exists := am.loaders[resource.Type]
	am.mutex.RUnlock()
	if !exists {
		return fmt.Errorf("no loader registered for asset type: %s", resource.Type)
	}
	return loader.Unload(resource)
}

// Shutdown stops the watcher and waits for the event loop to exit. It is
// safe to call more than once, and without a prior Initialize.
func (am *AssetManager) Shutdown() {
	am.closeOnce.Do(func() {
		am.mutex.Lock()
		am.isClosed = true
		started := am.started
		am.mutex.Unlock()

		close(am.done)
		if started {
			<-am.stopped
			return
		}
		if err := am.fsnotify.Close(); err != nil {
			core.LogWarn("failed to close watcher: %s", err)
		}
	})
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			changed := false
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				changed = am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted path, so try to drop it from both the index
			// and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				changed = am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}
			if changed {
				am.notify(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) notify(path string) {
	am.mutex.RLock()
	subscribers := make([]ChangeFunc, len(am.subscribers))
	copy(subscribers, am.subscribers)
	am.mutex.RUnlock()

	for _, fn := range subscribers {
		fn(path)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) bool {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return false
	}
	path = filepath.Clean(path)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[path] = AssetInfo{
		Path: path,
		Type: assetType,
	}
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) bool {
	path = filepath.Clean(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if _, ok := am.assets[path]; !ok {
		return false
	}
	delete(am.assets, path)
	return true
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case loaders.RenderPassExtension:
		return metadata.ResourceTypeRenderPass
	default:
		return metadata.ResourceTypeNone
	}
}
