package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-renderpass/engine/core"
	"github.com/spaghettifunk/anima-renderpass/engine/renderer/metadata"
)

// RenderPassExtension is the file extension of render pass descriptions.
const RenderPassExtension = ".rpass"

type RenderPassLoader struct{}

// Load parses a TOML render pass description. Unknown keys are rejected so
// typos in a description do not go unnoticed.
func (rl *RenderPassLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeRenderPass {
		err := fmt.Errorf("%w: render pass loader cannot load %s resources", core.ErrInvalidArgument, assetType)
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	desc := &metadata.RenderPassDescription{}
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(desc); err != nil {
		return nil, fmt.Errorf("failed to parse render pass description %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), RenderPassExtension)
	if desc.Name == "" {
		desc.Name = name
	}

	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeRenderPass,
		DataSize: uint64(stat.Size()),
		Data:     desc,
	}, nil
}

func (rl *RenderPassLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return fmt.Errorf("%w: nil resource", core.ErrInvalidArgument)
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}
