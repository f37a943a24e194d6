package metadata

/**
 * @brief Declarative description of a render pass, as stored in .rpass files.
 * Attachments and subpasses are referenced by name.
 */
type RenderPassDescription struct {
	/** @brief The name of the render pass. */
	Name         string                         `toml:"name"`
	Attachments  []AttachmentDescription        `toml:"attachments"`
	SubPasses    []SubPassDescription           `toml:"subpasses"`
	Dependencies []SubPassDependencyDescription `toml:"dependencies"`
}

type AttachmentDescription struct {
	Name string `toml:"name"`
	/** @brief Either "color" or "depth_stencil". */
	Kind    string `toml:"kind"`
	Format  string `toml:"format"`
	Samples uint32 `toml:"samples"`
	/** @brief Color load/store ops, or depth ops for depth_stencil attachments. */
	LoadOp         string `toml:"load_op"`
	StoreOp        string `toml:"store_op"`
	StencilLoadOp  string `toml:"stencil_load_op"`
	StencilStoreOp string `toml:"stencil_store_op"`
	InitialLayout  string `toml:"initial_layout"`
	FinalLayout    string `toml:"final_layout"`
	MayAlias       bool   `toml:"may_alias"`
}

type SubPassAttachmentDescription struct {
	Attachment string `toml:"attachment"`
	Location   uint32 `toml:"location"`
	Layout     string `toml:"layout"`
	/** @brief Name of the attachment a color attachment resolves into. Optional. */
	Resolve string `toml:"resolve"`
}

type SubPassDescription struct {
	Name         string                         `toml:"name"`
	Color        []SubPassAttachmentDescription `toml:"color"`
	Input        []SubPassAttachmentDescription `toml:"input"`
	DepthStencil *SubPassAttachmentDescription  `toml:"depth_stencil"`
}

// SubPassDependencyDescription names its subpasses; "external" refers to
// work outside of the render pass.
type SubPassDependencyDescription struct {
	Source            string   `toml:"source"`
	Destination       string   `toml:"destination"`
	SourceStages      []string `toml:"source_stages"`
	DestinationStages []string `toml:"destination_stages"`
	SourceAccess      []string `toml:"source_access"`
	DestinationAccess []string `toml:"destination_access"`
	ByRegion          bool     `toml:"by_region"`
}
