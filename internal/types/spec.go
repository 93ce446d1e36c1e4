package types

// GraphSpec is the YAML description of a set of resource modules and their
// dependency edges, consumed by the build command. The surrounding build
// system normally supplies this graph; the file form exists so the tool can
// run standalone.
type GraphSpec struct {
	APIVersion string       `yaml:"api_version"`
	Modules    []ModuleSpec `yaml:"modules"`
}

// ModuleSpec declares one resource rule. All paths are resolved relative
// to the spec file's directory.
type ModuleSpec struct {
	Name string `yaml:"name"`

	// Res is the resource tree root. Optional: a module with no res
	// still publishes an (empty) symbol file and its package string.
	Res string `yaml:"res,omitempty"`

	// ResOverrides maps logical paths within the res tree to replacement
	// files outside it, e.g. generated resources.
	ResOverrides map[string]string `yaml:"res_overrides,omitempty"`

	Assets         string            `yaml:"assets,omitempty"`
	AssetOverrides map[string]string `yaml:"asset_overrides,omitempty"`

	Manifest string `yaml:"manifest,omitempty"`

	// Package is the explicit R-class package; when empty the package is
	// extracted from the manifest.
	Package string `yaml:"package,omitempty"`

	Deps         []string `yaml:"deps,omitempty"`
	ExportedDeps []string `yaml:"exported_deps,omitempty"`

	WhitelistedStrings bool `yaml:"whitelisted_strings,omitempty"`
	VerifyXMLAttrs     bool `yaml:"verify_xml_attrs,omitempty"`
}
