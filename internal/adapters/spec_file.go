package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"resym/internal/ports"
	"resym/internal/types"
)

// GraphSpecAdapter loads module-graph YAML files.
type GraphSpecAdapter struct{}

func NewGraphSpecAdapter() GraphSpecAdapter {
	return GraphSpecAdapter{}
}

func (a GraphSpecAdapter) LoadGraph(path string) (types.GraphSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.GraphSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("graph spec not found").
			WithCause(err)
	}
	var spec types.GraphSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return types.GraphSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("parse: failed to parse graph spec yaml").
			WithCause(err)
	}
	if len(spec.Modules) == 0 {
		return types.GraphSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("graph spec declares no modules")
	}

	base := filepath.Dir(path)
	seen := map[string]struct{}{}
	for i := range spec.Modules {
		mod := &spec.Modules[i]
		if mod.Name == "" {
			return types.GraphSpec{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("graph spec module without a name")
		}
		if _, ok := seen[mod.Name]; ok {
			return types.GraphSpec{}, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("duplicate module name " + mod.Name)
		}
		seen[mod.Name] = struct{}{}
		mod.Res = resolvePath(base, mod.Res)
		mod.Assets = resolvePath(base, mod.Assets)
		mod.Manifest = resolvePath(base, mod.Manifest)
		for logical, override := range mod.ResOverrides {
			mod.ResOverrides[logical] = resolvePath(base, override)
		}
		for logical, override := range mod.AssetOverrides {
			mod.AssetOverrides[logical] = resolvePath(base, override)
		}
	}
	for _, mod := range spec.Modules {
		for _, dep := range append(append([]string{}, mod.Deps...), mod.ExportedDeps...) {
			if _, ok := seen[dep]; !ok {
				return types.GraphSpec{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg("module " + mod.Name + " depends on unknown module " + dep)
			}
		}
	}
	return spec, nil
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

var _ ports.GraphSpecPort = GraphSpecAdapter{}
