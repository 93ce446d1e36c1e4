package app

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"resym/internal/core"
	"resym/internal/types"
)

// BuildGraph loads a module-graph spec, constructs every rule up front
// (so configuration errors fire before any step runs), and builds the
// rules in topological order, skipping rules whose declared inputs match
// their persisted cache key.
func (s Service) BuildGraph(ctx context.Context, req BuildRequest, collector *PackageableCollector) (BuildResult, error) {
	graph, err := s.GraphSpec.LoadGraph(req.GraphPath)
	if err != nil {
		return BuildResult{}, err
	}

	modules := map[string]types.ModuleSpec{}
	for _, mod := range graph.Modules {
		modules[mod.Name] = mod
	}
	if req.Module != "" {
		modules, err = dependencyClosure(modules, req.Module)
		if err != nil {
			return BuildResult{}, err
		}
	}

	order, err := topologicalOrder(modules)
	if err != nil {
		return BuildResult{}, err
	}

	nodes := map[string]core.DepNode{}
	rules := map[string]*ResourceRule{}
	for _, name := range order {
		mod := modules[name]
		rule, err := NewResourceRule(ruleConfig(mod, nodes), filepath.Join(req.OutRoot, mod.Name), s)
		if err != nil {
			return BuildResult{}, err
		}
		rules[name] = rule

		symbolFile := ""
		if mod.Res != "" {
			symbolFile = rule.SymbolFilePath()
		}
		nodes[name] = core.DepNode{
			Deps:         mod.Deps,
			ExportedDeps: mod.ExportedDeps,
			SymbolFile:   symbolFile,
		}
	}

	result := BuildResult{}
	for _, name := range order {
		rule := rules[name]
		hit, err := s.buildOrRecover(ctx, rule)
		if err != nil {
			return BuildResult{}, err
		}
		if hit {
			result.Cached++
		} else {
			result.Built++
		}
		rule.AddToCollector(collector)
	}
	return result, nil
}

func ruleConfig(mod types.ModuleSpec, nodes map[string]core.DepNode) RuleConfig {
	return RuleConfig{
		Name:               mod.Name,
		Res:                mod.Res,
		ResOverrides:       mod.ResOverrides,
		Assets:             mod.Assets,
		AssetOverrides:     mod.AssetOverrides,
		Manifest:           mod.Manifest,
		Package:            mod.Package,
		Deps:               mod.Deps,
		ExportedDeps:       mod.ExportedDeps,
		WhitelistedStrings: mod.WhitelistedStrings,
		VerifyXMLAttrs:     mod.VerifyXMLAttrs,
		SymbolFilesFromDeps: func() []string {
			return core.TransitiveSymbolFiles(mod.Deps, nodes)
		},
	}
}

// buildOrRecover builds the rule unless its persisted outputs match the
// current cache key, in which case the package state is recovered from
// disk without re-running any step. Returns true on a cache hit.
func (s Service) buildOrRecover(ctx context.Context, rule *ResourceRule) (bool, error) {
	key, err := rule.CacheKey()
	if err != nil {
		return false, err
	}
	if persistedKeyMatches(rule, key) {
		if err := rule.InitializeFromDisk(); err != nil {
			return false, err
		}
		log.Ctx(ctx).Debug().Str("rule", rule.Name()).Msg("cache hit")
		return true, nil
	}
	if err := rule.Build(ctx); err != nil {
		return false, err
	}
	// Stamp last: a failed or aborted build leaves no stamp, so the next
	// run rebuilds from the cleaned directory.
	if err := os.WriteFile(rule.cacheKeyPath(), []byte(key+"\n"), 0644); err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write cache key").
			WithCause(err)
	}
	return false, nil
}

func persistedKeyMatches(rule *ResourceRule, key string) bool {
	stamp, err := os.ReadFile(rule.cacheKeyPath())
	if err != nil {
		return false
	}
	if strings.TrimSpace(string(stamp)) != key {
		return false
	}
	for _, path := range []string{rule.SymbolFilePath(), rule.PackageFilePath()} {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// dependencyClosure restricts the module set to root and everything
// reachable through its dependency and exported-dependency edges.
func dependencyClosure(modules map[string]types.ModuleSpec, root string) (map[string]types.ModuleSpec, error) {
	if _, ok := modules[root]; !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("unknown module " + root)
	}
	closure := map[string]types.ModuleSpec{}
	var walk func(name string)
	walk = func(name string) {
		if _, ok := closure[name]; ok {
			return
		}
		mod, ok := modules[name]
		if !ok {
			return
		}
		closure[name] = mod
		for _, dep := range mod.Deps {
			walk(dep)
		}
		for _, dep := range mod.ExportedDeps {
			walk(dep)
		}
	}
	walk(root)
	return closure, nil
}

// topologicalOrder returns the module names dependency-first. A cycle is a
// configuration error naming the modules left unordered.
func topologicalOrder(modules map[string]types.ModuleSpec) ([]string, error) {
	indegree := map[string]int{}
	dependents := map[string][]string{}
	for name := range modules {
		indegree[name] = 0
	}
	for name, mod := range modules {
		for _, dep := range append(append([]string{}, mod.Deps...), mod.ExportedDeps...) {
			if _, ok := modules[dep]; !ok {
				continue
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, degree := range indegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		next := append([]string(nil), dependents[name]...)
		sort.Strings(next)
		for _, dependent := range next {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
				sort.Strings(ready)
			}
		}
	}
	if len(order) != len(modules) {
		var stuck []string
		for name, degree := range indegree {
			if degree > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency cycle involving modules: " + strings.Join(stuck, ", "))
	}
	return order, nil
}
