package core

import (
	"sort"

	"resym/internal/types"
)

// VerifyReferences checks every usage reference against the local table
// and the merged dependency tables, returning the deduplicated set of
// unresolved (type, name) keys sorted by (type, name). The whole set is
// computed in one pass so a single run surfaces every missing symbol.
func VerifyReferences(refs []types.Reference, local *types.SymbolTable, deps []*types.SymbolTable) []types.SymbolKey {
	missing := map[types.SymbolKey]struct{}{}
	for _, ref := range refs {
		key := ref.Key()
		if local.Contains(key) {
			continue
		}
		if resolvedByAny(key, deps) {
			continue
		}
		missing[key] = struct{}{}
	}

	out := make([]types.SymbolKey, 0, len(missing))
	for key := range missing {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func resolvedByAny(key types.SymbolKey, deps []*types.SymbolTable) bool {
	for _, dep := range deps {
		if dep.Contains(key) {
			return true
		}
	}
	return false
}
