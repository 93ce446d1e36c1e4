package core

import "sort"

// DepNode is the view of one build rule the dependency walker needs: its
// direct and re-exported dependency edges and, for resource-producing
// rules, the path of its published symbol file.
type DepNode struct {
	Deps         []string
	ExportedDeps []string

	// SymbolFile is empty for nodes that produce no resources.
	SymbolFile string
}

// TransitiveSymbolFiles walks the direct dependencies of one rule,
// following exported-dependency edges transitively, and returns the sorted
// deduplicated set of symbol-file paths of every resource-producing rule
// reached. Diamonds collapse to one entry; the graph is assumed acyclic
// (enforced before rules are built).
func TransitiveSymbolFiles(directDeps []string, nodes map[string]DepNode) []string {
	found := map[string]struct{}{}
	visited := map[string]struct{}{}

	var walk func(name string)
	walk = func(name string) {
		if _, ok := visited[name]; ok {
			return
		}
		visited[name] = struct{}{}
		node, ok := nodes[name]
		if !ok {
			return
		}
		if node.SymbolFile != "" {
			found[node.SymbolFile] = struct{}{}
		}
		for _, exported := range node.ExportedDeps {
			walk(exported)
		}
	}
	for _, dep := range directDeps {
		walk(dep)
	}

	out := make([]string, 0, len(found))
	for path := range found {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
