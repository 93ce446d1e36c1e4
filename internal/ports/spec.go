package ports

import "resym/internal/types"

// GraphSpecPort loads module-graph spec files.
type GraphSpecPort interface {
	// LoadGraph parses and structurally validates a graph spec. Relative
	// paths inside the spec are resolved against the spec file's directory.
	LoadGraph(path string) (types.GraphSpec, error)
}
