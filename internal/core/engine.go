package core

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"resym/internal/ports"
	"resym/internal/types"
)

// Engine compiles a resource tree into a symbol table and verifies every
// usage reference against the local table and the supplied dependency
// tables. One Engine value may be reused across compilations.
type Engine struct {
	Parser  Parser
	Symbols ports.SymbolFilePort

	// MaxWorkers bounds the per-file parse pool; zero means GOMAXPROCS.
	MaxWorkers int
}

func NewEngine(symbols ports.SymbolFilePort) Engine {
	return Engine{Symbols: symbols}
}

// Compile parses every file of resourcePaths (logical path → absolute
// path), merges the declarations into one table, and verifies references.
// On unresolved references it fails with the full missing set and returns
// no table.
func (e Engine) Compile(ctx context.Context, resourcePaths map[string]string, depSymbolPaths []string) (*types.SymbolTable, error) {
	if e.Symbols == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("engine requires a symbol file port")
	}

	depTables, err := e.loadDependencyTables(depSymbolPaths)
	if err != nil {
		return nil, err
	}

	logicalPaths := make([]string, 0, len(resourcePaths))
	for logical := range resourcePaths {
		logicalPaths = append(logicalPaths, logical)
	}
	sort.Strings(logicalPaths)

	results, err := e.parseAll(ctx, logicalPaths, resourcePaths)
	if err != nil {
		return nil, err
	}

	// Single coordinating merge pass in sorted logical-path order, so the
	// table's contents never depend on which file finished parsing first.
	collector := NewCollector()
	var refs []types.Reference
	for _, result := range results {
		collector.Merge(result)
		refs = append(refs, result.UsageRefs...)
	}
	table := collector.Finish()

	missing := VerifyReferences(refs, table, depTables)
	if len(missing) > 0 {
		return nil, verificationError(missing)
	}

	log.Ctx(ctx).Debug().
		Int("files", len(logicalPaths)).
		Int("symbols", table.Len()).
		Int("references", len(refs)).
		Msg("resource tree compiled")
	return table, nil
}

func (e Engine) loadDependencyTables(paths []string) ([]*types.SymbolTable, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	tables := make([]*types.SymbolTable, 0, len(sorted))
	for _, path := range sorted {
		table, err := e.Symbols.Load(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// parseAll fans per-file parsing out over a bounded worker pool. Each task
// writes only its own result slot; ordering is fixed by logicalPaths, not
// by completion.
func (e Engine) parseAll(ctx context.Context, logicalPaths []string, resourcePaths map[string]string) ([]FileResult, error) {
	workers := e.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(logicalPaths))
	tasks := pool.New().
		WithContext(ctx).
		WithMaxGoroutines(workers)
	for i, logical := range logicalPaths {
		tasks.Go(func(context.Context) error {
			result, err := e.Parser.ParseFile(logical, resourcePaths[logical])
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := tasks.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func verificationError(missing []types.SymbolKey) error {
	names := make([]string, len(missing))
	for i, key := range missing {
		names[i] = key.String()
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("unresolved resource references:\n" + strings.Join(names, "\n"))
}
