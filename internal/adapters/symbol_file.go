package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"resym/internal/ports"
	"resym/internal/types"
)

// SymbolFileAdapter reads and writes the four-field symbol-table text
// format shared by every resource rule's output and its dependents' inputs.
type SymbolFileAdapter struct{}

func NewSymbolFileAdapter() SymbolFileAdapter {
	return SymbolFileAdapter{}
}

func (a SymbolFileAdapter) Load(path string) (*types.SymbolTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read symbol file " + path).
			WithCause(err)
	}
	table := types.NewSymbolTable()
	for i, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("parse: %s:%d: expected 4 fields, got %d", path, i+1, len(fields)))
		}
		kind, ok := types.LookupIDKind(fields[0])
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("parse: %s:%d: unknown id kind %q", path, i+1, fields[0]))
		}
		resType, ok := types.LookupResourceType(fields[1])
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("parse: %s:%d: unknown resource type %q", path, i+1, fields[1]))
		}
		table.Add(types.Symbol{
			IDKind: kind,
			Type:   resType,
			Name:   fields[2],
			Value:  fields[3],
		})
	}
	return table, nil
}

func (a SymbolFileAdapter) Write(path string, table *types.SymbolTable) error {
	lines := SortedLines(table)
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	// Write to a sibling temp file and rename so an aborted run never
	// leaves a partial file at the canonical path.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage symbol file").
			WithCause(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write symbol file").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write symbol file").
			WithCause(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to publish symbol file").
			WithCause(err)
	}
	return nil
}

// SortedLines renders the table's entries in the canonical order: the
// four-field lines compared as (idKind, type, name, value) string tuples.
// Identical inputs therefore always serialize byte-identically regardless
// of insertion or scheduling order.
func SortedLines(table *types.SymbolTable) []string {
	entries := table.All()
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IDKind != b.IDKind {
			return a.IDKind < b.IDKind
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Value < b.Value
	})
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Line()
	}
	return lines
}

var _ ports.SymbolFilePort = SymbolFileAdapter{}
