package ports

import "resym/internal/types"

// SymbolFilePort reads and writes symbol-table files: UTF-8 text, one
// "idKind type name value" line per entry, sorted, no header.
type SymbolFilePort interface {
	// Load parses a symbol file into a read-only table. Any line that does
	// not hold exactly four whitespace-separated fields is an error naming
	// the file and line number.
	Load(path string) (*types.SymbolTable, error)

	// Write serializes the table to path in the canonical sorted order.
	// The file is published atomically: on error nothing is left at path.
	Write(path string, table *types.SymbolTable) error
}
