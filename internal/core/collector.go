package core

import "resym/internal/types"

// Collector merges per-file parse results into one symbol table. The first
// declaration observed for a (type, name) wins; later declarations for the
// same key are dropped. Public pins are applied in a final pass so their
// effect is independent of file processing order.
type Collector struct {
	table *types.SymbolTable
	pins  []Pin
}

func NewCollector() *Collector {
	return &Collector{table: types.NewSymbolTable()}
}

// Merge folds one file's declarations into the table. Callers feed files
// in a deterministic order; within a file, document order applies.
func (c *Collector) Merge(result FileResult) {
	for _, sym := range result.Symbols {
		c.table.Add(sym)
	}
	c.pins = append(c.pins, result.Pins...)
}

// Finish applies accumulated public pins and returns the table. The
// collector must not be reused afterwards.
func (c *Collector) Finish() *types.SymbolTable {
	for _, pin := range c.pins {
		c.table.Pin(pin.Key, pin.Value)
	}
	return c.table
}
