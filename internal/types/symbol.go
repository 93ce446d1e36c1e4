package types

import "fmt"

// Symbol is one entry of a module's symbol table: the (idKind, type, name,
// value) tuple that downstream code generation turns into an R field.
type Symbol struct {
	IDKind IDKind
	Type   ResourceType
	Name   string
	Value  string
}

// Key identifies a symbol within a table; at most one entry exists per key.
func (s Symbol) Key() SymbolKey {
	return SymbolKey{Type: s.Type, Name: s.Name}
}

// Line renders the symbol in the four-field text form used by symbol files.
func (s Symbol) Line() string {
	return fmt.Sprintf("%s %s %s %s", s.IDKind, s.Type, s.Name, s.Value)
}

// SymbolKey is the (type, name) identity of a symbol or reference.
type SymbolKey struct {
	Type ResourceType
	Name string
}

func (k SymbolKey) String() string {
	return fmt.Sprintf("%s/%s", k.Type, k.Name)
}

// Reference is one @type/name or ?attr/name occurrence found in a resource
// file. Declaring references (@+type/name) create a symbol when none
// exists; usage-only references must resolve against some table.
type Reference struct {
	Type      ResourceType
	Name      string
	Declaring bool
}

func (r Reference) Key() SymbolKey {
	return SymbolKey{Type: r.Type, Name: r.Name}
}

// SymbolTable is an insertion-deduplicated set of symbols keyed by
// (type, name). It is not safe for concurrent mutation.
type SymbolTable struct {
	entries map[SymbolKey]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: map[SymbolKey]Symbol{}}
}

// Add inserts the symbol unless an entry already exists for its key.
// Returns true when the symbol was inserted.
func (t *SymbolTable) Add(sym Symbol) bool {
	key := sym.Key()
	if _, ok := t.entries[key]; ok {
		return false
	}
	t.entries[key] = sym
	return true
}

// Pin replaces the value of an existing entry, or inserts a new scalar
// entry, with an explicitly assigned value. Pinned values are verbatim and
// never reassigned.
func (t *SymbolTable) Pin(key SymbolKey, value string) {
	entry, ok := t.entries[key]
	if !ok {
		entry = Symbol{IDKind: IDKindScalar, Type: key.Type, Name: key.Name}
	}
	entry.Value = value
	t.entries[key] = entry
}

// Contains reports whether the table holds an entry for key.
func (t *SymbolTable) Contains(key SymbolKey) bool {
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of entries.
func (t *SymbolTable) Len() int {
	return len(t.entries)
}

// All returns the entries in unspecified order; callers needing the
// canonical order sort by (idKind, type, name, value).
func (t *SymbolTable) All() []Symbol {
	out := make([]Symbol, 0, len(t.entries))
	for _, sym := range t.entries {
		out = append(out, sym)
	}
	return out
}
