package scanner

// SymbolTable records emitted names in insertion order and rejects duplicates.
type SymbolTable struct {
	names []string
	seen  map[string]struct{}
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{seen: make(map[string]struct{})}
}

// TryInsert adds name and reports whether it was new.
func (t *SymbolTable) TryInsert(name string) bool {
	if _, ok := t.seen[name]; ok {
		return false
	}
	t.seen[name] = struct{}{}
	t.names = append(t.names, name)
	return true
}

// Names returns a copy of the names in insertion order.
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
