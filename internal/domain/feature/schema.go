package feature

import "fmt"

// ColumnSchema is the frozen, ordered column list the models and scaler were
// fit against. The zero value is empty and rejected by Align.
type ColumnSchema struct {
	names []string
	index map[string]int
}

func NewColumnSchema(names []string) (ColumnSchema, error) {
	if len(names) == 0 {
		return ColumnSchema{}, ErrEmptySchema
	}
	idx := make(map[string]int, len(names))
	for i, n := range names {
		if n == "" {
			return ColumnSchema{}, fmt.Errorf("%w: blank name at position %d", ErrDuplicateColumn, i)
		}
		if prev, ok := idx[n]; ok {
			return ColumnSchema{}, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateColumn, n, prev, i)
		}
		idx[n] = i
	}
	return ColumnSchema{names: append([]string(nil), names...), index: idx}, nil
}

func (s ColumnSchema) Len() int { return len(s.names) }

// Names returns a copy of the column names in order.
func (s ColumnSchema) Names() []string { return append([]string(nil), s.names...) }

// Index returns the position of name.
func (s ColumnSchema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}
