// Package ident interns identifier strings into small integer handles.
//
// Two identifiers are the same name exactly when their handles are equal, so
// symbol tables key their maps by ID rather than by string.
package ident

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// ID is an interned identifier. The zero ID is never handed out and means
// "no identifier".
type ID uint32

// Invalid is the zero handle.
const Invalid ID = 0

// Table maps strings to IDs and back. It is safe for concurrent use because
// sibling modules may be analyzed in parallel.
type Table struct {
	mu    sync.RWMutex
	ids   map[string]ID
	names []string
}

// NewTable creates an empty interner.
func NewTable() *Table {
	return &Table{
		ids:   make(map[string]ID),
		names: []string{""},
	}
}

// Intern returns the handle for name, allocating one on first use.
func (t *Table) Intern(name string) ID {
	t.mu.RLock()
	id, ok := t.ids[name]
	t.mu.RUnlock()
	if ok {
		return id
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[name]; ok {
		return id
	}
	value, err := safecast.Conv[uint32](len(t.names))
	if err != nil {
		panic(fmt.Errorf("identifier table overflow: %w", err))
	}
	id = ID(value)
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

// Lookup returns the handle for name without allocating one.
func (t *Table) Lookup(name string) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the string behind id, or "" for unknown handles.
func (t *Table) Name(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Len reports how many identifiers have been interned.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names) - 1
}

// Default is the process-wide interner used by ID.String and Intern.
var Default = NewTable()

// Intern interns name in the default table.
func Intern(name string) ID {
	return Default.Intern(name)
}

// Path interns each name and returns the handles in order.
func Path(names ...string) []ID {
	ids := make([]ID, len(names))
	for i, name := range names {
		ids[i] = Default.Intern(name)
	}
	return ids
}

func (id ID) String() string {
	if id == Invalid {
		return "<invalid>"
	}
	return Default.Name(id)
}

// IsValid reports whether id was produced by an interner.
func (id ID) IsValid() bool {
	return id != Invalid
}
