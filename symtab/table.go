package symtab

import (
	"iter"

	"github.com/emberlang/ember/ident"
)

// Safety is the safety domain of a scope.
type Safety int

const (
	// Inherited is only meaningful when entering a scope: it is replaced by
	// the enclosing scope's safety immediately.
	Inherited Safety = iota
	Safe
	Unsafe
)

func (s Safety) String() string {
	switch s {
	case Inherited:
		return "inherited"
	case Safe:
		return "safe"
	case Unsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// ScopeInfo describes the context a scope was opened in.
type ScopeInfo struct {
	Safety     Safety
	InFunction bool
	InLoop     bool
}

// scope keeps static entries apart from transient ones so that closing it
// only has to hand the persistent map to the parent.
type scope struct {
	transient  map[ident.ID]*Entry
	persistent map[ident.ID]*Entry
	order      []ident.ID
	info       ScopeInfo
}

func newScope(info ScopeInfo) *scope {
	return &scope{
		transient:  make(map[ident.ID]*Entry),
		persistent: make(map[ident.ID]*Entry),
		info:       info,
	}
}

func (s *scope) get(name ident.ID) (*Entry, bool) {
	if e, ok := s.persistent[name]; ok {
		return e, true
	}
	e, ok := s.transient[name]
	return e, ok
}

func (s *scope) put(e *Entry) {
	_, inTransient := s.transient[e.Name]
	_, inPersistent := s.persistent[e.Name]
	if !inTransient && !inPersistent {
		s.order = append(s.order, e.Name)
	}
	delete(s.transient, e.Name)
	delete(s.persistent, e.Name)
	if e.Static {
		s.persistent[e.Name] = e
	} else {
		s.transient[e.Name] = e
	}
}

func (s *scope) entries() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, name := range s.order {
			e, ok := s.get(name)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Table is a stack of scopes on top of a root scope. A Table belongs to one
// analyzer; it is not safe for concurrent use.
type Table struct {
	root  *scope
	stack []*scope
}

// New creates a table with only the (safe) root scope.
func New() *Table {
	return &Table{root: newScope(ScopeInfo{Safety: Safe})}
}

func (t *Table) current() *scope {
	if len(t.stack) == 0 {
		return t.root
	}
	return t.stack[len(t.stack)-1]
}

// Insert places e in the innermost open scope, replacing any entry with the
// same name in that scope. Callers check for redefinition with Lookup first.
func (t *Table) Insert(e *Entry) {
	t.current().put(e)
}

// EnterScope opens a new innermost scope.
func (t *Table) EnterScope(info ScopeInfo) {
	if info.Safety == Inherited {
		info.Safety = t.current().info.Safety
	}
	t.stack = append(t.stack, newScope(info))
}

// ExitScope closes the innermost scope. Its static entries are reinserted
// into the scope that becomes innermost; everything else is dropped. With no
// open scope it does nothing.
func (t *Table) ExitScope() {
	if len(t.stack) == 0 {
		return
	}
	closed := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	parent := t.current()
	for _, name := range closed.order {
		if e, ok := closed.persistent[name]; ok {
			parent.put(e)
		}
	}
}

// Lookup searches from the innermost scope out to the root.
func (t *Table) Lookup(name ident.ID) (*Entry, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if e, ok := t.stack[i].get(name); ok {
			return e, true
		}
	}
	return t.root.get(name)
}

// LookupLocal searches only the innermost scope.
func (t *Table) LookupLocal(name ident.ID) (*Entry, bool) {
	return t.current().get(name)
}

// ScopeInfo returns the innermost scope's info.
func (t *Table) ScopeInfo() ScopeInfo {
	return t.current().info
}

// SetSafety changes the innermost scope's safety. Setting Inherited resolves
// it against the enclosing scope, as EnterScope does.
func (t *Table) SetSafety(s Safety) {
	cur := t.current()
	if s == Inherited {
		s = Safe
		if len(t.stack) > 1 {
			s = t.stack[len(t.stack)-2].info.Safety
		} else if len(t.stack) == 1 {
			s = t.root.info.Safety
		}
	}
	cur.info.Safety = s
}

// Depth is the number of open scopes above the root.
func (t *Table) Depth() int {
	return len(t.stack)
}

// Entries iterates the root scope in declaration order. Code generation
// walks a finished table through this.
func (t *Table) Entries() iter.Seq[*Entry] {
	return t.root.entries()
}
