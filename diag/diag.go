// Package diag holds source locations and the diagnostics produced by the
// semantic analyzer.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Location identifies a point in a compilation unit. Line and Col are 1-based;
// the zero Location means "unknown".
type Location struct {
	Unit string
	Line int
	Col  int
}

func (l Location) String() string {
	if l.Unit == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.Unit, l.Line, l.Col)
}

// Before orders locations by unit, then line, then column.
func (l Location) Before(other Location) bool {
	if l.Unit != other.Unit {
		return l.Unit < other.Unit
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Col < other.Col
}

// Severity is either Error or Warning.
type Severity int

const (
	Error Severity = iota
	Warning
)

// Prefix is the fixed tag every diagnostic text starts with.
func (s Severity) Prefix() string {
	switch s {
	case Warning:
		return "Semantic warning: "
	default:
		return "Semantic error: "
	}
}

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one message. Text already carries the severity prefix.
type Diagnostic struct {
	Loc      Location
	Severity Severity
	Text     string
}

func (d Diagnostic) Error() string {
	return d.Loc.String() + ": " + d.Text
}

// Errorf builds an error diagnostic.
func Errorf(loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Loc: loc, Severity: Error, Text: Error.Prefix() + fmt.Sprintf(format, args...)}
}

// Warningf builds a warning diagnostic.
func Warningf(loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Loc: loc, Severity: Warning, Text: Warning.Prefix() + fmt.Sprintf(format, args...)}
}

// List accumulates diagnostics in the order they were reported.
type List struct {
	items []Diagnostic
}

// Add appends d.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Merge appends every diagnostic of other.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Len returns the number of diagnostics.
func (l *List) Len() int {
	return len(l.items)
}

// Items returns the diagnostics. The slice must not be modified.
func (l *List) Items() []Diagnostic {
	return l.items
}

// HasErrors reports whether any diagnostic is an error.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with severity s.
func (l *List) Count(s Severity) int {
	n := 0
	for _, d := range l.items {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by location. It is stable, so diagnostics reported
// at the same location keep their reporting order.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Loc.Before(l.items[j].Loc)
	})
}

func (l *List) String() string {
	var b strings.Builder
	for i, d := range l.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.Error())
	}
	return b.String()
}
