// Package instlib provides the instruction catalogue shared by the evovm
// virtual machines.
//
// A Lib maps opcode ids to a short name, an argument arity (0..3) and a
// human-readable description. It also carries an optional argument alias
// table so that symbolic argument names (register names, small integers)
// can be resolved when parsing textual genomes. A Lib is built once and
// never mutated afterwards.
package instlib

import (
	"fmt"
	"sort"
)

// MaxArgs is the maximum number of arguments any instruction takes.
const MaxArgs = 3

// Entry describes a single opcode in the catalogue.
type Entry struct {
	Name        string
	Arity       int
	Description string
}

// Lib is a read-only instruction catalogue. Opcode ids are assigned in
// the order entries are added, starting at 0.
type Lib struct {
	entries []Entry
	byName  map[string]int
	args    map[string]int
}

// New returns an empty instruction library.
func New() *Lib {
	return &Lib{
		byName: make(map[string]int),
		args:   make(map[string]int),
	}
}

// AddInst appends an opcode to the catalogue and returns its id.
func (l *Lib) AddInst(name string, arity int, description string) int {
	if arity < 0 || arity > MaxArgs {
		panic(fmt.Sprintf("instlib: arity %d out of range for %q", arity, name))
	}
	id := len(l.entries)
	l.entries = append(l.entries, Entry{Name: name, Arity: arity, Description: description})
	l.byName[name] = id
	return id
}

// AddArg registers a symbolic argument alias.
func (l *Lib) AddArg(name string, value int) {
	l.args[name] = value
}

// Size returns the number of opcodes in the catalogue.
func (l *Lib) Size() int { return len(l.entries) }

// NameOf returns the short name of an opcode, or "Unknown" for ids
// outside the catalogue.
func (l *Lib) NameOf(id int) string {
	if id < 0 || id >= len(l.entries) {
		return "Unknown"
	}
	return l.entries[id].Name
}

// ArityOf returns the number of arguments an opcode uses. Ids outside
// the catalogue report 0.
func (l *Lib) ArityOf(id int) int {
	if id < 0 || id >= len(l.entries) {
		return 0
	}
	return l.entries[id].Arity
}

// DescriptionOf returns the human description of an opcode.
func (l *Lib) DescriptionOf(id int) string {
	if id < 0 || id >= len(l.entries) {
		return ""
	}
	return l.entries[id].Description
}

// IDOf resolves an opcode name back to its id.
func (l *Lib) IDOf(name string) (int, bool) {
	id, ok := l.byName[name]
	return id, ok
}

// ResolveArg resolves a symbolic argument alias to its integer value.
func (l *Lib) ResolveArg(symbol string) (int, bool) {
	v, ok := l.args[symbol]
	return v, ok
}

// Names returns all opcode names in id order.
func (l *Lib) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}

// ArgNames returns the registered argument aliases, sorted for
// deterministic listings.
func (l *Lib) ArgNames() []string {
	names := make([]string, 0, len(l.args))
	for name := range l.args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
