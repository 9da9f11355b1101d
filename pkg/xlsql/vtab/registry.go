package vtab

import (
	"fmt"
)

// TableEntry names a module to be registered with a host engine.
type TableEntry struct {
	Name   string
	Module Module
}

// FunctionEntry describes a scalar SQL function.
type FunctionEntry struct {
	Name string
	// NArgs is the arity; -1 accepts any number of arguments.
	NArgs         int
	Deterministic bool
	Func          ScalarFunc
}

// Registry collects the tables and functions a host binding installs on a
// connection. It is built once and is read-only afterwards.
type Registry struct {
	Tables    []TableEntry
	Functions []FunctionEntry
}

// AddTable appends a table. Names must be unique.
func (r *Registry) AddTable(name string, m Module) error {
	for _, t := range r.Tables {
		if t.Name == name {
			return fmt.Errorf("table %q already registered", name)
		}
	}
	r.Tables = append(r.Tables, TableEntry{Name: name, Module: m})
	return nil
}

// AddFunction appends a function. A name may be registered once per arity.
func (r *Registry) AddFunction(f FunctionEntry) error {
	for _, existing := range r.Functions {
		if existing.Name == f.Name && existing.NArgs == f.NArgs {
			return fmt.Errorf("function %s/%d already registered", f.Name, f.NArgs)
		}
	}
	r.Functions = append(r.Functions, f)
	return nil
}

// Table returns the module registered under name.
func (r *Registry) Table(name string) (Module, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t.Module, true
		}
	}
	return nil, false
}

// Function returns the function registered under name with the given arity.
func (r *Registry) Function(name string, nArgs int) (ScalarFunc, bool) {
	for _, f := range r.Functions {
		if f.Name == name && (f.NArgs == nArgs || f.NArgs < 0) {
			return f.Func, true
		}
	}
	return nil, false
}
