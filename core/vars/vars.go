// Package vars holds shell variables and performs $name expansion.
package vars

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// Variable is a single shell variable. Array variables expand to their first
// element.
type Variable struct {
	Value    string
	Array    []string
	IsArray  bool
	Exported bool
}

// String returns the value the variable expands to.
func (v *Variable) String() string {
	if !v.IsArray {
		return v.Value
	}
	if len(v.Array) == 0 {
		return ""
	}
	return v.Array[0]
}

// LookupFunc resolves a name outside of the shell's own variables.
type LookupFunc func(name string) (string, bool)

// Store implements an in-memory variable table with a fallback to special
// parameters and the process environment.
type Store struct {
	rw       sync.RWMutex
	vars     map[string]*Variable
	specials map[string]func() string

	// Environ is consulted last, it defaults to os.LookupEnv.
	Environ LookupFunc
}

// NewStore creates an empty store that falls back to the process environment.
func NewStore() *Store {
	return &Store{
		vars:     make(map[string]*Variable),
		specials: make(map[string]func() string),
		Environ:  os.LookupEnv,
	}
}

// RegisterSpecial adds a dynamically computed parameter like $? or $$.
func (s *Store) RegisterSpecial(name string, getter func() string) {
	s.rw.Lock()
	defer s.rw.Unlock()
	s.specials[name] = getter
}

// Set assigns a scalar value, keeping the exported flag of an existing
// variable. Exported variables are republished to the process environment.
func (s *Store) Set(name, value string) {
	s.rw.Lock()
	defer s.rw.Unlock()

	s.assign(name, &Variable{Value: value})
}

// SetArray assigns an array value. An exported array publishes its first
// element.
func (s *Store) SetArray(name string, values []string) {
	s.rw.Lock()
	defer s.rw.Unlock()

	copied := make([]string, len(values))
	copy(copied, values)
	s.assign(name, &Variable{Array: copied, IsArray: true})
}

// assign replaces a variable, carrying over its exported flag. The lock must
// be held.
func (s *Store) assign(name string, v *Variable) {
	if old, ok := s.vars[name]; ok {
		v.Exported = old.Exported
	}
	s.vars[name] = v

	if v.Exported {
		// Only names that Export accepted reach here, so Setenv can't fail.
		_ = os.Setenv(name, v.String())
	}
}

// Export marks a variable as exported and publishes its value to the process
// environment so child processes inherit it.
func (s *Store) Export(name string) error {
	s.rw.Lock()
	defer s.rw.Unlock()

	v, ok := s.vars[name]
	if !ok {
		return nil
	}
	if err := os.Setenv(name, v.String()); err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	v.Exported = true
	return nil
}

// Unset removes the variable from the store and the process environment.
func (s *Store) Unset(name string) error {
	s.rw.Lock()
	defer s.rw.Unlock()

	delete(s.vars, name)
	return os.Unsetenv(name)
}

// Get returns a copy of the named shell variable.
func (s *Store) Get(name string) (Variable, bool) {
	s.rw.RLock()
	defer s.rw.RUnlock()

	v, ok := s.vars[name]
	if !ok {
		return Variable{}, false
	}
	out := *v
	out.Array = append([]string(nil), v.Array...)
	return out, true
}

// LookupEnv resolves a name against shell variables, then special
// parameters, then the process environment.
func (s *Store) LookupEnv(name string) (string, bool) {
	s.rw.RLock()
	v, ok := s.vars[name]
	special, isSpecial := s.specials[name]
	s.rw.RUnlock()

	switch {
	case ok:
		return v.String(), true
	case isSpecial:
		return special(), true
	case s.Environ != nil:
		return s.Environ(name)
	}
	return "", false
}

// Getenv is LookupEnv without the presence flag.
func (s *Store) Getenv(name string) string {
	val, _ := s.LookupEnv(name)
	return val
}

// Names returns the sorted names of all shell variables.
func (s *Store) Names() []string {
	s.rw.RLock()
	defer s.rw.RUnlock()

	var names []string
	for k := range s.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
