package domain

import (
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Construction variables consumed when rendering compiler and linker command lines.
const (
	KeyCXX        = "CXX"
	KeyCXXFlags   = "CXXFLAGS"
	KeyCPPDefines = "CPPDEFINES"
	KeyCPPPath    = "CPPPATH"
	KeyLibs       = "LIBS"
	KeyLibPath    = "LIBPATH"
	KeyLinkFlags  = "LINKFLAGS"
)

// Environment maps construction-variable keys to ordered value lists.
//
// Every derived target works on a Clone so that flag mutations never leak
// back into the parent or into sibling targets.
type Environment struct {
	vars map[string][]string
}

// NewEnvironment creates an empty Environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string][]string)}
}

// Clone returns a deep copy of the environment.
func (e *Environment) Clone() *Environment {
	c := &Environment{vars: make(map[string][]string, len(e.vars))}
	for k, v := range e.vars {
		c.vars[k] = slices.Clone(v)
	}
	return c
}

// Has reports whether key is defined, even with an empty value.
func (e *Environment) Has(key string) bool {
	_, ok := e.vars[key]
	return ok
}

// Get returns a copy of the values stored under key.
func (e *Environment) Get(key string) []string {
	return slices.Clone(e.vars[key])
}

// Keys returns the defined keys in sorted order.
func (e *Environment) Keys() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// Set replaces the values stored under key.
func (e *Environment) Set(key string, values ...string) {
	e.vars[key] = slices.Clone(values)
}

// Append adds values to the end of key.
func (e *Environment) Append(key string, values ...string) {
	e.vars[key] = append(e.vars[key], values...)
}

// AppendUnique adds the values not already present to the end of key.
func (e *Environment) AppendUnique(key string, values ...string) {
	current := e.vars[key]
	for _, v := range values {
		if !slices.Contains(current, v) {
			current = append(current, v)
		}
	}
	e.vars[key] = current
}

// Prepend adds values to the front of key, keeping their relative order.
func (e *Environment) Prepend(key string, values ...string) {
	e.vars[key] = append(slices.Clone(values), e.vars[key]...)
}

// PrependUnique adds the values not already present to the front of key.
// Values that are already present keep their current position.
func (e *Environment) PrependUnique(key string, values ...string) {
	current := e.vars[key]
	fresh := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(current, v) && !slices.Contains(fresh, v) {
			fresh = append(fresh, v)
		}
	}
	e.vars[key] = append(fresh, current...)
}

// Scalar returns the single value of key.
// A key with no values yields the empty string; more than one value is malformed.
func (e *Environment) Scalar(key string) (string, error) {
	values, ok := e.vars[key]
	if !ok {
		return "", keyError(ErrMissingConfigKey, key)
	}
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	default:
		return "", keyError(ErrMalformedConfigKey, key)
	}
}

// List returns a copy of the values of key, failing when the key is absent.
func (e *Environment) List(key string) ([]string, error) {
	values, ok := e.vars[key]
	if !ok {
		return nil, keyError(ErrMissingConfigKey, key)
	}
	return slices.Clone(values), nil
}

// Bool parses key as a boolean, returning def when the key is absent.
func (e *Environment) Bool(key string, def bool) (bool, error) {
	if !e.Has(key) {
		return def, nil
	}
	s, err := e.Scalar(key)
	if err != nil {
		return false, err
	}
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, keyError(ErrMalformedConfigKey, key)
	}
	return b, nil
}

// Subst expands $KEY and ${KEY} references in s.
// List values are joined with a single space. Unknown keys are an error.
func (e *Environment) Subst(s string) (string, error) {
	var missing string
	out := os.Expand(s, func(key string) string {
		values, ok := e.vars[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return ""
		}
		return strings.Join(values, " ")
	})
	if missing != "" {
		return "", keyError(ErrUnknownSubstitution, missing)
	}
	return out, nil
}
