package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Manager keeps named presets compiled and resolves ad hoc expressions
type Manager struct {
	compiler Compiler
	presets  map[string]CompiledFilter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(WithCache(100)),
		presets:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterPreset registers a new preset or updates an existing one
func (m *Manager) RegisterPreset(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile preset '%s': %w", name, err)
	}

	m.mu.Lock()
	m.presets[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterPresets registers several presets. Nothing is registered unless
// every expression compiles.
func (m *Manager) RegisterPresets(presets map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(presets))

	for name, expression := range presets {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile preset '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.presets, compiled)
	m.mu.Unlock()

	return nil
}

// Preset returns a compiled preset by name
func (m *Manager) Preset(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.presets[name]
	m.mu.RUnlock()
	return filter, exists
}

// Presets returns all registered preset names, sorted
func (m *Manager) Presets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.presets))
}

// Resolve turns command line input into a filter. An empty expression and
// preset yield nil, which matches everything. Both together are combined
// with a logical and.
func (m *Manager) Resolve(expression, preset string) (CompiledFilter, error) {
	var filters []CompiledFilter

	if preset != "" {
		filter, ok := m.Preset(preset)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, preset)
		}
		filters = append(filters, filter)
	}

	if expression != "" {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}

	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return filters[0], nil
	default:
		return all(filters), nil
	}
}

// all matches when every filter matches
type all []CompiledFilter

func (a all) Evaluate(r Record) (bool, error) {
	for _, f := range a {
		ok, err := f.Evaluate(r)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (a all) Match(r Record) bool {
	ok, err := a.Evaluate(r)
	return err == nil && ok
}

func (a all) Expression() string {
	expression := ""
	for i, f := range a {
		if i > 0 {
			expression += " and "
		}
		expression += "(" + f.Expression() + ")"
	}
	return expression
}
