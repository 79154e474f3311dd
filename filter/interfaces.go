package filter

// Record is anything that can expose its fields to a filter expression
type Record interface {
	FilterEnv() map[string]any
}

// Filter checks records against criteria
type Filter interface {
	// Match reports whether the record satisfies the filter. Evaluation
	// errors count as no match.
	Match(r Record) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Evaluate is Match with the evaluation error exposed
	Evaluate(r Record) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
