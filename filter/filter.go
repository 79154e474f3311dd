package filter

// CompileFilter compiles a filter expression with a fresh, uncached compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return NewExprCompiler().Compile(expression)
}

// Apply returns the items matched by f, preserving order. A nil filter
// matches everything.
func Apply[T Record](f Filter, items []T) []T {
	if f == nil {
		return items
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
