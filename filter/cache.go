package filter

import (
	"container/list"
	"strings"
	"sync"
	"unicode"
)

// filterCache keeps recently compiled filters. Expressions that differ only
// in whitespace outside string literals share one entry. Past limit the
// least recently used filter is dropped.
type filterCache struct {
	mu     sync.Mutex
	limit  int
	recent *list.List // *cachedFilter, most recent at the front
	byKey  map[string]*list.Element
}

type cachedFilter struct {
	key    string
	filter CompiledFilter
}

func newFilterCache(limit int) *filterCache {
	return &filterCache{
		limit:  limit,
		recent: list.New(),
		byKey:  make(map[string]*list.Element),
	}
}

func (c *filterCache) lookup(expression string) (CompiledFilter, bool) {
	key := canonicalExpression(expression)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	c.recent.MoveToFront(el)
	return el.Value.(*cachedFilter).filter, true
}

func (c *filterCache) store(expression string, f CompiledFilter) {
	key := canonicalExpression(expression)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		el.Value.(*cachedFilter).filter = f
		c.recent.MoveToFront(el)
		return
	}
	c.byKey[key] = c.recent.PushFront(&cachedFilter{key: key, filter: f})

	for c.recent.Len() > c.limit {
		oldest := c.recent.Remove(c.recent.Back()).(*cachedFilter)
		delete(c.byKey, oldest.key)
	}
}

func (c *filterCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.byKey)
	c.recent.Init()
}

func (c *filterCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recent.Len()
}

// canonicalExpression trims the expression and collapses whitespace runs to
// one space. Quoted text is copied verbatim.
func canonicalExpression(expression string) string {
	var (
		b       strings.Builder
		quote   rune
		escaped bool
		pending bool
	)
	b.Grow(len(expression))

	for _, r := range strings.TrimSpace(expression) {
		switch {
		case quote != 0:
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\' && quote != '`':
				escaped = true
			case r == quote:
				quote = 0
			}
			continue
		case unicode.IsSpace(r):
			pending = true
			continue
		}

		if pending {
			b.WriteByte(' ')
			pending = false
		}
		if r == '"' || r == '\'' || r == '`' {
			quote = r
		}
		b.WriteRune(r)
	}
	return b.String()
}
