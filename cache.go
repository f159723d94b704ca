package stringql

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled statements an Engine keeps by
// default. Override it with WithCacheSize.
const DefaultCacheSize = 128

// programCache memoizes compiled statements keyed by their parameterized
// text. Compiling is pure, so concurrent misses for the same text are
// harmless. A nil cache compiles every time.
type programCache struct {
	lru *lru.Cache[string, *program]
}

func newProgramCache(size int) *programCache {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[string, *program](size)
	if err != nil {
		return nil
	}
	return &programCache{lru: c}
}

func (c *programCache) compile(text string) *program {
	if c == nil {
		return compile(text)
	}
	if p, ok := c.lru.Get(text); ok {
		return p
	}
	p := compile(text)
	c.lru.Add(text, p)
	return p
}

func (c *programCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
