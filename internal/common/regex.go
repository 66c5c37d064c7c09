package common

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultRegexCacheSize = 512

// RegexCache memoizes compiled case-insensitive patterns. Compile errors are
// cached as well so a bad pattern is only reported once per cache lifetime.
type RegexCache struct {
	cache *lru.Cache[string, compiled]
}

type compiled struct {
	re  *regexp.Regexp
	err error
}

// NewRegexCache creates a cache holding at most size patterns.
func NewRegexCache(size int) *RegexCache {
	if size <= 0 {
		size = defaultRegexCacheSize
	}
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[string, compiled](size)
	return &RegexCache{cache: cache}
}

var sharedRegexCache = NewRegexCache(defaultRegexCacheSize)

// SharedRegexCache returns the process-wide pattern cache.
func SharedRegexCache() *RegexCache {
	return sharedRegexCache
}

// CompileFold compiles pattern with case folding enabled.
func (c *RegexCache) CompileFold(pattern string) (*regexp.Regexp, error) {
	if entry, ok := c.cache.Get(pattern); ok {
		return entry.re, entry.err
	}
	re, err := regexp.Compile("(?i)" + pattern)
	c.cache.Add(pattern, compiled{re: re, err: err})
	return re, err
}

// Len reports how many patterns are cached.
func (c *RegexCache) Len() int {
	return c.cache.Len()
}
