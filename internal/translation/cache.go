package translation

import "sync"

// Cache keeps lookup results in memory so repeated selections of a word in
// one process reach the model only once.
type Cache struct {
	mu      sync.RWMutex
	results map[string]Result
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]Result)}
}

// Add stores the result for word.
func (c *Cache) Add(word string, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[word] = r
}

// Get retrieves the result for word.
func (c *Cache) Get(word string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[word]
	return r, ok
}

// Len returns the number of cached words.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
