// Package keypool rotates requests across a set of interchangeable API keys
// so quota is spread evenly between them.
package keypool

import (
	"strings"
	"sync/atomic"
)

// Pool hands out API keys in round-robin order. It is safe for concurrent use.
type Pool struct {
	keys   []string
	cursor atomic.Uint64
}

// New creates a pool from keys. Blank entries are dropped. When no usable key
// remains the legacy single key is used instead.
func New(keys []string, legacy string) *Pool {
	p := &Pool{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			p.keys = append(p.keys, k)
		}
	}
	if len(p.keys) == 0 {
		if legacy = strings.TrimSpace(legacy); legacy != "" {
			p.keys = []string{legacy}
		}
	}
	return p
}

// WithCursor restores a cursor saved from a previous run.
func (p *Pool) WithCursor(n uint64) *Pool {
	p.cursor.Store(n)
	return p
}

// Next returns the key under the cursor and advances it. It returns an empty
// string when no key is configured.
func (p *Pool) Next() string {
	if len(p.keys) == 0 {
		return ""
	}
	n := p.cursor.Add(1) - 1
	return p.keys[n%uint64(len(p.keys))]
}

// Len returns the number of configured keys.
func (p *Pool) Len() int {
	return len(p.keys)
}

// Empty reports whether the pool has no key to hand out.
func (p *Pool) Empty() bool {
	return len(p.keys) == 0
}

// Cursor returns the position of the next key, reduced modulo the pool size.
func (p *Pool) Cursor() uint64 {
	if len(p.keys) == 0 {
		return 0
	}
	return p.cursor.Load() % uint64(len(p.keys))
}
