package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Generator is a scripted language model. Reply is matched against each
// prompt; the first rule whose Contains occurs in the prompt answers it.
type Generator struct {
	mu      sync.Mutex
	rules   []GeneratorRule
	prompts []string
	keys    []string
}

// GeneratorRule answers prompts that contain Contains.
type GeneratorRule struct {
	Contains string
	Reply    string
	Err      error
}

// NewGenerator creates a generator answering with rules.
func NewGenerator(rules ...GeneratorRule) *Generator {
	return &Generator{rules: rules}
}

// Generate answers prompt with the first matching rule. Unmatched prompts
// get an empty object.
func (g *Generator) Generate(_ context.Context, apiKey, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.keys = append(g.keys, apiKey)

	for _, r := range g.rules {
		if strings.Contains(prompt, r.Contains) {
			return r.Reply, r.Err
		}
	}
	return "{}", nil
}

// Calls returns how many prompts were received.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// Prompts returns the prompts received so far.
func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.prompts)
}

// Keys returns the API keys used so far.
func (g *Generator) Keys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.keys)
}
