package keypool

import (
	"sync"
	"testing"
)

func TestNext_RoundRobin(t *testing.T) {
	p := New([]string{"k1", "k2", "k3"}, "")

	want := []string{"k1", "k2", "k3", "k1", "k2", "k3", "k1"}
	for i, w := range want {
		if got := p.Next(); got != w {
			t.Errorf("Next() call %d = %q, want %q", i, got, w)
		}
	}
}

func TestNext_EvenDistribution(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	p := New(keys, "")

	const calls = 103
	counts := map[string]int{}
	for range calls {
		counts[p.Next()]++
	}

	for _, k := range keys {
		n := counts[k]
		if n < calls/len(keys) || n > calls/len(keys)+1 {
			t.Errorf("key %q handed out %d times, want %d±1", k, n, calls/len(keys))
		}
	}
}

func TestNew_LegacyFallback(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		legacy string
		want   string
		size   int
	}{
		{"pool wins over legacy", []string{"pool"}, "legacy", "pool", 1},
		{"legacy when pool absent", nil, "legacy", "legacy", 1},
		{"legacy when pool blank", []string{" ", ""}, "legacy", "legacy", 1},
		{"nothing configured", nil, "", "", 0},
		{"keys are trimmed", []string{" k1 ", "k2"}, "", "k1", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.keys, tt.legacy)
			if p.Len() != tt.size {
				t.Errorf("Len() = %d, want %d", p.Len(), tt.size)
			}
			if got := p.Next(); got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmptyPool(t *testing.T) {
	p := New(nil, "")
	if !p.Empty() {
		t.Error("Empty() = false for a pool without keys")
	}
	for range 3 {
		if got := p.Next(); got != "" {
			t.Errorf("Next() = %q, want empty", got)
		}
	}
	if p.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", p.Cursor())
	}
}

func TestWithCursor(t *testing.T) {
	p := New([]string{"k1", "k2", "k3"}, "").WithCursor(5)
	if got := p.Next(); got != "k3" {
		t.Errorf("Next() after restore = %q, want k3", got)
	}
	if got := p.Cursor(); got != 0 {
		t.Errorf("Cursor() = %d, want 0", got)
	}
}

func TestNext_Concurrent(t *testing.T) {
	p := New([]string{"a", "b"}, "")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts = map[string]int{}
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				k := p.Next()
				mu.Lock()
				counts[k]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if counts["a"] != 500 || counts["b"] != 500 {
		t.Errorf("uneven distribution under concurrency: %v", counts)
	}
}
