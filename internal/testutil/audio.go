package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// AudioServer serves recordings by path and answers 404 otherwise.
type AudioServer struct {
	*httptest.Server

	mu       sync.Mutex
	files    map[string][]byte
	requests int
}

// NewAudioServer starts a recording host closed when the test ends.
func NewAudioServer(t *testing.T, files map[string][]byte) *AudioServer {
	t.Helper()

	s := &AudioServer{files: files}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		data, ok := s.files[r.URL.Path]
		s.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(data)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the number of requests served.
func (s *AudioServer) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}
