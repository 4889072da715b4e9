package interaction

import (
	"context"
	"slices"
	"sync"
)

// Recorder implements UI by keeping every notice in memory and answering
// prompts from a fixed reply. It backs the HTTP server, which returns the
// notices with its response.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	removed []string
	events  []string
	answer  Answer
	err     error
	prompts []string
}

// NewRecorder creates a recorder answering every prompt with answer.
func NewRecorder(answer Answer) *Recorder {
	return &Recorder{answer: answer}
}

// NewCancellingRecorder creates a recorder that dismisses every prompt.
func NewCancellingRecorder() *Recorder {
	return &Recorder{err: ErrCancelled}
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
	r.events = append(r.events, "notify:"+n.Message)
}

func (r *Recorder) RemoveNotify(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
	r.events = append(r.events, "remove:"+id)
}

func (r *Recorder) PromptForMeaning(_ context.Context, word string) (Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, word)
	r.events = append(r.events, "prompt:"+word)
	if r.err != nil {
		return Answer{}, r.err
	}
	answer := r.answer
	if answer.Word == "" {
		answer.Word = word
	}
	return answer, nil
}

// Notices returns all notices in the order they were shown.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.notices)
}

// Removed returns the IDs of removed notices.
func (r *Recorder) Removed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.removed)
}

// Events returns notify, remove and prompt calls in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Prompts returns the words prompts were shown for.
func (r *Recorder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.prompts)
}

// Terminal returns the last non-persistent notice, the outcome of a run.
func (r *Recorder) Terminal() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.notices) - 1; i >= 0; i-- {
		if !r.notices[i].Persistent {
			return r.notices[i], true
		}
	}
	return Notice{}, false
}
