package interaction

import (
	"context"
	"errors"
)

// ErrCancelled is returned by PromptForMeaning when the prompt was dismissed.
var ErrCancelled = errors.New("prompt cancelled")

// Notice is a message shown to the user. Persistent notices stay until
// removed by ID; the others disappear on their own.
type Notice struct {
	ID         string `json:"id,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Persistent bool   `json:"persistent,omitempty"`
}

// Answer is the reply to a meaning prompt. Auto asks for the automatic
// translation instead of a custom meaning; an empty Meaning without Auto
// means the prompt was confirmed with nothing typed. Word may differ from
// the word the prompt was shown for when the user corrected it.
type Answer struct {
	Word    string
	Meaning string
	Auto    bool
}

// UI shows notices and asks for meanings.
type UI interface {
	Notify(ctx context.Context, n Notice)
	RemoveNotify(ctx context.Context, id string)
	PromptForMeaning(ctx context.Context, word string) (Answer, error)
}
