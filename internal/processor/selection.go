package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"codeberg.org/snonux/ankivn/internal/anki"
	"codeberg.org/snonux/ankivn/internal/interaction"
)

// Messages shown to the user.
const (
	MsgAdding       = "Đang thêm vào Anki..."
	MsgMissingKey   = "Vui lòng nhập Gemini API Key trong phần cài đặt extension!"
	MsgAdded        = "Đã thêm vào Anki: %s (%s)"
	MsgFailed       = "Thêm vào Anki thất bại."
	MsgConnectError = "Lỗi kết nối AnkiConnect: "
	MsgNoMeaning    = "Bạn chưa nhập nghĩa tiếng Việt!"
	MsgNoSelection  = "Chưa chọn từ nào để thêm vào Anki."
)

// Selection is a piece of text the user wants a card for. Custom asks for
// the meaning instead of translating automatically.
type Selection struct {
	Text   string
	Custom bool
}

// HandleSelection runs the whole interactive flow for sel: it shows a
// loading notice, asks for the meaning if requested, adds the note and
// replaces the loading notice with exactly one outcome notice. A cancelled
// prompt only removes the loading notice.
func (p *Pipeline) HandleSelection(ctx context.Context, sel Selection) Result {
	word := p.normalizer.Normalize(ctx, sel.Text)
	if word == "" {
		// Nothing is in progress yet, so there is no loading notice to remove
		p.ui.Notify(ctx, interaction.Notice{Message: MsgNoSelection})
		return Result{Err: ErrEmptySelection}
	}

	loadingID := uuid.NewString()
	p.ui.Notify(ctx, interaction.Notice{ID: loadingID, Message: MsgAdding, Success: true, Persistent: true})
	finish := func(r Result, n *interaction.Notice) Result {
		p.ui.RemoveNotify(ctx, loadingID)
		if n != nil {
			p.ui.Notify(ctx, *n)
		}
		return r
	}

	if p.pool.Empty() {
		return finish(Result{Word: word, Err: ErrMissingCredential},
			&interaction.Notice{Message: MsgMissingKey})
	}

	var result Result
	if sel.Custom {
		answer, err := p.ui.PromptForMeaning(ctx, word)
		switch {
		case err != nil:
			p.log.WithField("word", word).WithError(err).Debug("Meaning prompt dismissed")
			return finish(Result{Word: word, Err: ErrCancelled}, nil)
		case answer.Auto:
			result = p.AddWord(ctx, answer.Word)
		case answer.Meaning == "":
			return finish(Result{Word: answer.Word, Err: ErrNoMeaning},
				&interaction.Notice{Message: MsgNoMeaning})
		default:
			result = p.AddWordWithMeaning(ctx, answer.Word, answer.Meaning)
		}
	} else {
		result = p.AddWord(ctx, word)
	}

	notice := outcomeNotice(result)
	return finish(result, &notice)
}

func outcomeNotice(r Result) interaction.Notice {
	if r.Success {
		return interaction.Notice{Message: fmt.Sprintf(MsgAdded, r.Word, r.Translation), Success: true}
	}

	var connectErr *anki.ConnectError
	switch {
	case errors.As(r.Err, &connectErr):
		return interaction.Notice{Message: MsgConnectError + connectErr.Message}
	case errors.Is(r.Err, ErrMissingCredential):
		return interaction.Notice{Message: MsgMissingKey}
	case r.Err != nil && !errors.Is(r.Err, context.Canceled):
		cause := r.Err
		if inner := errors.Unwrap(cause); inner != nil {
			cause = inner
		}
		return interaction.Notice{Message: MsgConnectError + cause.Error()}
	default:
		return interaction.Notice{Message: MsgFailed}
	}
}
