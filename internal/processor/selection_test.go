package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/ankivn/internal/interaction"
)

func TestHandleSelectionAutomatic(t *testing.T) {
	h := newHarness(t, []string{"k"}, gbRecording)

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: " Running "})
	require.True(t, result.Success)
	assert.Equal(t, "running", result.Word)

	notices := h.ui.Notices()
	require.Len(t, notices, 2)
	loading := notices[0]
	assert.Equal(t, MsgAdding, loading.Message)
	assert.True(t, loading.Persistent)
	assert.NotEmpty(t, loading.ID)

	assert.Equal(t, interaction.Notice{Message: "Đã thêm vào Anki: running (chạy)", Success: true}, notices[1])

	events := h.ui.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "remove:"+loading.ID, events[1])
	assert.Empty(t, h.ui.Prompts())
}

func TestHandleSelectionMissingKey(t *testing.T) {
	h := newHarness(t, nil, gbRecording)

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "running"})
	assert.ErrorIs(t, result.Err, ErrMissingCredential)

	final, ok := h.ui.Terminal()
	require.True(t, ok)
	assert.Equal(t, MsgMissingKey, final.Message)
	assert.False(t, final.Success)
	assert.Len(t, h.ui.Removed(), 1)

	assert.Empty(t, h.anki.Actions())
	assert.Zero(t, h.audio.Requests())
	assert.Zero(t, h.gen.Calls())
}

func TestHandleSelectionCustomMeaning(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	h.pipeline.WithUI(interaction.NewRecorder(interaction.Answer{Meaning: "ngân hàng"}))
	ui := h.pipeline.ui.(*interaction.Recorder)

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "Bank", Custom: true})
	require.True(t, result.Success)
	assert.Equal(t, "bank::ngân hàng", result.Fields.ID)

	assert.Equal(t, []string{"bank"}, ui.Prompts())
	final, _ := ui.Terminal()
	assert.Equal(t, "Đã thêm vào Anki: bank (ngân hàng)", final.Message)

	// No translation request, only the enrichment.
	assert.Equal(t, 1, h.gen.Calls())
}

func TestHandleSelectionCustomCorrectsWord(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	h.pipeline.WithUI(interaction.NewRecorder(interaction.Answer{Word: "run", Meaning: "chạy"}))

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "running", Custom: true})
	require.True(t, result.Success)
	assert.Equal(t, "run", result.Word)
	assert.Equal(t, "run::chạy", result.Fields.ID)
}

func TestHandleSelectionCustomAuto(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	h.pipeline.WithUI(interaction.NewRecorder(interaction.Answer{Auto: true}))

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "running", Custom: true})
	require.True(t, result.Success)
	assert.Equal(t, "chạy", result.Translation)
	assert.Equal(t, 2, h.gen.Calls())
}

func TestHandleSelectionCancelIsSilent(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	ui := interaction.NewCancellingRecorder()
	h.pipeline.WithUI(ui)

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "running", Custom: true})
	assert.ErrorIs(t, result.Err, ErrCancelled)

	_, ok := ui.Terminal()
	assert.False(t, ok, "cancel must not show an outcome notice")
	assert.Len(t, ui.Removed(), 1)
	assert.Empty(t, h.anki.Actions())
}

func TestHandleSelectionEmptyMeaning(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	ui := interaction.NewRecorder(interaction.Answer{})
	h.pipeline.WithUI(ui)

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "running", Custom: true})
	assert.ErrorIs(t, result.Err, ErrNoMeaning)

	final, ok := ui.Terminal()
	require.True(t, ok)
	assert.Equal(t, MsgNoMeaning, final.Message)
	assert.Empty(t, h.anki.Actions())
}

func TestHandleSelectionSubmitFailure(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	h.anki.Fail("addNote", "cannot create note because it is a duplicate")

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "running"})
	assert.False(t, result.Success)
	assert.Equal(t, "chạy", result.Translation)

	notices := h.ui.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, MsgConnectError+"cannot create note because it is a duplicate", notices[1].Message)
	assert.False(t, notices[1].Success)
}

func TestHandleSelectionEmpty(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)

	result := h.pipeline.HandleSelection(context.Background(), Selection{Text: "   "})
	assert.ErrorIs(t, result.Err, ErrEmptySelection)
	assert.Equal(t, []string{"notify:" + MsgNoSelection}, h.ui.Events())
	assert.False(t, h.ui.Notices()[0].Success)
	assert.Empty(t, h.anki.Actions())
}
