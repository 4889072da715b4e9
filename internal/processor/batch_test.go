package processor

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/ankivn/internal/anki"
	"codeberg.org/snonux/ankivn/internal/testutil"
)

func writeWordList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, path, []byte(content))
	return path
}

func TestProcessBatch(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	var out bytes.Buffer
	h.pipeline.WithOutput(&out)

	path := writeWordList(t, "running\napple = quả táo\n\nrunning\n")
	summary, err := h.pipeline.ProcessBatch(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Failures, "running")

	notes := h.anki.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, "apple::quả táo", notes[1].Fields["Id"])

	output := out.String()
	assert.Contains(t, output, "Processing 2/3: apple")
	assert.Contains(t, output, "Using provided meaning: quả táo")
	assert.Contains(t, output, "=== Batch Processing Summary ===")
	assert.Contains(t, output, "Errors: 1")
}

func TestProcessBatchNormalizesWords(t *testing.T) {
	h := newHarness(t, []string{"k"}, gbRecording)

	path := writeWordList(t, "Running\nBANK = bờ sông\n")
	summary, err := h.pipeline.ProcessBatch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Added)

	notes := h.anki.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, "running::chạy", notes[0].Fields[anki.FieldID])
	assert.Equal(t, "running", notes[0].Fields[anki.FieldEnglishWord])
	assert.Equal(t, "vocab_running_c071cf5f.mp3", notes[0].Fields[anki.FieldAudioFile])
	assert.Equal(t, "bank::bờ sông", notes[1].Fields[anki.FieldID])
}

func TestProcessBatchInvalidWord(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)

	_, err := h.pipeline.ProcessBatch(context.Background(), writeWordList(t, "apple\n12345\n"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "12345"))
	assert.Empty(t, h.anki.Actions())
}

func TestProcessBatchMissingCredential(t *testing.T) {
	h := newHarness(t, nil, nil)

	_, err := h.pipeline.ProcessBatch(context.Background(), writeWordList(t, "apple\n"))
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Zero(t, h.gen.Calls())
}

func TestProcessBatchCancelled(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := h.pipeline.ProcessBatch(ctx, writeWordList(t, "apple\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Added)
}

func TestProcessBatchMissingFile(t *testing.T) {
	h := newHarness(t, []string{"k"}, nil)
	_, err := h.pipeline.ProcessBatch(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
