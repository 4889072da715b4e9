package processor

import (
	"context"
	"strings"
)

// Normalizer reduces a selection to the word a card is made for. Failing
// normalizers return their input.
type Normalizer interface {
	Normalize(ctx context.Context, selection string) string
}

// LowercaseNormalizer trims and lower-cases single words. Phrases are only
// trimmed.
type LowercaseNormalizer struct{}

func (LowercaseNormalizer) Normalize(_ context.Context, selection string) string {
	selection = strings.TrimSpace(selection)
	if len(strings.Fields(selection)) > 1 {
		return selection
	}
	return strings.ToLower(selection)
}
