package processor

import (
	"context"
	"fmt"

	"codeberg.org/snonux/ankivn/internal/audio"
	"codeberg.org/snonux/ankivn/internal/batch"
)

// BatchSummary counts the outcome of a batch run.
type BatchSummary struct {
	Total    int
	Added    int
	Failed   int
	Failures map[string]error
}

// ProcessBatch adds every word listed in path. Lines are "word" or
// "word = nghĩa". A failing word is counted and the run continues.
func (p *Pipeline) ProcessBatch(ctx context.Context, path string) (BatchSummary, error) {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return BatchSummary{}, err
	}

	// Validate words
	for _, entry := range entries {
		if err := audio.ValidateWord(entry.Word); err != nil {
			return BatchSummary{}, fmt.Errorf("invalid word '%s': %w", entry.Word, err)
		}
	}

	if p.pool.Empty() {
		return BatchSummary{}, ErrMissingCredential
	}

	summary := BatchSummary{Total: len(entries), Failures: map[string]error{}}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Word)

		var result Result
		if entry.Meaning != "" {
			fmt.Fprintf(p.out, "  Using provided meaning: %s\n", entry.Meaning)
			result = p.AddWordWithMeaning(ctx, entry.Word, entry.Meaning)
		} else {
			result = p.AddWord(ctx, entry.Word)
		}

		if !result.Success {
			fmt.Fprintf(p.out, "  ✗ Error adding '%s': %v\n", entry.Word, result.Err)
			summary.Failed++
			summary.Failures[entry.Word] = result.Err
			continue
		}

		fmt.Fprintf(p.out, "  ✓ Added: %s (%s)\n", result.Word, result.Translation)
		summary.Added++
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total words: %d\n", summary.Total)
	fmt.Fprintf(p.out, "Added: %d\n", summary.Added)
	if summary.Failed > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", summary.Failed)
	}
	fmt.Fprintf(p.out, "================================\n")

	p.log.WithField("added", summary.Added).WithField("failed", summary.Failed).Info("Batch finished")
	return summary, nil
}
