package anki

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// EnsureDeck creates the deck unless it already exists.
func (c *Client) EnsureDeck(ctx context.Context, name string) error {
	names, err := c.DeckNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list decks: %w", err)
	}
	if lo.Contains(names, name) {
		return nil
	}

	if _, err := c.CreateDeck(ctx, name); err != nil {
		return fmt.Errorf("failed to create deck %q: %w", name, err)
	}
	c.log.WithField("deck", name).Info("Created deck")
	return nil
}

// EnsureTemplate creates the note type unless one with the same name exists.
// Existing note types are never modified.
func (c *Client) EnsureTemplate(ctx context.Context, t Template) error {
	names, err := c.ModelNames(ctx)
	if err != nil {
		return fmt.Errorf("failed to list note types: %w", err)
	}
	if lo.Contains(names, t.Name) {
		return nil
	}

	if err := c.CreateModel(ctx, t); err != nil {
		return fmt.Errorf("failed to create note type %q: %w", t.Name, err)
	}
	c.log.WithField("model", t.Name).Info("Created note type")
	return nil
}

// SubmitNote adds note to the collection.
func (c *Client) SubmitNote(ctx context.Context, note Note) (int64, error) {
	return c.AddNote(ctx, note)
}

// StoreMedia stores an audio or image file for use by notes.
func (c *Client) StoreMedia(ctx context.Context, filename string, data []byte) error {
	return c.StoreMediaFile(ctx, filename, data)
}
