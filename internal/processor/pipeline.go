package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"codeberg.org/snonux/ankivn/internal/anki"
	"codeberg.org/snonux/ankivn/internal/audio"
	"codeberg.org/snonux/ankivn/internal/cloze"
	"codeberg.org/snonux/ankivn/internal/interaction"
	"codeberg.org/snonux/ankivn/internal/keypool"
	"codeberg.org/snonux/ankivn/internal/translation"
)

var (
	// ErrMissingCredential means no API key is configured. It is detected
	// before any request is made.
	ErrMissingCredential = errors.New("no API key configured")

	// ErrCancelled means the user dismissed the meaning prompt.
	ErrCancelled = errors.New("cancelled by user")

	// ErrNoMeaning means the meaning prompt was confirmed empty.
	ErrNoMeaning = errors.New("no meaning entered")

	// ErrEmptySelection means there was no text to make a card for.
	ErrEmptySelection = errors.New("empty selection")
)

// Gateway stores decks, note types, media and notes. anki.Client and
// anki.PackageWriter implement it.
type Gateway interface {
	EnsureDeck(ctx context.Context, name string) error
	EnsureTemplate(ctx context.Context, t anki.Template) error
	StoreMedia(ctx context.Context, filename string, data []byte) error
	SubmitNote(ctx context.Context, note anki.Note) (int64, error)
}

// Translator looks up the Vietnamese meaning and card details of a word.
// Failures are reported as empty fields, never as errors.
type Translator interface {
	Lookup(ctx context.Context, word string) translation.Result
	Enrich(ctx context.Context, word, translation string) translation.Result
}

// AudioResolver finds a pronunciation recording for a word.
type AudioResolver interface {
	Resolve(ctx context.Context, word string) (*audio.Asset, error)
}

// CursorStore persists the key rotation position between runs.
type CursorStore interface {
	SaveKeyCursor(cursor uint64) error
}

// Result is the outcome of adding one word. Translation is filled in even
// when the note could not be submitted.
type Result struct {
	Success     bool
	Word        string
	Translation string
	Fields      anki.Fields
	NoteID      int64
	Err         error
}

// Pipeline creates vocabulary notes.
type Pipeline struct {
	gateway    Gateway
	translator Translator
	audio      AudioResolver
	pool       *keypool.Pool
	ui         interaction.UI
	normalizer Normalizer
	cursor     CursorStore
	deck       string
	template   anki.Template
	out        io.Writer
	log        logrus.FieldLogger
}

// New creates a pipeline adding notes to deck. pool is the key pool used by
// translator; it is only checked for being empty. A nil resolver adds notes
// without audio.
func New(gateway Gateway, translator Translator, resolver AudioResolver, pool *keypool.Pool, deck string, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		gateway:    gateway,
		translator: translator,
		audio:      resolver,
		pool:       pool,
		ui:         interaction.NewTerminal(os.Stdin, os.Stdout),
		normalizer: LowercaseNormalizer{},
		deck:       deck,
		template:   anki.VocabTemplate(),
		out:        os.Stdout,
		log:        log,
	}
}

// WithUI sets where notices and prompts go.
func (p *Pipeline) WithUI(ui interaction.UI) *Pipeline {
	p.ui = ui
	return p
}

// Session returns a copy of p that talks to ui. Sessions share everything
// else, including the key pool, and may run concurrently.
func (p *Pipeline) Session(ui interaction.UI) *Pipeline {
	session := *p
	session.ui = ui
	return &session
}

// WithNormalizer replaces the selection normalizer.
func (p *Pipeline) WithNormalizer(n Normalizer) *Pipeline {
	p.normalizer = n
	return p
}

// WithCursorStore saves the key rotation position after every word.
func (p *Pipeline) WithCursorStore(store CursorStore) *Pipeline {
	p.cursor = store
	return p
}

// WithOutput sets where batch progress is printed.
func (p *Pipeline) WithOutput(w io.Writer) *Pipeline {
	p.out = w
	return p
}

// Deck returns the deck notes are added to.
func (p *Pipeline) Deck() string {
	return p.deck
}

// AddWord adds word with its automatic translation. Every entry point
// normalizes the word, so the note Id and audio lookups do not depend on
// how the word was typed.
func (p *Pipeline) AddWord(ctx context.Context, word string) Result {
	return p.add(ctx, word, "")
}

// AddWordWithMeaning adds word with the given Vietnamese meaning. Only the
// card details are requested from the model.
func (p *Pipeline) AddWordWithMeaning(ctx context.Context, word, meaning string) Result {
	meaning = strings.TrimSpace(meaning)
	if meaning == "" {
		return Result{Word: p.normalizer.Normalize(ctx, word), Err: ErrNoMeaning}
	}
	return p.add(ctx, word, meaning)
}

func (p *Pipeline) add(ctx context.Context, word, meaning string) Result {
	word = p.normalizer.Normalize(ctx, word)
	result := Result{Word: word}
	if word == "" {
		result.Err = ErrEmptySelection
		return result
	}
	if p.pool.Empty() {
		result.Err = ErrMissingCredential
		return result
	}
	defer p.saveCursor()

	log := p.log.WithField("word", word)

	// Provisioning is best effort; a missing deck or note type shows up as
	// a submit error.
	if err := p.gateway.EnsureDeck(ctx, p.deck); err != nil {
		log.WithError(err).Warn("Could not ensure deck")
	}
	if err := p.gateway.EnsureTemplate(ctx, p.template); err != nil {
		log.WithError(err).Warn("Could not ensure note type")
	}

	var info translation.Result
	var audioFile string

	var wg conc.WaitGroup
	wg.Go(func() {
		if meaning != "" {
			info = p.translator.Enrich(ctx, word, meaning)
		} else {
			info = p.translator.Lookup(ctx, word)
		}
	})
	wg.Go(func() {
		audioFile = p.storeAudio(ctx, word)
	})
	wg.Wait()

	log = log.WithField("translation", info.Translation)
	if info.Translation == "" {
		log.Warn("No translation available")
	}

	fields := anki.NewFields(word, info.Translation)
	fields.EnglishCloze = cloze.Mask(word)
	fields.VietnameseCloze = cloze.Mask(info.Translation)
	fields.IPA = info.IPA
	fields.WordType = info.WordType
	fields.ExampleSentence = info.Example
	fields.ExampleSentenceVN = info.ExampleVN
	fields.AudioFile = audioFile
	fields.Syllables = info.Syllables

	result.Translation = info.Translation
	result.Fields = fields

	id, err := p.gateway.SubmitNote(ctx, fields.Note(p.deck, p.template))
	if err != nil {
		log.WithError(err).Error("Failed to add note")
		result.Err = fmt.Errorf("failed to add note: %w", err)
		return result
	}

	log.WithField("note", id).Info("Added note")
	result.NoteID = id
	result.Success = true
	return result
}

// storeAudio returns the media filename of the stored recording, or an
// empty string when there is none.
func (p *Pipeline) storeAudio(ctx context.Context, word string) string {
	if p.audio == nil {
		return ""
	}

	log := p.log.WithField("word", word)
	asset, err := p.audio.Resolve(ctx, word)
	if err != nil {
		log.WithError(err).Warn("No pronunciation audio")
		return ""
	}

	if err := p.gateway.StoreMedia(ctx, asset.Filename, asset.Data); err != nil {
		log.WithError(err).Warn("Failed to store audio")
		return ""
	}
	return asset.Filename
}

func (p *Pipeline) saveCursor() {
	if p.cursor == nil {
		return
	}
	if err := p.cursor.SaveKeyCursor(p.pool.Cursor()); err != nil {
		p.log.WithError(err).Warn("Failed to save key cursor")
	}
}
