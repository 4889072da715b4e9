package anki

// Note is a single note submitted to a deck.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// DefaultTags are attached to every vocabulary note.
var DefaultTags = []string{"vocabulary", "english", "cloze"}

// Fields is the content of one vocabulary card.
type Fields struct {
	ID                    string
	EnglishWord           string
	EnglishCloze          string
	VietnameseTranslation string
	VietnameseCloze       string
	IPA                   string
	WordType              string
	ExampleSentence       string
	ExampleSentenceVN     string
	AudioFile             string
	Syllables             string
}

// NoteID returns the duplicate key of a word and its meaning.
func NoteID(word, translation string) string {
	return word + "::" + translation
}

// NewFields starts a card for word with the given meaning. The ID is derived
// from both and is never set by callers.
func NewFields(word, translation string) Fields {
	return Fields{
		ID:                    NoteID(word, translation),
		EnglishWord:           word,
		VietnameseTranslation: translation,
	}
}

// Map returns the fields keyed by their note type field names.
func (f Fields) Map() map[string]string {
	return map[string]string{
		FieldID:                    f.ID,
		FieldEnglishWord:           f.EnglishWord,
		FieldEnglishCloze:          f.EnglishCloze,
		FieldVietnameseTranslation: f.VietnameseTranslation,
		FieldVietnameseCloze:       f.VietnameseCloze,
		FieldIPA:                   f.IPA,
		FieldWordType:              f.WordType,
		FieldExampleSentence:       f.ExampleSentence,
		FieldExampleSentenceVN:     f.ExampleSentenceVN,
		FieldAudioFile:             f.AudioFile,
		FieldSyllables:             f.Syllables,
	}
}

// Note wraps the fields into a note for deck using template t.
func (f Fields) Note(deck string, t Template) Note {
	return Note{
		DeckName:  deck,
		ModelName: t.Name,
		Fields:    f.Map(),
		Tags:      append([]string(nil), DefaultTags...),
	}
}
