package anki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteID(t *testing.T) {
	tests := []struct {
		word, translation, want string
	}{
		{"running", "chạy", "running::chạy"},
		{"look up", "tra cứu", "look up::tra cứu"},
		{"bank", "ngân hàng", "bank::ngân hàng"},
		{"bank", "bờ sông", "bank::bờ sông"},
	}

	for _, tt := range tests {
		if got := NoteID(tt.word, tt.translation); got != tt.want {
			t.Errorf("NoteID(%q, %q) = %q, want %q", tt.word, tt.translation, got, tt.want)
		}
	}
}

func TestFieldsMapCoversTemplate(t *testing.T) {
	m := NewFields("apple", "quả táo").Map()
	tmpl := VocabTemplate()

	assert.Len(t, m, len(tmpl.Fields))
	for _, name := range tmpl.Fields {
		assert.Contains(t, m, name)
	}
	assert.Equal(t, "apple::quả táo", m[FieldID])
	assert.Equal(t, "apple", m[FieldEnglishWord])
	assert.Equal(t, "quả táo", m[FieldVietnameseTranslation])
}

func TestTemplateIDFirst(t *testing.T) {
	tmpl := VocabTemplate()
	assert.Equal(t, FieldID, tmpl.Fields[0])
	assert.Equal(t, VocabTemplateName, tmpl.Name)
	assert.Contains(t, tmpl.Cards[0].Back, "{{EnglishWord}}")
}

func TestNoteTagsAreCopied(t *testing.T) {
	note := NewFields("apple", "quả táo").Note("Deck", VocabTemplate())
	note.Tags[0] = "changed"
	assert.Equal(t, "vocabulary", DefaultTags[0])
}
