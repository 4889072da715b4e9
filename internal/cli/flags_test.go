package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"DeckName", flags.DeckName, "English Vocabulary"},
		{"Model", flags.Model, "gemini-2.5-flash"},
		{"Provider", flags.Provider, "gemini"},
		{"Mode", flags.Mode, "split"},
		{"LogFormat", flags.LogFormat, "text"},
		{"ServerAddr", flags.ServerAddr, "127.0.0.1:8766"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Custom", flags.Custom},
		{"ListModels", flags.ListModels},
		{"NoAudio", flags.NoAudio},
		{"Verbose", flags.Verbose},
		{"TTSFallback", flags.TTSFallback},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	for name, value := range map[string]string{
		"CfgFile":   flags.CfgFile,
		"BatchFile": flags.BatchFile,
		"Meaning":   flags.Meaning,
		"APKG":      flags.APKG,
	} {
		if value != "" {
			t.Errorf("%s = %q, want empty", name, value)
		}
	}
}
