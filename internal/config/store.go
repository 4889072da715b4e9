package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Store reads and writes Settings through a viper instance.
//
// Reads see the merged view of file, environment and flags. Writes only
// touch the config file: they start from its current contents, so values
// that came from the environment, a flag or a default are never written.
type Store struct {
	mu sync.Mutex
	v  *viper.Viper
}

// NewStore creates a store backed by v, which should already be configured.
func NewStore(v *viper.Viper) *Store {
	return &Store{v: v}
}

// Load returns the current settings.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings Settings
	if err := s.v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return settings, nil
}

// LoadFile returns the settings stored in the config file, with defaults
// for everything the file leaves out. Environment and flags are ignored.
func (s *Store) LoadFile() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fv := viper.New()
	SetDefaults(fv)
	if path := s.v.ConfigFileUsed(); path != "" {
		if err := readFile(fv, path); err != nil {
			return Settings{}, err
		}
	}

	var settings Settings
	if err := fv.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return settings, nil
}

// Save validates settings and writes them to the config file in use, or to
// DefaultPath if none was read.
func (s *Store) Save(settings Settings) (Settings, error) {
	settings, err := Validate(settings)
	if err != nil {
		return settings, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.v.ConfigFileUsed()
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return settings, fmt.Errorf("error getting home directory: %w", err)
		}
	}

	values := map[string]any{
		"gemini.api_key_pool": settings.Gemini.APIKeyPool,
		"gemini.model":        settings.Gemini.Model,
		"anki.deck_name":      settings.Anki.DeckName,
	}
	if settings.Translation.Provider != "" {
		values["translation.provider"] = settings.Translation.Provider
	}
	if settings.Translation.Mode != "" {
		values["translation.mode"] = settings.Translation.Mode
	}

	err = s.writeFile(path, func(fv *viper.Viper) {
		// the pool replaces the single key of older configs
		if fv.IsSet("gemini.api_key") {
			fv.Set("gemini.api_key", "")
		}
		for key, value := range values {
			fv.Set(key, value)
		}
	})
	if err != nil {
		return settings, err
	}

	for key, value := range values {
		s.v.Set(key, value)
	}
	return settings, nil
}

// SaveKeyCursor remembers the key rotation position. Nothing is written when
// no config file is in use.
func (s *Store) SaveKeyCursor(cursor uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set("gemini.key_cursor", cursor)

	path := s.v.ConfigFileUsed()
	if path == "" {
		return nil
	}
	return s.writeFile(path, func(fv *viper.Viper) {
		fv.Set("gemini.key_cursor", cursor)
	})
}

// writeFile applies set to a viper instance holding only the contents of
// path and writes it back.
func (s *Store) writeFile(path string, set func(fv *viper.Viper)) error {
	fv := viper.New()
	if err := readFile(fv, path); err != nil {
		return err
	}
	set(fv)
	if err := fv.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readFile reads path into fv. A missing file leaves fv empty.
func readFile(fv *viper.Viper, path string) error {
	fv.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		fv.SetConfigType("yaml")
	}
	if err := fv.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}
