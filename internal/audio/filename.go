package audio

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Filename returns the media filename used for word. It depends only on the
// word so repeated downloads overwrite the same media entry.
func Filename(word string) string {
	sum := sha256.Sum256([]byte(word))
	return fmt.Sprintf("vocab_%s_%s.mp3", word, hex.EncodeToString(sum[:4]))
}
