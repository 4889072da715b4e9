package translation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError is returned when a model reply does not carry the expected
// JSON object.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode model reply: %s: %v", e.Reason, e.Err)
	}
	return "decode model reply: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// payload is the reply shape shared by all prompts. Prompts that do not ask
// for a field leave it empty.
type payload struct {
	Translation string `json:"translation"`
	Example     string `json:"example"`
	ExampleVN   string `json:"exampleVN"`
	IPA         string `json:"ipa"`
	Type        string `json:"type"`
	Syllables   string `json:"syllables"`
}

// ExtractJSON returns the text between the first '{' and the last '}'.
// Models like to wrap their JSON in prose or code fences.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", &DecodeError{Reason: "no JSON object in reply"}
	}
	return text[start : end+1], nil
}

func decodePayload(text string) (payload, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return payload{}, err
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return payload{}, &DecodeError{Reason: "unexpected shape", Err: err}
	}
	return p, nil
}

func (p payload) result() Result {
	return Result{
		Translation: normalizeTranslation(p.Translation),
		Example:     strings.TrimSpace(p.Example),
		ExampleVN:   strings.TrimSpace(p.ExampleVN),
		IPA:         strings.TrimSpace(p.IPA),
		WordType:    strings.TrimSpace(p.Type),
		Syllables:   strings.TrimSpace(p.Syllables),
	}
}

func normalizeTranslation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
