package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
)

// AnkiNote is a note received by AnkiServer.
type AnkiNote struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// AnkiModel is a note type created on AnkiServer.
type AnkiModel struct {
	ModelName     string              `json:"modelName"`
	InOrderFields []string            `json:"inOrderFields"`
	CSS           string              `json:"css"`
	CardTemplates []map[string]string `json:"cardTemplates"`
}

// AnkiServer emulates the AnkiConnect add-on.
type AnkiServer struct {
	*httptest.Server

	mu      sync.Mutex
	decks   []string
	models  []AnkiModel
	notes   []AnkiNote
	media   map[string][]byte
	actions []string
	fail    map[string]string
}

// NewAnkiServer starts a fake AnkiConnect endpoint that is closed when the
// test ends. It knows the "Default" deck and the "Basic" note type.
func NewAnkiServer(t *testing.T) *AnkiServer {
	t.Helper()

	s := &AnkiServer{
		decks:  []string{"Default"},
		models: []AnkiModel{{ModelName: "Basic"}},
		media:  map[string][]byte{},
		fail:   map[string]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Fail makes every future call of action answer with message.
func (s *AnkiServer) Fail(action, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[action] = message
}

// Actions returns the actions received so far, in order.
func (s *AnkiServer) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.actions)
}

// Count returns how often action was received.
func (s *AnkiServer) Count(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.actions {
		if a == action {
			n++
		}
	}
	return n
}

// Decks returns the current deck names.
func (s *AnkiServer) Decks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.decks)
}

// Models returns the note types created so far.
func (s *AnkiServer) Models() []AnkiModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.models)
}

// Notes returns the notes added so far.
func (s *AnkiServer) Notes() []AnkiNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notes)
}

// Media returns the stored media file.
func (s *AnkiServer) Media(filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.media[filename]
	return data, ok
}

func (s *AnkiServer) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  string          `json:"action"`
		Version int             `json:"version"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, req.Action)

	if msg, ok := s.fail[req.Action]; ok {
		reply(w, nil, msg)
		return
	}
	if req.Version != 6 {
		reply(w, nil, "unsupported version")
		return
	}

	switch req.Action {
	case "version":
		reply(w, 6, "")
	case "deckNames":
		reply(w, s.decks, "")
	case "createDeck":
		var p struct {
			Deck string `json:"deck"`
		}
		_ = json.Unmarshal(req.Params, &p)
		if !slices.Contains(s.decks, p.Deck) {
			s.decks = append(s.decks, p.Deck)
		}
		reply(w, len(s.decks), "")
	case "modelNames":
		names := make([]string, 0, len(s.models))
		for _, m := range s.models {
			names = append(names, m.ModelName)
		}
		reply(w, names, "")
	case "createModel":
		var m AnkiModel
		_ = json.Unmarshal(req.Params, &m)
		for _, existing := range s.models {
			if existing.ModelName == m.ModelName {
				reply(w, nil, "Model name already exists")
				return
			}
		}
		s.models = append(s.models, m)
		reply(w, map[string]any{"name": m.ModelName}, "")
	case "addNote":
		var p struct {
			Note AnkiNote `json:"note"`
		}
		_ = json.Unmarshal(req.Params, &p)
		s.addNote(w, p.Note)
	case "storeMediaFile":
		var p struct {
			Filename string `json:"filename"`
			Data     []byte `json:"data"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			reply(w, nil, err.Error())
			return
		}
		s.media[p.Filename] = p.Data
		reply(w, p.Filename, "")
	default:
		reply(w, nil, "unsupported action")
	}
}

func (s *AnkiServer) addNote(w http.ResponseWriter, note AnkiNote) {
	if !slices.Contains(s.decks, note.DeckName) {
		reply(w, nil, "deck was not found: "+note.DeckName)
		return
	}

	var model *AnkiModel
	for i := range s.models {
		if s.models[i].ModelName == note.ModelName {
			model = &s.models[i]
		}
	}
	if model == nil {
		reply(w, nil, "model was not found: "+note.ModelName)
		return
	}

	if len(model.InOrderFields) > 0 {
		first := model.InOrderFields[0]
		for _, n := range s.notes {
			if n.ModelName == note.ModelName && n.Fields[first] == note.Fields[first] {
				reply(w, nil, "cannot create note because it is a duplicate")
				return
			}
		}
	}

	s.notes = append(s.notes, note)
	reply(w, int64(1_700_000_000_000+len(s.notes)), "")
}

func reply(w http.ResponseWriter, result any, errMsg string) {
	resp := map[string]any{"result": result, "error": nil}
	if errMsg != "" {
		resp["error"] = errMsg
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
