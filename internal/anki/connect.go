package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// DefaultConnectURL is where the AnkiConnect add-on listens.
const DefaultConnectURL = "http://127.0.0.1:8765"

const connectVersion = 6

// ConnectError carries the error string AnkiConnect returned for an action.
type ConnectError struct {
	Action  string
	Message string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("AnkiConnect %s: %s", e.Action, e.Message)
}

type connectRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type connectResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Client talks to AnkiConnect. Calls go through a circuit breaker so a batch
// run stops hammering the port once Anki turns out to be closed.
type Client struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        logrus.FieldLogger
}

// NewClient creates a client for the AnkiConnect endpoint at url. An empty
// url selects DefaultConnectURL.
func NewClient(url string, log logrus.FieldLogger) *Client {
	if url == "" {
		url = DefaultConnectURL
	}

	settings := gobreaker.Settings{
		Name:        "ankiconnect",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// Anki answering with an error is a healthy connection.
		IsSuccessful: func(err error) bool {
			var connectErr *ConnectError
			return err == nil || errors.As(err, &connectErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithField("breaker", name).Warnf("AnkiConnect circuit %s -> %s", from, to)
		},
	}

	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		log:        log,
	}
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Invoke runs action with params and decodes the result into result, which
// may be nil.
func (c *Client) Invoke(ctx context.Context, action string, params, result any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.invoke(ctx, action, params, result)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("AnkiConnect unavailable, is Anki running? %w", err)
	}
	return err
}

func (c *Client) invoke(ctx context.Context, action string, params, result any) error {
	body, err := json.Marshal(connectRequest{Action: action, Version: connectVersion, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("AnkiConnect %s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", action, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AnkiConnect %s returned status %d", action, resp.StatusCode)
	}

	var decoded connectResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	if decoded.Error != nil {
		return &ConnectError{Action: action, Message: *decoded.Error}
	}

	c.log.WithField("action", action).Debugf("AnkiConnect result: %s", decoded.Result)

	if result == nil || len(decoded.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(decoded.Result, result); err != nil {
		return fmt.Errorf("unexpected %s result: %w", action, err)
	}
	return nil
}

// Version returns the AnkiConnect protocol version.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	err := c.Invoke(ctx, "version", nil, &v)
	return v, err
}

// DeckNames lists all decks.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.Invoke(ctx, "deckNames", nil, &names)
	return names, err
}

// CreateDeck creates a deck and returns its id.
func (c *Client) CreateDeck(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.Invoke(ctx, "createDeck", map[string]any{"deck": name}, &id)
	return id, err
}

// ModelNames lists all note types.
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.Invoke(ctx, "modelNames", nil, &names)
	return names, err
}

// CreateModel creates the note type described by t.
func (c *Client) CreateModel(ctx context.Context, t Template) error {
	params := map[string]any{
		"modelName":     t.Name,
		"inOrderFields": t.Fields,
		"css":           t.CSS,
		"cardTemplates": t.Cards,
	}
	return c.Invoke(ctx, "createModel", params, nil)
}

// AddNote adds note and returns the new note id.
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	var id int64
	err := c.Invoke(ctx, "addNote", map[string]any{"note": note}, &id)
	return id, err
}

// StoreMediaFile writes data into the collection's media folder, replacing
// any file of the same name.
func (c *Client) StoreMediaFile(ctx context.Context, filename string, data []byte) error {
	params := map[string]any{
		"filename": filename,
		"data":     data, // encoding/json base64 encodes byte slices
	}
	return c.Invoke(ctx, "storeMediaFile", params, nil)
}
