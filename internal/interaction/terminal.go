package interaction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// AutoSentinel typed at the meaning prompt requests the automatic translation.
const AutoSentinel = "!"

// Terminal implements UI on a line based terminal. A single goroutine
// reads input, started by the first prompt; a line typed after a prompt was
// cancelled answers the next prompt.
type Terminal struct {
	mu    sync.Mutex
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan inputLine
}

type inputLine struct {
	text string
	err  error
}

// NewTerminal creates a terminal UI reading answers from in.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, lines: make(chan inputLine)}
}

func (t *Terminal) readLines() {
	for {
		text, err := t.in.ReadString('\n')
		t.lines <- inputLine{text, err}
		if err != nil {
			close(t.lines)
			return
		}
	}
}

// Notify prints the notice. Persistent notices are shown as progress.
func (t *Terminal) Notify(_ context.Context, n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case n.Persistent:
		fmt.Fprintf(t.out, "  %s\n", n.Message)
	case n.Success:
		fmt.Fprintf(t.out, "✓ %s\n", n.Message)
	default:
		fmt.Fprintf(t.out, "✗ %s\n", n.Message)
	}
}

// RemoveNotify is a no-op, printed lines stay on the terminal.
func (t *Terminal) RemoveNotify(context.Context, string) {}

// PromptForMeaning reads one line. A plain line is the meaning; "word =
// meaning" corrects the word as well; "!" asks for the automatic
// translation. End of input cancels, an empty line submits no meaning.
func (t *Terminal) PromptForMeaning(ctx context.Context, word string) (Answer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "Nghĩa tiếng Việt cho %q (%s = tự động): ", word, AutoSentinel)

	t.once.Do(func() { go t.readLines() })

	var text string
	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return Answer{}, ErrCancelled
	case l, ok := <-t.lines:
		if !ok || (l.err == io.EOF && strings.TrimSpace(l.text) == "") {
			return Answer{}, ErrCancelled
		}
		if l.err != nil && l.err != io.EOF {
			return Answer{}, l.err
		}
		text = l.text
	}

	return ParseAnswer(word, text), nil
}

// ParseAnswer interprets a typed reply to the meaning prompt for word.
func ParseAnswer(word, line string) Answer {
	line = strings.TrimSpace(line)
	if line == AutoSentinel {
		return Answer{Word: word, Auto: true}
	}

	if left, right, ok := strings.Cut(line, "="); ok {
		if left = strings.TrimSpace(left); left != "" {
			word = left
		}
		line = strings.TrimSpace(right)
	}
	return Answer{Word: word, Meaning: line}
}
