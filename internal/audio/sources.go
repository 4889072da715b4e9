package audio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	browserUserAgent = "Mozilla/5.0"
	htmlAccept       = "text/html"
)

// LookupKind tags the outcome of the dictionary page lookup.
type LookupKind int

const (
	// NotFound means the page loaded but carried no usable recording.
	NotFound LookupKind = iota
	// Found means URL holds a recording link.
	Found
	// TransportError means the page could not be fetched; Err says why.
	TransportError
)

func (k LookupKind) String() string {
	switch k {
	case Found:
		return "found"
	case TransportError:
		return "transport error"
	default:
		return "not found"
	}
}

// Lookup is the result of scraping the dictionary page.
type Lookup struct {
	Kind LookupKind
	URL  string
	Err  error
}

// LookupDictionary fetches the dictionary page for word and returns the first
// mp3 source it links to.
func (r *Resolver) LookupDictionary(ctx context.Context, word string) Lookup {
	origin, err := url.Parse(r.config.DictionaryURL)
	if err != nil {
		return Lookup{Kind: TransportError, Err: fmt.Errorf("invalid dictionary URL: %w", err)}
	}
	pageURL := origin.JoinPath("vi", "dictionary", "english", word)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Lookup{Kind: TransportError, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", htmlAccept)

	resp, err := r.client.Do(req)
	if err != nil {
		return Lookup{Kind: TransportError, Err: fmt.Errorf("dictionary request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Lookup{Kind: NotFound}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Lookup{Kind: TransportError, Err: fmt.Errorf("failed to parse dictionary page: %w", err)}
	}

	link, ok := firstMP3Source(doc, origin)
	if !ok {
		return Lookup{Kind: NotFound}
	}
	return Lookup{Kind: Found, URL: link}
}

func firstMP3Source(doc *goquery.Document, origin *url.URL) (string, bool) {
	var link string
	doc.Find("source").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		kind, _ := s.Attr("type")
		if !strings.HasSuffix(src, ".mp3") || !strings.EqualFold(kind, "audio/mpeg") {
			return true
		}
		ref, err := url.Parse(src)
		if err != nil {
			return true
		}
		link = origin.ResolveReference(ref).String()
		return false
	})
	return link, link != ""
}

// FallbackURLs lists the static recordings tried after the dictionary page,
// US pronunciations first.
func (r *Resolver) FallbackURLs(word string) []string {
	w := url.PathEscape(word)
	gstatic := strings.TrimRight(r.config.GStaticURL, "/") + "/dictionary/static/sounds"
	return []string{
		fmt.Sprintf("%s/20200429/%s--_us_1.mp3", gstatic, w),
		fmt.Sprintf("%s/20200429/%s--_gb_1.mp3", gstatic, w),
		fmt.Sprintf("%s/20220808/%s--_us_1.mp3", gstatic, w),
		fmt.Sprintf("%s/20220808/%s--_us_1_rr.mp3", gstatic, w),
		fmt.Sprintf("%s/20220808/%s--_us_2.mp3", gstatic, w),
		fmt.Sprintf("%s/1.0/us/%s.mp3", strings.TrimRight(r.config.VocabURL, "/"), url.PathEscape(capitalize(word))),
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
