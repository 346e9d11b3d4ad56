package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNetwork marks failures reported by a loader: transport errors and
// non-2xx responses.
var ErrNetwork = errors.New("network error")

// StatusError reports an upstream response with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Summary    string
}

func (e *StatusError) Error() string {
	if e.Summary == "" {
		return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.URL, e.StatusCode, e.Summary)
}

// Is lets errors.Is(err, ErrNetwork) match status failures.
func (e *StatusError) Is(target error) bool { return target == ErrNetwork }

// transportError wraps a failure that happened before a response arrived.
type transportError struct {
	url string
	err error
}

func newTransportError(u string, err error) error {
	return &transportError{url: u, err: err}
}

func (e *transportError) Error() string   { return fmt.Sprintf("fetch %s: %v", e.url, e.err) }
func (e *transportError) Unwrap() []error { return []error{ErrNetwork, e.err} }

var errNilLocator = errors.New("nil locator")

const maxSummaryLen = 512

// summarizeBody turns an error body into a short human readable string.
// HTML pages are reduced to their title or first heading.
func summarizeBody(contentType string, body []byte) string {
	if looksLikeHTML(contentType, body) {
		if title := htmlTitle(body); title != "" {
			return title
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxSummaryLen {
		return s[:maxSummaryLen] + "..."
	}
	return s
}

func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func htmlTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range []string{"title", "h1"} {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return strings.Join(strings.Fields(text), " ")
		}
	}
	return ""
}
