package capture

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// banner opens every rendered entry. The trailing space is part of the
// format consumed by downstream test assertions; do not trim it.
const banner = "----- REQUEST "

// Header is one name/value pair as it will be rendered in a log entry.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Entry is one captured POST request.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Headers    []Header  `json:"headers"`
	Body       string    `json:"body"`
}

// FromRequest builds an Entry from a request and its already-read body.
// The body is decoded leniently: byte sequences that are not valid UTF-8
// are replaced with U+FFFD, so building an entry never fails.
//
// net/http canonicalizes header names into a map and discards wire order,
// so headers are rendered Host first, then the rest in sorted canonical
// order with values in received order. Deterministic output matters more
// here than the original arrival order.
func FromRequest(r *http.Request, body []byte) *Entry {
	e := &Entry{
		ID:         uuid.New(),
		ReceivedAt: time.Now().UTC(),
		Method:     r.Method,
		Path:       r.URL.RequestURI(),
		Body:       DecodeBody(body),
	}
	if r.Host != "" {
		e.Headers = append(e.Headers, Header{Name: "Host", Value: r.Host})
	}
	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range r.Header[name] {
			e.Headers = append(e.Headers, Header{Name: name, Value: value})
		}
	}
	return e
}

// DecodeBody converts raw body bytes to text, substituting U+FFFD for
// invalid UTF-8 sequences. Never fails.
func DecodeBody(body []byte) string {
	return strings.ToValidUTF8(string(body), "�")
}

// Render produces the textual log block for this entry. Every line is
// newline-terminated, including the body line; consecutive entries in the
// log file are distinguished only by the next banner.
func (e *Entry) Render() string {
	var b strings.Builder
	b.WriteString(banner)
	b.WriteByte('\n')
	b.WriteString("Path: ")
	b.WriteString(e.Path)
	b.WriteByte('\n')
	b.WriteString("Headers:\n")
	for _, h := range e.Headers {
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteByte('\n')
	}
	b.WriteString("Body:\n")
	b.WriteString(e.Body)
	b.WriteByte('\n')
	return b.String()
}
