// Package location keeps the address (path and query) in step with the
// search state, so searches can be shared as links and revisited through
// back/forward navigation.
package location

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/f3rmion/sentences/internal/sentences"
)

const (
	RootPath   = "/"
	SearchPath = "/search"
	QueryParam = "q"
)

// Route is what an address represents.
type Route int

const (
	RouteHome Route = iota
	RouteSearch
	RouteInvalid
)

// Location is the address bar capability: read the current address, write a
// new one with or without a history entry.
type Location interface {
	Current() *url.URL
	Push(u *url.URL)
	Replace(u *url.URL)
}

// Resolve maps an address to its route and, for searches, the term.
// A search address without a usable term resolves to RouteSearch with an
// empty term.
func Resolve(u *url.URL) (Route, string) {
	if u == nil {
		return RouteHome, ""
	}
	switch u.Path {
	case "", RootPath:
		return RouteHome, ""
	case SearchPath:
		term, _ := sentences.NormalizeTerm(u.Query().Get(QueryParam))
		return RouteSearch, term
	default:
		return RouteInvalid, ""
	}
}

// SearchURL returns the address of a search for term.
func SearchURL(term string) *url.URL {
	return &url.URL{
		Path:     SearchPath,
		RawQuery: url.Values{QueryParam: {term}}.Encode(),
	}
}

// RootURL returns the home address.
func RootURL() *url.URL {
	return &url.URL{Path: RootPath}
}

// ParseLink accepts a full URL ("https://host/search?q=x") or a bare path
// ("/search?q=x") and returns only its path and query.
func ParseLink(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RootURL(), nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing link %q: %w", raw, err)
	}
	path := u.Path
	if path == "" {
		path = RootPath
	}
	return &url.URL{Path: path, RawQuery: u.RawQuery}, nil
}

// History is an in-memory Location with back/forward navigation.
type History struct {
	entries []*url.URL
	index   int
}

// NewHistory creates a history whose only entry is start.
func NewHistory(start *url.URL) *History {
	if start == nil {
		start = RootURL()
	}
	return &History{entries: []*url.URL{clone(start)}}
}

// Current returns the active entry.
func (h *History) Current() *url.URL {
	return clone(h.entries[h.index])
}

// Push adds a new entry after the active one, dropping any forward entries.
func (h *History) Push(u *url.URL) {
	h.entries = append(h.entries[:h.index+1], clone(u))
	h.index++
}

// Replace overwrites the active entry.
func (h *History) Replace(u *url.URL) {
	h.entries[h.index] = clone(u)
}

// Back moves to the previous entry.
func (h *History) Back() (*url.URL, bool) {
	if h.index == 0 {
		return nil, false
	}
	h.index--
	return h.Current(), true
}

// Forward moves to the next entry.
func (h *History) Forward() (*url.URL, bool) {
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	h.index++
	return h.Current(), true
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

func clone(u *url.URL) *url.URL {
	c := *u
	return &c
}
