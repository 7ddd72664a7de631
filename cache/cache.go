// Package cache serves a fixed set of application assets from memory
// when the network fails.
package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
)

// size bounds the number of cached assets.
const size = 50

type entry struct {
	status int
	header http.Header
	body   []byte
}

// Transport wraps a RoundTripper with a serve-stale cache for a fixed
// list of asset URLs. Page content is never cached: GETs for URLs
// outside the list pass straight through to the network.
type Transport struct {
	base   http.RoundTripper
	assets map[string]bool
	lru    *lru.Cache[string, *entry]
}

// NewTransport creates a caching transport over base for the given
// asset URLs. A nil base uses http.DefaultTransport.
func NewTransport(base http.RoundTripper, assets []string) (*Transport, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	c, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, fmt.Errorf("creating asset cache: %w", err)
	}

	m := make(map[string]bool, len(assets))
	for _, a := range assets {
		if a != "" {
			m[a] = true
		}
	}
	return &Transport{base: base, assets: m, lru: c}, nil
}

// RoundTrip fetches from the network first. A 2xx response refreshes
// the cached copy; a network failure is answered from cache when a
// copy exists. Non-2xx responses pass through uncached.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	key := req.URL.String()
	if req.Method != http.MethodGet || !t.assets[key] {
		return t.base.RoundTrip(req)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		if e, ok := t.lru.Get(key); ok {
			return e.response(req), nil
		}
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		if e, ok := t.lru.Get(key); ok {
			return e.response(req), nil
		}
		return nil, err
	}

	t.lru.Add(key, &entry{
		status: resp.StatusCode,
		header: resp.Header.Clone(),
		body:   body,
	})
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}

// Cached reports whether a copy of the asset is currently held.
func (t *Transport) Cached(url string) bool {
	return t.lru.Contains(url)
}

func (e *entry) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.status, http.StatusText(e.status)),
		StatusCode:    e.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.body)),
		ContentLength: int64(len(e.body)),
		Request:       req,
	}
}
