// Package browser coordinates page retrieval, history and the current
// document.
//
// Loads run on a background goroutine and come back through Results;
// everything else must be called from the owning loop. One load may be
// in flight at a time: requests made while busy are dropped, not
// queued, which is what a slow connection needs.
package browser

import (
	"fmt"

	"go.uber.org/zap"

	"padbrowse/fetcher"
	"padbrowse/history"
	"padbrowse/html"
	"padbrowse/omnibox"
	"padbrowse/store"
)

const historyDepth = 50

const lastLocationKey = "last_url"

// Result carries one finished load back to the owning loop.
type Result struct {
	Doc *html.Document
	URL string // final URL after redirects
	Err error
}

// Options configures a Browser.
type Options struct {
	Resolver *omnibox.Resolver
	Store    store.Store
	Log      *zap.Logger
}

// Browser holds the current page and its history.
type Browser struct {
	resolver *omnibox.Resolver
	store    store.Store
	log      *zap.Logger

	hist     *history.Stack[string]
	results  chan Result
	location string
	doc      *html.Document
	busy     bool
}

// New creates a browser with no page loaded.
func New(o Options) *Browser {
	if o.Resolver == nil {
		o.Resolver = omnibox.NewResolver()
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	return &Browser{
		resolver: o.Resolver,
		store:    o.Store,
		log:      o.Log,
		hist:     history.New[string](historyDepth),
		results:  make(chan Result, 1),
	}
}

// Results delivers finished loads. Pass each one to Apply.
func (b *Browser) Results() <-chan Result {
	return b.results
}

// Load starts fetching target. Returns false when a load is already in
// flight or the target is empty; the request is dropped.
func (b *Browser) Load(target string) bool {
	return b.start(target, true)
}

// Back pops the previous location and loads it without recording a new
// history entry.
func (b *Browser) Back() bool {
	if b.busy {
		return false
	}
	prev, ok := b.hist.Pop()
	if !ok {
		return false
	}
	return b.start(prev, false)
}

// Reload refetches the current location.
func (b *Browser) Reload() bool {
	return b.start(b.location, false)
}

func (b *Browser) start(target string, push bool) bool {
	if b.busy || target == "" {
		return false
	}
	b.busy = true

	// The entry is recorded at request time. A failed load keeps it,
	// so Back still walks to the page the user came from.
	if push && b.location != "" && b.location != target {
		b.hist.Push(b.location)
	}

	b.log.Debug("load started", zap.String("url", target))
	go func() {
		b.results <- b.load(target)
	}()
	return true
}

func (b *Browser) load(target string) Result {
	target = b.resolver.UnwrapRedirector(target)

	res, err := fetcher.Fetch(target)
	if err != nil {
		return Result{URL: target, Err: err}
	}

	if !res.HTML {
		return Result{Doc: html.PlainDocument(res.Body, res.FinalURL), URL: res.FinalURL}
	}

	doc, err := html.Parse(res.Body, res.FinalURL)
	if err != nil {
		return Result{URL: res.FinalURL, Err: fmt.Errorf("%w: no usable content: %v", fetcher.ErrLoad, err)}
	}
	return Result{Doc: doc, URL: res.FinalURL}
}

// Apply installs a finished load. On failure the current page and
// location stay as they were and the error is returned for display.
func (b *Browser) Apply(res Result) error {
	b.busy = false

	if res.Err != nil {
		b.log.Warn("load failed", zap.String("url", res.URL), zap.Error(res.Err))
		return res.Err
	}

	b.doc = res.Doc
	b.location = res.URL
	b.log.Info("loaded", zap.String("url", res.URL), zap.String("title", res.Doc.Title))

	if b.store != nil {
		if err := b.store.Set(lastLocationKey, res.URL); err != nil {
			b.log.Warn("could not record location", zap.Error(err))
		}
	}
	return nil
}

// ShowLocal displays a locally built document. The location and history
// are untouched, so error and welcome pages never enter either.
func (b *Browser) ShowLocal(doc *html.Document) {
	b.doc = doc
}

// LastLocation returns the page recorded by the previous session.
func (b *Browser) LastLocation() string {
	if b.store == nil {
		return ""
	}
	return b.store.Get(lastLocationKey, "")
}

func (b *Browser) Document() *html.Document { return b.doc }
func (b *Browser) Location() string         { return b.location }
func (b *Browser) Busy() bool               { return b.busy }
func (b *Browser) HistoryLen() int          { return b.hist.Len() }
