package browser

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"padbrowse/fetcher"
	"padbrowse/html"
	"padbrowse/omnibox"
	"padbrowse/store"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Page A</title></head><body><article><p>alpha <a href="/b">to b</a></p></article></body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Page B</title></head><body><article><p>beta</p></article></body></html>`)
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "just text\nsecond line")
	})
	mux.HandleFunc("/image", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func awaitResult(t *testing.T, b *Browser) Result {
	t.Helper()
	select {
	case res := <-b.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no load result arrived")
		return Result{}
	}
}

func loadAndApply(t *testing.T, b *Browser, target string) {
	t.Helper()
	require.True(t, b.Load(target), "load should start")
	require.NoError(t, b.Apply(awaitResult(t, b)))
}

func TestLoadAndApply(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	loadAndApply(t, b, srv.URL+"/a")

	require.Equal(t, srv.URL+"/a", b.Location())
	require.Equal(t, "Page A", b.Document().Title)
	require.Len(t, b.Document().Links, 1)
	require.False(t, b.Busy())
}

func TestBusyDropsSecondRequest(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	require.True(t, b.Load(srv.URL+"/a"))
	require.True(t, b.Busy())
	require.False(t, b.Load(srv.URL+"/b"), "second request must be dropped while busy")
	require.False(t, b.Reload())
	require.False(t, b.Back())

	require.NoError(t, b.Apply(awaitResult(t, b)))
	require.False(t, b.Busy())
}

func TestHistoryPushAndBack(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	loadAndApply(t, b, srv.URL+"/a")
	loadAndApply(t, b, srv.URL+"/b")
	require.Equal(t, 1, b.HistoryLen())

	require.True(t, b.Back())
	require.NoError(t, b.Apply(awaitResult(t, b)))
	require.Equal(t, srv.URL+"/a", b.Location())
	require.Equal(t, 0, b.HistoryLen())

	require.False(t, b.Back(), "no further history to walk")
}

func TestReloadDoesNotPush(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	loadAndApply(t, b, srv.URL+"/a")
	require.True(t, b.Reload())
	require.NoError(t, b.Apply(awaitResult(t, b)))
	require.Equal(t, 0, b.HistoryLen())
}

func TestSameTargetNotPushed(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	loadAndApply(t, b, srv.URL+"/a")
	loadAndApply(t, b, srv.URL+"/a")
	require.Equal(t, 0, b.HistoryLen(), "reloading the same address is not a history step")
}

func TestFailedLoadKeepsPageAndHistory(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	loadAndApply(t, b, srv.URL+"/a")

	require.True(t, b.Load(srv.URL+"/broken"))
	err := b.Apply(awaitResult(t, b))
	require.ErrorIs(t, err, fetcher.ErrLoad)

	require.Equal(t, srv.URL+"/a", b.Location(), "failed load must not change the location")
	require.Equal(t, "Page A", b.Document().Title)
	require.Equal(t, 1, b.HistoryLen(), "the entry pushed at request time stays")

	require.True(t, b.Back())
	require.NoError(t, b.Apply(awaitResult(t, b)))
	require.Equal(t, srv.URL+"/a", b.Location())
}

func TestPlainTextBecomesPreformatted(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	loadAndApply(t, b, srv.URL+"/plain")

	doc := b.Document()
	require.Len(t, doc.Content.Children, 1)
	require.Equal(t, html.NodePre, doc.Content.Children[0].Type)
	require.Equal(t, "just text\nsecond line", doc.Content.Children[0].Text)
}

func TestUnsupportedContentSurfaces(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	require.True(t, b.Load(srv.URL+"/image"))
	err := b.Apply(awaitResult(t, b))
	require.ErrorIs(t, err, fetcher.ErrUnsupportedContent)
	require.Nil(t, b.Document())
}

func TestRedirectorUnwrappedBeforeFetch(t *testing.T) {
	srv := testServer(t)

	resolver := omnibox.NewResolver()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	resolver.AddRule(omnibox.Rule{Host: u.Hostname(), PathPrefix: "/l/", Param: "dest"})

	b := New(Options{Resolver: resolver})
	wrapped := srv.URL + "/l/?dest=" + url.QueryEscape(srv.URL+"/b")
	loadAndApply(t, b, wrapped)

	require.Equal(t, srv.URL+"/b", b.Location(), "tracking hop should be stripped before fetching")
	require.Equal(t, "Page B", b.Document().Title)
}

func TestLastLocationPersisted(t *testing.T) {
	srv := testServer(t)
	kv := store.Open(t.TempDir())
	b := New(Options{Store: kv})

	loadAndApply(t, b, srv.URL+"/a")
	require.Equal(t, srv.URL+"/a", b.LastLocation())

	fresh := New(Options{Store: kv})
	require.Equal(t, srv.URL+"/a", fresh.LastLocation())
}

func TestShowLocalKeepsLocation(t *testing.T) {
	srv := testServer(t)
	b := New(Options{})

	loadAndApply(t, b, srv.URL+"/a")

	local, err := html.Parse(`<article><h1>Notice</h1></article>`, "")
	require.NoError(t, err)
	b.ShowLocal(local)

	require.Equal(t, "Notice", b.Document().Content.Children[0].PlainText())
	require.Equal(t, srv.URL+"/a", b.Location())
	require.Equal(t, 0, b.HistoryLen())
}
