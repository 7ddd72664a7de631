// Package fetcher retrieves pages over plain HTTP and decodes them to UTF-8.
package fetcher

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// ErrLoad reports a failed retrieval: transport errors, timeouts, and
// non-2xx responses all classify under it.
var ErrLoad = errors.New("fetcher: load failed")

// ErrUnsupportedContent reports a response the browser cannot display,
// such as an image or a binary download.
var ErrUnsupportedContent = errors.New("fetcher: unsupported content type")

// Result contains the fetched page and metadata.
type Result struct {
	Body      string // response payload decoded to UTF-8
	FinalURL  string // URL after following redirects
	HTML      bool   // false for plain-text responses
	FetchTime time.Duration
}

// Options configures the fetcher behavior.
type Options struct {
	UserAgent      string
	TimeoutSeconds int
	Transport      http.RoundTripper // nil uses http.DefaultTransport
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0 (Mobile; rv:109.0) Gecko/109.0 Firefox/115.0 padbrowse/1.0",
		TimeoutSeconds: 15,
	}
}

// Package-level options (set via Configure)
var opts = DefaultOptions()

// Configure sets the package-level options.
func Configure(o Options) {
	if o.UserAgent != "" {
		opts.UserAgent = o.UserAgent
	}
	if o.TimeoutSeconds > 0 {
		opts.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.Transport != nil {
		opts.Transport = o.Transport
	}
}

// UserAgent returns the currently configured user agent string.
func UserAgent() string {
	return opts.UserAgent
}

// Timeout returns the currently configured timeout duration.
func Timeout() time.Duration {
	return time.Duration(opts.TimeoutSeconds) * time.Second
}

// Fetch retrieves a URL with a plain GET, following redirects. Responses
// that are neither HTML nor text fail with ErrUnsupportedContent before
// the payload is read; every other failure classifies as ErrLoad.
func Fetch(url string) (*Result, error) {
	start := time.Now()

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrLoad, err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	client := &http.Client{
		Timeout:   Timeout(),
		Transport: opts.Transport,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrLoad, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrLoad, url, resp.StatusCode)
	}

	isHTML, err := classifyContent(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrLoad, err)
	}

	return &Result{
		Body:      decodeBody(body, resp.Header.Get("Content-Type")),
		FinalURL:  resp.Request.URL.String(),
		HTML:      isHTML,
		FetchTime: time.Since(start),
	}, nil
}

// classifyContent gates on the response media type. A missing or
// unparseable header is treated as HTML, matching permissive servers.
func classifyContent(contentType string) (isHTML bool, err error) {
	if contentType == "" {
		return true, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true, nil
	}

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return true, nil
	case strings.HasPrefix(mediaType, "text/"):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnsupportedContent, mediaType)
	}
}

// decodeBody converts the payload to UTF-8. A charset declared in the
// Content-Type header wins; otherwise valid UTF-8 passes through and
// anything else is sniffed.
func decodeBody(body []byte, contentType string) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if cs := params["charset"]; cs != "" {
			if out, ok := convertCharset(body, cs); ok {
				return out
			}
		}
	}

	if utf8.Valid(body) {
		return string(body)
	}

	if det, err := chardet.NewTextDetector().DetectBest(body); err == nil {
		if out, ok := convertCharset(body, det.Charset); ok {
			return out
		}
	}
	return string(body)
}

func convertCharset(body []byte, label string) (string, bool) {
	r, err := charset.NewReaderLabel(strings.ToLower(label), bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return "", false
	}
	return string(out), true
}
