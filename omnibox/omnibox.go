// Package omnibox turns address-bar input and page hyperlinks into
// loadable absolute URLs.
package omnibox

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// ErrInvalidURL reports address-bar input that is neither a search query
// nor a well-formed absolute URL.
var ErrInvalidURL = errors.New("omnibox: invalid url")

// allowedSchemes is the shared scheme allow-list applied to hyperlink
// resolution and redirector targets.
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"ftp":    true,
}

// AllowedScheme reports whether links with the given scheme may be
// followed.
func AllowedScheme(scheme string) bool {
	return allowedSchemes[scheme]
}

// Rule describes one tracking-redirector pattern: a wrapper host whose
// links carry the real target in a query parameter.
type Rule struct {
	Host       string // bare host, matched against the host or any subdomain
	PathPrefix string // wrapper path prefix, e.g. "/l/"
	Param      string // query parameter holding the embedded target
}

// DefaultRules returns the built-in redirector patterns.
func DefaultRules() []Rule {
	return []Rule{
		{Host: "duckduckgo.com", PathPrefix: "/l/", Param: "uddg"},
		{Host: "google.com", PathPrefix: "/url", Param: "q"},
	}
}

// Resolver handles address-bar input and hyperlink resolution.
type Resolver struct {
	searchURL string // search URL format with %s for the query
	rules     []Rule
}

// NewResolver creates a resolver with the default search engine and
// redirector rules.
func NewResolver() *Resolver {
	return &Resolver{
		searchURL: "https://html.duckduckgo.com/html/?q=%s",
		rules:     DefaultRules(),
	}
}

// SetSearchURL sets the search URL format used for query input.
func (r *Resolver) SetSearchURL(urlFmt string) {
	if urlFmt != "" {
		r.searchURL = urlFmt
	}
}

// AddRule adds a custom redirector rule. Rules are tried in order and
// the first match wins.
func (r *Resolver) AddRule(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Normalize converts raw address-bar input into a loadable URL. Input
// without a dot, or containing whitespace, becomes a search query URL.
// Anything else must parse as an absolute URL once the default scheme
// has been prepended, or ErrInvalidURL is returned. An explicit scheme
// outside the allow-list is rejected rather than fetched.
func (r *Resolver) Normalize(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidURL
	}

	if !strings.Contains(input, ".") || strings.ContainsFunc(input, unicode.IsSpace) {
		return strings.Replace(r.searchURL, "%s", url.QueryEscape(input), 1), nil
	}

	target := input
	switch scheme := schemePrefix(input); {
	case scheme == "":
		target = "https://" + target
	case !allowedSchemes[scheme]:
		return "", ErrInvalidURL
	}

	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() {
		return "", ErrInvalidURL
	}
	if u.Scheme != "mailto" && u.Host == "" {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

// schemePrefix returns the explicit scheme at the start of input, or
// "" when the input starts with a host. A letters-only token before the
// first colon is a scheme; a token with dots or digits is a host.
func schemePrefix(input string) string {
	i := strings.IndexByte(input, ':')
	if i <= 0 {
		return ""
	}
	for _, r := range input[:i] {
		if !unicode.IsLetter(r) {
			return ""
		}
	}
	return strings.ToLower(input[:i])
}

// UnwrapRedirector replaces a search-engine tracking wrapper with the
// target URL it embeds. URLs that match no rule, or where any step of
// the extraction fails, are returned unchanged.
func (r *Resolver) UnwrapRedirector(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	for _, rule := range r.rules {
		if host != rule.Host && !strings.HasSuffix(host, "."+rule.Host) {
			continue
		}
		if !strings.HasPrefix(u.Path, rule.PathPrefix) {
			continue
		}

		target := u.Query().Get(rule.Param)
		if target == "" {
			return raw
		}
		t, err := url.Parse(target)
		if err != nil || !t.IsAbs() || !AllowedScheme(t.Scheme) {
			return raw
		}
		return target
	}
	return raw
}

// ResolveHyperlink resolves a page hyperlink against the page's own URL
// and reports whether the result may be followed. Relative references
// are made absolute; targets outside the scheme allow-list are rejected.
func (r *Resolver) ResolveHyperlink(href, base string) (string, bool) {
	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	u, err := b.Parse(href)
	if err != nil {
		return "", false
	}
	if !AllowedScheme(u.Scheme) {
		return "", false
	}
	return u.String(), true
}
