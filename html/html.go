// Package html sanitizes fetched markup into a simplified content tree.
//
// The pipeline never executes anything from the page: scripts, styles,
// embedded media and form machinery are removed wholesale, inline event
// handlers are scrubbed, and every hyperlink is resolved to an absolute
// target or stripped.
package html

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	xhtml "golang.org/x/net/html"

	"padbrowse/omnibox"
)

// Node represents a content node in the document.
type Node struct {
	Type     NodeType
	Text     string
	Children []*Node
	Href     string // resolved absolute target; empty when stripped
	HintTop  int    // data-top layout hint, -1 when absent
	HintLeft int    // data-left layout hint, -1 when absent
}

// NodeType identifies the kind of content node.
type NodeType int

const (
	NodeDocument NodeType = iota
	NodeText
	NodeParagraph
	NodeHeading1
	NodeHeading2
	NodeHeading3
	NodeLink
	NodeList
	NodeListItem
	NodeQuote
	NodePre
	NodeTable
	NodeRow
	NodeCell
)

// Document is the sanitized result of parsing one page.
type Document struct {
	Title   string
	Origin  string  // URL hyperlinks were resolved against
	Content *Node   // NodeDocument root of the extracted fragment
	Links   []*Node // every NodeLink in document order
}

// Options configures the sanitizer.
type Options struct {
	Resolver *omnibox.Resolver
}

// Package-level options (set via Configure)
var opts = Options{Resolver: omnibox.NewResolver()}

// Configure sets the package-level options.
func Configure(o Options) {
	if o.Resolver != nil {
		opts.Resolver = o.Resolver
	}
}

// rootSelectors pick the extraction root, tried in priority order. The
// document body is the fallback when none match.
var rootSelectors = []cascadia.Selector{
	cascadia.MustCompile("article"),
	cascadia.MustCompile("main"),
	cascadia.MustCompile("[role='main']"),
	cascadia.MustCompile("#content, #main, .content, .main, .post, .article"),
	cascadia.MustCompile("#links"),
}

// removeSelector matches everything a text-only browser cannot use:
// active content, chrome, media, forms, and ad containers.
var removeSelector = cascadia.MustCompile(strings.Join([]string{
	"script", "style", "iframe", "noscript",
	"nav", "footer",
	"img", "picture", "video", "audio", "canvas", "object", "embed",
	"form", "input", "button", "select", "textarea", "label",
	".ad", ".ads", ".advert", ".advertisement", "[class*='advert']",
}, ", "))

var linkSelector = cascadia.MustCompile("a")

// Parse sanitizes markup fetched from origin and converts it into a
// content tree. The resulting nodes are detached copies: no reference
// back into the raw page survives.
func Parse(markup, origin string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}

	root := extractionRoot(gq)
	root.FindMatcher(removeSelector).Remove()
	scrubAttributes(root)
	rewriteLinks(root, origin)

	doc := &Document{
		Title:   documentTitle(gq, origin),
		Origin:  origin,
		Content: &Node{Type: NodeDocument},
	}
	for _, n := range root.Nodes {
		convertBlocks(n, doc.Content, doc)
	}
	return doc, nil
}

// PlainDocument wraps a non-HTML text body in a single preformatted
// block so the rest of the pipeline can treat it like any page.
func PlainDocument(text, origin string) *Document {
	doc := &Document{
		Title:   hostTitle(origin),
		Origin:  origin,
		Content: &Node{Type: NodeDocument},
	}
	doc.Content.Children = append(doc.Content.Children,
		&Node{Type: NodePre, Text: strings.Trim(text, "\n")})
	return doc
}

func extractionRoot(gq *goquery.Document) *goquery.Selection {
	for _, sel := range rootSelectors {
		if m := gq.FindMatcher(sel).First(); m.Length() > 0 {
			return m
		}
	}
	return gq.Find("body").First()
}

// scrubAttributes drops inline event handlers and style attributes from
// the root and everything under it.
func scrubAttributes(root *goquery.Selection) {
	nodes := append([]*xhtml.Node{}, root.Nodes...)
	nodes = append(nodes, root.Find("*").Nodes...)

	for _, n := range nodes {
		var kept []xhtml.Attribute
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") || key == "style" {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
}

// rewriteLinks resolves every href against the page origin. Targets the
// resolver rejects lose their href but stay in the tree, so the element
// still renders as link text. Tab-targeting is removed and referrer
// suppression applied across the board.
func rewriteLinks(root *goquery.Selection, origin string) {
	root.FindMatcher(linkSelector).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			if abs, ok := opts.Resolver.ResolveHyperlink(href, origin); ok {
				a.SetAttr("href", abs)
			} else {
				a.RemoveAttr("href")
			}
		}
		a.RemoveAttr("target")
		a.SetAttr("rel", "noreferrer")
	})
}

func documentTitle(gq *goquery.Document, origin string) string {
	if title := strings.Join(strings.Fields(gq.Find("title").First().Text()), " "); title != "" {
		return title
	}
	return hostTitle(origin)
}

func hostTitle(origin string) string {
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		return u.Host
	}
	return origin
}

// convertBlocks walks element children, mapping block elements onto
// nodes. Loose inline content (bare text, links outside paragraphs, as
// search result pages often have) accumulates into implicit paragraphs.
func convertBlocks(n *xhtml.Node, parent *Node, doc *Document) {
	var para *Node

	flush := func() {
		if para != nil && len(para.Children) > 0 {
			parent.Children = append(parent.Children, para)
		}
		para = nil
	}
	inline := func() *Node {
		if para == nil {
			para = &Node{Type: NodeParagraph}
		}
		return para
	}
	appendBlock := func(b *Node) {
		flush()
		if len(b.Children) > 0 || b.Text != "" {
			parent.Children = append(parent.Children, b)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.TextNode:
			t := collapse(c.Data)
			if t == "" || (t == " " && para == nil) {
				continue
			}
			inline().Children = append(inline().Children, &Node{Type: NodeText, Text: t})

		case xhtml.ElementNode:
			switch c.Data {
			case "h1":
				appendBlock(convertHeading(c, NodeHeading1, doc))
			case "h2":
				appendBlock(convertHeading(c, NodeHeading2, doc))
			case "h3", "h4", "h5", "h6":
				appendBlock(convertHeading(c, NodeHeading3, doc))

			case "p":
				b := &Node{Type: NodeParagraph}
				convertInline(c, b, doc)
				appendBlock(b)

			case "blockquote":
				b := &Node{Type: NodeQuote}
				convertBlocks(c, b, doc)
				appendBlock(b)

			case "ul", "ol":
				appendBlock(convertList(c, doc))

			case "pre":
				appendBlock(&Node{Type: NodePre, Text: preText(c)})

			case "table":
				appendBlock(convertTable(c, doc))

			case "a":
				inline().Children = append(inline().Children, convertLink(c, doc))

			case "span", "strong", "b", "em", "i", "u", "code", "small",
				"sub", "sup", "abbr", "time", "cite", "mark", "q", "s":
				convertInline(c, inline(), doc)

			case "br":
				if para != nil {
					para.Children = append(para.Children, &Node{Type: NodeText, Text: " "})
				}

			case "hr":
				flush()

			default:
				// containers (div, section, aside, ...) unwrap; each
				// gets its own implicit-paragraph scope
				flush()
				convertBlocks(c, parent, doc)
			}
		}
	}
	flush()
}

// convertInline collects text runs and links; other inline markup
// unwraps into its contents.
func convertInline(n *xhtml.Node, parent *Node, doc *Document) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.TextNode:
			if t := collapse(c.Data); t != "" {
				parent.Children = append(parent.Children, &Node{Type: NodeText, Text: t})
			}

		case xhtml.ElementNode:
			switch c.Data {
			case "a":
				parent.Children = append(parent.Children, convertLink(c, doc))
			case "br":
				parent.Children = append(parent.Children, &Node{Type: NodeText, Text: " "})
			default:
				convertInline(c, parent, doc)
			}
		}
	}
}

func convertLink(a *xhtml.Node, doc *Document) *Node {
	link := &Node{
		Type:     NodeLink,
		Href:     attrVal(a, "href"),
		HintTop:  attrInt(a, "data-top"),
		HintLeft: attrInt(a, "data-left"),
	}
	convertInline(a, link, doc)
	doc.Links = append(doc.Links, link)
	return link
}

func convertHeading(n *xhtml.Node, t NodeType, doc *Document) *Node {
	h := &Node{Type: t}
	convertInline(n, h, doc)
	return h
}

func convertList(n *xhtml.Node, doc *Document) *Node {
	list := &Node{Type: NodeList}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && c.Data == "li" {
			item := &Node{Type: NodeListItem}
			convertInline(c, item, doc)
			if len(item.Children) > 0 {
				list.Children = append(list.Children, item)
			}
		}
	}
	return list
}

func convertTable(tbl *xhtml.Node, doc *Document) *Node {
	t := &Node{Type: NodeTable}
	var rows func(*xhtml.Node)
	rows = func(n *xhtml.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xhtml.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				row := &Node{Type: NodeRow}
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == xhtml.ElementNode && (cell.Data == "td" || cell.Data == "th") {
						cl := &Node{Type: NodeCell}
						convertInline(cell, cl, doc)
						row.Children = append(row.Children, cl)
					}
				}
				if len(row.Children) > 0 {
					t.Children = append(t.Children, row)
				}
			case "thead", "tbody", "tfoot":
				rows(c)
			}
		}
	}
	rows(tbl)
	return t
}

// collapse squeezes whitespace runs to single spaces, keeping a single
// leading/trailing space so word boundaries between nodes survive.
func collapse(s string) string {
	if s == "" {
		return ""
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpaceByte(s[0]) {
		out = " " + out
	}
	if isSpaceByte(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func preText(n *xhtml.Node) string {
	var sb strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Trim(sb.String(), "\n")
}

func attrVal(n *xhtml.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func attrInt(n *xhtml.Node, key string) int {
	v := strings.TrimSpace(attrVal(n, key))
	if v == "" {
		return -1
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return i
}

// PlainText returns the plain text content of a node and its children.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.appendPlainText(&sb)
	return strings.TrimSpace(sb.String())
}

func (n *Node) appendPlainText(sb *strings.Builder) {
	if n.Text != "" {
		sb.WriteString(n.Text)
	}
	for _, child := range n.Children {
		child.appendPlainText(sb)
	}
}
