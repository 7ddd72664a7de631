package html

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParseStructure(t *testing.T) {
	input := `<!DOCTYPE html>
<html>
<head><title>Test Title</title></head>
<body>
<article>
	<h1>Test Title</h1>
	<p>This is a paragraph with <strong>bold</strong> and <em>italic</em> text.</p>
	<h2>Section</h2>
	<ul>
		<li>Item one</li>
		<li>Item two</li>
	</ul>
	<blockquote><p>A quote</p></blockquote>
</article>
</body>
</html>`

	doc, err := Parse(input, "https://example.com/page")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.Title != "Test Title" {
		t.Errorf("Title = %q, want %q", doc.Title, "Test Title")
	}

	content := doc.Content
	if content.Type != NodeDocument {
		t.Errorf("expected NodeDocument, got %v", content.Type)
	}
	if len(content.Children) != 5 {
		t.Fatalf("expected 5 children, got %d", len(content.Children))
	}

	if content.Children[0].Type != NodeHeading1 {
		t.Errorf("expected NodeHeading1, got %v", content.Children[0].Type)
	}
	if got := content.Children[0].PlainText(); got != "Test Title" {
		t.Errorf("heading text = %q, want %q", got, "Test Title")
	}

	if content.Children[1].Type != NodeParagraph {
		t.Errorf("expected NodeParagraph, got %v", content.Children[1].Type)
	}
	if got := content.Children[1].PlainText(); got != "This is a paragraph with bold and italic text." {
		t.Errorf("paragraph text = %q", got)
	}

	if content.Children[2].Type != NodeHeading2 {
		t.Errorf("expected NodeHeading2, got %v", content.Children[2].Type)
	}

	if content.Children[3].Type != NodeList {
		t.Errorf("expected NodeList, got %v", content.Children[3].Type)
	}
	if len(content.Children[3].Children) != 2 {
		t.Errorf("expected 2 list items, got %d", len(content.Children[3].Children))
	}

	if content.Children[4].Type != NodeQuote {
		t.Errorf("expected NodeQuote, got %v", content.Children[4].Type)
	}
}

func TestRemovesUnusableContent(t *testing.T) {
	input := `<article>
	<p>keep <script>evil()</script>this</p>
	<div class="advert-banner"><p>buy stuff</p></div>
	<form><input name="q"><button>Go</button></form>
	<img src="pic.png">
	<iframe src="https://tracker.example/f"></iframe>
	<noscript>enable scripts</noscript>
	<video src="clip.mp4"></video>
	<p>end</p>
</article>`

	doc, err := Parse(input, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	text := doc.Content.PlainText()
	for _, gone := range []string{"evil", "buy stuff", "Go", "enable scripts"} {
		if strings.Contains(text, gone) {
			t.Errorf("content %q should have been removed, text = %q", gone, text)
		}
	}

	if len(doc.Content.Children) != 2 {
		t.Fatalf("expected 2 children after removal, got %d", len(doc.Content.Children))
	}
	if got := doc.Content.Children[0].PlainText(); got != "keep this" {
		t.Errorf("first paragraph = %q, want %q", got, "keep this")
	}
}

func TestExtractionRootPriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		exclude string
	}{
		{
			name:    "article wins over main",
			input:   `<main><p>main content</p></main><article><p>article content</p></article>`,
			want:    "article content",
			exclude: "main content",
		},
		{
			name:    "main wins over body",
			input:   `<p>body content</p><main><p>main content</p></main>`,
			want:    "main content",
			exclude: "body content",
		},
		{
			name:    "role main",
			input:   `<p>body content</p><div role="main"><p>role content</p></div>`,
			want:    "role content",
			exclude: "body content",
		},
		{
			name:    "content id",
			input:   `<p>body content</p><div id="content"><p>id content</p></div>`,
			want:    "id content",
			exclude: "body content",
		},
		{
			name:    "post class",
			input:   `<p>body content</p><div class="post"><p>post content</p></div>`,
			want:    "post content",
			exclude: "body content",
		},
		{
			name:    "links id",
			input:   `<p>body content</p><div id="links"><a href="/a">portal</a></div>`,
			want:    "portal",
			exclude: "body content",
		},
		{
			name:  "body fallback",
			input: `<p>body content</p>`,
			want:  "body content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input, "https://example.com/")
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			text := doc.Content.PlainText()
			if !strings.Contains(text, tt.want) {
				t.Errorf("content = %q, want substring %q", text, tt.want)
			}
			if tt.exclude != "" && strings.Contains(text, tt.exclude) {
				t.Errorf("content = %q, should not contain %q", text, tt.exclude)
			}
		})
	}
}

func TestLinkResolution(t *testing.T) {
	input := `<article>
	<p><a href="/docs/page">relative</a></p>
	<p><a href="https://other.example/x">absolute</a></p>
	<p><a href="mailto:a@example.com">mail</a></p>
	<p><a href="javascript:alert(1)">scripted</a></p>
	<p><a>anchor</a></p>
</article>`

	doc, err := Parse(input, "https://example.com/docs/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Links) != 5 {
		t.Fatalf("expected 5 links, got %d", len(doc.Links))
	}

	wantHrefs := []string{
		"https://example.com/docs/page",
		"https://other.example/x",
		"mailto:a@example.com",
		"", // scripted target stripped, element kept
		"", // no href to begin with
	}
	for i, want := range wantHrefs {
		if doc.Links[i].Href != want {
			t.Errorf("link %d Href = %q, want %q", i, doc.Links[i].Href, want)
		}
	}

	if got := doc.Links[3].PlainText(); got != "scripted" {
		t.Errorf("stripped link should keep its text, got %q", got)
	}
}

func TestScrubAttributes(t *testing.T) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<body><p onclick="steal()" onmouseover="x()" style="color:red" id="keep" data-top="5">hi</p></body>`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	root := gq.Find("body").First()
	scrubAttributes(root)

	p := gq.Find("p")
	for _, attr := range []string{"onclick", "onmouseover", "style"} {
		if _, ok := p.Attr(attr); ok {
			t.Errorf("attribute %q should have been scrubbed", attr)
		}
	}
	if v, _ := p.Attr("id"); v != "keep" {
		t.Errorf("id = %q, want %q", v, "keep")
	}
	if v, _ := p.Attr("data-top"); v != "5" {
		t.Errorf("data-top = %q, want %q", v, "5")
	}
}

func TestRewriteLinkAttributes(t *testing.T) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<body><a href="/a" target="_blank" rel="opener">x</a></body>`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	root := gq.Find("body").First()
	rewriteLinks(root, "https://example.com/base/")

	a := gq.Find("a").First()
	if href, _ := a.Attr("href"); href != "https://example.com/a" {
		t.Errorf("href = %q, want %q", href, "https://example.com/a")
	}
	if _, ok := a.Attr("target"); ok {
		t.Error("target attribute should have been removed")
	}
	if rel, _ := a.Attr("rel"); rel != "noreferrer" {
		t.Errorf("rel = %q, want %q", rel, "noreferrer")
	}
}

func TestLayoutHints(t *testing.T) {
	input := `<div id="links">
	<a href="/a" data-top="120" data-left="40">hinted</a>
	<a href="/b" data-top="abc">malformed</a>
	<a href="/c">bare</a>
</div>`

	doc, err := Parse(input, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(doc.Links))
	}

	if doc.Links[0].HintTop != 120 || doc.Links[0].HintLeft != 40 {
		t.Errorf("hints = (%d, %d), want (120, 40)", doc.Links[0].HintTop, doc.Links[0].HintLeft)
	}
	if doc.Links[1].HintTop != -1 {
		t.Errorf("malformed hint = %d, want -1", doc.Links[1].HintTop)
	}
	if doc.Links[2].HintTop != -1 || doc.Links[2].HintLeft != -1 {
		t.Errorf("absent hints = (%d, %d), want (-1, -1)", doc.Links[2].HintTop, doc.Links[2].HintLeft)
	}
}

func TestTitleFallsBackToHost(t *testing.T) {
	doc, err := Parse(`<p>no title here</p>`, "https://news.example.org/story/1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Title != "news.example.org" {
		t.Errorf("Title = %q, want %q", doc.Title, "news.example.org")
	}

	doc, err = Parse(`<head><title>  Spaced
	Out  </title></head><p>x</p>`, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Title != "Spaced Out" {
		t.Errorf("Title = %q, want %q", doc.Title, "Spaced Out")
	}
}

func TestWhitespaceCollapse(t *testing.T) {
	input := `<article><p>
		line one
		line two
	</p></article>`

	doc, err := Parse(input, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Content.Children[0].PlainText(); got != "line one line two" {
		t.Errorf("text = %q, want %q", got, "line one line two")
	}
}

func TestImplicitParagraphs(t *testing.T) {
	input := `<body>loose text <a href="/l">link</a> tail
<div><p>real paragraph</p></div>
more text</body>`

	doc, err := Parse(input, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	children := doc.Content.Children
	if len(children) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(children))
	}
	for i, c := range children {
		if c.Type != NodeParagraph {
			t.Errorf("child %d type = %v, want NodeParagraph", i, c.Type)
		}
	}
	if got := children[0].PlainText(); got != "loose text link tail" {
		t.Errorf("implicit paragraph = %q", got)
	}
	if len(doc.Links) != 1 {
		t.Errorf("expected 1 link, got %d", len(doc.Links))
	}
}

func TestPreservesPreformattedText(t *testing.T) {
	input := "<article><pre>func main() {\n\tgreet(\"hi\")\n}</pre></article>"

	doc, err := Parse(input, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Content.Children) != 1 || doc.Content.Children[0].Type != NodePre {
		t.Fatalf("expected a single NodePre, got %+v", doc.Content.Children)
	}
	want := "func main() {\n\tgreet(\"hi\")\n}"
	if got := doc.Content.Children[0].Text; got != want {
		t.Errorf("pre text = %q, want %q", got, want)
	}
}

func TestTableConversion(t *testing.T) {
	input := `<article><table>
	<thead><tr><th>Name</th><th>Site</th></tr></thead>
	<tbody>
		<tr><td>one</td><td><a href="/one">go</a></td></tr>
		<tr><td>two</td><td>plain</td></tr>
	</tbody>
</table></article>`

	doc, err := Parse(input, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(doc.Content.Children) != 1 || doc.Content.Children[0].Type != NodeTable {
		t.Fatalf("expected a single NodeTable, got %+v", doc.Content.Children)
	}

	table := doc.Content.Children[0]
	if len(table.Children) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Children))
	}
	header := table.Children[0]
	if header.Type != NodeRow || len(header.Children) != 2 {
		t.Fatalf("header row malformed: %+v", header)
	}
	if got := header.Children[0].PlainText(); got != "Name" {
		t.Errorf("header cell = %q, want %q", got, "Name")
	}

	if len(doc.Links) != 1 {
		t.Fatalf("expected 1 link from table cell, got %d", len(doc.Links))
	}
	if doc.Links[0].Href != "https://example.com/one" {
		t.Errorf("table link Href = %q", doc.Links[0].Href)
	}
}

func TestPlainDocument(t *testing.T) {
	doc := PlainDocument("line one\nline two\n", "https://example.com/robots.txt")

	if doc.Title != "example.com" {
		t.Errorf("Title = %q, want %q", doc.Title, "example.com")
	}
	if len(doc.Content.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(doc.Content.Children))
	}
	pre := doc.Content.Children[0]
	if pre.Type != NodePre {
		t.Errorf("expected NodePre, got %v", pre.Type)
	}
	if pre.Text != "line one\nline two" {
		t.Errorf("text = %q", pre.Text)
	}
	if len(doc.Links) != 0 {
		t.Errorf("plain document should have no links, got %d", len(doc.Links))
	}
}

func TestPlainText(t *testing.T) {
	input := `<article><p>Hello <strong>world</strong>!</p></article>`
	doc, err := Parse(input, "https://example.com/")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	content := doc.Content
	if len(content.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(content.Children))
	}
	if text := content.Children[0].PlainText(); text != "Hello world!" {
		t.Errorf("PlainText() = %q, expected 'Hello world!'", text)
	}
}
