// Demo renders a sample page through the full layout pipeline to show
// the keypad chrome without a network.
package main

import (
	"fmt"

	"padbrowse/document"
	"padbrowse/focus"
	"padbrowse/html"
	"padbrowse/input"
	"padbrowse/omnibox"
	"padbrowse/render"
	"padbrowse/theme"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Sample article</title></head>
<body>
<article>
<h1>The Keypad Layout Engine</h1>
<p>This page exists to exercise the renderer. It has a paragraph with a
<a href="/first">link in the middle</a> of running text, a list, a
quote and a table, which covers every block the layout engine knows.</p>

<h2>Lists</h2>
<ul>
<li>Bullets indent and wrap under the text</li>
<li>Another <a href="/second">link to focus</a> further down</li>
</ul>

<blockquote><p>Quoted text renders dimmed behind a gutter.</p></blockquote>

<h2>Tables</h2>
<table>
<tr><th>Key</th><th>Action</th></tr>
<tr><td>Pad</td><td>Move focus</td></tr>
<tr><td>Enter</td><td>Open link</td></tr>
</table>
</article>
</body>
</html>`

func main() {
	html.Configure(html.Options{Resolver: omnibox.NewResolver()})

	doc, err := html.Parse(samplePage, "https://example.com")
	if err != nil {
		fmt.Println("parse error:", err)
		return
	}

	canvas := render.NewCanvas(72, 40)
	canvas.SetBase(theme.Current.BaseStyle())
	renderer := document.NewRenderer(canvas, theme.Size())
	renderer.Render(doc, 0)

	// Focus the first link the pad would reach
	ordered := focus.Order(renderer.Links())
	if len(ordered) > 0 {
		renderer.HighlightLink(ordered[0])
	}

	// Soft-key bar as reading mode shows it
	router := input.NewRouter()
	labels := router.Labels(input.Context{LinkCount: len(ordered)})
	barY := canvas.Height() - 1
	st := theme.Current.Accent.Style()
	st.Reverse = true
	if labels.Left != "" {
		canvas.WriteString(0, barY, " "+labels.Left+" ", st)
	}
	if labels.Right != "" {
		s := " " + labels.Right + " "
		canvas.WriteString(canvas.Width()-render.StringWidth(s), barY, s, st)
	}

	fmt.Print(canvas.Render())
}
