// Test pages fetches and parses multiple URLs to validate rendering.
package main

import (
	"fmt"
	"os"
	"strings"

	"padbrowse/document"
	"padbrowse/fetcher"
	"padbrowse/focus"
	"padbrowse/html"
	"padbrowse/omnibox"
	"padbrowse/render"
)

var testURLs = []string{
	"https://example.com",
	"https://text.npr.org",
	"https://lite.cnn.com",
	"https://lobste.rs",
	"https://en.wikipedia.org/wiki/Mobile_browser",
	"https://go.dev/doc/effective_go",
}

func main() {
	resolver := omnibox.NewResolver()
	html.Configure(html.Options{Resolver: resolver})

	if len(os.Args) > 1 {
		// Single URL mode
		testURL(resolver, os.Args[1])
		return
	}

	// Test all URLs
	for _, url := range testURLs {
		testURL(resolver, url)
		fmt.Println(strings.Repeat("=", 80))
	}
}

func testURL(resolver *omnibox.Resolver, raw string) {
	fmt.Printf("Testing: %s\n", raw)

	target, err := resolver.Normalize(raw)
	if err != nil {
		fmt.Printf("  ERROR resolving: %v\n", err)
		return
	}
	target = resolver.UnwrapRedirector(target)

	res, err := fetcher.Fetch(target)
	if err != nil {
		fmt.Printf("  ERROR fetching: %v\n", err)
		return
	}

	var doc *html.Document
	if res.HTML {
		doc, err = html.Parse(res.Body, res.FinalURL)
		if err != nil {
			fmt.Printf("  ERROR parsing: %v\n", err)
			return
		}
	} else {
		doc = html.PlainDocument(res.Body, res.FinalURL)
	}

	fmt.Printf("  Title: %s\n", doc.Title)
	fmt.Printf("  Fetch time: %s\n", res.FetchTime)

	// Count content types
	stats := countNodes(doc.Content)
	fmt.Printf("  Content: %d h1, %d h2, %d h3, %d paragraphs, %d lists, %d quotes, %d pre, %d tables\n",
		stats["h1"], stats["h2"], stats["h3"], stats["p"], stats["list"], stats["quote"], stats["pre"], stats["table"])

	// Render at every text size to catch layout panics and wrap bugs
	for size := 1; size <= 5; size++ {
		canvas := render.NewCanvas(80, 600)
		renderer := document.NewRenderer(canvas, size)
		renderer.Render(doc, 0)
		fmt.Printf("  Size %d: %d lines, %d links\n", size, renderer.ContentHeight(), len(renderer.Links()))
	}

	// Show the traversal order the pad would walk
	canvas := render.NewCanvas(80, 600)
	renderer := document.NewRenderer(canvas, 2)
	renderer.Render(doc, 0)
	ordered := focus.Order(renderer.Links())
	fmt.Printf("  Pad order (first 5 of %d):\n", len(ordered))
	for i, link := range ordered {
		if i >= 5 {
			fmt.Printf("    ... and %d more\n", len(ordered)-5)
			break
		}
		href := link.Href
		if len(href) > 50 {
			href = href[:47] + "..."
		}
		fmt.Printf("    [%d,%d] %s\n", link.X, link.Y, href)
	}
}

func countNodes(n *html.Node) map[string]int {
	stats := make(map[string]int)
	countNodesRecursive(n, stats)
	return stats
}

func countNodesRecursive(n *html.Node, stats map[string]int) {
	switch n.Type {
	case html.NodeHeading1:
		stats["h1"]++
	case html.NodeHeading2:
		stats["h2"]++
	case html.NodeHeading3:
		stats["h3"]++
	case html.NodeParagraph:
		stats["p"]++
	case html.NodeList:
		stats["list"]++
	case html.NodeQuote:
		stats["quote"]++
	case html.NodePre:
		stats["pre"]++
	case html.NodeTable:
		stats["table"]++
	}
	for _, child := range n.Children {
		countNodesRecursive(child, stats)
	}
}
