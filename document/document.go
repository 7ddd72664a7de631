// Package document renders sanitized content trees to the terminal canvas.
package document

import (
	"strings"

	"padbrowse/html"
	"padbrowse/render"
)

// Column widths and block spacing per text size level. A character cell
// cannot grow, so larger sizes narrow the column and loosen the spacing
// instead, which reads close enough on a small screen.
var (
	sizeWidths  = map[int]int{1: 96, 2: 80, 3: 66, 4: 52, 5: 40}
	sizeSpacing = map[int]int{1: 1, 2: 1, 3: 2, 4: 2, 5: 3}
)

// Link is one focusable hyperlink placed by the last render. X and Y are
// document coordinates: Y counts rows from the top of the document, not
// from the top of the screen. A wrapped link keeps one Link entry, with
// the position of its first segment.
type Link struct {
	Href     string
	X, Y     int
	Length   int
	HintTop  int // layout hints from the page, -1 when absent
	HintLeft int

	segments []segment
}

type segment struct {
	x, y, length int
}

// Renderer converts content trees to canvas output.
type Renderer struct {
	canvas       *render.Canvas
	contentWidth int
	leftMargin   int
	spacing      int
	base         render.Style

	scrollY   int
	y         int // current row in document coordinates
	height    int
	links     []Link
	linkIndex map[*html.Node]int
}

// NewRenderer creates a renderer for the given canvas at the given text
// size level. The canvas base style should already carry the scheme's
// colors; content is drawn with attribute variations of it.
func NewRenderer(c *render.Canvas, sizeLevel int) *Renderer {
	width, ok := sizeWidths[sizeLevel]
	if !ok {
		width = sizeWidths[2]
	}
	spacing := sizeSpacing[sizeLevel]
	if spacing == 0 {
		spacing = 1
	}

	contentWidth := c.Width() - 4
	if contentWidth > width {
		contentWidth = width
	}
	if contentWidth < 10 {
		contentWidth = 10
	}
	leftMargin := (c.Width() - contentWidth) / 2
	if leftMargin < 0 {
		leftMargin = 0
	}

	return &Renderer{
		canvas:       c,
		contentWidth: contentWidth,
		leftMargin:   leftMargin,
		spacing:      spacing,
		base:         c.Base(),
	}
}

// Render draws the document with the given scroll offset. Links are
// placed for the whole document, not just the visible rows, so focus
// can move to targets beyond the current screen.
func (r *Renderer) Render(doc *html.Document, scrollY int) {
	r.canvas.Clear()
	r.scrollY = scrollY
	r.y = 0
	r.links = nil
	r.linkIndex = make(map[*html.Node]int)

	for _, child := range doc.Content.Children {
		r.renderNode(child)
	}
	r.height = r.y
}

// Links returns the links placed by the last render, in document order.
func (r *Renderer) Links() []Link {
	return r.links
}

// ContentHeight returns the total document height in rows, valid after
// Render.
func (r *Renderer) ContentHeight() int {
	return r.height
}

// HighlightLink repaints every segment of a link in reverse video.
func (r *Renderer) HighlightLink(l Link) {
	for _, seg := range l.segments {
		sy := seg.y - r.scrollY
		if sy < 0 || sy >= r.canvas.Height() {
			continue
		}
		for dx := 0; dx < seg.length; dx++ {
			cell := r.canvas.Get(seg.x+dx, sy)
			style := cell.Style
			style.Reverse = true
			r.canvas.Set(seg.x+dx, sy, cell.Rune, style)
		}
	}
}

func (r *Renderer) renderNode(n *html.Node) {
	switch n.Type {
	case html.NodeHeading1:
		r.renderHeading(n, 1)
	case html.NodeHeading2:
		r.renderHeading(n, 2)
	case html.NodeHeading3:
		r.renderHeading(n, 3)
	case html.NodeParagraph:
		r.renderParagraph(n)
	case html.NodeQuote:
		r.renderQuote(n)
	case html.NodeList:
		r.renderList(n)
	case html.NodePre:
		r.renderPre(n)
	case html.NodeTable:
		r.renderTable(n)
	}
}

func (r *Renderer) gap() {
	r.y += r.spacing
}

func (r *Renderer) renderHeading(n *html.Node, level int) {
	if r.y > 0 {
		r.y++
	}

	style := r.base
	style.Bold = true
	if level == 3 {
		style.Underline = true
	}

	spans := r.extractSpans(n, style)
	if level == 1 {
		for i := range spans {
			spans[i].Text = strings.ToUpper(spans[i].Text)
		}
	}

	lines := r.wrapSpans(spans, r.contentWidth, false)
	maxWidth := 0
	for _, line := range lines {
		w := 0
		for _, span := range line {
			w += render.StringWidth(span.Text)
		}
		if w > maxWidth {
			maxWidth = w
		}
		r.renderSpanLine(line, r.leftMargin)
		r.y++
	}

	switch level {
	case 1:
		r.hline(r.leftMargin, r.y, maxWidth, render.DoubleBox.Horizontal, r.base)
		r.y++
	case 2:
		dim := r.base
		dim.Dim = true
		r.hline(r.leftMargin, r.y, maxWidth, render.SingleBox.Horizontal, dim)
		r.y++
	}
	r.gap()
}

func (r *Renderer) renderParagraph(n *html.Node) {
	spans := r.extractSpans(n, r.base)
	lines := r.wrapSpans(spans, r.contentWidth, true)
	for _, line := range lines {
		r.renderSpanLine(line, r.leftMargin)
		r.y++
	}
	r.gap()
}

func (r *Renderer) renderQuote(n *html.Node) {
	startY := r.y

	base, margin, width := r.base, r.leftMargin, r.contentWidth
	r.base.Dim = true
	r.leftMargin += 2
	r.contentWidth -= 2
	if r.contentWidth < 10 {
		r.contentWidth = 10
	}
	for _, child := range n.Children {
		r.renderNode(child)
	}
	r.base, r.leftMargin, r.contentWidth = base, margin, width

	dim := r.base
	dim.Dim = true
	for y := startY; y < r.y-r.spacing; y++ {
		sy := y - r.scrollY
		if sy >= 0 && sy < r.canvas.Height() {
			r.canvas.Set(r.leftMargin, sy, '│', dim)
		}
	}
}

func (r *Renderer) renderList(n *html.Node) {
	for _, item := range n.Children {
		spans := r.extractSpans(item, r.base)
		lines := r.wrapSpans(spans, r.contentWidth-2, false)
		for i, line := range lines {
			if i == 0 {
				r.writeSpan(r.leftMargin, r.y, "•", r.base)
			}
			r.renderSpanLine(line, r.leftMargin+2)
			r.y++
		}
	}
	r.gap()
}

func (r *Renderer) renderPre(n *html.Node) {
	dim := r.base
	dim.Dim = true

	r.hline(r.leftMargin, r.y, r.contentWidth, render.SingleBox.Horizontal, dim)
	r.y++
	for _, line := range strings.Split(n.Text, "\n") {
		line = strings.ReplaceAll(line, "\t", "    ")
		if render.StringWidth(line) > r.contentWidth {
			line = render.Truncate(line, r.contentWidth)
		}
		r.writeSpan(r.leftMargin, r.y, line, dim)
		r.y++
	}
	r.hline(r.leftMargin, r.y, r.contentWidth, render.SingleBox.Horizontal, dim)
	r.y++
	r.gap()
}

func (r *Renderer) renderTable(n *html.Node) {
	if len(n.Children) == 0 {
		return
	}

	t := render.NewTable(cellTexts(n.Children[0])...)
	dim := r.base
	dim.Dim = true
	bold := r.base
	bold.Bold = true
	t.HeaderStyle = bold
	t.CellStyle = r.base
	t.BorderStyle = dim
	for _, row := range n.Children[1:] {
		t.AddRow(cellTexts(row)...)
	}

	r.trackTableLinks(n, r.y)
	t.Draw(r.canvas, r.leftMargin, r.y-r.scrollY)

	// top border + header + separator + body rows + bottom border
	r.y += len(n.Children) + 3
	r.gap()
}

// trackTableLinks places links found inside table cells at the rows the
// drawn table puts them on, so they participate in focus navigation.
func (r *Renderer) trackTableLinks(n *html.Node, top int) {
	widths := columnWidths(n)
	for i, row := range n.Children {
		y := top + 2 + i
		if i == 0 {
			y = top + 1
		}
		x := r.leftMargin + 2
		for k, cell := range row.Children {
			if k >= len(widths) {
				break
			}
			r.trackCellLinks(cell, x, y)
			x += widths[k] + 3
		}
	}
}

func (r *Renderer) trackCellLinks(cell *html.Node, x, y int) {
	offset := 0
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.NodeLink {
			if w := render.StringWidth(c.PlainText()); w > 0 {
				r.trackLink(c, x+offset, y, w)
				offset += w
			}
			return
		}
		offset += render.StringWidth(c.Text)
		for _, child := range c.Children {
			walk(child)
		}
	}
	for _, child := range cell.Children {
		walk(child)
	}
}

func columnWidths(n *html.Node) []int {
	widths := make([]int, len(n.Children[0].Children))
	for _, row := range n.Children {
		for k, cell := range row.Children {
			if k >= len(widths) {
				break
			}
			if w := render.StringWidth(cell.PlainText()); w > widths[k] {
				widths[k] = w
			}
		}
	}
	return widths
}

func cellTexts(row *html.Node) []string {
	texts := make([]string, len(row.Children))
	for i, cell := range row.Children {
		texts[i] = cell.PlainText()
	}
	return texts
}

// renderSpanLine writes one wrapped line of spans at the current row and
// records link segments. The caller advances r.y.
func (r *Renderer) renderSpanLine(line []textSpan, x int) {
	for _, span := range line {
		w := render.StringWidth(span.Text)
		r.writeSpan(x, r.y, span.Text, span.Style)
		if span.Link != nil {
			r.trackLink(span.Link, x, r.y, w)
		}
		x += w
	}
}

func (r *Renderer) trackLink(n *html.Node, x, y, length int) {
	if length == 0 {
		return
	}
	if i, ok := r.linkIndex[n]; ok {
		r.links[i].segments = append(r.links[i].segments, segment{x, y, length})
		return
	}
	r.linkIndex[n] = len(r.links)
	r.links = append(r.links, Link{
		Href:     n.Href,
		X:        x,
		Y:        y,
		Length:   length,
		HintTop:  n.HintTop,
		HintLeft: n.HintLeft,
		segments: []segment{{x, y, length}},
	})
}

// writeSpan writes text at a document row, clipping to the screen.
func (r *Renderer) writeSpan(x, yDoc int, text string, style render.Style) {
	sy := yDoc - r.scrollY
	if sy < 0 || sy >= r.canvas.Height() {
		return
	}
	r.canvas.WriteString(x, sy, text, style)
}

func (r *Renderer) hline(x, yDoc, width int, ch rune, style render.Style) {
	sy := yDoc - r.scrollY
	if sy < 0 || sy >= r.canvas.Height() {
		return
	}
	r.canvas.DrawHLine(x, sy, width, ch, style)
}

type textSpan struct {
	Text  string
	Style render.Style
	Link  *html.Node
}

func (r *Renderer) extractSpans(n *html.Node, style render.Style) []textSpan {
	var spans []textSpan
	r.extractSpansRecursive(n, style, nil, &spans)
	return spans
}

func (r *Renderer) extractSpansRecursive(n *html.Node, style render.Style, link *html.Node, spans *[]textSpan) {
	for _, child := range n.Children {
		switch child.Type {
		case html.NodeText:
			if child.Text != "" {
				*spans = append(*spans, textSpan{Text: child.Text, Style: style, Link: link})
			}
		case html.NodeLink:
			linkStyle := style
			linkStyle.Underline = true
			r.extractSpansRecursive(child, linkStyle, child, spans)
		default:
			r.extractSpansRecursive(child, style, link, spans)
		}
	}
}

// wrapSpans wraps styled spans into lines of at most width cells,
// mapping each wrapped character back to the span it came from so
// styles and link identity survive the wrap.
func (r *Renderer) wrapSpans(spans []textSpan, width int, justify bool) [][]textSpan {
	type charInfo struct {
		style render.Style
		link  *html.Node
	}
	var fullText strings.Builder
	var charMap []charInfo

	for _, span := range spans {
		for _, ch := range span.Text {
			fullText.WriteRune(ch)
			charMap = append(charMap, charInfo{style: span.Style, link: span.Link})
		}
	}

	var lines []string
	if justify {
		lines = render.WrapAndJustify(fullText.String(), width)
	} else {
		lines = render.WrapText(fullText.String(), width)
	}

	result := make([][]textSpan, len(lines))
	origRunes := []rune(fullText.String())
	origPos := 0

	for i, line := range lines {
		var lineSpans []textSpan
		lineRunes := []rune(line)

		j := 0
		for j < len(lineRunes) {
			if origPos < len(origRunes) && lineRunes[j] == origRunes[origPos] {
				info := charMap[origPos]
				spanStart := j

				for j < len(lineRunes) && origPos < len(origRunes) &&
					lineRunes[j] == origRunes[origPos] &&
					charMap[origPos].link == info.link &&
					charMap[origPos].style == info.style {
					j++
					origPos++
				}

				lineSpans = append(lineSpans, textSpan{
					Text:  string(lineRunes[spanStart:j]),
					Style: info.style,
					Link:  info.link,
				})
			} else if lineRunes[j] == ' ' {
				// spaces the justifier inserted, or word-break gaps the
				// wrapper swallowed from the original
				spanStart := j
				for j < len(lineRunes) && lineRunes[j] == ' ' &&
					(origPos >= len(origRunes) || lineRunes[j] != origRunes[origPos]) {
					j++
				}
				lineSpans = append(lineSpans, textSpan{
					Text:  string(lineRunes[spanStart:j]),
					Style: r.base,
				})
			} else if origPos < len(origRunes) {
				origPos++
			} else {
				break
			}
		}

		result[i] = lineSpans
	}

	return result
}
