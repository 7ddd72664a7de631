// Padbrowse is a web browser for keypad devices: a D-pad, two soft
// keys, a back key and a volume rocker drive the whole interface.
package main

import (
	"errors"
	"fmt"
	neturl "net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"padbrowse/browser"
	"padbrowse/cache"
	"padbrowse/config"
	"padbrowse/document"
	"padbrowse/favourites"
	"padbrowse/fetcher"
	"padbrowse/focus"
	"padbrowse/html"
	"padbrowse/input"
	"padbrowse/logging"
	"padbrowse/omnibox"
	"padbrowse/render"
	"padbrowse/store"
	"padbrowse/theme"
)

const version = "1.0.0"

func main() {
	url := ""
	printMode := false
	initConfig := false

	for _, arg := range os.Args[1:] {
		switch arg {
		case "-p", "--print":
			printMode = true
		case "--init-config":
			initConfig = true
		case "-h", "--help":
			printUsage()
			return
		default:
			if url == "" {
				url = arg
			}
		}
	}

	// Generate default config and exit
	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	if printMode {
		if err := runPrint(url); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(url); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`padbrowse - Keypad Web Browser

Usage: padbrowse [options] [url]

Options:
  -p, --print       Print page to stdout (one-shot mode)
  --init-config     Output default config (redirect to ~/.config/padbrowse/config.toml)
  -h, --help        Show this help

Keys:
  Arrows            Move link focus / scroll
  Enter             Open the focused link
  F1 / F2           Address bar / menu (soft keys)
  Backspace         Back, quits at the start of history
  PgUp / PgDn       Scroll by most of a screen

Examples:
  padbrowse                       Reopen last page, or the welcome page
  padbrowse https://example.com   Open URL
  padbrowse -p https://example.com
  padbrowse --init-config > ~/.config/padbrowse/config.toml`)
}

// storageDir resolves the state directory from config, falling back to
// the per-user default.
func storageDir(cfg *config.Config) string {
	if cfg.Storage.Dir != "" {
		return cfg.Storage.Dir
	}
	dir, err := store.DefaultDir()
	if err != nil {
		return ""
	}
	return dir
}

func runPrint(url string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolver := omnibox.NewResolver()
	if cfg.Search.URL != "" {
		resolver.SetSearchURL(cfg.Search.URL)
	}

	fetcher.Configure(fetcher.Options{
		UserAgent:      cfg.Fetch.UserAgent,
		TimeoutSeconds: cfg.Fetch.TimeoutSeconds,
	})
	html.Configure(html.Options{Resolver: resolver})

	var doc *html.Document
	if url == "" {
		kv := store.Open(storageDir(cfg))
		doc, err = welcomePage(favourites.Load(kv))
	} else {
		doc, err = fetchQuiet(resolver, url)
	}
	if err != nil {
		return err
	}

	// Use terminal width if available, otherwise a plain default
	width := 80
	if w, _, werr := render.TerminalSize(); werr == nil {
		width = w
	}

	// Render to a tall canvas to capture full content
	canvas := render.NewCanvas(width, 10000)
	renderer := document.NewRenderer(canvas, cfg.Display.TextSize)
	renderer.Render(doc, 0)

	fmt.Print(canvas.PlainText())
	return nil
}

// fetchQuiet performs one synchronous fetch for print mode.
func fetchQuiet(resolver *omnibox.Resolver, raw string) (*html.Document, error) {
	target, err := resolver.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", raw, err)
	}
	target = resolver.UnwrapRedirector(target)

	res, err := fetcher.Fetch(target)
	if err != nil {
		return nil, err
	}
	if !res.HTML {
		return html.PlainDocument(res.Body, res.FinalURL), nil
	}
	return html.Parse(res.Body, res.FinalURL)
}

func run(url string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir := storageDir(cfg)
	log, err := logging.New(cfg.Log.Enabled, dir, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Sync()

	// Persisted preferences win over the config file; the config value
	// seeds a fresh profile.
	kv := store.Open(dir)
	theme.Set(kv.Get("scheme", cfg.Display.Scheme))
	if n, err := strconv.Atoi(kv.Get("text_size", "")); err == nil {
		theme.SetSize(n)
	} else {
		theme.SetSize(cfg.Display.TextSize)
	}

	favs := favourites.Load(kv)

	resolver := omnibox.NewResolver()
	if cfg.Search.URL != "" {
		resolver.SetSearchURL(cfg.Search.URL)
	}

	// The portal page and its declared assets survive offline.
	assets := cfg.Home.Assets
	if cfg.Home.URL != "" {
		assets = append([]string{cfg.Home.URL}, assets...)
	}
	transport, err := cache.NewTransport(nil, assets)
	if err != nil {
		return fmt.Errorf("preparing cache: %w", err)
	}

	fetcher.Configure(fetcher.Options{
		UserAgent:      cfg.Fetch.UserAgent,
		TimeoutSeconds: cfg.Fetch.TimeoutSeconds,
		Transport:      transport,
	})
	html.Configure(html.Options{Resolver: resolver})

	b := browser.New(browser.Options{Resolver: resolver, Store: kv, Log: log})

	// Resolve the start target before touching the terminal so a bad
	// address fails as a plain error message.
	target := ""
	switch {
	case url != "":
		target, err = resolver.Normalize(url)
		if err != nil {
			return fmt.Errorf("resolving %q: %w", url, err)
		}
	case b.LastLocation() != "":
		target = b.LastLocation()
	case cfg.Home.URL != "":
		target = cfg.Home.URL
	}

	// Set up terminal
	width, height, err := render.TerminalSize()
	if err != nil {
		return fmt.Errorf("detecting terminal: %w", err)
	}

	term, err := render.NewTerminal(os.Stdin)
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	render.EnterAltScreen(os.Stdout)
	if err := term.EnterRawMode(); err != nil {
		render.ExitAltScreen(os.Stdout)
		return fmt.Errorf("entering raw mode: %w", err)
	}

	defer func() {
		term.RestoreMode()
		render.ExitAltScreen(os.Stdout)
	}()

	canvas := render.NewCanvas(width, height)
	canvas.SetBase(theme.Current.BaseStyle())
	renderer := document.NewRenderer(canvas, theme.Size())

	router := input.NewRouter()
	spin := render.NewSpinner(render.SpinnerBraille)

	// The welcome page shows immediately; a start target loads over it.
	if doc, werr := welcomePage(favs); werr == nil {
		b.ShowLocal(doc)
	}
	if target != "" {
		b.Load(target)
	}

	// UI state
	scrollY := 0
	notice := ""
	noticeErr := false
	var ordered []document.Link

	// The bottom two rows are the status line and the soft-key bar.
	viewHeight := func() int { return height - 2 }

	maxScroll := func() int {
		m := renderer.ContentHeight() - viewHeight()
		if m < 0 {
			m = 0
		}
		return m
	}

	clampScroll := func(y int) int {
		if m := maxScroll(); y > m {
			y = m
		}
		if y < 0 {
			y = 0
		}
		return y
	}

	routerCtx := func() input.Context {
		return input.Context{
			LinkCount:     len(ordered),
			HistoryLen:    b.HistoryLen(),
			BookmarkCount: favs.Len(),
			Nearest: func(down bool) int {
				dir := focus.Up
				if down {
					dir = focus.Down
				}
				return focus.NearestTo(dir, scrollY+viewHeight()/2, ordered)
			},
		}
	}

	redraw := func() {
		doc := b.Document()
		if doc == nil {
			canvas.Clear()
		} else {
			renderer.Render(doc, scrollY)
			if m := maxScroll(); scrollY > m {
				// A reflow shrank the page under the scroll position.
				scrollY = m
				renderer.Render(doc, scrollY)
			}
			ordered = focus.Order(renderer.Links())
			router.ClampSelection(len(ordered))
			if i := router.Selected(); i >= 0 && i < len(ordered) {
				renderer.HighlightLink(ordered[i])
			}
		}

		drawOverlay(canvas, router, favs)
		drawStatusRow(canvas, b, spin, notice, noticeErr, scrollY, viewHeight(), renderer.ContentHeight())
		drawSoftKeys(canvas, router.Labels(routerCtx()))
		canvas.RenderTo(os.Stdout)
	}

	// open routes a resolved target to the loader. Schemes with no
	// handler on this device surface the target instead of fetching.
	// A request while a load is in flight is dropped; the spinner row
	// already says so.
	open := func(t string) {
		if u, perr := neturl.Parse(t); perr == nil {
			switch u.Scheme {
			case "mailto":
				notice, noticeErr = "Mail: "+u.Opaque, false
				return
			case "ftp":
				notice, noticeErr = "FTP is not supported here", true
				return
			}
		}
		b.Load(t)
	}

	// apply executes a router action; it reports when the app should
	// exit.
	apply := func(act input.Action) bool {
		switch a := act.(type) {
		case input.ScrollAction:
			scrollY = clampScroll(scrollY + int(float64(viewHeight())*a.Fraction))
		case input.ScrollLinesAction:
			scrollY = clampScroll(scrollY + a.Lines)
		case input.ScrollTopAction:
			scrollY = 0
		case input.SelectLinkAction:
			if a.Index >= 0 && a.Index < len(ordered) {
				scrollY = focus.ScrollTo(ordered[a.Index], focus.View{
					Height:        viewHeight(),
					ContentHeight: renderer.ContentHeight(),
				})
			}
		case input.ClearSelectionAction:
			// focus already dropped by the router
		case input.OpenLinkAction:
			if a.Index >= 0 && a.Index < len(ordered) && ordered[a.Index].Href != "" {
				open(ordered[a.Index].Href)
			}
		case input.SubmitURLAction:
			t, nerr := resolver.Normalize(a.Text)
			if nerr != nil {
				notice, noticeErr = "Invalid address", true
			} else {
				open(t)
			}
		case input.BackAction:
			b.Back()
		case input.ReloadAction:
			b.Reload()
		case input.QuitAction:
			return true
		case input.AddBookmarkAction:
			if b.Location() == "" {
				notice, noticeErr = "Nothing to bookmark", true
			} else {
				title := ""
				if d := b.Document(); d != nil {
					title = d.Title
				}
				if aerr := favs.Add(title, b.Location()); aerr != nil {
					notice, noticeErr = "Bookmark not saved to disk", true
				} else {
					notice, noticeErr = "Bookmark saved", false
				}
			}
		case input.OpenBookmarkAction:
			if f, ok := favs.Get(a.Index); ok {
				open(f.URL)
			}
		case input.DeleteBookmarkAction:
			// The in-memory list already changed; a failed save is
			// only worth a log line, not a notice.
			if derr := favs.Remove(a.Index); derr != nil {
				log.Warn("could not save bookmarks", zap.Error(derr))
			}
		case input.ClearBookmarksAction:
			if cerr := favs.Clear(); cerr != nil {
				log.Warn("could not save bookmarks", zap.Error(cerr))
			}
		case input.CycleTextSizeAction:
			theme.NextSize()
			if serr := kv.Set("text_size", strconv.Itoa(theme.Size())); serr != nil {
				log.Warn("could not save preferences", zap.Error(serr))
			}
			renderer = document.NewRenderer(canvas, theme.Size())
			notice, noticeErr = fmt.Sprintf("Text size %d of %d", theme.Size(), theme.MaxSize), false
		case input.CycleSchemeAction:
			theme.Next()
			if serr := kv.Set("scheme", theme.Current.Name); serr != nil {
				log.Warn("could not save preferences", zap.Error(serr))
			}
			canvas.SetBase(theme.Current.BaseStyle())
			renderer = document.NewRenderer(canvas, theme.Size())
			notice, noticeErr = "Scheme: "+theme.Current.Name, false
		}
		return false
	}

	// Keyboard reader; decodes raw bytes into key events.
	keyCh := make(chan input.KeyEvent, 8)
	go func() {
		buf := make([]byte, 64)
		for {
			n, rerr := os.Stdin.Read(buf)
			if rerr != nil {
				close(keyCh)
				return
			}
			data := buf[:n]
			for len(data) > 0 {
				ev, size := input.Decode(data)
				if size <= 0 {
					break
				}
				data = data[size:]
				if ev.Key != input.KeyNone {
					keyCh <- ev
				}
			}
		}
	}()

	resizeCh := make(chan os.Signal, 1)
	signal.Notify(resizeCh, syscall.SIGWINCH)

	handleResize := func() {
		newWidth, newHeight, terr := render.TerminalSize()
		if terr != nil || (newWidth == width && newHeight == height) {
			return
		}
		width, height = newWidth, newHeight
		canvas = render.NewCanvas(width, height)
		canvas.SetBase(theme.Current.BaseStyle())
		renderer = document.NewRenderer(canvas, theme.Size())
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	redraw()

	for {
		select {
		case ev, ok := <-keyCh:
			if !ok {
				return nil
			}
			notice = ""
			if quit := apply(router.HandleKey(ev, routerCtx())); quit {
				return nil
			}
			redraw()

		case res := <-b.Results():
			if aerr := b.Apply(res); aerr != nil {
				if errors.Is(aerr, fetcher.ErrUnsupportedContent) {
					notice, noticeErr = "Not a text page", true
				} else {
					b.ShowLocal(errorPage(res.URL))
					scrollY = 0
					router.ResetSelection()
				}
			} else {
				scrollY = 0
				router.ResetSelection()
			}
			redraw()

		case <-resizeCh:
			handleResize()
			redraw()

		case <-ticker.C:
			if b.Busy() {
				spin.Tick()
				redraw()
			}
		}
	}
}

// drawOverlay renders the modal surface for the current mode over the
// dimmed page.
func drawOverlay(c *render.Canvas, router *input.Router, favs *favourites.Store) {
	switch router.Mode() {
	case input.ModeURLEntry:
		drawURLEntry(c, router.URLInput())
	case input.ModeMenu:
		switch router.Screen() {
		case input.ScreenBookmarks:
			drawBookmarks(c, favs, router.MenuItem())
		case input.ScreenConfirmDelete:
			title := ""
			if f, ok := favs.Get(router.ConfirmTarget()); ok {
				title = f.Title
				if title == "" {
					title = f.URL
				}
			}
			drawConfirm(c, " Delete bookmark ", fmt.Sprintf("Remove %q?", render.Truncate(title, 20)))
		case input.ScreenConfirmClear:
			drawConfirm(c, " Clear bookmarks ", fmt.Sprintf("Remove all %d bookmarks?", favs.Len()))
		default:
			drawMenuList(c, router.MenuItem())
		}
	case input.ModeAbout:
		drawAbout(c)
	}
}

// overlayBox dims the page and clears a centered box, returning its
// top-left corner and clamped width.
func overlayBox(c *render.Canvas, boxWidth, boxHeight int, title string) (int, int, int) {
	if boxWidth > c.Width()-2 {
		boxWidth = c.Width() - 2
	}
	startX := (c.Width() - boxWidth) / 2
	startY := (c.Height() - boxHeight) / 2
	if startY < 0 {
		startY = 0
	}

	c.DimAll()
	c.FillRect(startX, startY, boxWidth, boxHeight, c.Base())
	border := theme.Current.Accent.Style()
	titleStyle := border
	titleStyle.Bold = true
	c.DrawBoxWithTitle(startX, startY, boxWidth, boxHeight, title, render.RoundedBox, border, titleStyle)
	return startX, startY, boxWidth
}

func drawURLEntry(c *render.Canvas, text string) {
	startX, startY, boxWidth := overlayBox(c, 56, 5, " Open ")

	// Show the tail when the input outgrows the box
	maxw := boxWidth - 5
	runes := []rune(text)
	if len(runes) > maxw {
		runes = runes[len(runes)-maxw:]
	}
	c.WriteString(startX+2, startY+2, string(runes)+"█", c.Base())

	hint := " Type an address or search "
	c.WriteString(startX+(boxWidth-len(hint))/2, startY+4, hint, render.Style{Dim: true})
}

func drawMenuList(c *render.Canvas, selected int) {
	items := input.MenuItems()
	startX, startY, boxWidth := overlayBox(c, 20, len(items)+2, " Menu ")

	for i, item := range items {
		st := c.Base()
		if i == selected {
			st.Reverse = true
		}
		c.WriteString(startX+2, startY+1+i, render.AlignText(item, boxWidth-4, render.AlignLeft), st)
	}
}

func drawBookmarks(c *render.Canvas, favs *favourites.Store, selected int) {
	rows := favs.Len() + 1 // trailing "Clear all" row
	visible := rows
	if max := c.Height() - 6; visible > max {
		visible = max
	}
	if visible < 1 {
		visible = 1
	}

	startX, startY, boxWidth := overlayBox(c, 30, visible+2, " Bookmarks ")

	// Keep the selected row near the middle of the window
	offset := selected - visible/2
	if offset > rows-visible {
		offset = rows - visible
	}
	if offset < 0 {
		offset = 0
	}

	for i := 0; i < visible; i++ {
		row := offset + i
		if row >= rows {
			break
		}

		text := "Clear all"
		if row < favs.Len() {
			f, _ := favs.Get(row)
			text = f.Title
			if text == "" {
				text = render.Truncate(f.URL, boxWidth-4)
			}
		}

		st := c.Base()
		if row == selected {
			st.Reverse = true
		}
		c.WriteString(startX+2, startY+1+i, render.AlignText(text, boxWidth-4, render.AlignLeft), st)
	}
}

func drawConfirm(c *render.Canvas, title, question string) {
	want := 36
	if need := render.StringWidth(question) + 4; need > want {
		want = need
	}
	startX, startY, boxWidth := overlayBox(c, want, 5, title)
	c.WriteString(startX+2, startY+2, render.Truncate(question, boxWidth-4), c.Base())
}

func drawAbout(c *render.Canvas) {
	lines := []string{
		"padbrowse " + version,
		"A web browser for keypad devices.",
		"",
		"Pad        Move the link focus",
		"Enter      Open the focused link",
		"F1         Address bar",
		"F2         Menu",
		"Backspace  Previous page",
		"PgUp/PgDn  Scroll",
	}

	startX, startY, _ := overlayBox(c, 38, len(lines)+2, " About ")
	for i, line := range lines {
		st := c.Base()
		if i == 0 {
			st.Bold = true
		}
		c.WriteString(startX+2, startY+1+i, line, st)
	}
}

// drawStatusRow fills the row above the soft keys: spinner while a
// page loads, then any notice, then the dim location and scroll state.
func drawStatusRow(c *render.Canvas, b *browser.Browser, spin *render.Spinner, notice string, noticeErr bool, scrollY, viewHeight, contentHeight int) {
	y := c.Height() - 2
	c.DrawHLine(0, y, c.Width(), ' ', c.Base())

	switch {
	case b.Busy():
		c.WriteString(1, y, spin.Frame()+" Loading", theme.Current.Accent.Style())
	case notice != "":
		st := theme.Current.Accent.Style()
		if noticeErr {
			st = theme.Current.Error.Style()
		}
		c.WriteString(1, y, render.Truncate(notice, c.Width()-2), st)
	default:
		domain := locationHost(b.Location())
		c.WriteString(1, y, render.Truncate(domain, c.Width()-8), render.Style{Dim: true})
		if contentHeight > viewHeight {
			m := contentHeight - viewHeight
			pct := scrollY * 100 / m
			pctStr := fmt.Sprintf("%d%%", pct)
			c.WriteString(c.Width()-len(pctStr)-1, y, pctStr, render.Style{Dim: true})
		}
	}
}

// locationHost reduces a URL to its host for the status row.
func locationHost(u string) string {
	if u == "" {
		return "padbrowse"
	}
	parsed, err := neturl.Parse(u)
	if err != nil || parsed.Host == "" {
		return u
	}
	return parsed.Host
}

// drawSoftKeys paints the bottom row with the captions for the two
// soft keys and the center key.
func drawSoftKeys(c *render.Canvas, l input.Labels) {
	y := c.Height() - 1
	c.DrawHLine(0, y, c.Width(), ' ', c.Base())

	st := theme.Current.Accent.Style()
	st.Reverse = true

	if l.Left != "" {
		c.WriteString(0, y, " "+l.Left+" ", st)
	}
	if l.Center != "" {
		s := " " + l.Center + " "
		c.WriteString((c.Width()-render.StringWidth(s))/2, y, s, st)
	}
	if l.Right != "" {
		s := " " + l.Right + " "
		c.WriteString(c.Width()-render.StringWidth(s), y, s, st)
	}
}

func welcomePage(favs *favourites.Store) (*html.Document, error) {
	// Build the bookmark section if we have any
	var bookmarkSection string
	if favs != nil && favs.Len() > 0 {
		bookmarkSection = "\n<h2>Bookmarks</h2>\n<ul>\n"
		for _, f := range favs.All() {
			title := escapeHTML(f.Title)
			if title == "" {
				title = escapeHTML(f.URL)
			}
			bookmarkSection += fmt.Sprintf("<li><a href=\"%s\">%s</a></li>\n", escapeHTML(f.URL), title)
		}
		bookmarkSection += "</ul>\n"
	}

	page := `<!DOCTYPE html>
<html>
<head><title>padbrowse</title></head>
<body>
<article>
<h1>padbrowse</h1>
<p>A web browser for keypad devices.</p>

<h2>Keys</h2>
<ul>
<li>The pad moves the link focus; the center key opens</li>
<li>F1 opens the address bar, F2 the menu</li>
<li>Backspace goes back, and quits at the start</li>
<li>PgUp and PgDn scroll through long pages</li>
</ul>
` + bookmarkSection + `
<h2>Sites</h2>
<ul>
<li><a href="https://text.npr.org">NPR Text</a> - Text-only news</li>
<li><a href="https://lite.cnn.com">CNN Lite</a> - Lightweight news</li>
<li><a href="https://lobste.rs">Lobsters</a> - Computing-focused links</li>
<li><a href="https://en.wikipedia.org">Wikipedia</a> - The free encyclopedia</li>
<li><a href="https://wttr.in">wttr.in</a> - Weather in plain text</li>
<li><a href="https://example.com">example.com</a> - Test page</li>
</ul>

<p><em>Press F1 to enter an address or search.</em></p>
</article>
</body>
</html>`

	return html.Parse(page, "")
}

// errorPage builds the document shown when a load fails. It names only
// the failure class; the cause detail stays in the log. It never
// becomes the location, so Back still leads to the previous page.
func errorPage(target string) *html.Document {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Can't open page</title></head>
<body>
<article>
<h1>Can't open page</h1>
<p>The page could not be loaded.</p>
<blockquote><p>%s</p></blockquote>
<p>Press Backspace to go back, or reload from the menu to try again.</p>
</article>
</body>
</html>`, escapeHTML(target))

	doc, err := html.Parse(page, "")
	if err != nil {
		return html.PlainDocument("Can't open "+target, "")
	}
	return doc
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
