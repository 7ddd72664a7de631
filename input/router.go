package input

import "strings"

// Mode represents an input mode. Exactly one mode owns the keyboard at
// a time; overlays capture everything except the volume rocker rule.
type Mode int

const (
	ModeReading Mode = iota
	ModeURLEntry
	ModeMenu
	ModeAbout
)

// MenuScreen identifies which screen the menu overlay is showing.
type MenuScreen int

const (
	ScreenList MenuScreen = iota
	ScreenBookmarks
	ScreenConfirmDelete
	ScreenConfirmClear
)

var menuItems = []string{
	"Go to top",
	"Reload",
	"Add bookmark",
	"Bookmarks",
	"Text size",
	"Color scheme",
	"About",
	"Close menu",
}

// MenuItems returns the rows of the main menu screen.
func MenuItems() []string {
	return menuItems
}

// Context provides the read-only page state key handling needs.
type Context struct {
	LinkCount     int
	HistoryLen    int
	BookmarkCount int

	// Nearest returns the traversal index of the link closest to the
	// screen center in the given direction, or -1. Consulted when a
	// direction key is pressed with nothing focused.
	Nearest func(down bool) int
}

// Labels are the soft-key captions for the current mode.
type Labels struct {
	Left, Center, Right string
}

// Router turns key events into actions according to the active mode.
type Router struct {
	mode          Mode
	selected      int // traversal index of the focused link, -1 for none
	urlInput      []rune
	screen        MenuScreen
	menuItem      int
	confirmTarget int
}

// NewRouter creates a router in reading mode with nothing focused.
func NewRouter() *Router {
	return &Router{selected: -1}
}

func (r *Router) Mode() Mode         { return r.mode }
func (r *Router) Selected() int      { return r.selected }
func (r *Router) URLInput() string   { return string(r.urlInput) }
func (r *Router) Screen() MenuScreen { return r.screen }
func (r *Router) MenuItem() int      { return r.menuItem }
func (r *Router) ConfirmTarget() int { return r.confirmTarget }

// ResetSelection drops the link focus, for when a new page loads.
func (r *Router) ResetSelection() {
	r.selected = -1
}

// ClampSelection drops the focus if it no longer points at a link,
// for when a re-render changes the link count.
func (r *Router) ClampSelection(linkCount int) {
	if r.selected >= linkCount {
		r.selected = -1
	}
}

// HandleKey processes one key press and returns the action to execute,
// or nil when the press only changed router state (or did nothing).
func (r *Router) HandleKey(ev KeyEvent, ctx Context) Action {
	// The volume rocker scrolls while reading and is inert under any
	// overlay, so a stray press cannot disturb a dialog.
	if ev.Key == KeyPageUp || ev.Key == KeyPageDown {
		if r.mode != ModeReading {
			return nil
		}
		f := 0.75
		if ev.Key == KeyPageUp {
			f = -0.75
		}
		return ScrollAction{Fraction: f}
	}

	switch r.mode {
	case ModeAbout:
		return r.handleAbout(ev)
	case ModeURLEntry:
		return r.handleURLEntry(ev)
	case ModeMenu:
		return r.handleMenu(ev, ctx)
	default:
		return r.handleReading(ev, ctx)
	}
}

func (r *Router) handleAbout(ev KeyEvent) Action {
	switch ev.Key {
	case KeyBackspace, KeyEnter, KeySoftRight:
		r.mode = ModeReading
	}
	return nil
}

func (r *Router) handleURLEntry(ev KeyEvent) Action {
	switch ev.Key {
	case KeyBackspace:
		if len(r.urlInput) == 0 {
			r.mode = ModeReading
			return nil
		}
		r.urlInput = r.urlInput[:len(r.urlInput)-1]
	case KeyEnter:
		text := strings.TrimSpace(string(r.urlInput))
		if text == "" {
			return nil
		}
		r.mode = ModeReading
		r.urlInput = nil
		return SubmitURLAction{Text: text}
	case KeySoftLeft:
		r.mode = ModeReading
		r.urlInput = nil
	case KeyRune:
		r.urlInput = append(r.urlInput, ev.Rune)
	}
	return nil
}

func (r *Router) handleReading(ev KeyEvent, ctx Context) Action {
	switch ev.Key {
	case KeyUp:
		return r.moveFocus(false, ctx)
	case KeyDown:
		return r.moveFocus(true, ctx)
	case KeyEnter:
		if r.selected >= 0 && r.selected < ctx.LinkCount {
			return OpenLinkAction{Index: r.selected}
		}
	case KeySoftLeft:
		r.mode = ModeURLEntry
		r.urlInput = nil
	case KeySoftRight:
		r.mode = ModeMenu
		r.screen = ScreenList
		r.menuItem = 0
	case KeyEscape:
		if r.selected >= 0 {
			r.selected = -1
			return ClearSelectionAction{}
		}
	case KeyBackspace:
		if ctx.HistoryLen > 0 {
			return BackAction{}
		}
		return QuitAction{}
	}
	return nil
}

// moveFocus picks the first focus target from the screen position, then
// cycles through the traversal order with wraparound.
func (r *Router) moveFocus(down bool, ctx Context) Action {
	if ctx.LinkCount == 0 {
		lines := 3
		if !down {
			lines = -3
		}
		return ScrollLinesAction{Lines: lines}
	}

	if r.selected < 0 {
		idx := -1
		if ctx.Nearest != nil {
			idx = ctx.Nearest(down)
		}
		if idx < 0 || idx >= ctx.LinkCount {
			if down {
				idx = 0
			} else {
				idx = ctx.LinkCount - 1
			}
		}
		r.selected = idx
	} else {
		step := 1
		if !down {
			step = -1
		}
		r.selected = wrap(r.selected+step, ctx.LinkCount)
	}
	return SelectLinkAction{Index: r.selected}
}

func wrap(i, n int) int {
	if n <= 0 {
		return -1
	}
	return ((i % n) + n) % n
}

func (r *Router) handleMenu(ev KeyEvent, ctx Context) Action {
	switch r.screen {
	case ScreenConfirmDelete, ScreenConfirmClear:
		return r.handleConfirm(ev)
	case ScreenBookmarks:
		return r.handleBookmarks(ev, ctx)
	default:
		return r.handleMenuList(ev, ctx)
	}
}

func (r *Router) handleMenuList(ev KeyEvent, ctx Context) Action {
	switch ev.Key {
	case KeyUp:
		r.menuItem = wrap(r.menuItem-1, len(menuItems))
	case KeyDown:
		r.menuItem = wrap(r.menuItem+1, len(menuItems))
	case KeyEnter:
		return r.activateMenuItem(ctx)
	case KeySoftRight, KeyEscape, KeyBackspace:
		r.mode = ModeReading
	}
	return nil
}

func (r *Router) activateMenuItem(ctx Context) Action {
	switch menuItems[r.menuItem] {
	case "Go to top":
		r.mode = ModeReading
		return ScrollTopAction{}
	case "Reload":
		r.mode = ModeReading
		return ReloadAction{}
	case "Add bookmark":
		r.mode = ModeReading
		return AddBookmarkAction{}
	case "Bookmarks":
		r.screen = ScreenBookmarks
		r.menuItem = 0
	case "Text size":
		// stays open so sizes can be stepped through
		return CycleTextSizeAction{}
	case "Color scheme":
		return CycleSchemeAction{}
	case "About":
		r.mode = ModeAbout
	default: // Close menu
		r.mode = ModeReading
	}
	return nil
}

// handleBookmarks drives the bookmark list. The last row is "Clear
// all"; the rows above it are the bookmarks themselves.
func (r *Router) handleBookmarks(ev KeyEvent, ctx Context) Action {
	rows := ctx.BookmarkCount + 1
	switch ev.Key {
	case KeyUp:
		r.menuItem = wrap(r.menuItem-1, rows)
	case KeyDown:
		r.menuItem = wrap(r.menuItem+1, rows)
	case KeyEnter:
		if r.menuItem >= ctx.BookmarkCount {
			if ctx.BookmarkCount == 0 {
				return nil
			}
			r.screen = ScreenConfirmClear
			return nil
		}
		r.mode = ModeReading
		return OpenBookmarkAction{Index: r.menuItem}
	case KeySoftLeft:
		if r.menuItem < ctx.BookmarkCount {
			r.confirmTarget = r.menuItem
			r.screen = ScreenConfirmDelete
		}
	case KeyEscape, KeyBackspace:
		r.screen = ScreenList
		r.menuItem = 3 // back on the Bookmarks row
	case KeySoftRight:
		r.mode = ModeReading
	}
	return nil
}

func (r *Router) handleConfirm(ev KeyEvent) Action {
	switch ev.Key {
	case KeyEnter:
		confirmed := r.screen
		r.screen = ScreenBookmarks
		r.menuItem = 0
		if confirmed == ScreenConfirmDelete {
			return DeleteBookmarkAction{Index: r.confirmTarget}
		}
		return ClearBookmarksAction{}
	case KeySoftRight, KeyEscape, KeyBackspace:
		r.screen = ScreenBookmarks
	}
	return nil
}

// Labels returns the soft-key captions for the current mode.
func (r *Router) Labels(ctx Context) Labels {
	switch r.mode {
	case ModeURLEntry:
		return Labels{Left: "Cancel", Center: "Go"}
	case ModeAbout:
		return Labels{Center: "OK", Right: "Close"}
	case ModeMenu:
		switch r.screen {
		case ScreenConfirmDelete, ScreenConfirmClear:
			return Labels{Center: "Yes", Right: "No"}
		case ScreenBookmarks:
			l := Labels{Center: "Open", Right: "Close"}
			if r.menuItem < ctx.BookmarkCount {
				l.Left = "Delete"
			} else {
				l.Center = "Clear"
			}
			return l
		default:
			return Labels{Center: "OK", Right: "Close"}
		}
	default:
		l := Labels{Left: "Go to", Right: "Menu"}
		if r.selected >= 0 && r.selected < ctx.LinkCount {
			l.Center = "Open"
		}
		return l
	}
}
