package input

// Action represents a command the browser should execute in response
// to a key press.
type Action interface {
	Type() string
}

// ScrollAction scrolls by a fraction of the view height. Negative
// fractions scroll up.
type ScrollAction struct {
	Fraction float64
}

func (a ScrollAction) Type() string { return "scroll" }

// ScrollLinesAction scrolls by whole rows on pages with no links.
type ScrollLinesAction struct {
	Lines int
}

func (a ScrollLinesAction) Type() string { return "scroll_lines" }

// ScrollTopAction jumps to the top of the page.
type ScrollTopAction struct{}

func (a ScrollTopAction) Type() string { return "scroll_top" }

// SelectLinkAction moves the focus to the link at Index in traversal
// order.
type SelectLinkAction struct {
	Index int
}

func (a SelectLinkAction) Type() string { return "select_link" }

// ClearSelectionAction drops the current link focus.
type ClearSelectionAction struct{}

func (a ClearSelectionAction) Type() string { return "clear_selection" }

// OpenLinkAction activates the link at Index in traversal order.
type OpenLinkAction struct {
	Index int
}

func (a OpenLinkAction) Type() string { return "open_link" }

// SubmitURLAction submits typed address bar input.
type SubmitURLAction struct {
	Text string
}

func (a SubmitURLAction) Type() string { return "submit_url" }

// BackAction returns to the previous page.
type BackAction struct{}

func (a BackAction) Type() string { return "back" }

// ReloadAction refetches the current page.
type ReloadAction struct{}

func (a ReloadAction) Type() string { return "reload" }

// QuitAction exits the browser.
type QuitAction struct{}

func (a QuitAction) Type() string { return "quit" }

// AddBookmarkAction bookmarks the current page.
type AddBookmarkAction struct{}

func (a AddBookmarkAction) Type() string { return "add_bookmark" }

// OpenBookmarkAction navigates to the bookmark at Index.
type OpenBookmarkAction struct {
	Index int
}

func (a OpenBookmarkAction) Type() string { return "open_bookmark" }

// DeleteBookmarkAction removes the bookmark at Index.
type DeleteBookmarkAction struct {
	Index int
}

func (a DeleteBookmarkAction) Type() string { return "delete_bookmark" }

// ClearBookmarksAction removes every bookmark.
type ClearBookmarksAction struct{}

func (a ClearBookmarksAction) Type() string { return "clear_bookmarks" }

// CycleTextSizeAction steps to the next text size level.
type CycleTextSizeAction struct{}

func (a CycleTextSizeAction) Type() string { return "cycle_text_size" }

// CycleSchemeAction steps to the next color scheme.
type CycleSchemeAction struct{}

func (a CycleSchemeAction) Type() string { return "cycle_scheme" }
