package input

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func key(k Key) KeyEvent         { return KeyEvent{Key: k} }
func runeKey(r rune) KeyEvent    { return KeyEvent{Key: KeyRune, Rune: r} }
func ctxWithLinks(n int) Context { return Context{LinkCount: n} }

func TestReadingDownSelectsNearestFirst(t *testing.T) {
	r := NewRouter()
	ctx := Context{LinkCount: 3, Nearest: func(down bool) int { return 1 }}

	act := r.HandleKey(key(KeyDown), ctx)
	require.Equal(t, SelectLinkAction{Index: 1}, act, "first press should use the nearest link")
	require.Equal(t, 1, r.Selected())

	act = r.HandleKey(key(KeyDown), ctx)
	require.Equal(t, SelectLinkAction{Index: 2}, act, "next press should advance in order")

	act = r.HandleKey(key(KeyDown), ctx)
	require.Equal(t, SelectLinkAction{Index: 0}, act, "traversal should wrap at the end")
}

func TestReadingUpWithoutNearestPicksLast(t *testing.T) {
	r := NewRouter()
	act := r.HandleKey(key(KeyUp), ctxWithLinks(4))
	require.Equal(t, SelectLinkAction{Index: 3}, act)
}

func TestReadingNoLinksScrollsLines(t *testing.T) {
	r := NewRouter()
	require.Equal(t, ScrollLinesAction{Lines: 3}, r.HandleKey(key(KeyDown), ctxWithLinks(0)))
	require.Equal(t, ScrollLinesAction{Lines: -3}, r.HandleKey(key(KeyUp), ctxWithLinks(0)))
	require.Equal(t, -1, r.Selected(), "scrolling should not create a selection")
}

func TestEnterOpensSelectedLink(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(2)

	require.Nil(t, r.HandleKey(key(KeyEnter), ctx), "enter with no focus does nothing")

	r.HandleKey(key(KeyDown), ctx)
	act := r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, OpenLinkAction{Index: 0}, act)
}

func TestEscapeClearsSelection(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(2)
	r.HandleKey(key(KeyDown), ctx)

	require.Equal(t, ClearSelectionAction{}, r.HandleKey(key(KeyEscape), ctx))
	require.Equal(t, -1, r.Selected())
	require.Nil(t, r.HandleKey(key(KeyEscape), ctx), "second escape has nothing to clear")
}

func TestBackspaceGoesBackOrQuits(t *testing.T) {
	r := NewRouter()
	require.Equal(t, BackAction{}, r.HandleKey(key(KeyBackspace), Context{HistoryLen: 2}))
	require.Equal(t, QuitAction{}, r.HandleKey(key(KeyBackspace), Context{HistoryLen: 0}))
}

func TestVolumeRockerOnlyScrollsWhileReading(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(0)

	require.Equal(t, ScrollAction{Fraction: 0.75}, r.HandleKey(key(KeyPageDown), ctx))
	require.Equal(t, ScrollAction{Fraction: -0.75}, r.HandleKey(key(KeyPageUp), ctx))

	r.HandleKey(key(KeySoftRight), ctx) // open menu
	require.Equal(t, ModeMenu, r.Mode())
	require.Nil(t, r.HandleKey(key(KeyPageDown), ctx), "rocker must be inert under an overlay")
	require.Equal(t, ModeMenu, r.Mode())
}

func TestURLEntryFlow(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(0)

	r.HandleKey(key(KeySoftLeft), ctx)
	require.Equal(t, ModeURLEntry, r.Mode())

	r.HandleKey(runeKey('g'), ctx)
	r.HandleKey(runeKey('o'), ctx)
	require.Equal(t, "go", r.URLInput())

	r.HandleKey(key(KeyBackspace), ctx)
	require.Equal(t, "g", r.URLInput())

	act := r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, SubmitURLAction{Text: "g"}, act)
	require.Equal(t, ModeReading, r.Mode())
	require.Empty(t, r.URLInput(), "buffer should clear after submit")
}

func TestURLEntryBackspaceOnEmptyCloses(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(0)
	r.HandleKey(key(KeySoftLeft), ctx)

	require.Nil(t, r.HandleKey(key(KeyBackspace), ctx))
	require.Equal(t, ModeReading, r.Mode())
}

func TestURLEntryIgnoresEmptySubmit(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(0)
	r.HandleKey(key(KeySoftLeft), ctx)

	require.Nil(t, r.HandleKey(key(KeyEnter), ctx))
	require.Equal(t, ModeURLEntry, r.Mode(), "empty submit should stay in entry mode")
}

func TestMenuNavigationAndActivation(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(0)

	r.HandleKey(key(KeySoftRight), ctx)
	require.Equal(t, ModeMenu, r.Mode())
	require.Equal(t, ScreenList, r.Screen())
	require.Equal(t, 0, r.MenuItem())

	r.HandleKey(key(KeyDown), ctx)
	require.Equal(t, 1, r.MenuItem())
	r.HandleKey(key(KeyUp), ctx)
	r.HandleKey(key(KeyUp), ctx)
	require.Equal(t, len(MenuItems())-1, r.MenuItem(), "menu should wrap upward")

	r.HandleKey(key(KeyDown), ctx)
	r.HandleKey(key(KeyDown), ctx) // down to "Reload"
	act := r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, ReloadAction{}, act)
	require.Equal(t, ModeReading, r.Mode(), "reload closes the menu")
}

func TestMenuCyclesKeepMenuOpen(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(0)
	r.HandleKey(key(KeySoftRight), ctx)
	for i := 0; i < 4; i++ { // down to "Text size"
		r.HandleKey(key(KeyDown), ctx)
	}

	require.Equal(t, CycleTextSizeAction{}, r.HandleKey(key(KeyEnter), ctx))
	require.Equal(t, ModeMenu, r.Mode(), "size cycling should keep the menu open")

	r.HandleKey(key(KeyDown), ctx) // "Color scheme"
	require.Equal(t, CycleSchemeAction{}, r.HandleKey(key(KeyEnter), ctx))
	require.Equal(t, ModeMenu, r.Mode())
}

func openBookmarks(t *testing.T, r *Router, ctx Context) {
	t.Helper()
	r.HandleKey(key(KeySoftRight), ctx)
	for i := 0; i < 3; i++ { // down to "Bookmarks"
		r.HandleKey(key(KeyDown), ctx)
	}
	r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, ScreenBookmarks, r.Screen())
}

func TestDeleteBookmarkNeedsConfirmation(t *testing.T) {
	r := NewRouter()
	ctx := Context{BookmarkCount: 3}
	openBookmarks(t, r, ctx)

	r.HandleKey(key(KeyDown), ctx)
	r.HandleKey(key(KeyDown), ctx) // third bookmark
	require.Nil(t, r.HandleKey(key(KeySoftLeft), ctx))
	require.Equal(t, ScreenConfirmDelete, r.Screen())
	require.Equal(t, 2, r.ConfirmTarget())

	act := r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, DeleteBookmarkAction{Index: 2}, act)
	require.Equal(t, ScreenBookmarks, r.Screen(), "confirming returns to the list")
}

func TestDeleteBookmarkCancel(t *testing.T) {
	r := NewRouter()
	ctx := Context{BookmarkCount: 2}
	openBookmarks(t, r, ctx)

	r.HandleKey(key(KeySoftLeft), ctx)
	require.Equal(t, ScreenConfirmDelete, r.Screen())

	require.Nil(t, r.HandleKey(key(KeyEscape), ctx), "cancel must not delete")
	require.Equal(t, ScreenBookmarks, r.Screen())
}

func TestClearAllBookmarksNeedsConfirmation(t *testing.T) {
	r := NewRouter()
	ctx := Context{BookmarkCount: 2}
	openBookmarks(t, r, ctx)

	r.HandleKey(key(KeyUp), ctx) // wrap up to the "Clear all" row
	require.Nil(t, r.HandleKey(key(KeyEnter), ctx))
	require.Equal(t, ScreenConfirmClear, r.Screen())

	require.Equal(t, ClearBookmarksAction{}, r.HandleKey(key(KeyEnter), ctx))
}

func TestOpenBookmark(t *testing.T) {
	r := NewRouter()
	ctx := Context{BookmarkCount: 2}
	openBookmarks(t, r, ctx)

	r.HandleKey(key(KeyDown), ctx)
	act := r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, OpenBookmarkAction{Index: 1}, act)
	require.Equal(t, ModeReading, r.Mode())
}

func TestBookmarksBackspaceReturnsToMenu(t *testing.T) {
	r := NewRouter()
	ctx := Context{BookmarkCount: 1}
	openBookmarks(t, r, ctx)

	r.HandleKey(key(KeyBackspace), ctx)
	require.Equal(t, ScreenList, r.Screen())
	require.Equal(t, ModeMenu, r.Mode())
}

func TestAboutScreen(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(0)
	r.HandleKey(key(KeySoftRight), ctx)
	for i := 0; i < 6; i++ { // down to "About"
		r.HandleKey(key(KeyDown), ctx)
	}
	r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, ModeAbout, r.Mode())

	require.Nil(t, r.HandleKey(runeKey('x'), ctx))
	require.Equal(t, ModeAbout, r.Mode(), "stray keys should not close about")

	r.HandleKey(key(KeyEnter), ctx)
	require.Equal(t, ModeReading, r.Mode())
}

func TestLabelsFollowMode(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(1)

	require.Equal(t, Labels{Left: "Go to", Right: "Menu"}, r.Labels(ctx))

	r.HandleKey(key(KeyDown), ctx)
	require.Equal(t, "Open", r.Labels(ctx).Center, "focused link enables the open label")

	r.HandleKey(key(KeySoftLeft), ctx)
	require.Equal(t, Labels{Left: "Cancel", Center: "Go"}, r.Labels(ctx))
}

func TestClampSelection(t *testing.T) {
	r := NewRouter()
	ctx := ctxWithLinks(5)
	for i := 0; i < 4; i++ {
		r.HandleKey(key(KeyDown), ctx)
	}
	require.Equal(t, 3, r.Selected())

	r.ClampSelection(2)
	require.Equal(t, -1, r.Selected())
}
