// Package favourites provides persistent bookmark storage.
package favourites

import (
	"encoding/json"
	"strings"

	"padbrowse/store"
)

// storeKey is the key the collection lives under in the state store.
const storeKey = "favourites"

// titleMax is the longest stored bookmark title, in runes.
const titleMax = 20

// Favourite represents a saved bookmark.
type Favourite struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Store manages the bookmark collection, ordered oldest first.
// Duplicate URLs are permitted; entries are distinguished by position.
type Store struct {
	kv    store.Store
	items []Favourite
}

// Load reads the collection from the state store. Damaged or missing
// state starts an empty collection.
func Load(kv store.Store) *Store {
	s := &Store{kv: kv}

	raw := kv.Get(storeKey, "")
	if raw == "" {
		return s
	}
	var items []Favourite
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return s
	}
	s.items = items
	return s
}

// Add appends a bookmark and saves. The title is collapsed to single
// spaces and truncated to 20 characters before storing.
func (s *Store) Add(title, url string) error {
	s.items = append(s.items, Favourite{Title: NormalizeTitle(title), URL: url})
	return s.save()
}

// Remove deletes the bookmark at index and saves.
func (s *Store) Remove(index int) error {
	if index < 0 || index >= len(s.items) {
		return nil
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return s.save()
}

// Clear deletes every bookmark and saves.
func (s *Store) Clear() error {
	s.items = nil
	return s.save()
}

// All returns the bookmarks in storage order.
func (s *Store) All() []Favourite {
	return s.items
}

// Get returns the bookmark at index.
func (s *Store) Get(index int) (Favourite, bool) {
	if index < 0 || index >= len(s.items) {
		return Favourite{}, false
	}
	return s.items[index], true
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) save() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	return s.kv.Set(storeKey, string(data))
}

// NormalizeTitle collapses whitespace runs to single spaces and
// truncates the result to the stored title length.
func NormalizeTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	runes := []rune(title)
	if len(runes) > titleMax {
		title = string(runes[:titleMax])
	}
	return title
}
