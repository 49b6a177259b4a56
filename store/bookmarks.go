package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidBookmark is returned when a novel has no slug
var ErrInvalidBookmark = errors.New("cannot bookmark: invalid novel data")

// Bookmark is a saved novel. Added is in Unix milliseconds.
type Bookmark struct {
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Image         string `json:"image"`
	LatestChapter string `json:"latestChapter"`
	Author        string `json:"author"`
	Status        string `json:"status"`
	Rating        string `json:"rating"`
	Added         int64  `json:"added"`
}

// Bookmarks is the bookmark list, most recently added first
type Bookmarks struct {
	mu  sync.Mutex
	s   Store
	now func() time.Time
}

func NewBookmarks(s Store) *Bookmarks {
	return &Bookmarks{s: s, now: time.Now}
}

// Toggle adds b when its slug is not bookmarked yet and removes it otherwise.
// It reports whether the novel is bookmarked afterwards.
func (bm *Bookmarks) Toggle(b Bookmark) (bool, error) {
	b.Title = orDefault(b.Title, "Unknown Title")
	b.Image = CleanImageURL(b.Image)
	if b.Slug == "" {
		return false, ErrInvalidBookmark
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	items := bm.load()
	for i, it := range items {
		if it.Slug == b.Slug {
			items = append(items[:i], items[i+1:]...)
			return false, bm.save(items)
		}
	}

	b.Added = bm.now().UnixMilli()
	items = append([]Bookmark{b}, items...)
	return true, bm.save(items)
}

// IsBookmarked reports whether slug is bookmarked
func (bm *Bookmarks) IsBookmarked(slug string) bool {
	for _, it := range bm.List() {
		if it.Slug == slug {
			return true
		}
	}
	return false
}

// List returns the bookmarks
func (bm *Bookmarks) List() []Bookmark {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.load()
}

// Clear removes every bookmark
func (bm *Bookmarks) Clear() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.save(nil)
}

func (bm *Bookmarks) load() []Bookmark {
	raw, ok := bm.s.Get(BookmarkKey)
	if !ok {
		return nil
	}
	var items []Bookmark
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	out := items[:0]
	for _, it := range items {
		if it.Slug != "" && it.Title != "" {
			out = append(out, it)
		}
	}
	return out
}

func (bm *Bookmarks) save(items []Bookmark) error {
	if items == nil {
		items = []Bookmark{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := bm.s.Set(BookmarkKey, string(b)); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}
