package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// HistoryLimit is how many reading history entries are kept
const HistoryLimit = 50

// HistoryItem is one read chapter. Timestamp is in Unix milliseconds.
type HistoryItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
	Chapter     string `json:"chapter"`
	ChapterSlug string `json:"chapterSlug"`
	Timestamp   int64  `json:"timestamp"`
}

// Time returns Timestamp as a time.Time
func (h HistoryItem) Time() time.Time {
	return time.UnixMilli(h.Timestamp)
}

// NovelRef identifies the novel a history entry belongs to
type NovelRef struct {
	Slug  string
	Title string
	Image string
}

// ChapterRef identifies the chapter that was read
type ChapterRef struct {
	Title string
	Slug  string
}

// History is the reading history, newest first
type History struct {
	mu  sync.Mutex
	s   Store
	now func() time.Time
}

func NewHistory(s Store) *History {
	return &History{s: s, now: time.Now}
}

// Append records that chapter of novel was read. An earlier entry for the
// same chapter is replaced and the list is capped at HistoryLimit.
func (h *History) Append(novel NovelRef, chapter ChapterRef) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	item := HistoryItem{
		ID:          novel.Slug + "-" + chapter.Slug,
		Title:       orDefault(novel.Title, "Unknown Title"),
		Slug:        novel.Slug,
		Image:       CleanImageURL(novel.Image),
		Chapter:     orDefault(chapter.Title, "Chapter"),
		ChapterSlug: chapter.Slug,
		Timestamp:   h.now().UnixMilli(),
	}

	items := []HistoryItem{item}
	for _, it := range h.load() {
		if it.ID != item.ID {
			items = append(items, it)
		}
	}
	if len(items) > HistoryLimit {
		items = items[:HistoryLimit]
	}
	return h.save(items)
}

// List returns the history, newest first
func (h *History) List() []HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

// Latest returns the most recently read chapter
func (h *History) Latest() (HistoryItem, bool) {
	items := h.List()
	if len(items) == 0 {
		return HistoryItem{}, false
	}
	return items[0], true
}

// Clear removes every history entry
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.save(nil)
}

// load drops entries without a slug or title; a corrupt value reads as empty
func (h *History) load() []HistoryItem {
	raw, ok := h.s.Get(HistoryKey)
	if !ok {
		return nil
	}
	var items []HistoryItem
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

func (h *History) save(items []HistoryItem) error {
	if items == nil {
		items = []HistoryItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := h.s.Set(HistoryKey, string(b)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
