package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends opens a fresh store of every driver
func backends(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{}
	for _, driver := range []string{DriverFile, DriverSQLite} {
		s, err := Open(driver, t.TempDir())
		require.NoError(t, err, driver)
		t.Cleanup(func() { _ = Close(s) })
		out[driver] = s
	}
	return out
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.Get("missing")
			assert.False(t, ok)

			require.NoError(t, s.Set("k", "v1"))
			got, ok := s.Get("k")
			require.True(t, ok)
			assert.Equal(t, "v1", got)

			require.NoError(t, s.Set("k", "v2"))
			got, _ = s.Get("k")
			assert.Equal(t, "v2", got)

			require.NoError(t, s.Delete("k"))
			_, ok = s.Get("k")
			assert.False(t, ok)

			// deleting twice is fine
			require.NoError(t, s.Delete("k"))
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	dir := t.TempDir()
	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set("novel/with:odd*chars", "x"))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, ok := s2.Get("novel/with:odd*chars")
	require.True(t, ok)
	assert.Equal(t, "x", got)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, ".json", filepath.Ext(e.Name()))
	}
}

func TestFileStoreFailedSetCleansUp(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	// a non-empty directory at the target path makes the rename fail
	target := filepath.Join(dir, sanitizeKey("blocked")+".json")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o700))

	require.Error(t, fs.Set("blocked", "x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "blocked.json", entries[0].Name())
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s1, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ThemeKey, ThemeDark))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, ThemeDark, Theme(s2))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", t.TempDir())
	assert.Error(t, err)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestHistoryAppend(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			h := NewHistory(s)
			base := time.UnixMilli(1_700_000_000_000)
			h.now = fixedClock(base)

			novel := NovelRef{Slug: "overlord", Title: "Overlord", Image: "https://x/cover.jpg 300w"}
			require.NoError(t, h.Append(novel, ChapterRef{Title: "Chapter 1", Slug: "ch-1"}))

			h.now = fixedClock(base.Add(time.Minute))
			require.NoError(t, h.Append(novel, ChapterRef{Title: "Chapter 2", Slug: "ch-2"}))

			items := h.List()
			require.Len(t, items, 2)
			assert.Equal(t, "overlord-ch-2", items[0].ID)
			assert.Equal(t, "overlord-ch-1", items[1].ID)
			assert.Equal(t, "https://x/cover.jpg", items[0].Image)
			assert.Equal(t, base.Add(time.Minute).UnixMilli(), items[0].Timestamp)

			// re-reading moves the entry to the front without duplicating it
			h.now = fixedClock(base.Add(2 * time.Minute))
			require.NoError(t, h.Append(novel, ChapterRef{Title: "Chapter 1", Slug: "ch-1"}))
			items = h.List()
			require.Len(t, items, 2)
			assert.Equal(t, "overlord-ch-1", items[0].ID)

			latest, ok := h.Latest()
			require.True(t, ok)
			assert.Equal(t, "ch-1", latest.ChapterSlug)

			require.NoError(t, h.Clear())
			assert.Empty(t, h.List())
			_, ok = h.Latest()
			assert.False(t, ok)
		})
	}
}

func TestHistoryDefaultsAndCap(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	h := NewHistory(s)

	require.NoError(t, h.Append(NovelRef{Slug: "n"}, ChapterRef{Slug: "c"}))
	items := h.List()
	require.Len(t, items, 1)
	assert.Equal(t, "Unknown Title", items[0].Title)
	assert.Equal(t, "Chapter", items[0].Chapter)
	assert.Equal(t, PlaceholderImage, items[0].Image)

	for i := 0; i < HistoryLimit+10; i++ {
		require.NoError(t, h.Append(NovelRef{Slug: "n", Title: "N"}, ChapterRef{Slug: fmt.Sprintf("c%d", i)}))
	}
	items = h.List()
	require.Len(t, items, HistoryLimit)
	assert.Equal(t, fmt.Sprintf("n-c%d", HistoryLimit+9), items[0].ID)
}

func TestHistoryDropsIncompleteEntries(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Set(HistoryKey, `[{"id":"a","slug":"a","title":"A"},{"id":"b","slug":"","title":"B"},{"id":"c","slug":"c","title":""}]`))

	items := NewHistory(s).List()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Slug)
}

func TestHistoryCorruptValue(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Set(HistoryKey, "not json"))

	h := NewHistory(s)
	assert.Empty(t, h.List())
	require.NoError(t, h.Append(NovelRef{Slug: "n", Title: "N"}, ChapterRef{Slug: "c"}))
	assert.Len(t, h.List(), 1)
}

func TestBookmarksToggle(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			bm := NewBookmarks(s)

			added, err := bm.Toggle(Bookmark{Slug: "overlord", Title: "Overlord", Image: ""})
			require.NoError(t, err)
			assert.True(t, added)
			assert.True(t, bm.IsBookmarked("overlord"))

			added, err = bm.Toggle(Bookmark{Slug: "re-zero"})
			require.NoError(t, err)
			assert.True(t, added)

			list := bm.List()
			require.Len(t, list, 2)
			assert.Equal(t, "re-zero", list[0].Slug)
			assert.Equal(t, "Unknown Title", list[0].Title)
			assert.Equal(t, PlaceholderImage, list[1].Image)
			assert.NotZero(t, list[1].Added)

			added, err = bm.Toggle(Bookmark{Slug: "overlord"})
			require.NoError(t, err)
			assert.False(t, added)
			assert.False(t, bm.IsBookmarked("overlord"))
			assert.Len(t, bm.List(), 1)

			require.NoError(t, bm.Clear())
			assert.Empty(t, bm.List())
		})
	}
}

func TestBookmarksRejectInvalid(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = NewBookmarks(s).Toggle(Bookmark{Title: "No slug"})
	assert.ErrorIs(t, err, ErrInvalidBookmark)
}

func TestTheme(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ThemeLight, Theme(s))
	require.NoError(t, SetTheme(s, ThemeDark))
	assert.Equal(t, ThemeDark, Theme(s))
	assert.Error(t, SetTheme(s, "sepia"))
	assert.Equal(t, ThemeDark, Theme(s))

	require.NoError(t, s.Set(ThemeKey, "garbage"))
	assert.Equal(t, ThemeLight, Theme(s))
}

func TestEnsureUserID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	id, err := EnsureUserID(s)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	again, err := EnsureUserID(s)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestCleanImageURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", PlaceholderImage},
		{"   ", PlaceholderImage},
		{"https://x/a.jpg", "https://x/a.jpg"},
		{"https://x/a.jpg 300w", "https://x/a.jpg"},
		{"  https://x/a.jpg  ", "https://x/a.jpg"},
	}
	for _, tt := range tests {
		if got := CleanImageURL(tt.in); got != tt.want {
			t.Errorf("CleanImageURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
