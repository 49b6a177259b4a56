package lightbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/novelreader/content"
)

func chapterBlocks() []content.Block {
	return []content.Block{
		content.TextBlock{Text: "intro"},
		content.IllustrationBlock{ImageURL: "https://cdn/1.png", Caption: "one", Position: 1},
		content.TextBlock{Text: "middle"},
		content.IllustrationBlock{ImageURL: "https://cdn/2.png", Caption: "two", Position: 3},
		content.IllustrationBlock{ImageURL: "https://cdn/3.png", Caption: "three", Position: 4},
	}
}

func TestNavigatorStartsClosed(t *testing.T) {
	n := New(chapterBlocks())

	assert.Equal(t, State{}, n.State())
	assert.Equal(t, 3, n.Len())
	assert.False(t, n.Next())
	assert.False(t, n.Prev())
	_, ok := n.Current()
	assert.False(t, ok)
}

func TestNavigatorOpenAt(t *testing.T) {
	n := New(chapterBlocks())

	require.True(t, n.OpenAt(3))
	assert.Equal(t, State{Open: true, Index: 1}, n.State())
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "two", cur.Caption)
	assert.True(t, n.HasPrev())
	assert.True(t, n.HasNext())
}

func TestNavigatorOpenAtUnknownRef(t *testing.T) {
	n := New(chapterBlocks())

	assert.False(t, n.OpenAt(0), "text block is not tracked")
	assert.False(t, n.OpenAt(42))
	assert.Equal(t, State{}, n.State())

	require.True(t, n.OpenAt(1))
	assert.False(t, n.OpenAt(99))
	assert.Equal(t, State{Open: true, Index: 0}, n.State())
}

func TestNavigatorBounds(t *testing.T) {
	n := New(chapterBlocks())

	require.True(t, n.OpenAt(4))
	assert.False(t, n.HasNext())
	assert.False(t, n.Next())
	assert.Equal(t, State{Open: true, Index: 2}, n.State())

	require.True(t, n.OpenAt(1))
	assert.False(t, n.HasPrev())
	assert.False(t, n.Prev())
	assert.Equal(t, State{Open: true, Index: 0}, n.State())
}

func TestNavigatorWalk(t *testing.T) {
	n := New(chapterBlocks())
	require.True(t, n.OpenAt(1))

	var seen []string
	for {
		cur, _ := n.Current()
		seen = append(seen, cur.Caption)
		if !n.Next() {
			break
		}
	}
	assert.Equal(t, []string{"one", "two", "three"}, seen)

	assert.True(t, n.Prev())
	cur, _ := n.Current()
	assert.Equal(t, "two", cur.Caption)
}

func TestNavigatorClose(t *testing.T) {
	n := New(chapterBlocks())
	require.True(t, n.OpenAt(3))

	n.Close()
	assert.Equal(t, State{}, n.State())
	assert.False(t, n.Next())
	assert.False(t, n.Prev())
	assert.False(t, n.HasNext())
	assert.False(t, n.HasPrev())

	require.True(t, n.OpenAt(3))
	assert.Equal(t, State{Open: true, Index: 1}, n.State())
}

func TestNavigatorEmptyIsInert(t *testing.T) {
	n := New([]content.Block{content.TextBlock{Text: "only text"}})

	assert.Equal(t, 0, n.Len())
	assert.False(t, n.OpenAt(0))
	assert.False(t, n.Next())
	assert.False(t, n.Prev())
	n.Close()
	assert.Equal(t, State{}, n.State())

	var zero Navigator
	assert.False(t, zero.Next())
	assert.False(t, zero.OpenAt(0))
}

func TestNavigatorSingleIllustration(t *testing.T) {
	n := New([]content.Block{
		content.TextBlock{Text: "Once upon a time"},
		content.IllustrationBlock{ImageURL: "https://cdn/x.png", Caption: "A dragon", Position: 1},
	})

	require.Equal(t, 1, n.Len())
	require.True(t, n.OpenAt(1))
	assert.False(t, n.HasPrev())
	assert.False(t, n.HasNext())
	assert.False(t, n.Next())
	assert.Equal(t, State{Open: true, Index: 0}, n.State())
}

func TestNavigatorResetDropsPreviousChapter(t *testing.T) {
	n := New(chapterBlocks())
	require.True(t, n.OpenAt(4))

	n.Reset([]content.Block{
		content.IllustrationBlock{ImageURL: "https://cdn/new.png", Position: 0},
	})

	assert.Equal(t, State{}, n.State())
	assert.Equal(t, 1, n.Len())
	assert.False(t, n.OpenAt(4), "refs from the previous chapter must not resolve")
	require.True(t, n.OpenAt(0))
	cur, _ := n.Current()
	assert.Equal(t, "https://cdn/new.png", cur.ImageURL)
}
