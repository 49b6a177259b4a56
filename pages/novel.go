package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/briangreenhill/novelreader/content"
	"github.com/briangreenhill/novelreader/internal/app"
	"github.com/briangreenhill/novelreader/store"
)

// Novel shows a novel's details and chapter list
type Novel struct {
	app *app.App
}

func NewNovel(a *app.App) *Novel {
	return &Novel{app: a}
}

func (p *Novel) Name() string  { return "novel" }
func (p *Novel) Usage() string { return "<slug>" }

func (p *Novel) Render(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("%w: missing novel slug", ErrUsage)
	}
	slug := args[0]

	res := p.app.API.Detail(ctx, slug)
	if !res.Success {
		return errorState("novel "+slug, res.Error), nil
	}
	n := res.Data

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", orDash(n.Title))
	fmt.Fprintf(&b, "Author: %s\n", orDash(n.Author.String()))
	fmt.Fprintf(&b, "Status: %s\n", orDash(n.Status.String()))
	fmt.Fprintf(&b, "Rating: %s\n", orDash(n.Rating.String()))
	if n.Type != "" {
		fmt.Fprintf(&b, "Type: %s\n", n.Type)
	}
	if n.Release != "" {
		fmt.Fprintf(&b, "Released: %s\n", n.Release)
	}
	if len(n.Genres) > 0 {
		names := make([]string, 0, len(n.Genres))
		for _, g := range n.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintf(&b, "Genres: %s\n", strings.Join(names, ", "))
	}
	if p.app.Bookmarks.IsBookmarked(slug) {
		b.WriteString("Bookmarked: yes\n")
	} else {
		b.WriteString("Bookmarked: no\n")
	}

	for _, h := range p.app.History.List() {
		if h.Slug == slug {
			fmt.Fprintf(&b, "Continue: %s (%s)\n", h.Chapter, h.ChapterSlug)
			break
		}
	}

	if synopsis := content.PlainText(n.Synopsis.String()); synopsis != "" {
		fmt.Fprintf(&b, "\n%s\n", synopsis)
	}

	fmt.Fprintf(&b, "\n## Chapters (%d)\n", len(n.Chapters))
	if len(n.Chapters) == 0 {
		b.WriteString("No chapters available.\n")
	}
	for _, ch := range n.Chapters {
		fmt.Fprintf(&b, "- %s [%s]", orDash(ch.Title), ch.Slug)
		if ch.Date != "" {
			fmt.Fprintf(&b, " · %s", ch.Date)
		}
		b.WriteString("\n")
	}

	if len(n.Related) > 0 {
		b.WriteString("\n")
		writeCards(&b, "Related", n.Related)
	}
	return b.String(), nil
}

func bookmarkPage(a *app.App) Page {
	return &page{
		name:  "bookmark",
		usage: "<slug>",
		render: func(ctx context.Context, args []string) (string, error) {
			if len(args) == 0 || args[0] == "" {
				return "", fmt.Errorf("%w: missing novel slug", ErrUsage)
			}
			bm := BookmarkFor(ctx, a, args[0])
			added, err := a.Bookmarks.Toggle(bm)
			if err != nil {
				return "", err
			}
			title := bm.Title
			if title == "" {
				title = "Unknown Title"
			}
			if added {
				return fmt.Sprintf("Added %s to bookmarks\n", title), nil
			}
			return fmt.Sprintf("Removed %s from bookmarks\n", title), nil
		},
	}
}

// BookmarkFor builds the bookmark of slug from its detail page. A failed
// lookup still yields a bookmark carrying the slug.
func BookmarkFor(ctx context.Context, a *app.App, slug string) store.Bookmark {
	bm := store.Bookmark{Slug: slug}
	if a.Bookmarks.IsBookmarked(slug) {
		// removing needs nothing but the slug; keep the stored title for the message
		for _, it := range a.Bookmarks.List() {
			if it.Slug == slug {
				return it
			}
		}
	}

	res := a.API.Detail(ctx, slug)
	if !res.Success {
		return bm
	}
	n := res.Data
	bm.Title = n.Title
	bm.Image = n.Image
	bm.Author = n.Author.String()
	bm.Status = n.Status.String()
	bm.Rating = n.Rating.String()
	if len(n.Chapters) > 0 {
		bm.LatestChapter = n.Chapters[0].Title
	}
	return bm
}
