package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briangreenhill/novelreader/internal/app"
	"github.com/briangreenhill/novelreader/store"
)

func historyPage(a *app.App) Page {
	return &page{
		name:  "history",
		usage: "[clear]",
		render: func(ctx context.Context, args []string) (string, error) {
			if len(args) > 0 {
				if args[0] != "clear" {
					return "", fmt.Errorf("%w: unknown history action %q", ErrUsage, args[0])
				}
				if err := a.History.Clear(); err != nil {
					return "", err
				}
				return "Reading history cleared\n", nil
			}

			items := a.History.List()
			var b strings.Builder
			b.WriteString("## Reading History\n")
			if len(items) == 0 {
				b.WriteString("No reading history yet.\n")
				return b.String(), nil
			}
			now := time.Now()
			for _, it := range items {
				fmt.Fprintf(&b, "- %s, %s [%s %s] · %s\n",
					it.Title, it.Chapter, it.Slug, it.ChapterSlug, ago(it.Time(), now))
			}
			return b.String(), nil
		},
	}
}

func bookmarksPage(a *app.App) Page {
	return &page{
		name:  "bookmarks",
		usage: "[clear]",
		render: func(ctx context.Context, args []string) (string, error) {
			if len(args) > 0 {
				if args[0] != "clear" {
					return "", fmt.Errorf("%w: unknown bookmarks action %q", ErrUsage, args[0])
				}
				if err := a.Bookmarks.Clear(); err != nil {
					return "", err
				}
				return "Bookmarks cleared\n", nil
			}

			items := a.Bookmarks.List()
			var b strings.Builder
			b.WriteString("## Bookmarks\n")
			if len(items) == 0 {
				b.WriteString("No bookmarks yet.\n")
				return b.String(), nil
			}
			for _, it := range items {
				fmt.Fprintf(&b, "- %s [%s]", it.Title, it.Slug)
				if it.LatestChapter != "" {
					fmt.Fprintf(&b, " · %s", it.LatestChapter)
				}
				if it.Status != "" {
					fmt.Fprintf(&b, " · %s", it.Status)
				}
				b.WriteString("\n")
			}
			return b.String(), nil
		},
	}
}

func themePage(a *app.App) Page {
	return &page{
		name:  "theme",
		usage: "[light|dark]",
		render: func(ctx context.Context, args []string) (string, error) {
			if len(args) == 0 {
				return fmt.Sprintf("Theme: %s\n", store.Theme(a.Store)), nil
			}
			if err := store.SetTheme(a.Store, args[0]); err != nil {
				return "", fmt.Errorf("%w: %v", ErrUsage, err)
			}
			return fmt.Sprintf("Theme set to %s\n", args[0]), nil
		},
	}
}
