package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/briangreenhill/novelreader/internal/app"
	"github.com/briangreenhill/novelreader/meionovel"
)

func homePage(a *app.App) Page {
	return &page{
		name:  "home",
		usage: "",
		render: func(ctx context.Context, args []string) (string, error) {
			res := a.API.Home(ctx)
			if !res.Success {
				return errorState("home", res.Error), nil
			}

			var b strings.Builder
			if latest, ok := a.History.Latest(); ok {
				fmt.Fprintf(&b, "Continue reading: %s, %s (chapter %s %s)\n\n",
					latest.Title, latest.Chapter, latest.Slug, latest.ChapterSlug)
			}
			writeCards(&b, "Featured", res.Data.Slider)
			writeCards(&b, "Latest Updates", res.Data.LatestUpdates)
			writeCards(&b, "Popular", res.Data.Popular)
			return b.String(), nil
		},
	}
}

func searchPage(a *app.App) Page {
	return &page{
		name:  "search",
		usage: "<query> [page]",
		render: func(ctx context.Context, args []string) (string, error) {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return "", fmt.Errorf("%w: missing search query", ErrUsage)
			}
			query := strings.TrimSpace(args[0])
			n, err := pageArg(args, 1)
			if err != nil {
				return "", err
			}

			res := a.API.Search(ctx, query, n)
			if !res.Success {
				return errorState("search results", res.Error), nil
			}
			var b strings.Builder
			writeCards(&b, fmt.Sprintf("Results for %q", query), *res.Data)
			writePagination(&b, res.Pagination)
			return b.String(), nil
		},
	}
}

func genresPage(a *app.App) Page {
	return &page{
		name:  "genres",
		usage: "",
		render: func(ctx context.Context, args []string) (string, error) {
			res := a.API.Genres(ctx)
			if !res.Success {
				return errorState("genres", res.Error), nil
			}
			var b strings.Builder
			b.WriteString("## Genres\n")
			for _, g := range *res.Data {
				fmt.Fprintf(&b, "- %s [%s]", g.Name, g.Slug)
				if g.Count != "" {
					fmt.Fprintf(&b, " (%s)", g.Count)
				}
				b.WriteString("\n")
			}
			return b.String(), nil
		},
	}
}

func genrePage(a *app.App) Page {
	return &page{
		name:  "genre",
		usage: "<slug> [page]",
		render: func(ctx context.Context, args []string) (string, error) {
			if len(args) == 0 || args[0] == "" {
				return "", fmt.Errorf("%w: missing genre slug", ErrUsage)
			}
			n, err := pageArg(args, 1)
			if err != nil {
				return "", err
			}
			res := a.API.GenreNovels(ctx, args[0], n)
			if !res.Success {
				return errorState("genre "+args[0], res.Error), nil
			}
			var b strings.Builder
			writeCards(&b, "Genre: "+args[0], *res.Data)
			writePagination(&b, res.Pagination)
			return b.String(), nil
		},
	}
}

func latestPage(a *app.App) Page {
	return cardListPage("latest", "Latest Updates", a.API.Latest)
}

func popularPage(a *app.App) Page {
	return cardListPage("popular", "Popular", a.API.Popular)
}

func cardListPage(name, heading string, load func(context.Context) meionovel.Result[meionovel.CardList]) Page {
	return &page{
		name:  name,
		usage: "",
		render: func(ctx context.Context, args []string) (string, error) {
			res := load(ctx)
			if !res.Success {
				return errorState(strings.ToLower(heading), res.Error), nil
			}
			var b strings.Builder
			writeCards(&b, heading, *res.Data)
			return b.String(), nil
		},
	}
}

func listPage(a *app.App) Page {
	return &page{
		name:  "list",
		usage: "[page] [orderby]",
		render: func(ctx context.Context, args []string) (string, error) {
			n, err := pageArg(args, 0)
			if err != nil {
				return "", err
			}
			orderBy := ""
			if len(args) > 1 {
				orderBy = args[1]
			}
			res := a.API.List(ctx, n, orderBy)
			if !res.Success {
				return errorState("novel list", res.Error), nil
			}
			var b strings.Builder
			writeCards(&b, "All Novels", *res.Data)
			writePagination(&b, res.Pagination)
			return b.String(), nil
		},
	}
}
