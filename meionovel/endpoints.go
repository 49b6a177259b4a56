package meionovel

import (
	"context"
	"net/url"
	"strconv"
)

// Home returns the home feed
func (c *Client) Home(ctx context.Context) Result[Home] {
	return decode[Home](c.get(ctx, "/home", nil))
}

// Search returns a page of novels matching query (page starts at 1)
func (c *Client) Search(ctx context.Context, query string, page int) Result[CardList] {
	return decode[CardList](c.get(ctx, "/search/"+url.PathEscape(query)+"/"+pageParam(page), nil))
}

// Detail returns a novel with its chapter list
func (c *Client) Detail(ctx context.Context, slug string) Result[Novel] {
	return decode[Novel](c.get(ctx, "/detail/"+url.PathEscape(slug), nil))
}

// Chapter returns the title, content items and navigation of a chapter
func (c *Client) Chapter(ctx context.Context, slug, chapter string) Result[Chapter] {
	return decode[Chapter](c.get(ctx, "/chapter/"+url.PathEscape(slug)+"/"+url.PathEscape(chapter), nil))
}

// Genres returns every genre
func (c *Client) Genres(ctx context.Context) Result[[]Genre] {
	return decode[[]Genre](c.get(ctx, "/genres", nil))
}

// GenreNovels returns a page of novels in a genre
func (c *Client) GenreNovels(ctx context.Context, slug string, page int) Result[CardList] {
	return decode[CardList](c.get(ctx, "/genre/"+url.PathEscape(slug)+"/"+pageParam(page), nil))
}

// Latest returns recently updated novels
func (c *Client) Latest(ctx context.Context) Result[CardList] {
	return decode[CardList](c.get(ctx, "/latest", nil))
}

// Popular returns popular novels
func (c *Client) Popular(ctx context.Context) Result[CardList] {
	return decode[CardList](c.get(ctx, "/popular", nil))
}

// List returns a page of the full catalog ordered by orderBy ("latest" when empty)
func (c *Client) List(ctx context.Context, page int, orderBy string) Result[CardList] {
	if orderBy == "" {
		orderBy = "latest"
	}
	return decode[CardList](c.get(ctx, "/list", map[string]string{
		"page":    pageParam(page),
		"orderby": orderBy,
	}))
}

func pageParam(page int) string {
	if page <= 0 {
		page = 1
	}
	return strconv.Itoa(page)
}
