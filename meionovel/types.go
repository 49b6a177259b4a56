package meionovel

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/briangreenhill/novelreader/content"
)

// Envelope is the uniform result of every API call, cached or live.
// Success implies Data is set; a failure always carries Error.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`

	// Cause is the typed error behind a failure, when one is known
	Cause error `json:"-"`
}

// Result is an Envelope whose data has been decoded into T
type Result[T any] struct {
	Success    bool
	Data       *T
	Error      string
	Pagination *Pagination
}

// Pagination as reported by paged endpoints
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Home is the home feed
type Home struct {
	Slider        []NovelCard `json:"slider"`
	LatestUpdates []NovelCard `json:"latestUpdates"`
	Popular       []NovelCard `json:"popular"`
}

// NovelCard is the summary of a novel shown in listings
type NovelCard struct {
	Slug             string `json:"slug"`
	Title            string `json:"title"`
	Image            string `json:"image"`
	Rating           Text   `json:"rating"`
	Status           Text   `json:"status"`
	Author           Text   `json:"author"`
	LatestChapter    string `json:"latestChapter"`
	LatestChapterAlt string `json:"latest_chapter"`
}

// Latest returns the latest chapter label whichever field the API used
func (n NovelCard) Latest() string {
	if n.LatestChapter != "" {
		return n.LatestChapter
	}
	return n.LatestChapterAlt
}

// CardList is a list of novels. Some endpoints wrap the list in an object,
// so both shapes are accepted.
type CardList []NovelCard

func (l *CardList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var cards []NovelCard
		if err := json.Unmarshal(b, &cards); err != nil {
			return err
		}
		*l = cards
		return nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	for _, k := range []string{"novels", "results", "items", "data"} {
		if raw, ok := wrapped[k]; ok {
			return l.UnmarshalJSON(raw)
		}
	}
	*l = nil
	return nil
}

// Novel is the detail page of a novel
type Novel struct {
	Slug     string       `json:"slug"`
	Title    string       `json:"title"`
	Image    string       `json:"image"`
	Rating   Text         `json:"rating"`
	Status   Text         `json:"status"`
	Author   Text         `json:"author"`
	Type     Text         `json:"type"`
	Release  Text         `json:"release"`
	Synopsis Text         `json:"synopsis"`
	Genres   []Genre      `json:"genres"`
	Chapters []ChapterRef `json:"chapters"`
	Related  []NovelCard  `json:"related"`
}

// ChapterRef is an entry of a novel's chapter list
type ChapterRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Date  string `json:"date"`
}

// Genre is a genre with an optional novel count
type Genre struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count Text   `json:"count"`
}

// Chapter is a chapter payload
type Chapter struct {
	Title      string         `json:"title"`
	Content    []content.Item `json:"content"`
	Navigation *Navigation    `json:"navigation,omitempty"`
}

// Text is a loosely typed display field: string, number, bool or a list of
// strings all decode into plain text
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '[':
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		*t = Text(strings.Join(parts, "\n"))
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }
