package pages

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/briangreenhill/novelreader/content"
	"github.com/briangreenhill/novelreader/internal/app"
	"github.com/briangreenhill/novelreader/lightbox"
	"github.com/briangreenhill/novelreader/meionovel"
	"github.com/briangreenhill/novelreader/store"
)

// HistoryCover is the cover saved with history entries; chapter payloads
// carry no novel image
const HistoryCover = "https://meionovels.com/wp-content/uploads/2021/03/cover-3.jpg"

// ErrSuperseded is returned by Load when a newer load started before it
// finished; its result is discarded
var ErrSuperseded = errors.New("chapter load superseded")

// ChapterView is a loaded chapter ready for display
type ChapterView struct {
	Slug        string
	ChapterSlug string
	Title       string
	Blocks      []content.Block
	Navigation  *meionovel.Navigation

	// Error is set when the chapter could not be loaded
	Error string
}

// Chapter renders a chapter and owns the illustration lightbox of the
// chapter last loaded
type Chapter struct {
	app *app.App
	gen atomic.Uint64

	mu   sync.Mutex
	view *ChapterView
	nav  *lightbox.Navigator
}

func NewChapter(a *app.App) *Chapter {
	return &Chapter{app: a, nav: &lightbox.Navigator{}}
}

func (p *Chapter) Name() string  { return "chapter" }
func (p *Chapter) Usage() string { return "<slug> <chapter> | <slug>/<chapter>" }

func (p *Chapter) Render(ctx context.Context, args []string) (string, error) {
	slug, chapter, err := chapterArgs(args)
	if err != nil {
		return "", err
	}
	view, err := p.Load(ctx, slug, chapter)
	if err != nil {
		return "", err
	}
	return FormatChapter(view), nil
}

// Load fetches a chapter, renders its blocks and rebuilds the lightbox. A
// successful load is recorded in the reading history.
func (p *Chapter) Load(ctx context.Context, slug, chapter string) (*ChapterView, error) {
	gen := p.gen.Add(1)
	view := LoadChapter(ctx, p.app, slug, chapter)

	p.mu.Lock()
	if p.gen.Load() != gen {
		p.mu.Unlock()
		return nil, ErrSuperseded
	}
	p.view = view
	p.nav.Reset(view.Blocks)
	p.mu.Unlock()

	RecordRead(p.app, view)
	return view, nil
}

// LoadChapter fetches and renders a chapter without touching any page state
func LoadChapter(ctx context.Context, a *app.App, slug, chapter string) *ChapterView {
	res := a.API.Chapter(ctx, slug, chapter)
	view := &ChapterView{Slug: slug, ChapterSlug: chapter}
	if !res.Success {
		view.Error = res.Error
		return view
	}
	view.Title = res.Data.Title
	view.Blocks = content.Render(res.Data.Content)
	view.Navigation = res.Data.Navigation
	return view
}

// RecordRead appends a successfully loaded chapter to the reading history.
// The novel title is the part of the chapter title before " - ".
func RecordRead(a *app.App, view *ChapterView) {
	if view.Error != "" {
		return
	}
	novelTitle, _, _ := strings.Cut(view.Title, " - ")
	err := a.History.Append(
		store.NovelRef{Slug: view.Slug, Title: novelTitle, Image: HistoryCover},
		store.ChapterRef{Title: view.Title, Slug: view.ChapterSlug},
	)
	if err != nil {
		a.Log.Warn().Err(err).Str("slug", view.Slug).Str("chapter", view.ChapterSlug).Msg("failed to record history")
	}
}

// Current returns the chapter last loaded
func (p *Chapter) Current() (*ChapterView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view, p.view != nil
}

// Lightbox runs fn with the navigator of the current chapter
func (p *Chapter) Lightbox(fn func(n *lightbox.Navigator)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.nav)
}

// Browse opens the lightbox at the illustration with block position ref
// (the first illustration when ref is negative) and steps through it with
// n/p commands read from in until q or EOF. Only the lines it handles are
// consumed from in, so a caller can keep reading commands afterwards.
func (p *Chapter) Browse(ctx context.Context, in *bufio.Reader, out io.Writer, ref int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.nav.Len() == 0 {
		_, err := fmt.Fprintln(out, "This chapter has no illustrations.")
		return err
	}
	if ref < 0 {
		ref = p.nav.Items()[0].Position
	}
	if !p.nav.OpenAt(ref) {
		return fmt.Errorf("%w: no illustration at position %d", ErrUsage, ref)
	}
	defer p.nav.Close()

	for {
		if err := writeLightbox(out, p.nav); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "n", "next":
			p.nav.Next()
		case "p", "prev":
			p.nav.Prev()
		case "q", "quit", "exit":
			return nil
		}
	}
}

func writeLightbox(out io.Writer, n *lightbox.Navigator) error {
	ill, ok := n.Current()
	if !ok {
		return nil
	}
	st := n.State()
	var controls []string
	if n.HasPrev() {
		controls = append(controls, "[p]rev")
	}
	if n.HasNext() {
		controls = append(controls, "[n]ext")
	}
	controls = append(controls, "[q]uit")

	_, err := fmt.Fprintf(out, "Illustration %d/%d\n%s%s\n%s > ",
		st.Index+1, n.Len(), illustrationLine(ill), captionLine(ill), strings.Join(controls, " "))
	return err
}

// FormatChapter renders a loaded chapter as text
func FormatChapter(v *ChapterView) string {
	if v.Error != "" {
		return fmt.Sprintf("Chapter Not Found\nThis chapter may not exist or has been removed. (%s)\nBack to novel: novel %s\n", v.Error, v.Slug)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDash(v.Title))

	illustrations := 0
	for _, blk := range v.Blocks {
		switch blk := blk.(type) {
		case content.TextBlock:
			if text := content.PlainText(blk.Text); text != "" {
				b.WriteString(text)
				b.WriteString("\n\n")
			}
		case content.IllustrationBlock:
			illustrations++
			fmt.Fprintf(&b, "[Illustration #%d] %s%s\n\n", blk.Position, illustrationLine(blk), captionLine(blk))
		}
	}

	b.WriteString("---\n")
	if prev, ok := v.Navigation.PrevLink(); ok {
		fmt.Fprintf(&b, "Previous: chapter %s %s\n", prev.Novel, prev.Chapter)
	}
	if slug := v.Navigation.NovelSlug(); slug != "" {
		fmt.Fprintf(&b, "All chapters: novel %s\n", slug)
	}
	if next, ok := v.Navigation.NextLink(); ok {
		fmt.Fprintf(&b, "Next: chapter %s %s\n", next.Novel, next.Chapter)
	}
	if illustrations > 0 {
		fmt.Fprintf(&b, "Illustrations: %d (browse %s %s)\n", illustrations, v.Slug, v.ChapterSlug)
	}
	return b.String()
}

func illustrationLine(ill content.IllustrationBlock) string {
	if !content.UsableImageURL(ill.ImageURL) {
		return "(image unavailable)"
	}
	return ill.ImageURL
}

func captionLine(ill content.IllustrationBlock) string {
	if ill.Caption == "" {
		return ""
	}
	return "\n  " + ill.Caption
}

// chapterArgs accepts "<slug> <chapter>" or a single "<slug>/<chapter>"
// navigation link
func chapterArgs(args []string) (string, string, error) {
	if len(args) == 1 {
		if l, ok := meionovel.ParseNavLink(args[0]); ok && l.Novel != l.Chapter {
			return l.Novel, l.Chapter, nil
		}
	}
	if len(args) < 2 || args[0] == "" || args[1] == "" {
		return "", "", fmt.Errorf("%w: need a novel slug and a chapter slug", ErrUsage)
	}
	return args[0], args[1], nil
}
