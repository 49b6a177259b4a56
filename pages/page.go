// Package pages renders the reader's screens as text for the terminal
package pages

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/briangreenhill/novelreader/internal/app"
)

// ErrUsage is returned when a page is called with missing or malformed
// arguments
var ErrUsage = errors.New("invalid arguments")

// Page is one screen of the reader
type Page interface {
	// Name is the command the page is reached by (e.g. "home", "chapter")
	Name() string

	// Usage is a one-line synopsis of the arguments
	Usage() string

	// Render loads what the page needs and returns it as text. API failures
	// are rendered as an error state, not returned.
	Render(ctx context.Context, args []string) (string, error)
}

// Registry manages the available pages
type Registry struct {
	pages map[string]Page
}

// NewRegistry creates a new page registry
func NewRegistry() *Registry {
	return &Registry{
		pages: make(map[string]Page),
	}
}

// Register adds a page to the registry
func (r *Registry) Register(p Page) {
	r.pages[p.Name()] = p
}

// Get retrieves a page by name
func (r *Registry) Get(name string) (Page, bool) {
	p, exists := r.pages[name]
	return p, exists
}

// List returns all registered page names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render runs the named page
func (r *Registry) Render(ctx context.Context, name string, args []string) (string, error) {
	p, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("page '%s' not found. Available pages: %v", name, r.List())
	}
	out, err := p.Render(ctx, args)
	if errors.Is(err, ErrUsage) {
		return "", fmt.Errorf("%w\nusage: %s %s", err, p.Name(), p.Usage())
	}
	return out, err
}

// Default registers every page of the reader against a
func Default(a *app.App) *Registry {
	r := NewRegistry()
	r.Register(homePage(a))
	r.Register(searchPage(a))
	r.Register(genresPage(a))
	r.Register(genrePage(a))
	r.Register(latestPage(a))
	r.Register(popularPage(a))
	r.Register(listPage(a))
	r.Register(NewNovel(a))
	r.Register(NewChapter(a))
	r.Register(historyPage(a))
	r.Register(bookmarksPage(a))
	r.Register(bookmarkPage(a))
	r.Register(themePage(a))
	return r
}

// page adapts a render function to Page
type page struct {
	name   string
	usage  string
	render func(ctx context.Context, args []string) (string, error)
}

func (p *page) Name() string  { return p.name }
func (p *page) Usage() string { return p.usage }

func (p *page) Render(ctx context.Context, args []string) (string, error) {
	return p.render(ctx, args)
}
