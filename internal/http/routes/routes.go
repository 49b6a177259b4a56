package routes

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/novelreader/content"
	"github.com/briangreenhill/novelreader/internal/app"
	appmw "github.com/briangreenhill/novelreader/internal/http/middleware"
	"github.com/briangreenhill/novelreader/lightbox"
	"github.com/briangreenhill/novelreader/meionovel"
	"github.com/briangreenhill/novelreader/pages"
	"github.com/briangreenhill/novelreader/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Server struct {
	Router *chi.Mux
	Sess   *scs.SessionManager
	Tmpl   *template.Template
	App    *app.App
}

type ServerOptions struct {
	Sess *scs.SessionManager
	Tmpl *template.Template // parsed from the embedded templates when nil
	App  *app.App
}

// Templates parses the embedded page templates
func Templates() *template.Template {
	funcMap := template.FuncMap{
		"add":       func(a, b int) int { return a + b },
		"plaintext": content.PlainText,
		"cover":     store.CleanImageURL,
		"imageok":   content.UsableImageURL,
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl"))
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	tmpl := opts.Tmpl
	if tmpl == nil {
		tmpl = Templates()
	}
	s := &Server{Router: r, Sess: opts.Sess, Tmpl: tmpl, App: opts.App}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Group(func(pr chi.Router) {
		pr.Use(appmw.LoadSettings(s.Sess))
		pr.Get("/", s.handleHome)
		pr.Get("/search", s.handleSearch)
		pr.Get("/novel/{slug}", s.handleNovel)
		pr.Get("/read/{slug}/{chapter}", s.handleChapter)
		pr.Get("/read/{slug}/{chapter}/illustrations/{pos}", s.handleIllustration)
		pr.Get("/genres", s.handleGenres)
		pr.Get("/genre/{slug}", s.handleGenre)
		pr.Get("/history", s.handleHistory)
		pr.Get("/bookmarks", s.handleBookmarks)
		pr.Post("/bookmarks/{slug}", s.handleToggleBookmark)
		pr.Post("/settings", s.handleSettings)
	})

	return s
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	data["Settings"] = appmw.SettingsFrom(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Tmpl.ExecuteTemplate(w, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render template failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	res := s.App.API.Home(r.Context())
	data := map[string]any{"Title": "MeioNovel", "Error": res.Error}
	if res.Success {
		data["Home"] = res.Data
	}
	if latest, ok := s.App.History.Latest(); ok {
		data["Continue"] = latest
	}
	s.render(w, r, "home", data)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	page := pageQuery(r)
	data := map[string]any{"Title": "Search", "Query": q}
	if q != "" {
		res := s.App.API.Search(r.Context(), q, page)
		data["Error"] = res.Error
		if res.Success {
			data["Novels"] = *res.Data
			data["Pagination"] = pager(res.Pagination, "/search?q="+url.QueryEscape(q)+"&")
		}
	}
	s.render(w, r, "list", data)
}

func (s *Server) handleNovel(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	res := s.App.API.Detail(r.Context(), slug)
	if !res.Success {
		w.WriteHeader(http.StatusNotFound)
		s.render(w, r, "error", map[string]any{"Title": "Novel Not Found", "Error": res.Error})
		return
	}
	s.render(w, r, "novel", map[string]any{
		"Title":      res.Data.Title,
		"Novel":      res.Data,
		"Bookmarked": s.App.Bookmarks.IsBookmarked(slug),
	})
}

// blockView is a chapter block flattened for the template
type blockView struct {
	Illustration bool
	Paragraphs   []string
	content.IllustrationBlock
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	view := pages.LoadChapter(r.Context(), s.App, chi.URLParam(r, "slug"), chi.URLParam(r, "chapter"))
	if view.Error != "" {
		w.WriteHeader(http.StatusNotFound)
		s.render(w, r, "error", map[string]any{
			"Title":   "Chapter Not Found",
			"Error":   "This chapter may not exist or has been removed.",
			"BackURL": "/novel/" + view.Slug,
		})
		return
	}
	pages.RecordRead(s.App, view)

	blocks := make([]blockView, 0, len(view.Blocks))
	for _, b := range view.Blocks {
		switch b := b.(type) {
		case content.TextBlock:
			blocks = append(blocks, blockView{Paragraphs: strings.Split(content.PlainText(b.Text), "\n")})
		case content.IllustrationBlock:
			blocks = append(blocks, blockView{Illustration: true, IllustrationBlock: b})
		}
	}

	data := map[string]any{
		"Title":   view.Title,
		"Chapter": view,
		"Blocks":  blocks,
	}
	if l, ok := view.Navigation.PrevLink(); ok {
		data["PrevURL"] = readURL(l)
	}
	if l, ok := view.Navigation.NextLink(); ok {
		data["NextURL"] = readURL(l)
	}
	if slug := view.Navigation.NovelSlug(); slug != "" {
		data["AllURL"] = "/novel/" + slug
	}
	s.render(w, r, "chapter", data)
}

// handleIllustration shows one illustration full size with prev/next links
// to its neighbours in the chapter
func (s *Server) handleIllustration(w http.ResponseWriter, r *http.Request) {
	slug, chapter := chi.URLParam(r, "slug"), chi.URLParam(r, "chapter")
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil {
		http.Error(w, "invalid illustration position", http.StatusBadRequest)
		return
	}

	view := pages.LoadChapter(r.Context(), s.App, slug, chapter)
	nav := lightbox.New(view.Blocks)
	if !nav.OpenAt(pos) {
		http.Error(w, "illustration not found", http.StatusNotFound)
		return
	}

	chapterURL := "/read/" + url.PathEscape(slug) + "/" + url.PathEscape(chapter)
	cur, _ := nav.Current()
	st := nav.State()
	items := nav.Items()
	data := map[string]any{
		"Title":        view.Title,
		"Illustration": cur,
		"Index":        st.Index + 1,
		"Count":        nav.Len(),
		"CloseURL":     chapterURL + "#ill-" + strconv.Itoa(cur.Position),
	}
	if nav.HasPrev() {
		data["PrevURL"] = chapterURL + "/illustrations/" + strconv.Itoa(items[st.Index-1].Position)
	}
	if nav.HasNext() {
		data["NextURL"] = chapterURL + "/illustrations/" + strconv.Itoa(items[st.Index+1].Position)
	}
	s.render(w, r, "lightbox", data)
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	res := s.App.API.Genres(r.Context())
	data := map[string]any{"Title": "Genres", "Error": res.Error}
	if res.Success {
		data["Genres"] = *res.Data
	}
	s.render(w, r, "genres", data)
}

func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	res := s.App.API.GenreNovels(r.Context(), slug, pageQuery(r))
	data := map[string]any{"Title": "Genre: " + slug, "Error": res.Error}
	if res.Success {
		data["Novels"] = *res.Data
		data["Pagination"] = pager(res.Pagination, "/genre/"+url.PathEscape(slug)+"?")
	}
	s.render(w, r, "list", data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "history", map[string]any{
		"Title":   "Reading History",
		"History": s.App.History.List(),
	})
}

func (s *Server) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "bookmarks", map[string]any{
		"Title":     "Bookmarks",
		"Bookmarks": s.App.Bookmarks.List(),
	})
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	bm := pages.BookmarkFor(r.Context(), s.App, slug)
	if _, err := s.App.Bookmarks.Toggle(bm); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("slug", slug).Msg("toggle bookmark failed")
		http.Error(w, "could not update bookmark", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/novel/"+url.PathEscape(slug), http.StatusSeeOther)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if t := r.Form.Get("theme"); t != "" {
		if !appmw.Valid(appmw.Themes, t) {
			http.Error(w, "unknown theme", http.StatusBadRequest)
			return
		}
		s.Sess.Put(r.Context(), appmw.ThemeSessionKey, t)
	}
	if f := r.Form.Get("font_size"); f != "" {
		if !appmw.Valid(appmw.FontSizes, f) {
			http.Error(w, "unknown font size", http.StatusBadRequest)
			return
		}
		s.Sess.Put(r.Context(), appmw.FontSizeSessionKey, f)
	}

	back := r.Form.Get("return")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func readURL(l meionovel.NavLink) string {
	return "/read/" + url.PathEscape(l.Novel) + "/" + url.PathEscape(l.Chapter)
}

func pageQuery(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pagerView holds the links of a paged listing. Base ends in "?" or "&".
type pagerView struct {
	Current, Total int
	PrevURL        string
	NextURL        string
}

func pager(p *meionovel.Pagination, base string) *pagerView {
	if p == nil || p.TotalPages == 0 {
		return nil
	}
	v := &pagerView{Current: p.CurrentPage, Total: p.TotalPages}
	if p.HasPrevPage || p.CurrentPage > 1 {
		v.PrevURL = base + "page=" + strconv.Itoa(p.CurrentPage-1)
	}
	if p.HasNextPage || p.CurrentPage < p.TotalPages {
		v.NextURL = base + "page=" + strconv.Itoa(p.CurrentPage+1)
	}
	return v
}
