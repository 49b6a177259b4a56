package meionovel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/novelreader/cache"
	"github.com/briangreenhill/novelreader/content"
)

// mockAPI serves canned bodies per path and counts requests
type mockAPI struct {
	server *httptest.Server
	hits   map[string]*atomic.Int32
	paths  []string
}

func newMockAPI(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *mockAPI {
	t.Helper()
	m := &mockAPI{hits: make(map[string]*atomic.Int32)}
	mux := http.NewServeMux()
	for p, h := range routes {
		counter := &atomic.Int32{}
		m.hits[p] = counter
		h := h
		mux.HandleFunc(p, func(w http.ResponseWriter, r *http.Request) {
			counter.Add(1)
			h(w, r)
		})
	}
	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockAPI) count(p string) int {
	return int(m.hits[p].Load())
}

func jsonBody(v any) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

func rawBody(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func assertEnvelopeShape[T any](t *testing.T, r Result[T]) {
	t.Helper()
	if r.Success {
		assert.NotNil(t, r.Data, "success result must carry data")
		assert.Empty(t, r.Error)
	} else {
		assert.Nil(t, r.Data)
		assert.NotEmpty(t, r.Error, "failure result must carry an error")
	}
}

func TestChapter(t *testing.T) {
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/chapter/my-novel/chapter-1": jsonBody(map[string]any{
			"success": true,
			"data": map[string]any{
				"title": "My Novel - Chapter 1",
				"content": []any{
					map[string]any{"data": "Once upon a time"},
					map[string]any{"type": "illustration", "data": "https://cdn/x.png", "caption": "A dragon"},
				},
				"navigation": map[string]any{"prev": "", "next": "my-novel/chapter-2", "all": "my-novel/"},
			},
		}),
	})
	c := New(WithBaseURL(api.server.URL))

	res := c.Chapter(context.Background(), "my-novel", "chapter-1")
	assertEnvelopeShape(t, res)
	require.True(t, res.Success)
	assert.Equal(t, "My Novel - Chapter 1", res.Data.Title)
	require.Len(t, res.Data.Content, 2)
	assert.Equal(t, "illustration", res.Data.Content[1].Type)
	assert.Equal(t, "A dragon", res.Data.Content[1].Caption)

	next, ok := res.Data.Navigation.NextLink()
	require.True(t, ok)
	assert.Equal(t, NavLink{Novel: "my-novel", Chapter: "chapter-2"}, next)
	_, ok = res.Data.Navigation.PrevLink()
	assert.False(t, ok)
	assert.Equal(t, "my-novel", res.Data.Navigation.NovelSlug())

	blocks := content.Render(res.Data.Content)
	assert.Equal(t, []content.Block{
		content.TextBlock{Text: "Once upon a time"},
		content.IllustrationBlock{ImageURL: "https://cdn/x.png", Caption: "A dragon", Position: 1},
	}, blocks)
}

func TestChapterTopLevelPayload(t *testing.T) {
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/chapter/n/c": rawBody(200, `{"success":true,"title":"Flat","content":[{"data":"text"}]}`),
	})
	c := New(WithBaseURL(api.server.URL))

	res := c.Chapter(context.Background(), "n", "c")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Flat", res.Data.Title)
	assert.Len(t, res.Data.Content, 1)
}

func TestResponsesAreCached(t *testing.T) {
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/home": jsonBody(map[string]any{"success": true, "data": map[string]any{
			"latestUpdates": []any{map[string]any{"slug": "a", "title": "A", "latest_chapter": "Ch 3"}},
		}}),
	})
	c := New(WithBaseURL(api.server.URL))

	first := c.Home(context.Background())
	second := c.Home(context.Background())

	require.True(t, first.Success)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.count("/home"))
	assert.Equal(t, "Ch 3", first.Data.LatestUpdates[0].Latest())

	c.ClearCache()
	c.Home(context.Background())
	assert.Equal(t, 2, api.count("/home"))
}

func TestCacheExpiry(t *testing.T) {
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/genres": jsonBody(map[string]any{"success": true, "data": []any{map[string]any{"name": "Action", "slug": "action", "count": 12}}}),
	})
	now := time.Now()
	clock := func() time.Time { return now }
	mem := cache.NewMemory[Envelope](5*time.Minute, cache.WithClock[Envelope](clock))
	c := New(WithBaseURL(api.server.URL), WithCache(mem))

	res := c.Genres(context.Background())
	require.True(t, res.Success)
	assert.Equal(t, Text("12"), (*res.Data)[0].Count)

	now = now.Add(4 * time.Minute)
	c.Genres(context.Background())
	assert.Equal(t, 1, api.count("/genres"))

	now = now.Add(time.Minute)
	c.Genres(context.Background())
	assert.Equal(t, 2, api.count("/genres"))
}

func TestFailuresBecomeEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		handler func(http.ResponseWriter, *http.Request)
		wantErr string
	}{
		{"http status", rawBody(http.StatusInternalServerError, "boom"), "HTTP 500: Internal Server Error"},
		{"not found", rawBody(http.StatusNotFound, ""), "HTTP 404: Not Found"},
		{"success false", rawBody(200, `{"success":false,"message":"nope"}`), "API returned unsuccessful response"},
		{"success missing", rawBody(200, `{"data":{}}`), "API returned unsuccessful response"},
		{"malformed json", rawBody(200, `{"success":tru`), "malformed response body"},
		{"wrong payload shape", rawBody(200, `{"success":true,"data":"just a string"}`), "unexpected payload shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
				"/detail/x": tt.handler,
			})
			c := New(WithBaseURL(api.server.URL))

			res := c.Detail(context.Background(), "x")
			assertEnvelopeShape(t, res)
			assert.False(t, res.Success)
			assert.Contains(t, res.Error, tt.wantErr)
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(WithBaseURL(base))
	res := c.Latest(context.Background())
	assertEnvelopeShape(t, res)
	assert.False(t, res.Success)
}

func TestFailuresAreCached(t *testing.T) {
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/popular": rawBody(http.StatusBadGateway, ""),
	})
	c := New(WithBaseURL(api.server.URL))

	c.Popular(context.Background())
	res := c.Popular(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, 1, api.count("/popular"))
}

func TestFailureTTL(t *testing.T) {
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/popular": rawBody(http.StatusBadGateway, ""),
	})
	c := New(WithBaseURL(api.server.URL), WithCache(NewCache(5*time.Minute, 0)))

	c.Popular(context.Background())
	c.Popular(context.Background())
	assert.Equal(t, 2, api.count("/popular"))
}

func TestTypedErrors(t *testing.T) {
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/status": rawBody(http.StatusTeapot, ""),
		"/bad":    rawBody(200, `{"success":false}`),
	})
	c := New(WithBaseURL(api.server.URL))

	_, err := c.doJSON(context.Background(), api.server.URL+"/status")
	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTeapot, statusErr.StatusCode)

	_, err = c.doJSON(context.Background(), api.server.URL+"/bad")
	var contentErr *ContentError
	require.True(t, errors.As(err, &contentErr))

	env := c.get(context.Background(), "/status", nil)
	require.Error(t, env.Cause)
	assert.True(t, errors.As(env.Cause, &statusErr))
}

func TestRequestPaths(t *testing.T) {
	var gotPath, gotQuery string
	api := newMockAPI(t, map[string]func(http.ResponseWriter, *http.Request){
		"/": func(w http.ResponseWriter, r *http.Request) {
			gotPath, gotQuery = r.URL.EscapedPath(), r.URL.RawQuery
			_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
		},
	})
	c := New(WithBaseURL(api.server.URL + "/"))
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func()
		wantPath  string
		wantQuery string
	}{
		{"search escapes query", func() { c.Search(ctx, "sword art", 2) }, "/search/sword%20art/2", ""},
		{"search defaults page", func() { c.Search(ctx, "x", 0) }, "/search/x/1", ""},
		{"genre novels", func() { c.GenreNovels(ctx, "fantasy", 3) }, "/genre/fantasy/3", ""},
		{"list defaults", func() { c.List(ctx, 0, "") }, "/list", "orderby=latest&page=1"},
		{"list order", func() { c.List(ctx, 4, "popular") }, "/list", "orderby=popular&page=4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.call()
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantQuery, gotQuery)
		})
	}
}

func TestCardListShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[{"slug":"a","title":"A"},{"slug":"b","title":"B"}]`, 2},
		{"wrapped novels", `{"novels":[{"slug":"a","title":"A"}]}`, 1},
		{"wrapped data", `{"data":[{"slug":"a","title":"A"}],"pagination":{}}`, 1},
		{"unknown object", `{"foo":1}`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l CardList
			require.NoError(t, json.Unmarshal([]byte(tt.body), &l))
			assert.Len(t, l, tt.want)
		})
	}
}

func TestText(t *testing.T) {
	var n struct {
		Rating   Text `json:"rating"`
		Status   Text `json:"status"`
		Synopsis Text `json:"synopsis"`
		Missing  Text `json:"missing"`
	}
	body := `{"rating": 8.5, "status": "Ongoing", "synopsis": ["First.", "Second."], "missing": null}`
	require.NoError(t, json.Unmarshal([]byte(body), &n))

	assert.Equal(t, Text("8.5"), n.Rating)
	assert.Equal(t, "Ongoing", n.Status.String())
	assert.Equal(t, Text("First.\nSecond."), n.Synopsis)
	assert.Equal(t, Text(""), n.Missing)
}

func TestParseNavLink(t *testing.T) {
	tests := []struct {
		in   string
		want NavLink
		ok   bool
	}{
		{"novel/chapter-2", NavLink{Novel: "novel", Chapter: "chapter-2"}, true},
		{"/novel/chapter-2/", NavLink{Novel: "novel", Chapter: "chapter-2"}, true},
		{"novel/vol-1/chapter-2", NavLink{Novel: "novel", Chapter: "vol-1/chapter-2"}, true},
		{"chapter-only", NavLink{Novel: "chapter-only", Chapter: "chapter-only"}, true},
		{"", NavLink{}, false},
		{"  ", NavLink{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseNavLink(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNavLink(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	var nav *Navigation
	_, ok := nav.NextLink()
	assert.False(t, ok)
	assert.Equal(t, "", nav.NovelSlug())
}

func TestWithBaseURLIgnoresInvalid(t *testing.T) {
	c := New(WithBaseURL("::not a url"))
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = New(WithBaseURL("http://localhost:9000/api/"))
	assert.Equal(t, "http://localhost:9000/api", c.BaseURL())
}
