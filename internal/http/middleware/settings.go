package middleware

import (
	"context"
	"net/http"

	scs "github.com/alexedwards/scs/v2"
)

type contextKey string

const SettingsKey contextKey = "reader_settings"

// Session keys
const (
	ThemeSessionKey    = "reader_theme"
	FontSizeSessionKey = "reader_font_size"
)

// Reader themes and font sizes
var (
	Themes    = []string{"light", "sepia", "dark"}
	FontSizes = []string{"small", "medium", "large"}
)

// Settings are the reader display preferences kept in the session
type Settings struct {
	Theme    string
	FontSize string
}

// DefaultSettings is what a new session reads with
var DefaultSettings = Settings{Theme: "light", FontSize: "medium"}

// FontCSS returns the CSS font size for FontSize
func (s Settings) FontCSS() string {
	switch s.FontSize {
	case "small":
		return "0.875rem"
	case "large":
		return "1.375rem"
	default:
		return "1.125rem"
	}
}

// LoadSettings puts the session's reader settings into the request context
func LoadSettings(sess *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := DefaultSettings
			if t := sess.GetString(r.Context(), ThemeSessionKey); Valid(Themes, t) {
				s.Theme = t
			}
			if f := sess.GetString(r.Context(), FontSizeSessionKey); Valid(FontSizes, f) {
				s.FontSize = f
			}
			r = r.WithContext(context.WithValue(r.Context(), SettingsKey, s))
			next.ServeHTTP(w, r)
		})
	}
}

// SettingsFrom returns the settings LoadSettings stored in ctx
func SettingsFrom(ctx context.Context) Settings {
	if s, ok := ctx.Value(SettingsKey).(Settings); ok {
		return s
	}
	return DefaultSettings
}

// Valid reports whether v is one of options
func Valid(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
