// cmd/server/main.go
package main

import (
	"net/http"
	"os"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/novelreader/internal/app"
	"github.com/briangreenhill/novelreader/internal/config"
	"github.com/briangreenhill/novelreader/internal/http/routes"
)

func main() {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}
	logger = logger.Level(cfg.Level())

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup error")
	}
	defer a.Close()

	// Sessions hold the reader settings
	sess := scs.New()
	sess.Lifetime = cfg.Server.SessionLifetime
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode
	sess.Cookie.Secure = false

	s := routes.New(routes.ServerOptions{Sess: sess, App: a})

	h := hlog.NewHandler(logger)(
		hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Dur("duration", d).
				Msg("request")
		})(s.Router),
	)

	logger.Info().Str("port", cfg.Server.Port).Str("api", a.API.BaseURL()).Msg("starting reader")
	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: sess.LoadAndSave(h)}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
