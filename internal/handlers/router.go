package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relink-dev/relink/internal/rate"
)

// Router wires the boundary operations. Rate limiting applies to link
// creation only.
func Router(link *LinkHandler, redirect *RedirectHandler, limiter *rate.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.With(RateLimit(limiter)).Post("/shorten", link.Shorten)
		r.Get("/links", link.Summaries)
		r.Get("/links/{code}/stats", link.Stats)
		r.Get("/links/{code}/qr", link.QRCode)
	})

	r.Get("/{code}", redirect.ServeHTTP)

	return r
}
