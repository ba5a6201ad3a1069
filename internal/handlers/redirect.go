package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/relink-dev/relink/internal/analytics"
	"github.com/relink-dev/relink/internal/cache"
	"github.com/relink-dev/relink/internal/geo"
	"github.com/relink-dev/relink/internal/shortener"
)

type RedirectHandler struct {
	Svc       *shortener.Service
	Cache     *cache.LinkCache
	Collector *analytics.Collector
	Log       *zap.Logger
}

func (h *RedirectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.NotFound(w, r)
		return
	}

	link, found := h.Cache.Get(code)
	if found {
		// Expiry is re-evaluated on every cache hit; the cache never keeps a
		// link alive past its expires_at.
		if shortener.IsExpired(link.ExpiresAt, time.Now()) {
			gone(w)
			return
		}
	} else {
		var err error
		link, err = h.Svc.Resolve(code)
		if err != nil {
			switch {
			case errors.Is(err, shortener.ErrNotFound):
				http.NotFound(w, r)
			case errors.Is(err, shortener.ErrExpired):
				gone(w)
			default:
				h.Log.Error("resolve failed", zap.String("code", code), zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		h.Cache.Set(code, link)
	}

	// Best-effort: the click is queued for the background worker and can
	// never fail or delay the redirect.
	h.Collector.Push(analytics.RawClick{
		Code:      link.Code,
		At:        time.Now().UTC(),
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Referer:   r.Referer(),
		Country:   geo.CountryFromHeaders(r.Header),
		City:      geo.CityFromHeaders(r.Header),
	})

	http.Redirect(w, r, link.TargetURL, http.StatusTemporaryRedirect)
}

func gone(w http.ResponseWriter) {
	w.WriteHeader(http.StatusGone)
	w.Write([]byte("This link has expired."))
}
