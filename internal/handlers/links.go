package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/relink-dev/relink/internal/models"
	"github.com/relink-dev/relink/internal/shortener"
)

type LinkHandler struct {
	Svc *shortener.Service
	Log *zap.Logger
}

type shortenRequest struct {
	URL        string `json:"url"`
	CustomCode string `json:"custom_code"`
	ExpiresAt  string `json:"expires_at"`
}

type summariesResponse struct {
	Links []models.LinkSummary `json:"links"`
}

func (h *LinkHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	link, err := h.Svc.Create(shortener.CreateRequest{
		TargetURL:  req.URL,
		CustomCode: req.CustomCode,
		ExpiresAt:  req.ExpiresAt,
		CreatorIP:  clientIP(r),
		CreatorUA:  r.UserAgent(),
	})
	if err != nil {
		switch {
		case shortener.IsInvalidInput(err):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, shortener.ErrCodeTaken):
			jsonError(w, err.Error(), http.StatusConflict)
		default:
			h.Log.Error("create link failed", zap.Error(err))
			jsonError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(link)
}

func (h *LinkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	stats, err := h.Svc.Stats(code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			jsonError(w, "not found", http.StatusNotFound)
			return
		}
		h.Log.Error("stats failed", zap.String("code", code), zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Empty aggregates serialize as [] rather than null.
	if stats.ClicksByDay == nil {
		stats.ClicksByDay = []models.DayCount{}
	}
	if stats.TopCountries == nil {
		stats.TopCountries = []models.CountryCount{}
	}
	if stats.RecentClicks == nil {
		stats.RecentClicks = []models.RecentClick{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *LinkHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Svc.Summaries()
	if err != nil {
		h.Log.Error("list summaries failed", zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []models.LinkSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summariesResponse{Links: summaries})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
