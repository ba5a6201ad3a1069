package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/relink-dev/relink/internal/shortener"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// QRCode renders the short URL for a live link as a PNG.
func (h *LinkHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	link, err := h.Svc.Resolve(code)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, shortener.ErrExpired):
			gone(w)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	qrc, err := qrcode.New(link.ShortURL)
	if err != nil {
		http.Error(w, "failed to generate qr code", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopCloser{&buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(10),
	)
	if err := qrc.Save(writer); err != nil {
		http.Error(w, "failed to render qr code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if r.URL.Query().Get("dl") == "1" {
		w.Header().Set("Content-Disposition", "attachment; filename=\""+link.Code+"-qr.png\"")
	}
	w.Write(buf.Bytes())
}
