// Package web holds the small response helpers shared by the HTTP handlers.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webshop-go/storefront/pkg/apperr"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps the error taxonomy to status codes: not found 404, invalid
// state 409, gateway 502, everything else 500.
func Error(w http.ResponseWriter, log *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidState:
		status = http.StatusConflict
	case apperr.KindGateway:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	}
	JSON(w, status, map[string]string{"error": err.Error()})
}

// IntParam parses a chi URL parameter as an integer.
func IntParam(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	return v, err == nil
}
