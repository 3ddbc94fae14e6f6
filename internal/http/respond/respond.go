// Package respond writes JSON responses and maps domain errors to HTTP status
// codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes the status matching err. Validation messages are shown to the
// caller; anything unexpected is logged and reported as an internal error.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ledger.ValidationError

	switch {
	case errors.As(err, &ve):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// PathID parses a positive integer URL parameter.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// Identity returns the authenticated caller, writing 401 when there is none.
func Identity(w http.ResponseWriter, r *http.Request) (ledger.Identity, bool) {
	who, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
	}

	return who, ok
}
