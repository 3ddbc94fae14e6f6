package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /groups/{groupID}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	who, ok := respond.Identity(w, r)
	if !ok {
		return
	}

	groupID, ok := respond.PathID(r, "groupID")
	if !ok {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	// Buffered so a failure can still be reported with a proper status.
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), who, groupID, &buf); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"group_%d_%s.zip\"", groupID, time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "group_id", groupID, "error", err)
	}
}
