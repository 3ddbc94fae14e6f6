package balance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
)

type Handler struct {
	svc *balance.Service
}

func NewHandler(svc *balance.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under /groups/{groupID}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/balances", h.list)
	r.Get("/balances/{userID}", h.between)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	who, ok := respond.Identity(w, r)
	if !ok {
		return
	}

	groupID, ok := respond.PathID(r, "groupID")
	if !ok {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	balances, err := h.svc.Group(r.Context(), who, groupID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	sorted := balance.Sorted(balances)

	resp := make([]userBalanceResponse, len(sorted))
	for i, b := range sorted {
		resp[i] = toUserBalanceResponse(b)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type betweenResponse struct {
	UserID       int64                 `json:"user_id"`
	OtherUserID  int64                 `json:"other_user_id"`
	Settled      bool                  `json:"settled"`
	Relationship *relationshipResponse `json:"relationship,omitempty"`
}

func (h *Handler) between(w http.ResponseWriter, r *http.Request) {
	who, ok := respond.Identity(w, r)
	if !ok {
		return
	}

	groupID, ok := respond.PathID(r, "groupID")
	if !ok {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	otherID, ok := respond.PathID(r, "userID")
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	rel, err := h.svc.Between(r.Context(), who, groupID, otherID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := betweenResponse{UserID: who.UserID, OtherUserID: otherID, Settled: rel == nil}
	if rel != nil {
		out := toRelationshipResponse(*rel)
		resp.Relationship = &out
	}

	respond.JSON(w, http.StatusOK, resp)
}
