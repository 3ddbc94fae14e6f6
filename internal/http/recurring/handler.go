package recurring

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/money"
	"github.com/MrJamesThe3rd/tally/internal/recurring"
)

type Handler struct {
	svc       *recurring.Service
	scheduler *recurring.Scheduler
	loc       *time.Location
}

// NewHandler builds the handler. loc is the zone a tick without an explicit
// date takes today's date from.
func NewHandler(svc *recurring.Service, scheduler *recurring.Scheduler, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}

	return &Handler{svc: svc, scheduler: scheduler, loc: loc}
}

// GroupRoutes mounts under /groups/{groupID}.
func (h *Handler) GroupRoutes(r chi.Router) {
	r.Post("/recurring", h.create)
	r.Get("/recurring", h.list)
}

// Routes mounts under /recurring.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Patch("/{id}/active", h.setActive)
	r.Delete("/{id}", h.delete)
}

// SchedulerRoutes mounts under /scheduler.
func (h *Handler) SchedulerRoutes(r chi.Router) {
	r.Post("/tick", h.tick)
}

type createTemplateRequest struct {
	Amount         string  `json:"amount"`
	Description    string  `json:"description"`
	Frequency      string  `json:"frequency"`
	ParticipantIDs []int64 `json:"participant_ids"`
	StartDate      string  `json:"start_date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	who, ok := respond.Identity(w, r)
	if !ok {
		return
	}

	groupID, ok := respond.PathID(r, "groupID")
	if !ok {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params(groupID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	t, err := h.svc.Create(r.Context(), who, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toTemplateResponse(t))
}

func (req createTemplateRequest) params(groupID int64) (recurring.CreateParams, error) {
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return recurring.CreateParams{}, &ledger.ValidationError{Field: "amount", Err: err}
	}

	freq, err := recurring.ParseFrequency(req.Frequency)
	if err != nil {
		return recurring.CreateParams{}, &ledger.ValidationError{Field: "frequency", Err: recurring.ErrUnknownFrequency}
	}

	var start time.Time
	if req.StartDate != "" {
		start, err = time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return recurring.CreateParams{}, &ledger.ValidationError{Field: "start_date", Err: errors.New("start date must be YYYY-MM-DD")}
		}
	}

	return recurring.CreateParams{
		GroupID:        groupID,
		Amount:         amount,
		Description:    req.Description,
		Frequency:      freq,
		ParticipantIDs: req.ParticipantIDs,
		StartDate:      start,
	}, nil
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

	templates, err := h.svc.List(r.Context(), who, groupID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]templateResponse, len(templates))
	for i, t := range templates {
		resp[i] = toTemplateResponse(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	who, id, ok := templateScope(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), who, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTemplateResponse(t))
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	who, id, ok := templateScope(w, r)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Active == nil {
		http.Error(w, "active is required", http.StatusBadRequest)
		return
	}

	t, err := h.svc.SetActive(r.Context(), who, id, *req.Active)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTemplateResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	who, id, ok := templateScope(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), who, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type tickRequest struct {
	AsOf string `json:"as_of,omitempty"`
}

// tick runs the scheduler once. The body is optional; without as_of the
// current date is used.
func (h *Handler) tick(w http.ResponseWriter, r *http.Request) {
	if _, ok := respond.Identity(w, r); !ok {
		return
	}

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asOf := time.Now().In(h.loc)

	if req.AsOf != "" {
		parsed, err := time.Parse(time.DateOnly, req.AsOf)
		if err != nil {
			http.Error(w, "as_of must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		asOf = parsed
	}

	res, err := h.scheduler.Tick(r.Context(), asOf)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTickResponse(res))
}

func templateScope(w http.ResponseWriter, r *http.Request) (ledger.Identity, int64, bool) {
	who, ok := respond.Identity(w, r)
	if !ok {
		return who, 0, false
	}

	id, ok := respond.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return who, 0, false
	}

	return who, id, true
}
