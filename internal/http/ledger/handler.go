package ledger

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

const maxUpload = 10 << 20

type Handler struct {
	svc       *ledger.Service
	importSvc *importer.Service
}

func NewHandler(svc *ledger.Service, importSvc *importer.Service) *Handler {
	return &Handler{svc: svc, importSvc: importSvc}
}

// Routes mounts under /groups/{groupID}.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/shared-debts", h.createSharedDebt)
	r.Delete("/shared-debts/{id}", h.deleteSharedDebt)
	r.Post("/transactions", h.createTransaction)
	r.Post("/transactions/import", h.importTransactions)
	r.Delete("/transactions/{id}", h.deleteTransaction)
}

type createSharedDebtRequest struct {
	Amount         string  `json:"amount"`
	Description    string  `json:"description"`
	ParticipantIDs []int64 `json:"participant_ids"`
}

func (h *Handler) createSharedDebt(w http.ResponseWriter, r *http.Request) {
	who, groupID, ok := scope(w, r)
	if !ok {
		return
	}

	var req createSharedDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	debt, err := h.svc.CreateSharedDebt(r.Context(), who, ledger.SharedDebtParams{
		GroupID:        groupID,
		Amount:         amount,
		Description:    req.Description,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSharedDebtResponse(debt))
}

func (h *Handler) deleteSharedDebt(w http.ResponseWriter, r *http.Request) {
	who, groupID, ok := scope(w, r)
	if !ok {
		return
	}

	id, ok := respond.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteSharedDebt(r.Context(), who, groupID, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createTransactionRequest struct {
	PayerID     int64  `json:"payer_id,omitempty"`
	RecipientID int64  `json:"recipient_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	who, groupID, ok := scope(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.CreateTransaction(r.Context(), who, ledger.TransactionParams{
		GroupID:     groupID,
		PayerID:     req.PayerID,
		RecipientID: req.RecipientID,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	who, groupID, ok := scope(w, r)
	if !ok {
		return
	}

	id, ok := respond.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteTransaction(r.Context(), who, groupID, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

func (h *Handler) importTransactions(w http.ResponseWriter, r *http.Request) {
	who, groupID, ok := scope(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), groupID, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.CreateTransactions(r.Context(), who, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{Imported: len(txs), Transactions: make([]transactionResponse, len(txs))}
	for i, tx := range txs {
		resp.Transactions[i] = toTransactionResponse(tx)
	}

	respond.JSON(w, http.StatusCreated, resp)
}

func scope(w http.ResponseWriter, r *http.Request) (ledger.Identity, int64, bool) {
	who, ok := respond.Identity(w, r)
	if !ok {
		return who, 0, false
	}

	groupID, ok := respond.PathID(r, "groupID")
	if !ok {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return who, 0, false
	}

	return who, groupID, true
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return d, &ledger.ValidationError{Field: "amount", Err: err}
	}

	return d, nil
}
