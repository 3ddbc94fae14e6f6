package ledger

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

type sharedDebtResponse struct {
	ID                  int64     `json:"id"`
	GroupID             int64     `json:"group_id"`
	CreatedBy           int64     `json:"created_by"`
	Amount              string    `json:"amount"`
	Description         string    `json:"description"`
	ParticipantIDs      []int64   `json:"participant_ids"`
	RecurringTemplateID *int64    `json:"recurring_template_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

func toSharedDebtResponse(d *ledger.SharedDebt) sharedDebtResponse {
	ids := make([]int64, len(d.Participants))
	for i, p := range d.Participants {
		ids[i] = p.ID
	}

	return sharedDebtResponse{
		ID:                  d.ID,
		GroupID:             d.GroupID,
		CreatedBy:           d.CreatedBy,
		Amount:              d.Amount.StringFixed(2),
		Description:         d.Description,
		ParticipantIDs:      ids,
		RecurringTemplateID: d.TemplateID,
		CreatedAt:           d.CreatedAt,
	}
}

type transactionResponse struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"group_id"`
	PayerID     int64     `json:"payer_id"`
	RecipientID int64     `json:"recipient_id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		GroupID:     tx.GroupID,
		PayerID:     tx.PayerID,
		RecipientID: tx.RecipientID,
		Amount:      tx.Amount.StringFixed(2),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
}
