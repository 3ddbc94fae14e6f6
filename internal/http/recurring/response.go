package recurring

import (
	"time"

	"github.com/MrJamesThe3rd/tally/internal/recurring"
)

type templateResponse struct {
	ID             int64     `json:"id"`
	GroupID        int64     `json:"group_id"`
	CreatedBy      int64     `json:"created_by"`
	Amount         string    `json:"amount"`
	Description    string    `json:"description"`
	Frequency      string    `json:"frequency"`
	ParticipantIDs []int64   `json:"participant_ids"`
	Active         bool      `json:"is_active"`
	StartDate      string    `json:"start_date"`
	NextDue        string    `json:"next_due"`
	LastGenerated  *string   `json:"last_generated,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toTemplateResponse(t *recurring.Template) templateResponse {
	ids := make([]int64, len(t.Participants))
	for i, p := range t.Participants {
		ids[i] = p.ID
	}

	resp := templateResponse{
		ID:             t.ID,
		GroupID:        t.GroupID,
		CreatedBy:      t.CreatedBy,
		Amount:         t.Amount.StringFixed(2),
		Description:    t.Description,
		Frequency:      t.Frequency.String(),
		ParticipantIDs: ids,
		Active:         t.Active,
		StartDate:      t.StartDate.Format(time.DateOnly),
		NextDue:        t.NextDue().Format(time.DateOnly),
		CreatedAt:      t.CreatedAt,
	}

	if t.LastGenerated != nil {
		last := t.LastGenerated.Format(time.DateOnly)
		resp.LastGenerated = &last
	}

	return resp
}

type instanceResponse struct {
	TemplateID   int64  `json:"template_id"`
	DueDate      string `json:"due_date"`
	SharedDebtID int64  `json:"shared_debt_id"`
}

type failureResponse struct {
	TemplateID int64  `json:"template_id"`
	DueDate    string `json:"due_date"`
}

type tickResponse struct {
	AsOf      string             `json:"as_of"`
	Generated []instanceResponse `json:"generated"`
	Skipped   int                `json:"skipped"`
	Failed    []failureResponse  `json:"failed"`
}

// toTickResponse leaves out failure causes; they are logged server side.
func toTickResponse(res *recurring.TickResult) tickResponse {
	resp := tickResponse{
		AsOf:      res.AsOf.Format(time.DateOnly),
		Generated: make([]instanceResponse, len(res.Generated)),
		Skipped:   res.Skipped,
		Failed:    make([]failureResponse, len(res.Failed)),
	}

	for i, inst := range res.Generated {
		resp.Generated[i] = instanceResponse{
			TemplateID:   inst.TemplateID,
			DueDate:      inst.DueDate.Format(time.DateOnly),
			SharedDebtID: inst.SharedDebtID,
		}
	}

	for i, f := range res.Failed {
		resp.Failed[i] = failureResponse{
			TemplateID: f.TemplateID,
			DueDate:    f.DueDate.Format(time.DateOnly),
		}
	}

	return resp
}
