package recurring

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/split"
)

// Template is a recurring debt rule. Each due occurrence materializes one
// shared debt fronted by CreatedBy and split between the participants.
type Template struct {
	ID           int64
	GroupID      int64
	CreatedBy    int64
	Amount       decimal.Decimal
	Description  string
	Frequency    Frequency
	Participants []ledger.User
	Active       bool
	StartDate    time.Time
	CreatedAt    time.Time

	// LastGenerated is the latest due date an instance was recorded for.
	LastGenerated *time.Time
}

// NextDue is the first occurrence not yet generated. A template that never
// generated is first due on its start date.
func (t *Template) NextDue() time.Time {
	start := Date(t.StartDate)
	if t.LastGenerated == nil {
		return start
	}

	return step(Date(*t.LastGenerated), t.Frequency, start.Day())
}

// DueFor reports the occurrence to generate as of asOf. When several
// occurrences were missed only the most recent one is returned; older ones are
// skipped rather than back-filled.
func (t *Template) DueFor(asOf time.Time) (time.Time, bool) {
	asOf = Date(asOf)

	due := t.NextDue()
	if asOf.Before(due) {
		return time.Time{}, false
	}

	anchor := Date(t.StartDate).Day()

	for {
		next := step(due, t.Frequency, anchor)
		if next.After(asOf) {
			return due, true
		}

		due = next
	}
}

// Materialize builds the shared debt for one occurrence together with the
// shares it splits into.
func (t *Template) Materialize() (*ledger.SharedDebt, []split.Share, error) {
	if err := ledger.ValidateEntry(t.GroupID, t.Amount, t.Description); err != nil {
		return nil, nil, err
	}

	id := t.ID
	debt := &ledger.SharedDebt{
		GroupID:      t.GroupID,
		CreatedBy:    t.CreatedBy,
		Amount:       t.Amount,
		Description:  t.Description,
		Participants: t.Participants,
		TemplateID:   &id,
	}

	shares := split.Ordered(debt.Amount, debt.SplitParticipants())
	if len(shares) < 2 {
		return nil, nil, &ledger.ValidationError{Field: "participant_ids", Err: ledger.ErrNoParticipants}
	}

	return debt, shares, nil
}
