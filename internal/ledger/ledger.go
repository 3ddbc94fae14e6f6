package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/split"
)

// User is a group member as seen by the ledger. Users are owned by the
// identity subsystem and never modified here.
type User struct {
	ID   int64
	Name string
}

// Identity is the authenticated caller of a ledger operation.
type Identity struct {
	UserID int64
}

// SharedDebt is an expense fronted by CreatedBy on behalf of its participants.
type SharedDebt struct {
	ID           int64
	GroupID      int64
	CreatedBy    int64
	Amount       decimal.Decimal
	Description  string
	Participants []User
	TemplateID   *int64 // Set when generated from a recurring template.
	CreatedAt    time.Time
}

// SplitParticipants returns the set the amount is divided between: the creator
// first, then every other participant by ascending user id.
func (d *SharedDebt) SplitParticipants() []split.Participant {
	others := make([]User, 0, len(d.Participants))
	creatorName := ""

	for _, u := range d.Participants {
		if u.ID == d.CreatedBy {
			creatorName = u.Name
			continue
		}

		others = append(others, u)
	}

	slices.SortFunc(others, func(a, b User) int { return cmp.Compare(a.ID, b.ID) })

	out := make([]split.Participant, 0, len(others)+1)
	out = append(out, split.Participant{UserID: d.CreatedBy, Name: creatorName})

	for _, u := range others {
		out = append(out, split.Participant{UserID: u.ID, Name: u.Name})
	}

	return out
}

// Transaction is a direct debt: PayerID owes RecipientID the amount.
type Transaction struct {
	ID          int64
	GroupID     int64
	PayerID     int64
	RecipientID int64
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

// GroupEntries is a consistent snapshot of everything recorded for a group.
type GroupEntries struct {
	GroupID      int64
	Members      []User
	SharedDebts  []*SharedDebt
	Transactions []*Transaction
}

// IsMember reports whether userID belongs to the group.
func (e *GroupEntries) IsMember(userID int64) bool {
	return slices.ContainsFunc(e.Members, func(u User) bool { return u.ID == userID })
}
