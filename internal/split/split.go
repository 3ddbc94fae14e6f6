// Package split divides an amount between participants.
//
// The amount is rounded to cents and split into whole cents. Every participant
// receives floor(cents/n); the first cents%n participants, in input order,
// receive one extra cent. Shares therefore always add up to the rounded amount
// and no share ever carries more than two fractional digits.
package split

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

// Participant is one member taking part in a split.
type Participant struct {
	UserID int64
	Name   string
}

// Share is the portion of an amount owed by a single participant.
type Share struct {
	Participant Participant
	Amount      decimal.Decimal
}

// Ordered splits amount between participants and returns one share per distinct
// participant, in input order. Repeated user ids are ignored after their first
// occurrence. An empty participant list yields no shares.
func Ordered(amount decimal.Decimal, participants []Participant) []Share {
	unique := dedupe(participants)
	if len(unique) == 0 {
		return nil
	}

	cents := money.Cents(amount)
	n := int64(len(unique))
	base, rem := cents/n, cents%n

	shares := make([]Share, len(unique))
	for i, p := range unique {
		c := base
		if int64(i) < rem {
			c++
		}

		shares[i] = Share{Participant: p, Amount: money.FromCents(c)}
	}

	return shares
}

// Shares is Ordered keyed by user id.
func Shares(amount decimal.Decimal, participants []Participant) map[int64]decimal.Decimal {
	ordered := Ordered(amount, participants)

	out := make(map[int64]decimal.Decimal, len(ordered))
	for _, s := range ordered {
		out[s.Participant.UserID] = s.Amount
	}

	return out
}

func dedupe(participants []Participant) []Participant {
	seen := make(map[int64]struct{}, len(participants))
	out := make([]Participant, 0, len(participants))

	for _, p := range participants {
		if _, ok := seen[p.UserID]; ok {
			continue
		}

		seen[p.UserID] = struct{}{}
		out = append(out, p)
	}

	return out
}
