// Package balance nets the debts recorded in a group into per-pair
// relationships and per-user totals.
//
// Every shared debt contributes one edge per non-creator participant
// (participant owes creator its share) and every transaction contributes one
// edge (payer owes recipient). Edges between the same two users are summed into
// a single signed amount; all arithmetic is fixed-point, so the result does not
// depend on the order entries are read in.
package balance

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
	"github.com/MrJamesThe3rd/tally/internal/split"
)

// Direction says which way a relationship points from the owner's side.
type Direction int

const (
	Owes Direction = iota + 1
	Owed
)

func (d Direction) String() string {
	switch d {
	case Owes:
		return "owes"
	case Owed:
		return "owed"
	}

	return "unknown"
}

// NetType classifies a user's aggregate position.
type NetType int

const (
	Neutral NetType = iota
	Positive
	Negative
)

func (n NetType) String() string {
	switch n {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Neutral:
		return "neutral"
	}

	return "unknown"
}

// DebtRelationship is the netted position between a user and one counterparty.
type DebtRelationship struct {
	OtherUserID   int64
	OtherUserName string
	Amount        decimal.Decimal
	Direction     Direction
}

// UserBalance is a user's position across every counterparty in a group.
type UserBalance struct {
	UserID        int64
	UserName      string
	Relationships []DebtRelationship
	TotalOwed     decimal.Decimal // Others owe this user.
	TotalOwing    decimal.Decimal // This user owes others.
	NetAmount     decimal.Decimal
	NetType       NetType
}

// pair is an unordered user pair stored as (lo, hi). A positive sum means lo owes hi.
type pair struct {
	lo, hi int64
}

type netting struct {
	sums  map[pair]decimal.Decimal
	names map[int64]string
}

func (n *netting) add(debtor, creditor int64, amount decimal.Decimal) {
	if debtor == creditor || amount.IsZero() {
		return
	}

	if debtor < creditor {
		p := pair{debtor, creditor}
		n.sums[p] = n.sums[p].Add(amount)

		return
	}

	p := pair{creditor, debtor}
	n.sums[p] = n.sums[p].Sub(amount)
}

func (n *netting) name(id int64, name string) {
	if name == "" {
		return
	}

	if _, ok := n.names[id]; !ok {
		n.names[id] = name
	}
}

// Compute nets every entry in the snapshot. Each group member gets a balance,
// including members with nothing outstanding.
func Compute(entries *ledger.GroupEntries) map[int64]UserBalance {
	n := &netting{
		sums:  make(map[pair]decimal.Decimal),
		names: make(map[int64]string),
	}

	for _, u := range entries.Members {
		n.name(u.ID, u.Name)
	}

	for _, d := range entries.SharedDebts {
		for _, u := range d.Participants {
			n.name(u.ID, u.Name)
		}

		for _, s := range split.Ordered(d.Amount, d.SplitParticipants()) {
			n.add(s.Participant.UserID, d.CreatedBy, s.Amount)
		}
	}

	for _, tx := range entries.Transactions {
		n.add(tx.PayerID, tx.RecipientID, tx.Amount)
	}

	balances := make(map[int64]*UserBalance, len(entries.Members))

	get := func(id int64) *UserBalance {
		b, ok := balances[id]
		if !ok {
			b = &UserBalance{
				UserID:     id,
				UserName:   n.names[id],
				TotalOwed:  decimal.Zero,
				TotalOwing: decimal.Zero,
			}
			balances[id] = b
		}

		return b
	}

	for _, u := range entries.Members {
		get(u.ID)
	}

	for p, sum := range n.sums {
		if sum.IsZero() {
			continue
		}

		debtor, creditor := p.lo, p.hi
		if sum.IsNegative() {
			debtor, creditor = p.hi, p.lo
		}

		amount := sum.Abs()

		d := get(debtor)
		d.Relationships = append(d.Relationships, DebtRelationship{
			OtherUserID:   creditor,
			OtherUserName: n.names[creditor],
			Amount:        amount,
			Direction:     Owes,
		})
		d.TotalOwing = d.TotalOwing.Add(amount)

		c := get(creditor)
		c.Relationships = append(c.Relationships, DebtRelationship{
			OtherUserID:   debtor,
			OtherUserName: n.names[debtor],
			Amount:        amount,
			Direction:     Owed,
		})
		c.TotalOwed = c.TotalOwed.Add(amount)
	}

	out := make(map[int64]UserBalance, len(balances))

	for id, b := range balances {
		slices.SortFunc(b.Relationships, byCounterparty)

		b.NetAmount = b.TotalOwed.Sub(b.TotalOwing).Abs()

		switch b.TotalOwed.Cmp(b.TotalOwing) {
		case 1:
			b.NetType = Positive
		case -1:
			b.NetType = Negative
		default:
			b.NetType = Neutral
		}

		out[id] = *b
	}

	return out
}

// Sorted returns balances ordered by user name, then id.
func Sorted(balances map[int64]UserBalance) []UserBalance {
	out := make([]UserBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b UserBalance) int {
		if c := cmp.Compare(a.UserName, b.UserName); c != 0 {
			return c
		}

		return cmp.Compare(a.UserID, b.UserID)
	})

	return out
}

func byCounterparty(a, b DebtRelationship) int {
	if c := cmp.Compare(a.OtherUserName, b.OtherUserName); c != 0 {
		return c
	}

	return cmp.Compare(a.OtherUserID, b.OtherUserID)
}
