package ledger

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/money"
)

const MaxDescriptionLength = 255

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateSharedDebt(ctx context.Context, debt *SharedDebt) error
	GetSharedDebt(ctx context.Context, id int64) (*SharedDebt, error)
	DeleteSharedDebt(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type SharedDebtParams struct {
	GroupID        int64
	Amount         decimal.Decimal
	Description    string
	ParticipantIDs []int64
}

type TransactionParams struct {
	GroupID     int64
	PayerID     int64
	RecipientID int64
	Amount      decimal.Decimal
	Description string
}

// CreateSharedDebt records an expense fronted by the caller.
func (s *Service) CreateSharedDebt(ctx context.Context, who Identity, params SharedDebtParams) (*SharedDebt, error) {
	if err := ValidateEntry(params.GroupID, params.Amount, params.Description); err != nil {
		return nil, err
	}

	participants := make([]User, 0, len(params.ParticipantIDs))
	seen := map[int64]bool{who.UserID: true}

	for _, id := range params.ParticipantIDs {
		if id <= 0 {
			return nil, invalid("participant_ids", ErrUnknownUser)
		}

		if seen[id] {
			continue
		}

		seen[id] = true
		participants = append(participants, User{ID: id})
	}

	if len(participants) == 0 {
		return nil, invalid("participant_ids", ErrNoParticipants)
	}

	debt := &SharedDebt{
		GroupID:      params.GroupID,
		CreatedBy:    who.UserID,
		Amount:       params.Amount,
		Description:  params.Description,
		Participants: participants,
	}
	if err := s.repo.CreateSharedDebt(ctx, debt); err != nil {
		return nil, err
	}

	return debt, nil
}

// DeleteSharedDebt removes an expense. Only its creator may do so.
func (s *Service) DeleteSharedDebt(ctx context.Context, who Identity, groupID, id int64) error {
	debt, err := s.repo.GetSharedDebt(ctx, id)
	if err != nil {
		return err
	}

	if debt.GroupID != groupID {
		return ErrNotFound
	}

	if debt.CreatedBy != who.UserID {
		return ErrForbidden
	}

	return s.repo.DeleteSharedDebt(ctx, id)
}

// CreateTransaction records that the payer owes the recipient. Only the payer
// may record it; a zero payer defaults to the caller.
func (s *Service) CreateTransaction(ctx context.Context, who Identity, params TransactionParams) (*Transaction, error) {
	tx, err := newTransaction(who, params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateTransactions validates every entry first and stores them as one batch,
// so either all of them are recorded or none is.
func (s *Service) CreateTransactions(ctx context.Context, who Identity, params []TransactionParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))

	for i, p := range params {
		tx, err := newTransaction(who, p)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		txs[i] = tx
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, err
	}

	return txs, nil
}

// DeleteTransaction removes a transaction. Only its payer may do so.
func (s *Service) DeleteTransaction(ctx context.Context, who Identity, groupID, id int64) error {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if tx.GroupID != groupID {
		return ErrNotFound
	}

	if tx.PayerID != who.UserID {
		return ErrForbidden
	}

	return s.repo.DeleteTransaction(ctx, id)
}

func newTransaction(who Identity, params TransactionParams) (*Transaction, error) {
	if err := ValidateEntry(params.GroupID, params.Amount, params.Description); err != nil {
		return nil, err
	}

	payer := params.PayerID
	if payer == 0 {
		payer = who.UserID
	}

	if payer <= 0 {
		return nil, invalid("payer_id", ErrUnknownUser)
	}

	// Nobody records a debt on someone else's behalf; deleting it is the
	// payer's call too.
	if payer != who.UserID {
		return nil, ErrForbidden
	}

	if params.RecipientID <= 0 {
		return nil, invalid("recipient_id", ErrUnknownUser)
	}

	if payer == params.RecipientID {
		return nil, invalid("recipient_id", ErrSameParty)
	}

	return &Transaction{
		GroupID:     params.GroupID,
		PayerID:     payer,
		RecipientID: params.RecipientID,
		Amount:      params.Amount,
		Description: params.Description,
	}, nil
}

// ValidateEntry checks the fields shared by every ledger entry.
func ValidateEntry(groupID int64, amount decimal.Decimal, description string) error {
	if groupID <= 0 {
		return invalid("group_id", ErrUnknownGroup)
	}

	if err := money.Validate(amount); err != nil {
		return invalid("amount", err)
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return invalid("description", ErrDescriptionSize)
	}

	return nil
}
