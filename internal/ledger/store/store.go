package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Expected column order: id, group_id, created_by, amount, description, recurring_template_id, created_at
func scanSharedDebt(s scanner) (*ledger.SharedDebt, error) {
	var d ledger.SharedDebt

	var templateID sql.NullInt64

	if err := s.Scan(&d.ID, &d.GroupID, &d.CreatedBy, &d.Amount, &d.Description, &templateID, &d.CreatedAt); err != nil {
		return nil, err
	}

	if templateID.Valid {
		d.TemplateID = &templateID.Int64
	}

	return &d, nil
}

const selectSharedDebtColumns = `id, group_id, created_by, amount, description, recurring_template_id, created_at`

// Expected column order: id, group_id, payer_id, recipient_id, amount, description, created_at
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	if err := s.Scan(&tx.ID, &tx.GroupID, &tx.PayerID, &tx.RecipientID, &tx.Amount, &tx.Description, &tx.CreatedAt); err != nil {
		return nil, err
	}

	return &tx, nil
}

const selectTransactionColumns = `id, group_id, payer_id, recipient_id, amount, description, created_at`

// RequireMembers fails with a validation error naming field unless every id
// belongs to the group.
func RequireMembers(ctx context.Context, q Querier, groupID int64, field string, ids ...int64) error {
	rows, err := q.QueryContext(ctx,
		`SELECT user_id FROM group_members WHERE group_id = $1 AND user_id = ANY($2)`,
		groupID, ids,
	)
	if err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning member: %w", err)
		}

		found[id] = true
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating members: %w", err)
	}

	for _, id := range ids {
		if !found[id] {
			return &ledger.ValidationError{Field: field, Err: ledger.ErrNotMember}
		}
	}

	return nil
}

// InsertSharedDebt writes the debt and its participant rows through q. The
// caller owns the surrounding transaction.
func InsertSharedDebt(ctx context.Context, q Querier, debt *ledger.SharedDebt) error {
	ids := make([]int64, 0, len(debt.Participants)+1)
	ids = append(ids, debt.CreatedBy)

	for _, p := range debt.Participants {
		ids = append(ids, p.ID)
	}

	if err := RequireMembers(ctx, q, debt.GroupID, "participant_ids", ids...); err != nil {
		return err
	}

	query := `
		INSERT INTO shared_debts (group_id, created_by, amount, description, recurring_template_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		debt.GroupID,
		debt.CreatedBy,
		debt.Amount,
		debt.Description,
		debt.TemplateID,
	).Scan(&debt.ID, &debt.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating shared debt: %w", err)
	}

	for _, p := range debt.Participants {
		_, err := q.ExecContext(ctx,
			`INSERT INTO shared_debt_participants (shared_debt_id, user_id) VALUES ($1, $2)`,
			debt.ID, p.ID,
		)
		if err != nil {
			return fmt.Errorf("adding shared debt participant: %w", err)
		}
	}

	return nil
}

func (s *Store) CreateSharedDebt(ctx context.Context, debt *ledger.SharedDebt) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := InsertSharedDebt(ctx, dbTx, debt); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing shared debt: %w", err)
	}

	return nil
}

func (s *Store) GetSharedDebt(ctx context.Context, id int64) (*ledger.SharedDebt, error) {
	query := `SELECT ` + selectSharedDebtColumns + ` FROM shared_debts WHERE id = $1`

	debt, err := scanSharedDebt(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting shared debt: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name
		FROM shared_debt_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.shared_debt_id = $1
		ORDER BY u.id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing shared debt participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u ledger.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}

		debt.Participants = append(debt.Participants, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}

	return debt, nil
}

// DeleteSharedDebt removes the debt. Participant rows cascade and a generated
// instance pointing at it is kept with its link cleared.
func (s *Store) DeleteSharedDebt(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shared_debts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting shared debt: %w", err)
	}

	return expectAffected(res)
}

func insertTransaction(ctx context.Context, q Querier, tx *ledger.Transaction) error {
	if err := RequireMembers(ctx, q, tx.GroupID, "recipient_id", tx.PayerID, tx.RecipientID); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (group_id, payer_id, recipient_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		tx.GroupID,
		tx.PayerID,
		tx.RecipientID,
		tx.Amount,
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	return insertTransaction(ctx, s.db, tx)
}

// CreateTransactions stores the whole batch or nothing.
func (s *Store) CreateTransactions(ctx context.Context, txs []*ledger.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for i, tx := range txs {
		if err := insertTransaction(ctx, dbTx, tx); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transactions: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}
