package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

// FetchGroupEntries loads the members and every ledger entry of a group from
// one read-only repeatable-read transaction, so balances never mix states.
func (s *Store) FetchGroupEntries(ctx context.Context, groupID int64) (*ledger.GroupEntries, error) {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer dbTx.Rollback()

	var exists bool
	if err := dbTx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking group: %w", err)
	}

	if !exists {
		return nil, ledger.ErrNotFound
	}

	entries := &ledger.GroupEntries{GroupID: groupID}

	if entries.Members, err = members(ctx, dbTx, groupID); err != nil {
		return nil, err
	}

	if entries.SharedDebts, err = sharedDebts(ctx, dbTx, groupID); err != nil {
		return nil, err
	}

	if entries.Transactions, err = transactions(ctx, dbTx, groupID); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("closing snapshot: %w", err)
	}

	return entries, nil
}

func members(ctx context.Context, q Querier, groupID int64) ([]ledger.User, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT u.id, u.name
		FROM group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY u.id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var out []ledger.User

	for rows.Next() {
		var u ledger.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}

	return out, nil
}

func sharedDebts(ctx context.Context, q Querier, groupID int64) ([]*ledger.SharedDebt, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+selectSharedDebtColumns+`
		FROM shared_debts WHERE group_id = $1 ORDER BY id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing shared debts: %w", err)
	}
	defer rows.Close()

	var debts []*ledger.SharedDebt

	byID := map[int64]*ledger.SharedDebt{}

	for rows.Next() {
		d, err := scanSharedDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shared debt: %w", err)
		}

		debts = append(debts, d)
		byID[d.ID] = d
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shared debts: %w", err)
	}

	prows, err := q.QueryContext(ctx, `
		SELECT p.shared_debt_id, u.id, u.name
		FROM shared_debt_participants p
		JOIN shared_debts d ON d.id = p.shared_debt_id
		JOIN users u ON u.id = p.user_id
		WHERE d.group_id = $1
		ORDER BY p.shared_debt_id, u.id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing shared debt participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var debtID int64

		var u ledger.User
		if err := prows.Scan(&debtID, &u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}

		if d, ok := byID[debtID]; ok {
			d.Participants = append(d.Participants, u)
		}
	}

	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}

	return debts, nil
}

func transactions(ctx context.Context, q Querier, groupID int64) ([]*ledger.Transaction, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+selectTransactionColumns+`
		FROM transactions WHERE group_id = $1 ORDER BY id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}
