package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/tally/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/tally/internal/ledger/store"
	"github.com/MrJamesThe3rd/tally/internal/recurring"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, group_id, created_by, amount, description,
// frequency, is_active, start_date, created_at, last_generated
func scanTemplate(s scanner) (*recurring.Template, error) {
	var t recurring.Template

	var freq string

	var last sql.NullTime

	if err := s.Scan(
		&t.ID, &t.GroupID, &t.CreatedBy, &t.Amount, &t.Description,
		&freq, &t.Active, &t.StartDate, &t.CreatedAt, &last,
	); err != nil {
		return nil, err
	}

	f, err := recurring.ParseFrequency(freq)
	if err != nil {
		return nil, err
	}

	t.Frequency = f
	t.StartDate = recurring.Date(t.StartDate)

	if last.Valid {
		d := recurring.Date(last.Time)
		t.LastGenerated = &d
	}

	return &t, nil
}

const selectTemplateColumns = `
	t.id, t.group_id, t.created_by, t.amount, t.description,
	t.frequency, t.is_active, t.start_date, t.created_at,
	(SELECT MAX(g.due_date) FROM generated_instances g WHERE g.template_id = t.id) AS last_generated
`

func (s *Store) CreateTemplate(ctx context.Context, t *recurring.Template) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	ids := []int64{t.CreatedBy}
	for _, p := range t.Participants {
		ids = append(ids, p.ID)
	}

	if err := ledgerstore.RequireMembers(ctx, dbTx, t.GroupID, "participant_ids", ids...); err != nil {
		return err
	}

	query := `
		INSERT INTO recurring_templates (group_id, created_by, amount, description, frequency, is_active, start_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		t.GroupID,
		t.CreatedBy,
		t.Amount,
		t.Description,
		t.Frequency.String(),
		t.Active,
		t.StartDate,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating recurring template: %w", err)
	}

	for _, p := range t.Participants {
		_, err := dbTx.ExecContext(ctx,
			`INSERT INTO recurring_template_participants (template_id, user_id) VALUES ($1, $2)`,
			t.ID, p.ID,
		)
		if err != nil {
			return fmt.Errorf("adding template participant: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing recurring template: %w", err)
	}

	return nil
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (*recurring.Template, error) {
	query := `SELECT ` + selectTemplateColumns + ` FROM recurring_templates t WHERE t.id = $1`

	t, err := scanTemplate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring template: %w", err)
	}

	if err := s.loadParticipants(ctx, []*recurring.Template{t}); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Store) ListTemplates(ctx context.Context, groupID int64) ([]*recurring.Template, error) {
	query := `SELECT ` + selectTemplateColumns + `
		FROM recurring_templates t
		WHERE t.group_id = $1
		ORDER BY t.id`

	return s.queryTemplates(ctx, query, groupID)
}

func (s *Store) ActiveTemplates(ctx context.Context, asOf time.Time) ([]*recurring.Template, error) {
	query := `SELECT ` + selectTemplateColumns + `
		FROM recurring_templates t
		WHERE t.is_active AND t.start_date <= $1
		ORDER BY t.id`

	return s.queryTemplates(ctx, query, asOf)
}

func (s *Store) queryTemplates(ctx context.Context, query string, args ...any) ([]*recurring.Template, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recurring templates: %w", err)
	}
	defer rows.Close()

	var templates []*recurring.Template

	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring template: %w", err)
		}

		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring templates: %w", err)
	}

	if err := s.loadParticipants(ctx, templates); err != nil {
		return nil, err
	}

	return templates, nil
}

func (s *Store) loadParticipants(ctx context.Context, templates []*recurring.Template) error {
	if len(templates) == 0 {
		return nil
	}

	ids := make([]int64, len(templates))
	byID := make(map[int64]*recurring.Template, len(templates))

	for i, t := range templates {
		ids[i] = t.ID
		byID[t.ID] = t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.template_id, u.id, u.name
		FROM recurring_template_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.template_id = ANY($1)
		ORDER BY p.template_id, u.id`, ids)
	if err != nil {
		return fmt.Errorf("listing template participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var templateID int64

		var u ledger.User
		if err := rows.Scan(&templateID, &u.ID, &u.Name); err != nil {
			return fmt.Errorf("scanning template participant: %w", err)
		}

		byID[templateID].Participants = append(byID[templateID].Participants, u)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating template participants: %w", err)
	}

	return nil
}

func (s *Store) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE recurring_templates SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("updating template status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (s *Store) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var ok bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}

	return ok, nil
}

// DeleteTemplate runs the cleanup in two steps inside one transaction: first
// the participant rows go and every generated debt and instance is detached,
// then the template itself is deleted.
func (s *Store) DeleteTemplate(ctx context.Context, id int64) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	cleanup := []struct {
		what  string
		query string
	}{
		{"deleting template participants", `DELETE FROM recurring_template_participants WHERE template_id = $1`},
		{"detaching generated debts", `UPDATE shared_debts SET recurring_template_id = NULL WHERE recurring_template_id = $1`},
		{"detaching generated instances", `UPDATE generated_instances SET template_id = NULL WHERE template_id = $1`},
	}

	for _, c := range cleanup {
		if _, err := dbTx.ExecContext(ctx, c.query, id); err != nil {
			return fmt.Errorf("%s: %w", c.what, err)
		}
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM recurring_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting recurring template: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing template deletion: %w", err)
	}

	return nil
}

func (s *Store) InstanceExists(ctx context.Context, templateID int64, dueDate time.Time) (bool, error) {
	return instanceExists(ctx, s.db, templateID, dueDate)
}

func instanceExists(ctx context.Context, q ledgerstore.Querier, templateID int64, dueDate time.Time) (bool, error) {
	var ok bool

	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM generated_instances WHERE template_id = $1 AND due_date = $2)`,
		templateID, dueDate,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking generated instance: %w", err)
	}

	return ok, nil
}

func generationLockKey(templateID int64, dueDate time.Time) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d", templateID)
	h.Write([]byte{0})
	h.Write([]byte(dueDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type generationTx struct {
	tx *sql.Tx
}

// BeginGeneration opens a transaction holding an advisory lock scoped to it,
// keyed by template and due date.
func (s *Store) BeginGeneration(ctx context.Context, templateID int64, dueDate time.Time) (recurring.GenerationTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning generation tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", generationLockKey(templateID, dueDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring generation lock: %w", err)
	}

	return &generationTx{tx: dbTx}, nil
}

func (g *generationTx) Commit() error   { return g.tx.Commit() }
func (g *generationTx) Rollback() error { return g.tx.Rollback() }

func (g *generationTx) TemplateActive(ctx context.Context, templateID int64) (bool, error) {
	var active bool

	err := g.tx.QueryRowContext(ctx, `SELECT is_active FROM recurring_templates WHERE id = $1`, templateID).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("checking template status: %w", err)
	}

	return active, nil
}

func (g *generationTx) InstanceExists(ctx context.Context, templateID int64, dueDate time.Time) (bool, error) {
	return instanceExists(ctx, g.tx, templateID, dueDate)
}

func (g *generationTx) CreateSharedDebt(ctx context.Context, debt *ledger.SharedDebt) error {
	return ledgerstore.InsertSharedDebt(ctx, g.tx, debt)
}

func (g *generationTx) RecordInstance(ctx context.Context, inst recurring.Instance) error {
	_, err := g.tx.ExecContext(ctx,
		`INSERT INTO generated_instances (template_id, due_date, shared_debt_id, created_at) VALUES ($1, $2, $3, NOW())`,
		inst.TemplateID, inst.DueDate, inst.SharedDebtID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return recurring.ErrAlreadyGenerated
		}

		return fmt.Errorf("recording generated instance: %w", err)
	}

	return nil
}
