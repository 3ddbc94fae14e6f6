//go:build integration

// Package dbtest starts a disposable, migrated Postgres for store tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
)

// New returns a connection to a fresh database with every migration applied.
// The test is skipped when no container runtime is reachable.
func New(t *testing.T) *sql.DB {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tally"),
		tcpostgres.WithUsername("tally"),
		tcpostgres.WithPassword("tally"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))

	return db
}

// Seed creates a group whose members carry the given names, in order.
func Seed(t *testing.T, db *sql.DB, names ...string) (int64, []ledger.User) {
	t.Helper()

	ctx := context.Background()

	var groupID int64
	require.NoError(t, db.QueryRowContext(ctx, `INSERT INTO groups (name) VALUES ('flat') RETURNING id`).Scan(&groupID))

	users := make([]ledger.User, 0, len(names))

	for _, name := range names {
		u := ledger.User{Name: name}
		require.NoError(t, db.QueryRowContext(ctx, `INSERT INTO users (name) VALUES ($1) RETURNING id`, name).Scan(&u.ID))

		_, err := db.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, groupID, u.ID)
		require.NoError(t, err)

		users = append(users, u)
	}

	return groupID, users
}
