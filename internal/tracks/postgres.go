package tracks

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps track assignments in a small key-value table so they
// survive process restarts as well as re-imports.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS track_assignments (
			record_id TEXT PRIMARY KEY,
			track     TEXT NOT NULL
		)
	`)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, assignments map[string]string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin track save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM track_assignments`); err != nil {
		return err
	}
	for id, track := range assignments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO track_assignments (record_id, track) VALUES ($1, $2)`,
			id, track,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Load(ctx context.Context) (map[string]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT record_id, track FROM track_assignments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make(map[string]string)
	for rows.Next() {
		var id, track string
		if err := rows.Scan(&id, &track); err != nil {
			return nil, err
		}
		assignments[id] = track
	}
	return assignments, rows.Err()
}
