// Package sqlxstore keeps the wizard progress in the setup_progress Postgres table.
package sqlxstore

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core/setup"
)

type Store struct {
	db        *sqlx.DB
	namespace string
}

var _ setup.ProgressStore = (*Store)(nil)

func New(db *sql.DB, namespace string) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres"), namespace: namespace}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.GetContext(ctx, &v,
		`SELECT value FROM setup_progress WHERE namespace = $1 AND key = $2`, s.namespace, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, errors.Wrapf(err, "selecting %s", key)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO setup_progress (namespace, key, value, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.namespace, key, value)
	return errors.Wrapf(err, "upserting %s", key)
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM setup_progress WHERE namespace = $1 AND key = ANY($2)`, s.namespace, pq.Array(keys))
	return errors.Wrap(err, "deleting keys")
}
