// internal/store/sql.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    store_key TEXT PRIMARY KEY,
    payload TEXT NOT NULL
);
`

type queries struct {
	get string
	set string
}

var sqlQueries = map[Driver]queries{
	DriverSQLite: {
		get: "SELECT payload FROM kv WHERE store_key = ?",
		set: `INSERT INTO kv (store_key, payload) VALUES (?, ?)
ON CONFLICT (store_key) DO UPDATE SET payload = excluded.payload`,
	},
	DriverPostgres: {
		get: "SELECT payload FROM kv WHERE store_key = $1",
		set: `INSERT INTO kv (store_key, payload) VALUES ($1, $2)
ON CONFLICT (store_key) DO UPDATE SET payload = excluded.payload`,
	},
}

// SQLStore keeps every key in one table. It runs on SQLite (modernc) or
// PostgreSQL (pgx stdlib driver).
type SQLStore struct {
	db *sql.DB
	q  queries
}

func NewSQL(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "quizdrill.db"
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizdrill?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLStore{db: db, q: sqlQueries[driver]}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.q.set, key, value)
	return err
}
