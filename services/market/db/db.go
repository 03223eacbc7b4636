package db

import (
	"context"
	"database/sql"
	"strings"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Open opens the snapshot history database and applies the schema.
// Paths starting with libsql:// (or an http url) go through the remote
// libsql driver, anything else is a local sqlite file.
func Open(path string) (*sql.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(path, "libsql://") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") {
		driver = "libsql"
	}

	database, err := sql.Open(driver, path)
	if err != nil {
		return nil, err
	}
	if strings.Contains(path, ":memory:") {
		// each pooled connection would otherwise get its own empty db
		database.SetMaxOpenConns(1)
	}
	if _, err := database.Exec(Schema); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type CreateSnapshotParams struct {
	RunId    string
	Category string
	Name     string
	Code     string
	Buy      *float64
	Sell     *float64
	Price    *float64
	Time     int64
}

const createSnapshot = `
INSERT INTO snapshots (run_id, category, name, code, buy, sell, price, time)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateSnapshot(ctx context.Context, p CreateSnapshotParams) error {
	_, err := q.db.ExecContext(
		ctx, createSnapshot,
		p.RunId, p.Category, p.Name, p.Code, p.Buy, p.Sell, p.Price, p.Time,
	)
	return err
}

type SnapshotRow struct {
	RunId string
	Name  string
	Code  string
	Buy   *float64
	Sell  *float64
	Price *float64
	Time  int64
}

const getHistory = `
SELECT run_id, name, code, buy, sell, price, time
FROM snapshots
WHERE category = ? AND name = ?
ORDER BY time ASC
`

func (q *Queries) GetHistory(ctx context.Context, category, name string) ([]SnapshotRow, error) {
	rows, err := q.db.QueryContext(ctx, getHistory, category, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var r SnapshotRow
		err := rows.Scan(&r.RunId, &r.Name, &r.Code, &r.Buy, &r.Sell, &r.Price, &r.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getNames = `
SELECT DISTINCT name FROM snapshots WHERE category = ? ORDER BY name
`

func (q *Queries) GetNames(ctx context.Context, category string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getNames, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
