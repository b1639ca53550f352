// Package store persists valued snapshot records in SQLite and answers the
// lookups behind the HTTP API.
//
// Every column is stored as text, the way records leave the snapshot
// pipeline; T and IV are cast to REAL only where a query needs numbers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/contactkeval/option-iv/internal/logger"
	"github.com/contactkeval/option-iv/internal/snapshot"
)

const schema = `
CREATE TABLE IF NOT EXISTS options_data (
	id                TEXT PRIMARY KEY,
	execution_date    TEXT NOT NULL,
	price_today       TEXT,
	type_CP           TEXT NOT NULL,
	type_EA           TEXT NOT NULL,
	expiration_date   TEXT NOT NULL,
	strike_price      TEXT NOT NULL,
	last_option_price TEXT,
	T                 TEXT,
	IV                TEXT,
	code              TEXT,
	run_id            TEXT,
	updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_options_data_execution ON options_data(execution_date, expiration_date, type_CP);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB

	// IDIncludesExecutionDate prefixes record IDs with the execution date so
	// each day's snapshot is kept instead of overwritten.
	IDIncludesExecutionDate bool
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	logger.Debugf("database ready at %s", path)
	return &Store{db: db, IDIncludesExecutionDate: true}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordID builds the natural key of a record:
// [execution_date_]expiration_date_type_CP_type_EA_strike_price.
func RecordID(rec snapshot.Record, withExecutionDate bool) string {
	id := fmt.Sprintf("%s_%s_%s_%s", rec.ExpirationDate, rec.Kind, rec.Style, rec.StrikePrice)
	if withExecutionDate {
		return rec.ExecutionDate + "_" + id
	}
	return id
}

// SaveRecords upserts records under runID. A failing row is logged and
// skipped; the returned count is the number of rows written.
func (s *Store) SaveRecords(ctx context.Context, runID string, recs []snapshot.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO options_data (id, execution_date, price_today, type_CP, type_EA, expiration_date,
			strike_price, last_option_price, T, IV, code, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			price_today = excluded.price_today,
			last_option_price = excluded.last_option_price,
			T = excluded.T,
			IV = excluded.IV,
			code = excluded.code,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	saved := 0
	for _, rec := range recs {
		id := RecordID(rec, s.IDIncludesExecutionDate)
		_, err := stmt.ExecContext(ctx, id, rec.ExecutionDate, rec.UnderlyingPrice, string(rec.Kind), string(rec.Style),
			rec.ExpirationDate, rec.StrikePrice, rec.OptionPrice, formatFloat(rec.T), rec.IV.String(), rec.Code, runID, now)
		if err != nil {
			if ctx.Err() != nil {
				return saved, ctx.Err()
			}
			logger.Errorf("failed to insert row %s: %v", id, err)
			continue
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	logger.Infof("saved %d/%d records (run %s)", saved, len(recs), runID)
	return saved, nil
}
