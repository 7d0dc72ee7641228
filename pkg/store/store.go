// Package store persists scraped applications to sqlite. The schema
// follows the scraper platform convention: a single data table keyed by
// application number, columns in record field order.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/register"
)

// Store writes application records to a sqlite database, one row per
// application number. Saving an application again replaces its row.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens or creates the database at path. A nil logger disables
// logging.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Init creates the data table when absent.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS data (
	application_number TEXT PRIMARY KEY,
	address TEXT,
	description TEXT,
	info_url TEXT,
	comment_url TEXT,
	date_scraped TEXT,
	date_received TEXT,
	legal_description TEXT
)`)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Save upserts the records in a single transaction.
func (s *Store) Save(ctx context.Context, records []register.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO data (
	application_number, address, description, info_url, comment_url,
	date_scraped, date_received, legal_description
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.ApplicationNumber, r.Address, r.Description,
			r.InfoURL, r.CommentURL,
			r.DateScraped, r.DateReceived, r.LegalDescription,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", r.ApplicationNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("records saved", zap.Int("count", len(records)))
	return nil
}

// Count returns the number of stored applications.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
