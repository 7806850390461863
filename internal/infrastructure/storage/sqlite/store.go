// Package sqlite implements the local fallback record store. It keeps saving
// calculations when the primary database is unreachable, so a lost connection
// never loses the user's work.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"landedcost/internal/core/apperror"
	"landedcost/internal/core/id"
	"landedcost/internal/domain/costing"
	"landedcost/internal/domain/records"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const sqliteDialect = "sqlite3"

// Store implements records.Store on a local SQLite file.
type Store struct {
	db *sql.DB
}

var _ records.Store = (*Store)(nil)

// Open opens the SQLite database at dbPath, sets recommended pragmas, runs
// pending migrations, and validates connectivity.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// migrate runs all pending embedded SQL migrations.
func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a record that already carries id and timestamps.
func (s *Store) Save(ctx context.Context, rec *records.SavedCalculation) error {
	snapshot, err := json.Marshal(rec.Input)
	if err != nil {
		return fmt.Errorf("marshal input snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculations (
			id, product_name, category, unit_price, currency,
			units_per_container, container_type,
			total_cost, cost_per_unit, cost_per_unit_original,
			input_snapshot, created_at, last_modified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID.String(), rec.ProductName, rec.Category, rec.UnitPrice, string(rec.Currency),
		rec.UnitsPerContainer, string(rec.ContainerType),
		rec.TotalCost, rec.CostPerUnit, rec.CostPerUnitOriginal,
		snapshot, formatTime(rec.CreatedAt), formatTime(rec.LastModified),
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}

	return nil
}

// Update rewrites a record in place by id. created_at is never touched.
func (s *Store) Update(ctx context.Context, rec *records.SavedCalculation) error {
	snapshot, err := json.Marshal(rec.Input)
	if err != nil {
		return fmt.Errorf("marshal input snapshot: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE calculations SET
			product_name = ?, category = ?, unit_price = ?, currency = ?,
			units_per_container = ?, container_type = ?,
			total_cost = ?, cost_per_unit = ?, cost_per_unit_original = ?,
			input_snapshot = ?, last_modified = ?
		WHERE id = ?
	`,
		rec.ProductName, rec.Category, rec.UnitPrice, string(rec.Currency),
		rec.UnitsPerContainer, string(rec.ContainerType),
		rec.TotalCost, rec.CostPerUnit, rec.CostPerUnitOriginal,
		snapshot, formatTime(rec.LastModified),
		rec.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update calculation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update calculation: rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("calculation", rec.ID)
	}

	return nil
}

const recordSelect = `
	SELECT id, product_name, category, unit_price, currency,
		units_per_container, container_type,
		total_cost, cost_per_unit, cost_per_unit_original,
		input_snapshot, created_at, last_modified
	FROM calculations
`

// Get loads a full record, including the input snapshot.
func (s *Store) Get(ctx context.Context, recID id.ID) (*records.SavedCalculation, error) {
	row := s.db.QueryRowContext(ctx, recordSelect+`WHERE id = ?`, recID.String())

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("calculation", recID)
		}
		return nil, fmt.Errorf("get calculation: %w", err)
	}

	return rec, nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*records.SavedCalculation, error) {
	rows, err := s.db.QueryContext(ctx, recordSelect+`ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	var recs []*records.SavedCalculation
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// Delete removes a record by id.
func (s *Store) Delete(ctx context.Context, recID id.ID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?`, recID.String())
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete calculation: rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NewNotFound("calculation", recID)
	}

	return nil
}

// Healthy reports whether the database answers a ping.
func (s *Store) Healthy(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

// Name identifies the backend for logging.
func (s *Store) Name() string { return "sqlite" }

// scanRecord reads one row through the given Scan function, shared by Get and
// List.
func scanRecord(scan func(dest ...any) error) (*records.SavedCalculation, error) {
	var (
		rec       records.SavedCalculation
		rawID     string
		currency  string
		container string
		snapshot  []byte
		createdAt string
		modified  string
	)

	err := scan(
		&rawID, &rec.ProductName, &rec.Category, &rec.UnitPrice, &currency,
		&rec.UnitsPerContainer, &container,
		&rec.TotalCost, &rec.CostPerUnit, &rec.CostPerUnitOriginal,
		&snapshot, &createdAt, &modified,
	)
	if err != nil {
		return nil, err
	}

	rec.ID, err = id.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse record id: %w", err)
	}

	rec.Currency = costing.Currency(currency)
	rec.ContainerType = costing.ContainerType(container)

	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &rec.Input); err != nil {
			return nil, fmt.Errorf("unmarshal input snapshot: %w", err)
		}
	}

	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.LastModified, err = parseTime(modified); err != nil {
		return nil, fmt.Errorf("parse last_modified: %w", err)
	}

	return &rec, nil
}

// Timestamps are stored as RFC 3339 text so ORDER BY created_at sorts
// chronologically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
