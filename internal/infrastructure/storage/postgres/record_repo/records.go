// Package record_repo implements the calculation record store on PostgreSQL.
package record_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"landedcost/internal/core/apperror"
	"landedcost/internal/core/id"
	"landedcost/internal/domain/costing"
	"landedcost/internal/domain/records"
	"landedcost/internal/infrastructure/storage/postgres"
)

const recordTable = "calculations"

const compressionNone = "none"
const compressionZstd = "zstd"

// Snapshots above this size are stored zstd-compressed.
const compressThreshold = 10 * 1024

var recordColumns = []string{
	"id", "product_name", "category", "unit_price", "currency",
	"units_per_container", "container_type",
	"total_cost", "cost_per_unit", "cost_per_unit_original",
	"input_snapshot", "input_compressed", "compression_algo",
	"created_at", "last_modified",
}

// RecordRepo implements records.Store on the primary PostgreSQL database.
type RecordRepo struct {
	txManager *postgres.TxManager
	pool      *postgres.Pool
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

var _ records.Store = (*RecordRepo)(nil)

// NewRecordRepo creates the PostgreSQL record repository.
func NewRecordRepo(pool *postgres.Pool) (*RecordRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &RecordRepo{
		txManager: postgres.NewTxManager(pool),
		pool:      pool,
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

// EnsureSchema creates the calculations table if it does not exist yet. The
// service owns its schema so a fresh database works without external tooling.
func (r *RecordRepo) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS calculations (
			id UUID PRIMARY KEY,
			product_name TEXT NOT NULL,
			category TEXT NOT NULL,
			unit_price DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			units_per_container INTEGER NOT NULL,
			container_type TEXT NOT NULL DEFAULT '',
			total_cost DOUBLE PRECISION NOT NULL,
			cost_per_unit DOUBLE PRECISION NOT NULL,
			cost_per_unit_original DOUBLE PRECISION NOT NULL,
			input_snapshot JSONB,
			input_compressed BYTEA,
			compression_algo TEXT NOT NULL DEFAULT 'none',
			created_at TIMESTAMPTZ NOT NULL,
			last_modified TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_category ON calculations (category)`,
	}

	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		querier := r.txManager.GetQuerier(ctx)
		for _, stmt := range ddl {
			if _, err := querier.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("ensure calculations schema: %w", err)
			}
		}
		return nil
	})
}

// recordRow is the table-shaped view of a saved calculation.
type recordRow struct {
	ID                  id.ID                 `db:"id"`
	ProductName         string                `db:"product_name"`
	Category            string                `db:"category"`
	UnitPrice           float64               `db:"unit_price"`
	Currency            costing.Currency      `db:"currency"`
	UnitsPerContainer   int                   `db:"units_per_container"`
	ContainerType       costing.ContainerType `db:"container_type"`
	TotalCost           float64               `db:"total_cost"`
	CostPerUnit         float64               `db:"cost_per_unit"`
	CostPerUnitOriginal float64               `db:"cost_per_unit_original"`
	InputSnapshot       []byte                `db:"input_snapshot"`
	InputCompressed     []byte                `db:"input_compressed"`
	CompressionAlgo     string                `db:"compression_algo"`
	CreatedAt           time.Time             `db:"created_at"`
	LastModified        time.Time             `db:"last_modified"`
}

func (r *RecordRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *RecordRepo) toRow(rec *records.SavedCalculation) (*recordRow, error) {
	snapshot, err := json.Marshal(rec.Input)
	if err != nil {
		return nil, fmt.Errorf("marshal input snapshot: %w", err)
	}

	row := &recordRow{
		ID:                  rec.ID,
		ProductName:         rec.ProductName,
		Category:            rec.Category,
		UnitPrice:           rec.UnitPrice,
		Currency:            rec.Currency,
		UnitsPerContainer:   rec.UnitsPerContainer,
		ContainerType:       rec.ContainerType,
		TotalCost:           rec.TotalCost,
		CostPerUnit:         rec.CostPerUnit,
		CostPerUnitOriginal: rec.CostPerUnitOriginal,
		InputSnapshot:       snapshot,
		CompressionAlgo:     compressionNone,
		CreatedAt:           rec.CreatedAt,
		LastModified:        rec.LastModified,
	}

	if len(snapshot) > compressThreshold {
		row.InputCompressed = r.encoder.EncodeAll(snapshot, nil)
		row.InputSnapshot = nil
		row.CompressionAlgo = compressionZstd
	}

	return row, nil
}

func (r *RecordRepo) fromRow(row *recordRow) (*records.SavedCalculation, error) {
	snapshot := row.InputSnapshot
	if row.CompressionAlgo == compressionZstd && len(row.InputCompressed) > 0 {
		decompressed, err := r.decoder.DecodeAll(row.InputCompressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress input snapshot: %w", err)
		}
		snapshot = decompressed
	}

	rec := &records.SavedCalculation{
		ID:                  row.ID,
		ProductName:         row.ProductName,
		Category:            row.Category,
		UnitPrice:           row.UnitPrice,
		Currency:            row.Currency,
		UnitsPerContainer:   row.UnitsPerContainer,
		ContainerType:       row.ContainerType,
		TotalCost:           row.TotalCost,
		CostPerUnit:         row.CostPerUnit,
		CostPerUnitOriginal: row.CostPerUnitOriginal,
		CreatedAt:           row.CreatedAt,
		LastModified:        row.LastModified,
	}

	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &rec.Input); err != nil {
			return nil, fmt.Errorf("unmarshal input snapshot: %w", err)
		}
	}

	return rec, nil
}

// Save inserts a record that already carries id and timestamps.
func (r *RecordRepo) Save(ctx context.Context, rec *records.SavedCalculation) error {
	row, err := r.toRow(rec)
	if err != nil {
		return err
	}

	q := r.builder().
		Insert(recordTable).
		Columns(recordColumns...).
		Values(
			row.ID, row.ProductName, row.Category, row.UnitPrice, row.Currency,
			row.UnitsPerContainer, row.ContainerType,
			row.TotalCost, row.CostPerUnit, row.CostPerUnitOriginal,
			row.InputSnapshot, row.InputCompressed, row.CompressionAlgo,
			row.CreatedAt, row.LastModified,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}

	return nil
}

// Update rewrites a record in place by id. created_at is never touched.
func (r *RecordRepo) Update(ctx context.Context, rec *records.SavedCalculation) error {
	row, err := r.toRow(rec)
	if err != nil {
		return err
	}

	q := r.builder().
		Update(recordTable).
		Set("product_name", row.ProductName).
		Set("category", row.Category).
		Set("unit_price", row.UnitPrice).
		Set("currency", row.Currency).
		Set("units_per_container", row.UnitsPerContainer).
		Set("container_type", row.ContainerType).
		Set("total_cost", row.TotalCost).
		Set("cost_per_unit", row.CostPerUnit).
		Set("cost_per_unit_original", row.CostPerUnitOriginal).
		Set("input_snapshot", row.InputSnapshot).
		Set("input_compressed", row.InputCompressed).
		Set("compression_algo", row.CompressionAlgo).
		Set("last_modified", row.LastModified).
		Where(squirrel.Eq{"id": rec.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("calculation", rec.ID)
	}

	return nil
}

// Get loads a full record, including the input snapshot.
func (r *RecordRepo) Get(ctx context.Context, recID id.ID) (*records.SavedCalculation, error) {
	q := r.builder().
		Select(recordColumns...).
		From(recordTable).
		Where(squirrel.Eq{"id": recID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row recordRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("calculation", recID)
		}
		return nil, fmt.Errorf("get calculation: %w", err)
	}

	return r.fromRow(&row)
}

// List returns up to limit records, newest first.
func (r *RecordRepo) List(ctx context.Context, limit int) ([]*records.SavedCalculation, error) {
	q := r.builder().
		Select(recordColumns...).
		From(recordTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*recordRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}

	recs := make([]*records.SavedCalculation, 0, len(rows))
	for _, row := range rows {
		rec, err := r.fromRow(row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

// Delete removes a record by id.
func (r *RecordRepo) Delete(ctx context.Context, recID id.ID) error {
	q := r.builder().
		Delete(recordTable).
		Where(squirrel.Eq{"id": recID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete calculation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("calculation", recID)
	}

	return nil
}

// Healthy reports whether the database answers a ping.
func (r *RecordRepo) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.pool.Ping(ctx) == nil
}

// Name identifies the backend for logging.
func (r *RecordRepo) Name() string { return "postgres" }
