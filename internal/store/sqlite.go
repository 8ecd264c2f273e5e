package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
)

// SQLiteStore implements AnalysisStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the history database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		kind TEXT NOT NULL,
		side TEXT NOT NULL,
		strike REAL NOT NULL,
		premium REAL NOT NULL,
		volatility REAL NOT NULL,
		rate REAL NOT NULL,
		time_to_expiry REAL NOT NULL,
		spot REAL NOT NULL,
		steps INTEGER NOT NULL,
		policy TEXT NOT NULL,
		break_even REAL NOT NULL,
		price_min REAL NOT NULL,
		price_max REAL NOT NULL,
		max_profit REAL,
		max_loss REAL,
		label TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_kind_side ON analyses(kind, side);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveAnalysis inserts record and fills in its ID and CreatedAt.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	if err := record.Contract.Validate(); err != nil {
		return err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO analyses (created_at, kind, side, strike, premium, volatility, rate, time_to_expiry, spot, steps, policy, break_even, price_min, price_max, max_profit, max_loss, label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	c := record.Contract
	res, err := s.db.ExecContext(ctx, query,
		record.CreatedAt, c.Kind.String(), c.Side.String(), c.Strike, c.Premium, c.Volatility, c.RiskFreeRate, c.TimeToExpiry,
		record.Spot, record.Steps, record.Policy.String(), record.BreakEven, record.PriceMin, record.PriceMax,
		boundValue(record.Extremes.MaxProfit), boundValue(record.Extremes.MaxLoss), record.Label)
	if err != nil {
		return apperrors.NewDataError("save_analysis", "", "insert failed", wrapDB(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperrors.NewDataError("save_analysis", "", "reading row id", wrapDB(err))
	}
	record.ID = id
	return nil
}

// ListAnalyses returns saved analyses, newest first.
func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]models.AnalysisRecord, error) {
	query := "SELECT " + analysisColumns + " FROM analyses WHERE 1=1"
	args := []interface{}{}

	if filter.Kind != nil {
		query += " AND kind = ?"
		args = append(args, filter.Kind.String())
	}
	if filter.Side != nil {
		query += " AND side = ?"
		args = append(args, filter.Side.String())
	}
	if filter.Label != "" {
		query += " AND label = ?"
		args = append(args, filter.Label)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDataError("list_analyses", "", "query failed", wrapDB(err))
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		r, err := scanAnalysis(rows)
		if err != nil {
			return nil, apperrors.NewDataError("list_analyses", "", "scan failed", err)
		}
		records = append(records, *r)
	}

	return records, rows.Err()
}

// GetAnalysis retrieves one saved analysis.
func (s *SQLiteStore) GetAnalysis(ctx context.Context, id int64) (*models.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+analysisColumns+" FROM analyses WHERE id = ?", id)

	r, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewDataError("get_analysis", strconv.FormatInt(id, 10), "no such analysis", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewDataError("get_analysis", strconv.FormatInt(id, 10), "scan failed", err)
	}
	return r, nil
}

// DeleteAnalysis removes one saved analysis.
func (s *SQLiteStore) DeleteAnalysis(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return apperrors.NewDataError("delete_analysis", strconv.FormatInt(id, 10), "delete failed", wrapDB(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewDataError("delete_analysis", strconv.FormatInt(id, 10), "reading affected rows", wrapDB(err))
	}
	if n == 0 {
		return apperrors.NewDataError("delete_analysis", strconv.FormatInt(id, 10), "no such analysis", apperrors.ErrNotFound)
	}
	return nil
}

const analysisColumns = "id, created_at, kind, side, strike, premium, volatility, rate, time_to_expiry, spot, steps, policy, break_even, price_min, price_max, max_profit, max_loss, label"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (*models.AnalysisRecord, error) {
	var (
		r                  models.AnalysisRecord
		kind, side, pol    string
		maxProfit, maxLoss sql.NullFloat64
	)

	err := row.Scan(&r.ID, &r.CreatedAt, &kind, &side,
		&r.Contract.Strike, &r.Contract.Premium, &r.Contract.Volatility, &r.Contract.RiskFreeRate, &r.Contract.TimeToExpiry,
		&r.Spot, &r.Steps, &pol, &r.BreakEven, &r.PriceMin, &r.PriceMax, &maxProfit, &maxLoss, &r.Label)
	if err != nil {
		return nil, err
	}

	var ok bool
	if r.Contract.Kind, ok = models.ParseOptionKind(kind); !ok {
		return nil, fmt.Errorf("stored kind %q", kind)
	}
	if r.Contract.Side, ok = models.ParsePositionSide(side); !ok {
		return nil, fmt.Errorf("stored side %q", side)
	}
	if r.Policy, ok = models.ParseBoundsPolicy(pol); !ok {
		return nil, fmt.Errorf("stored policy %q", pol)
	}
	r.Extremes.MaxProfit = boundFrom(maxProfit)
	r.Extremes.MaxLoss = boundFrom(maxLoss)

	return &r, nil
}

// Unbounded extremes are stored as NULL.
func boundValue(b models.Bound) sql.NullFloat64 {
	if b.Unbounded {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: b.Value, Valid: true}
}

func boundFrom(v sql.NullFloat64) models.Bound {
	if !v.Valid {
		return models.Bound{Unbounded: true}
	}
	return models.Bound{Value: v.Float64}
}

func wrapDB(err error) error {
	return fmt.Errorf("%w: %v", apperrors.ErrDatabaseError, err)
}
