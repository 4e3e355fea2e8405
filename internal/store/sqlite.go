package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "fyers-trader/internal/errors"
	"fyers-trader/pkg/fyers"
)

// SQLiteStore implements CandleStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ CandleStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
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

// initSchema creates all required tables and indexes. Timestamps are stored
// as Unix seconds.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS candles (
		symbol TEXT NOT NULL,
		resolution TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		open_interest REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (symbol, resolution, timestamp)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCandles saves candles to the database.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol string, res fyers.CandleResolution, candles []fyers.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (symbol, resolution, timestamp, open, high, low, close, volume, open_interest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		var oi sql.NullFloat64
		if c.OpenInterest != nil {
			oi = sql.NullFloat64{Float64: *c.OpenInterest, Valid: true}
		}
		_, err := stmt.ExecContext(ctx, symbol, string(res), c.Time.Unix(),
			c.Open, c.High, c.Low, c.Close, int64(c.Volume), oi)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCandles retrieves candles from the database.
func (s *SQLiteStore) GetCandles(ctx context.Context, symbol string, res fyers.CandleResolution, from, to time.Time) ([]fyers.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume, open_interest
		FROM candles
		WHERE symbol = ? AND resolution = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, symbol, string(res), from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []fyers.Candle
	for rows.Next() {
		var (
			c      fyers.Candle
			ts     int64
			volume int64
			oi     sql.NullFloat64
		)
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &volume, &oi); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		c.Time = time.Unix(ts, 0).UTC()
		c.Volume = uint64(volume)
		if oi.Valid {
			v := oi.Float64
			c.OpenInterest = &v
		}
		candles = append(candles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candles: %w", err)
	}

	return candles, nil
}

// GetCandlesFreshness returns the timestamp of the most recent candle.
// ErrDataNotFound is returned when nothing is stored for the key.
func (s *SQLiteStore) GetCandlesFreshness(ctx context.Context, symbol string, res fyers.CandleResolution) (time.Time, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM candles WHERE symbol = ? AND resolution = ?
	`, symbol, string(res)).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query freshness: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, apperrors.Wrapf(apperrors.ErrDataNotFound, "no candles for %s at %s", symbol, res)
	}
	return time.Unix(ts.Int64, 0).UTC(), nil
}
