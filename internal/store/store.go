// Package store provides a local cache for historical candles.
package store

import (
	"context"
	"time"

	"fyers-trader/pkg/fyers"
)

// CandleStore persists candles fetched from the history endpoint.
type CandleStore interface {
	// SaveCandles upserts candles keyed by symbol, resolution and time.
	SaveCandles(ctx context.Context, symbol string, res fyers.CandleResolution, candles []fyers.Candle) error
	// GetCandles returns stored candles in [from, to], oldest first.
	GetCandles(ctx context.Context, symbol string, res fyers.CandleResolution, from, to time.Time) ([]fyers.Candle, error)
	// GetCandlesFreshness returns the time of the newest stored candle.
	GetCandlesFreshness(ctx context.Context, symbol string, res fyers.CandleResolution) (time.Time, error)

	Close() error
}
