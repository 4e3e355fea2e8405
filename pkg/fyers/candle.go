package fyers

import (
	"fmt"
	"math"
	"time"
)

// Candle is one OHLCV data point. OpenInterest is nil unless it was requested
// and returned by the broker.
type Candle struct {
	Time         time.Time `json:"time"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	Volume       uint64    `json:"volume"`
	OpenInterest *float64  `json:"open_interest,omitempty"`
}

// Representable timestamps are limited to years 1 through 9999.
var (
	minCandleUnix = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxCandleUnix = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// DecodeCandle converts the broker's positional array
// [timestamp, open, high, low, close, volume, open_interest?] into a Candle.
func DecodeCandle(raw []float64) (Candle, error) {
	if len(raw) < 6 {
		return Candle{}, fmt.Errorf("invalid candle length %d (want at least 6)", len(raw))
	}
	ts := raw[0]
	if math.IsNaN(ts) || ts < float64(minCandleUnix) || ts > float64(maxCandleUnix) {
		return Candle{}, fmt.Errorf("invalid candle timestamp %v", ts)
	}
	if raw[5] < 0 || math.IsNaN(raw[5]) {
		return Candle{}, fmt.Errorf("invalid candle volume %v", raw[5])
	}

	c := Candle{
		Time:   time.Unix(int64(ts), 0).UTC(),
		Open:   raw[1],
		High:   raw[2],
		Low:    raw[3],
		Close:  raw[4],
		Volume: uint64(raw[5]),
	}
	if len(raw) > 6 {
		oi := raw[6]
		c.OpenInterest = &oi
	}
	return c, nil
}

func decodeCandles(rows [][]float64) ([]Candle, error) {
	candles := make([]Candle, 0, len(rows))
	for i, row := range rows {
		c, err := DecodeCandle(row)
		if err != nil {
			return nil, fmt.Errorf("candle %d: %w", i, err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}
