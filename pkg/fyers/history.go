package fyers

import (
	"net/url"
	"strconv"
	"time"
)

// HistoryRequest is the immutable query sent to the history endpoint.
// Build one with NewHistoryBuilder.
type HistoryRequest struct {
	symbol     string
	resolution CandleResolution
	from, to   time.Time
	includeOI  bool
}

// HistoryBuilder stages a HistoryRequest. With methods return modified copies.
type HistoryBuilder struct {
	r HistoryRequest
}

// NewHistoryBuilder takes the symbol and the inclusive time range. The
// resolution defaults to 5-minute candles and open interest is not requested.
// The broker, not the builder, rejects from > to.
func NewHistoryBuilder(symbol string, from, to time.Time) HistoryBuilder {
	return HistoryBuilder{r: HistoryRequest{
		symbol:     symbol,
		resolution: ResolutionMinute5,
		from:       from,
		to:         to,
	}}
}

// WithResolution sets the candle resolution.
func (b HistoryBuilder) WithResolution(res CandleResolution) HistoryBuilder {
	b.r.resolution = res
	return b
}

// WithOpenInterest requests open interest. Only futures and options carry it.
func (b HistoryBuilder) WithOpenInterest(include bool) HistoryBuilder {
	b.r.includeOI = include
	return b
}

func (b HistoryBuilder) Build() HistoryRequest {
	return b.r
}

func (r HistoryRequest) Symbol() string               { return r.symbol }
func (r HistoryRequest) Resolution() CandleResolution { return r.resolution }
func (r HistoryRequest) From() time.Time              { return r.from }
func (r HistoryRequest) To() time.Time                { return r.to }
func (r HistoryRequest) OpenInterest() bool           { return r.includeOI }

// Values returns the query parameters sent to the broker. Time bounds are Unix
// seconds, date_format is always "0" and cont_flag always "1". oi_flag is only
// present, as "1", when open interest was requested.
func (r HistoryRequest) Values() url.Values {
	v := make(url.Values)
	v.Set("symbol", r.symbol)
	v.Set("resolution", string(r.resolution))
	v.Set("date_format", "0")
	v.Set("range_from", strconv.FormatInt(r.from.Unix(), 10))
	v.Set("range_to", strconv.FormatInt(r.to.Unix(), 10))
	v.Set("cont_flag", "1")
	if r.includeOI {
		v.Set("oi_flag", "1")
	}
	return v
}
