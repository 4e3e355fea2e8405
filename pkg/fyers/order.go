package fyers

import "encoding/json"

// OrderRequest is the immutable payload sent to the place order endpoint.
// Build one with NewOrderBuilder.
type OrderRequest struct {
	w orderWire
}

// orderWire is the exact JSON shape expected by the broker. No field is ever
// omitted; an unset tag is sent as null.
type orderWire struct {
	Symbol       string      `json:"symbol"`
	Qty          uint32      `json:"qty"`
	Type         OrderType   `json:"type"`
	Side         Side        `json:"side"`
	ProductType  ProductType `json:"productType"`
	LimitPrice   float64     `json:"limitPrice"`
	StopPrice    float64     `json:"stopPrice"`
	DisclosedQty uint32      `json:"disclosedQty"`
	Validity     Validity    `json:"validity"`
	OfflineOrder bool        `json:"offlineOrder"`
	StopLoss     float64     `json:"stopLoss"`
	TakeProfit   float64     `json:"takeProfit"`
	OrderTag     *string     `json:"orderTag"`
	IsSliceOrder bool        `json:"isSliceOrder"`
}

func (r OrderRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.w)
}

// Symbol returns the instrument symbol.
func (r OrderRequest) Symbol() string { return r.w.Symbol }

func (r OrderRequest) Qty() uint32 { return r.w.Qty }

func (r OrderRequest) Type() OrderType { return r.w.Type }

func (r OrderRequest) Side() Side { return r.w.Side }

func (r OrderRequest) Product() ProductType { return r.w.ProductType }

func (r OrderRequest) Validity() Validity { return r.w.Validity }

func (r OrderRequest) LimitPrice() float64 { return r.w.LimitPrice }

func (r OrderRequest) StopPrice() float64 { return r.w.StopPrice }

func (r OrderRequest) StopLoss() float64 { return r.w.StopLoss }

func (r OrderRequest) TakeProfit() float64 { return r.w.TakeProfit }

// Tag returns the order tag and whether one was set.
func (r OrderRequest) Tag() (string, bool) {
	if r.w.OrderTag == nil {
		return "", false
	}
	return *r.w.OrderTag, true
}

// OrderBuilder stages an OrderRequest. Every With method returns a modified
// copy, so a builder value can be shared and branched safely.
//
// The builder does not check field combinations (e.g. a limit order without a
// limit price); the broker rejects those with KindInvalidParams.
type OrderBuilder struct {
	w orderWire
}

// NewOrderBuilder takes the required order fields. All optional fields start
// at zero: no prices, no disclosed quantity, regular (not after-market) order,
// no stop-loss or take-profit, no tag, slicing disabled.
func NewOrderBuilder(symbol string, qty uint32, orderType OrderType, side Side, product ProductType, validity Validity) OrderBuilder {
	return OrderBuilder{w: orderWire{
		Symbol:      symbol,
		Qty:         qty,
		Type:        orderType,
		Side:        side,
		ProductType: product,
		Validity:    validity,
	}}
}

// WithLimitPrice sets the limit price. Needed by limit and stop-limit orders.
func (b OrderBuilder) WithLimitPrice(price float64) OrderBuilder {
	b.w.LimitPrice = price
	return b
}

// WithStopPrice sets the trigger price. Needed by stop and stop-limit orders.
func (b OrderBuilder) WithStopPrice(price float64) OrderBuilder {
	b.w.StopPrice = price
	return b
}

// WithDisclosedQty sets the disclosed quantity (equity only).
func (b OrderBuilder) WithDisclosedQty(qty uint32) OrderBuilder {
	b.w.DisclosedQty = qty
	return b
}

// WithOfflineOrder marks the order as an after-market order.
func (b OrderBuilder) WithOfflineOrder(offline bool) OrderBuilder {
	b.w.OfflineOrder = offline
	return b
}

// WithStopLoss sets the stop-loss. Needed by cover and bracket orders.
func (b OrderBuilder) WithStopLoss(price float64) OrderBuilder {
	b.w.StopLoss = price
	return b
}

// WithTakeProfit sets the take-profit. Needed by bracket orders.
func (b OrderBuilder) WithTakeProfit(price float64) OrderBuilder {
	b.w.TakeProfit = price
	return b
}

// WithTag attaches a caller-defined tag, e.g. to identify a strategy.
func (b OrderBuilder) WithTag(tag string) OrderBuilder {
	b.w.OrderTag = &tag
	return b
}

// WithSliceOrder lets the broker split quantities above the exchange freeze
// limit into several orders.
func (b OrderBuilder) WithSliceOrder(slice bool) OrderBuilder {
	b.w.IsSliceOrder = slice
	return b
}

// Build returns the finished request.
func (b OrderBuilder) Build() OrderRequest {
	w := b.w
	if w.OrderTag != nil {
		tag := *w.OrderTag
		w.OrderTag = &tag
	}
	return OrderRequest{w: w}
}

// Order is returned by a successful placement.
type Order struct {
	ID string `json:"id"`
}
