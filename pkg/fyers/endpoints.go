package fyers

import (
	"context"
	"net/http"
)

// Profile fetches the account profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	data, err := c.send(ctx, http.MethodGet, c.apiURL("/profile"), nil, nil)
	if err != nil {
		return nil, err
	}
	p := new(Profile)
	if err := decodeField(data, "data", p); err != nil {
		return nil, err
	}
	return p, nil
}

// PlaceOrder places a single order and returns the broker assigned order id.
func (c *Client) PlaceOrder(ctx context.Context, order OrderRequest) (*Order, error) {
	data, err := c.send(ctx, http.MethodPost, c.apiURL("/orders/sync"), nil, order)
	if err != nil {
		c.log.Debug().Str("symbol", order.Symbol()).Err(err).Msg("place order failed")
		return nil, err
	}
	o := new(Order)
	if err := decodeField(data, "id", &o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// CancelOrder cancels a pending order by id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	body := map[string]any{"id": orderID}
	data, err := c.send(ctx, http.MethodDelete, c.apiURL("/orders/sync"), nil, body)
	if err != nil {
		return err
	}
	var ignored any
	return decodeBody(data, &ignored)
}

// History fetches candles for the request. Candles are returned in the
// broker's order, oldest first.
func (c *Client) History(ctx context.Context, req HistoryRequest) ([]Candle, error) {
	data, err := c.send(ctx, http.MethodGet, c.dataURL("/history"), req.Values(), nil)
	if err != nil {
		return nil, err
	}
	var rows [][]float64
	if err := decodeField(data, "candles", &rows); err != nil {
		return nil, err
	}
	candles, err := decodeCandles(rows)
	if err != nil {
		return nil, decodeError(err)
	}
	return candles, nil
}
