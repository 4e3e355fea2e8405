package fyers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ExitPositionResult tells whether an exit closed the positions outright or
// left a counter order pending.
type ExitPositionResult int

const (
	// PositionsClosed corresponds to API code 200.
	PositionsClosed ExitPositionResult = iota + 1
	// PendingCounterOrder corresponds to API code 201: a closing order was
	// placed but has not been filled yet.
	PendingCounterOrder
)

func (r ExitPositionResult) String() string {
	switch r {
	case PositionsClosed:
		return "closed"
	case PendingCounterOrder:
		return "pending_counter_order"
	}
	return fmt.Sprintf("exitresult(%d)", int(r))
}

// exitResultFromCode maps the success code of an exit call. Any code other
// than 200 and 201 is reported as a KindAPI error even under status "ok".
func exitResultFromCode(env *Envelope) (ExitPositionResult, error) {
	switch env.Code {
	case 200:
		return PositionsClosed, nil
	case 201:
		return PendingCounterOrder, nil
	}
	return 0, &Error{Kind: KindAPI, Code: env.Code, Message: env.Message}
}

// ExitAllPositions exits every open position.
func (c *Client) ExitAllPositions(ctx context.Context) (ExitPositionResult, error) {
	body := map[string]any{"exit_all": 1}
	data, err := c.send(ctx, http.MethodDelete, c.apiURL("/positions"), nil, body)
	if err != nil {
		return 0, err
	}
	env, err := parseEnvelope(data)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			return 0, fe
		}
		return 0, decodeError(err)
	}
	return exitResultFromCode(env)
}

// CancelPendingOrders cancels all pending orders of one position, identified
// as e.g. "NSE:SBIN-EQ-INTRADAY". The broker requires the id even though its
// documentation marks it optional.
func (c *Client) CancelPendingOrders(ctx context.Context, positionID string) error {
	body := map[string]any{"pending_orders_cancel": 1, "id": positionID}
	data, err := c.send(ctx, http.MethodDelete, c.apiURL("/positions"), nil, body)
	if err != nil {
		return err
	}
	var ignored any
	return decodeBody(data, &ignored)
}
