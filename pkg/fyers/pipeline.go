package fyers

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"fyers-trader/internal/logging"
)

// send performs one authenticated request and reconciles the possible
// failure signals in a fixed order:
//
//  1. transport failure
//  2. a parseable envelope with status "error", whatever the HTTP status
//  3. a non-2xx HTTP status
//
// On success it returns the raw body for the caller to decode.
func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, body any) ([]byte, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", c.creds.Header())
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}

	start := time.Now()
	data, err := c.reconcile(req.Execute(method, endpoint))
	logging.LogAPICall(c.log, method, endpoint, time.Since(start), err)
	return data, err
}

type response interface {
	StatusCode() int
	Body() []byte
}

func (c *Client) reconcile(resp response, err error) ([]byte, error) {
	if err != nil {
		return nil, transportError(err)
	}
	data := resp.Body()

	if env, perr := parseEnvelope(data); perr == nil && env.S == StatusError {
		return nil, MapAPIError(env.Code, env.Message)
	}

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return nil, httpStatusError(status, string(data))
	}
	return data, nil
}

// decodeBody decodes the whole body into v.
func decodeBody(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return decodeError(err)
	}
	return nil
}

// decodeField decodes the named top-level field of the body into v. An absent
// or null field is reported as KindMissingField.
func decodeField(data []byte, field string, v any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return decodeError(err)
	}
	raw, ok := fields[field]
	if !ok || string(raw) == "null" {
		return missingField(field)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return decodeError(err)
	}
	return nil
}
