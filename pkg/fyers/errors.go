package fyers

import (
	"errors"
	"fmt"
)

// Kind classifies a failure returned by the client.
//
// The set of kinds may grow in later releases; callers must not assume a switch
// over Kind is exhaustive.
type Kind int

const (
	// KindAPI is the fallback for API error codes without a specific kind.
	KindAPI Kind = iota
	KindTransport
	KindHTTPStatus
	KindDecode
	KindMissingField
	KindTokenExpired
	KindInvalidToken
	KindInvalidParams
	KindInvalidOrderID
	KindInvalidPositionID
	KindOrderRejected
	KindInvalidSymbol
	KindInvalidAppID
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindAPI:               "api",
	KindTransport:         "transport",
	KindHTTPStatus:        "http_status",
	KindDecode:            "decode",
	KindMissingField:      "missing_field",
	KindTokenExpired:      "token_expired",
	KindInvalidToken:      "invalid_token",
	KindInvalidParams:     "invalid_params",
	KindInvalidOrderID:    "invalid_order_id",
	KindInvalidPositionID: "invalid_position_id",
	KindOrderRejected:     "order_rejected",
	KindInvalidSymbol:     "invalid_symbol",
	KindInvalidAppID:      "invalid_app_id",
	KindRateLimited:       "rate_limited",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Retryable reports whether the caller can act on the failure and try again,
// e.g. after refreshing the token or backing off.
func (k Kind) Retryable() bool {
	switch k {
	case KindTransport, KindTokenExpired, KindRateLimited:
		return true
	}
	return false
}

// Error is the error type returned by every Client operation.
//
// Only the fields relevant to Kind are populated: Code and Message for
// API-level kinds, Status and Body for KindHTTPStatus, Field for
// KindMissingField and Err for KindTransport and KindDecode.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Status  int
	Body    string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("request failed: %v", e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("http error %d: %s", e.Status, e.Body)
	case KindDecode:
		return fmt.Sprintf("decode error: %v", e.Err)
	case KindMissingField:
		return fmt.Sprintf("missing field '%s' in success response", e.Field)
	case KindTokenExpired:
		return "token expired"
	case KindInvalidToken:
		return "invalid token"
	case KindInvalidParams:
		return fmt.Sprintf("invalid parameters: %s", e.Message)
	case KindInvalidOrderID:
		return "invalid order id"
	case KindInvalidPositionID:
		return "invalid position id"
	case KindOrderRejected:
		return fmt.Sprintf("order rejected: %s", e.Message)
	case KindInvalidSymbol:
		return "invalid symbol"
	case KindInvalidAppID:
		return "invalid app id"
	case KindRateLimited:
		return "rate limit exceeded"
	}
	return fmt.Sprintf("fyers api error %d: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MapAPIError classifies an error envelope by its API code. It is only meant
// for envelopes whose status is "error".
func MapAPIError(code int, message string) *Error {
	e := &Error{Code: code, Message: message}
	switch code {
	case -8:
		e.Kind = KindTokenExpired
	case -15, -16, -17:
		e.Kind = KindInvalidToken
	case -50, 400:
		e.Kind = KindInvalidParams
	case -51:
		e.Kind = KindInvalidOrderID
	case -53:
		e.Kind = KindInvalidPositionID
	case -99:
		e.Kind = KindOrderRejected
	case -300:
		e.Kind = KindInvalidSymbol
	case -352:
		e.Kind = KindInvalidAppID
	case -429:
		e.Kind = KindRateLimited
	default:
		e.Kind = KindAPI
	}
	return e
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

func missingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field}
}

func httpStatusError(status int, body string) *Error {
	return &Error{Kind: KindHTTPStatus, Status: status, Body: body}
}
