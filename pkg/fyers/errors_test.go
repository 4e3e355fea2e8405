package fyers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapAPIError(t *testing.T) {
	for _, tc := range []struct {
		code int
		kind Kind
	}{
		{-8, KindTokenExpired},
		{-15, KindInvalidToken},
		{-16, KindInvalidToken},
		{-17, KindInvalidToken},
		{-50, KindInvalidParams},
		{400, KindInvalidParams},
		{-51, KindInvalidOrderID},
		{-53, KindInvalidPositionID},
		{-99, KindOrderRejected},
		{-300, KindInvalidSymbol},
		{-352, KindInvalidAppID},
		{-429, KindRateLimited},
		{9999, KindAPI},
		{0, KindAPI},
		{-1, KindAPI},
	} {
		t.Run(fmt.Sprint(tc.code), func(t *testing.T) {
			e := MapAPIError(tc.code, "msg")
			assert.Equal(t, tc.kind, e.Kind)
			assert.Equal(t, tc.code, e.Code)
			assert.Equal(t, "msg", e.Message)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.EqualError(t, MapAPIError(9999, "boom"), "fyers api error 9999: boom")
	assert.EqualError(t, MapAPIError(-50, "qty must be positive"), "invalid parameters: qty must be positive")
	assert.EqualError(t, MapAPIError(-8, "x"), "token expired")
	assert.EqualError(t, missingField("id"), "missing field 'id' in success response")
	assert.EqualError(t, httpStatusError(500, "oops"), "http error 500: oops")
	assert.EqualError(t, decodeError(errors.New("bad")), "decode error: bad")
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("refresh needed: %w", MapAPIError(-8, "expired"))
	assert.True(t, IsKind(err, KindTokenExpired))
	assert.False(t, IsKind(err, KindInvalidToken))
	assert.False(t, IsKind(errors.New("plain"), KindAPI))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := transportError(cause)
	assert.True(t, errors.Is(err, cause))
	assert.Nil(t, MapAPIError(-8, "").Unwrap())
}

func TestKindRetryable(t *testing.T) {
	assert.True(t, KindTransport.Retryable())
	assert.True(t, KindTokenExpired.Retryable())
	assert.True(t, KindRateLimited.Retryable())
	assert.False(t, KindInvalidToken.Retryable())
	assert.False(t, KindOrderRejected.Retryable())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_token", KindInvalidToken.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
