package auth

import "fmt"

// Kind classifies an auth flow failure.
type Kind int

const (
	KindAPI Kind = iota
	KindInvalidURL
	KindMissingAuthCode
	KindTransport
	KindHTTPStatus
	KindDecode
)

// Error is returned by every auth operation.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return fmt.Sprintf("invalid URL: %v", e.Err)
	case KindMissingAuthCode:
		return "auth_code not found in redirect URL"
	case KindTransport:
		return fmt.Sprintf("http error: %v", e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("http error %d: %s", e.Status, e.Body)
	case KindDecode:
		return fmt.Sprintf("decode error: %v", e.Err)
	}
	return fmt.Sprintf("fyers auth error (code=%d): %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
