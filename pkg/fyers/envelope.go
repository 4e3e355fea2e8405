package fyers

import (
	"encoding/json"
	"fmt"
)

// Status is the envelope status discriminator, "ok" or "error" on the wire.
type Status int

const (
	StatusOK Status = iota + 1
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "ok":
		*s = StatusOK
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("unknown envelope status %q", v)
	}
	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Envelope is the uniform wrapper around every broker response.
type Envelope struct {
	S       Status `json:"s"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// parseEnvelope decodes the envelope header. It fails unless status, code and
// message are all present.
func parseEnvelope(body []byte) (*Envelope, error) {
	var raw struct {
		S       *Status `json:"s"`
		Code    *int    `json:"code"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	switch {
	case raw.S == nil:
		return nil, missingField("s")
	case raw.Code == nil:
		return nil, missingField("code")
	case raw.Message == nil:
		return nil, missingField("message")
	}
	return &Envelope{S: *raw.S, Code: *raw.Code, Message: *raw.Message}, nil
}
