package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the "v" field of every response.
const EnvelopeVersion = 1

// Envelope wraps a successful response.
type Envelope struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope wraps an error response.
type ErrorEnvelope struct {
	Version int       `json:"v"`
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// EnvelopeTransformer is a huma transformer that wraps every body in the
// response envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return ErrorEnvelope{Version: EnvelopeVersion, Success: false, Error: apiErr}, nil
	}

	code, err := strconv.Atoi(status)
	if err == nil && code >= 400 {
		return ErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   &APIError{status: code, Code: statusToCode(code), Message: "request failed"},
		}, nil
	}

	return Envelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}
