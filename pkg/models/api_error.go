// Package models defines the request/response shapes of the conda-store
// provisioning API together with the error envelope shared by the HTTP
// layer and the CLI.
package models

import (
	"encoding/json"
	"errors"

	"github.com/sierrasoftworks/humane-errors-go"
)

// ErrorResponse is a serializable version of a humane.Error that can be marshaled to and unmarshaled from JSON
// @Description Structured error response with contextual advice
type ErrorResponse struct {
	// Primary error message
	// example: no token minted for service(s): dask-gateway
	Message string `json:"message"`

	// List of suggestions to help resolve the error
	// example: ["Wait for the operator to reconcile the share", "Check the operator logs"]
	Advice []string `json:"advice,omitempty"`

	// Nested error that caused this error (not included in Swagger documentation)
	Cause *ErrorResponse `json:"cause,omitempty" swaggerignore:"true"`

	// HTTP status code (not included in JSON response)
	StatusCode int `json:"-"`
}

// NewErrorResponse creates a new ErrorResponse by wrapping an optional cause error.
// If multiple causes are provided, they are wrapped in order such that
// the first cause is caused by the second, and so on.
func NewErrorResponse(message string, cause ...error) *ErrorResponse {
	nonNilCauses := make([]error, 0, len(cause))
	for _, c := range cause {
		if c != nil {
			nonNilCauses = append(nonNilCauses, c)
		}
	}

	if len(nonNilCauses) == 0 {
		return FromHumaneError(humane.New(message))
	}

	// Build from the last cause (deepest), preserving advice if it's a humane error
	var herr humane.Error
	lastCause := nonNilCauses[len(nonNilCauses)-1]
	if he, ok := lastCause.(humane.Error); ok {
		herr = he
	} else {
		herr = humane.New(lastCause.Error())
	}

	for i := len(nonNilCauses) - 2; i >= 0; i-- {
		c := nonNilCauses[i]
		if he, ok := c.(humane.Error); ok {
			herr = humane.Wrap(herr, he.Error(), he.Advice()...)
		} else {
			herr = humane.Wrap(herr, c.Error())
		}
	}

	return FromHumaneError(humane.Wrap(herr, message))
}

// FromHumaneError converts a humane.Error to an ErrorResponse for JSON serialization.
// This is the primary way to convert business logic errors into HTTP API responses.
func FromHumaneError(err humane.Error) *ErrorResponse {
	if err == nil {
		return nil
	}

	resp := &ErrorResponse{
		Message: err.Error(),
		Advice:  err.Advice(),
	}

	// Handle the cause chain recursively
	cause := err.Cause()
	if cause != nil {
		var humaneErr humane.Error
		if errors.As(cause, &humaneErr) {
			resp.Cause = FromHumaneError(humaneErr)
		} else {
			resp.Cause = &ErrorResponse{
				Message: cause.Error(),
			}
		}
	}

	return resp
}

// AsHumaneError converts the ErrorResponse back to a humane.Error
func (e *ErrorResponse) AsHumaneError() humane.Error {
	if e == nil {
		return nil
	}

	var err humane.Error
	if e.Cause != nil {
		causeErr := e.Cause.AsHumaneError()
		err = humane.Wrap(causeErr, e.Message, e.Advice...)
	} else {
		err = humane.New(e.Message, e.Advice...)
	}

	return err
}

// MarshalJSON implements the json.Marshaler interface.
// Alias is used to avoid infinite recursion during marshaling.
func (e *ErrorResponse) MarshalJSON() ([]byte, error) {
	type Alias ErrorResponse
	return json.Marshal(&struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Alias is used to avoid infinite recursion during unmarshaling.
func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	type Alias ErrorResponse
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	return json.Unmarshal(data, &aux)
}
