package models

import (
	"encoding/json"
	"testing"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		cause    error
		expected *ErrorResponse
	}{
		{
			name:    "error_with_humane_cause",
			message: "failed to read share outputs",
			cause:   humane.New("tokens Secret not found", "wait for the operator to reconcile"),
			expected: &ErrorResponse{
				Message: "failed to read share outputs",
				Cause: &ErrorResponse{
					Message: "tokens Secret not found",
					Advice:  []string{"wait for the operator to reconcile"},
				},
			},
		},
		{
			name:    "nil_cause",
			message: "validation failed",
			cause:   nil,
			expected: &ErrorResponse{
				Message: "validation failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewErrorResponse(tt.message, tt.cause)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected.Message, got.Message)
			if tt.expected.Cause == nil {
				assert.Nil(t, got.Cause)
			} else {
				require.NotNil(t, got.Cause)
				assert.Equal(t, tt.expected.Cause.Message, got.Cause.Message)
				assert.Equal(t, tt.expected.Cause.Advice, got.Cause.Advice)
			}
		})
	}
}

func TestErrorResponseRoundTrip(t *testing.T) {
	orig := FromHumaneError(humane.Wrap(
		humane.New("service not declared", "declare the service in spec.services"),
		"failed to mint token",
	))

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var back ErrorResponse
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, orig.Message, back.Message)
	require.NotNil(t, back.Cause)
	assert.Equal(t, orig.Cause.Message, back.Cause.Message)
	assert.Equal(t, orig.Cause.Advice, back.Cause.Advice)
}

func TestAsHumaneError(t *testing.T) {
	resp := &ErrorResponse{
		Message: "failed to rotate token",
		Advice:  []string{"retry the rotation"},
		Cause: &ErrorResponse{
			Message: "conflict writing tokens Secret",
		},
	}

	herr := resp.AsHumaneError()
	require.NotNil(t, herr)
	assert.Equal(t, "failed to rotate token", herr.Error())
	assert.Equal(t, []string{"retry the rotation"}, herr.Advice())
	require.NotNil(t, herr.Cause())
	assert.Contains(t, herr.Cause().Error(), "conflict writing tokens Secret")
}
