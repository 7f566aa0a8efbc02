package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeConfiguration, http.StatusBadRequest},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorTypeExternal, http.StatusInternalServerError},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorTypeToHTTPStatus(tt.errorType))
		})
	}
}

func TestNewError_CarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	err := NewError(ctx, LayerDomain, ErrorTypeValidation, "content is required", nil, "message-create-001")

	assert.Equal(t, "req-42", err.GetRequestID())
	assert.Equal(t, "message-create-001", err.GetUUID())
	assert.Contains(t, err.Error(), "content is required")
}

func TestAsError_KeepsInnerType(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerRepository, ErrorTypeNotFound, "message not found", nil, "message-find-001")

	wrapped := AsError(ctx, LayerDomain, inner, "load message")
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeNotFound, wrapped.Type)
	assert.True(t, IsErrorType(wrapped, ErrorTypeNotFound))
	assert.True(t, errors.Is(wrapped, inner))
}

func TestAsError_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := AsError(context.Background(), LayerDomain, errors.New("boom"), "failed")
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Nil(t, AsError(context.Background(), LayerDomain, nil, "noop"))
}
