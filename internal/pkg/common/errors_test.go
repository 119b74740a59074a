package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	netErr := &NetworkError{Status: http.StatusBadGateway, Method: http.MethodPost, Endpoint: "http://x/cocktail/create", Reason: "bad gateway"}
	schemaErr := &SchemaValidationError{Status: http.StatusOK, Method: http.MethodPost, Reason: "Invalid response schema"}
	storeErr := NewStorageError("insert", errors.New("disk full"))

	wrapped := fmt.Errorf("submit: %w", netErr)
	assert.True(t, IsNetworkError(wrapped))
	assert.False(t, IsSchemaValidationError(wrapped))
	assert.False(t, IsStorageError(wrapped))

	assert.True(t, IsSchemaValidationError(fmt.Errorf("x: %w", schemaErr)))
	assert.True(t, IsStorageError(fmt.Errorf("x: %w", storeErr)))
	assert.True(t, IsValidationError(NewValidationError("mixers required")))
}

func TestNewStorageErrorNil(t *testing.T) {
	assert.NoError(t, NewStorageError("ping", nil))
}

func TestErrorMessages(t *testing.T) {
	netErr := &NetworkError{Status: 503, Method: "GET", Endpoint: "http://x/home/health", Reason: "keep-alive unhealthy"}
	assert.Contains(t, netErr.Error(), "status 503")
	assert.Contains(t, netErr.Error(), "http://x/home/health")

	inner := errors.New("boom")
	storeErr := NewStorageError("list", inner)
	assert.Equal(t, "storage error: list: boom", storeErr.Error())
	assert.ErrorIs(t, storeErr, inner)
}

func TestCustomErrorResponse(t *testing.T) {
	resp := ErrTooManyRequests.Response()
	assert.Equal(t, ErrCodeTooManyRequests, resp.Code)
	assert.Equal(t, http.StatusTooManyRequests, ErrTooManyRequests.Status)
	assert.Equal(t, GenericFailureMessage, ErrInternalError.Response().Message)
}

func TestErrorFields(t *testing.T) {
	fields := ErrorFields(&NetworkError{Status: 500, Method: "POST", Endpoint: "e", Reason: "r"})
	keys := make(map[string]zapcore.Field)
	for _, f := range fields {
		keys[f.Key] = f
	}
	assert.Equal(t, "network", keys["error_type"].String)
	assert.Equal(t, int64(500), keys["status"].Integer)

	fields = ErrorFields(NewStorageError("insert", errors.New("x")))
	assert.Len(t, fields, 3)
}

func TestFilterFieldsDropsSecrets(t *testing.T) {
	fields := filterFields([]zapcore.Field{
		{Key: "api_key", Type: zapcore.StringType, String: "secret"},
		{Key: "redis_password", Type: zapcore.StringType, String: "secret"},
		{Key: "path", Type: zapcore.StringType, String: "/"},
	})
	assert.Len(t, fields, 1)
	assert.Equal(t, "path", fields[0].Key)
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", JoinList(nil))
	assert.Equal(t, "gin, tonic", JoinList([]string{"gin", "tonic"}))
}
