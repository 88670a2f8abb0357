package api

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "ses-1"})
	require.NoError(t, err)

	out := marshalToMap(t, result)
	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"id": "ses-1"}, out["data"])
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_Error(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "502", &APIError{
		status:  http.StatusBadGateway,
		Code:    "UPSTREAM_UNAVAILABLE",
		Message: "failed to fetch dashboard data",
		Details: map[string]string{"path": "/activity/top-scores"},
	})
	require.NoError(t, err)

	out := marshalToMap(t, result)
	assert.Equal(t, false, out["success"])
	assert.NotContains(t, out, "data")

	errObj, ok := out["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", errObj["code"])
	assert.Equal(t, "failed to fetch dashboard data", errObj["message"])
	assert.Contains(t, errObj, "details")
}

func TestEnvelopeTransformer_VersionFieldName(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", nil)
	require.NoError(t, err)

	out := marshalToMap(t, result)
	assert.Contains(t, out, "v")
	assert.NotContains(t, out, "version")
}

func TestStatusToCode(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, "VALIDATION"},
		{http.StatusUnprocessableEntity, "VALIDATION"},
		{http.StatusNotFound, "NOT_FOUND"},
		{http.StatusConflict, "CONFLICT"},
		{http.StatusTooManyRequests, "RATE_LIMITED"},
		{http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusToCode(tt.status), "status %d", tt.status)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, remote: "10.0.0.1:5000", want: "203.0.113.9"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, remote: "10.0.0.1:5000", want: "198.51.100.4"},
		{name: "remote addr", remote: "192.0.2.7:41234", want: "192.0.2.7"},
		{name: "remote without port", remote: "192.0.2.8", want: "192.0.2.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
