package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avolkov/qrforge/internal/logging"
	"github.com/avolkov/qrforge/internal/render"
	"github.com/avolkov/qrforge/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T, secret []byte) http.Handler {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	fakeRender := func(text string, o render.Options) ([]byte, error) {
		return []byte("png:" + text), nil
	}
	h := NewHandler(logger, fakeRender, 3, 100, "M", 256)
	return NewRouter(h, secret)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestEncodeTextArtifact(t *testing.T) {
	h := testRouter(t, nil)

	rec := postJSON(t, h, "/api/encode", map[string]any{
		"type": "bitcoin",
		"data": "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp encodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bitcoin:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", resp.Artifact)
	assert.False(t, resp.Binary)
}

func TestEncodePNGArtifact(t *testing.T) {
	h := testRouter(t, nil)

	rec := postJSON(t, h, "/api/encode", map[string]any{
		"type":    "text",
		"data":    "hello",
		"options": map[string]any{"format": "png"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp encodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Binary)
	assert.NotEmpty(t, resp.Artifact)
}

func TestEncodeRejectsBadInput(t *testing.T) {
	h := testRouter(t, nil)

	rec := postJSON(t, h, "/api/encode", map[string]any{
		"type": "ethereum",
		"data": "0x123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postJSON(t, h, "/api/encode", map[string]any{
		"type":    "text",
		"data":    "x",
		"options": map[string]any{"format": "jpeg"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatePayloadEndpoint(t *testing.T) {
	h := testRouter(t, nil)

	rec := postJSON(t, h, "/api/payload/validate", map[string]any{
		"vendorId":      0xFFF1,
		"productId":     0x8001,
		"discriminator": 4096,
		"setupPasscode": "20202021",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "discriminator")
}

func TestBatchEndpointReturnsArchive(t *testing.T) {
	h := testRouter(t, nil)

	rec := postJSON(t, h, "/api/batch", map[string]any{
		"items": []map[string]any{
			{"type": "bitcoin", "data": "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "label": "one"},
			{"type": "ethereum", "data": "0x123", "label": "broken"},
			{"type": "text", "data": "hello", "label": "three"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	// 2 artifacts + report; the broken row appears only in the report.
	assert.Len(t, zr.File, 3)
}

func TestBatchEndpointSizeLimit(t *testing.T) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewHandler(logger, nil, 2, 2, "M", 256)
	router := NewRouter(h, nil)

	rec := postJSON(t, router, "/api/batch", map[string]any{
		"items": []map[string]any{
			{"type": "text", "data": "a"},
			{"type": "text", "data": "b"},
			{"type": "text", "data": "c"},
		},
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTemplateEndpoint(t *testing.T) {
	h := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/template", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "type,data,label"))
}

func TestAPIRequiresTokenWhenSecretConfigured(t *testing.T) {
	secret := []byte("s3cret")
	h := testRouter(t, secret)

	// No token: rejected.
	req := httptest.NewRequest(http.MethodGet, "/api/template", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Valid token passes.
	token, err := auth.GenerateToken("tester", secret, time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/template", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
