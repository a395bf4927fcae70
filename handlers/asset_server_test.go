package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssetServer(t *testing.T) (http.HandlerFunc, string) {
	t.Helper()
	base := t.TempDir()
	portraitsDir := filepath.Join(base, "portraits")
	require.NoError(t, os.MkdirAll(portraitsDir, 0755))
	return AssetServer(base, "portraits"), portraitsDir
}

func TestAssetServerServesFile(t *testing.T) {
	handler, dir := newAssetServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc123.jpg"), []byte("jpeg-bytes"), 0644))

	req := httptest.NewRequest(http.MethodGet, "/api/portraits/abc123.jpg", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
}

func TestAssetServerRejectsTraversal(t *testing.T) {
	handler, _ := newAssetServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/portraits/..%2Fsecret.txt", nil)
	req.URL.Path = "/api/portraits/../secret.txt"
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssetServerMissingFile(t *testing.T) {
	handler, _ := newAssetServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/portraits/nope.jpg", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
