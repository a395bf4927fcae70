package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Portraits and thumbnails are stored under UUID filenames, so a given URL
// never changes content and clients may cache aggressively.
const assetCacheDuration = 24 * time.Hour

// AssetServer serves the processed portrait assets for one storage
// subdirectory (originals or thumbnails). Mounted in main as:
//
//	r.Get("/api/portraits/*", AssetServer(cfg.MediaStoragePath, "portraits"))
//
// where the route prefix matches subDir. Only paths that resolve inside the
// subdirectory are served; the workflow status of the person is not checked
// here because asset URLs are only handed out through the API.
func AssetServer(baseStoragePath, subDir string) http.HandlerFunc {
	assetRoot := filepath.Clean(filepath.Join(baseStoragePath, subDir))
	if !strings.HasPrefix(assetRoot, baseStoragePath) {
		log.Fatalf("FATAL: asset subdirectory %q resolves outside storage root %q", subDir, baseStoragePath)
	}
	log.Printf("Serving portrait assets for '/%s/*' from %s", subDir, assetRoot)

	routePrefix := "/api/" + subDir + "/"

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)
		if relativePath == "" || strings.Contains(relativePath, "..") {
			WriteAPIError(w, http.StatusBadRequest, "bad_request", "Invalid asset path")
			return
		}

		assetPath := filepath.Clean(filepath.Join(assetRoot, relativePath))
		if !strings.HasPrefix(assetPath, assetRoot) {
			log.Printf("SECURITY: portrait asset request escaped %q: request=%q resolved=%q", subDir, r.URL.Path, assetPath)
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Access denied")
			return
		}

		if _, err := os.Stat(assetPath); os.IsNotExist(err) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "Asset not found")
			return
		} else if err != nil {
			log.Printf("Error stating portrait asset %s: %v", assetPath, err)
			WriteAPIError(w, http.StatusInternalServerError, "storage", "Failed to read asset")
			return
		}

		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", int(assetCacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(assetCacheDuration).Format(http.TimeFormat))
		http.ServeFile(w, r, assetPath)
	}
}
