package proxy

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves a compiled single-page-application bundle.
// Existing files are served as-is; any unmatched path falls back to the
// index document so client-side routing keeps working after a reload.
type SPAHandler struct {
	root  string
	index string
	fs    http.Handler
}

// NewSPAHandler creates a handler serving files from root.
func NewSPAHandler(root string) *SPAHandler {
	return &SPAHandler{
		root:  root,
		index: filepath.Join(root, "index.html"),
		fs:    http.FileServer(http.Dir(root)),
	}
}

// ServeHTTP implements http.Handler.
func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Reject path traversal before touching the filesystem.
	if strings.Contains(r.URL.Path, "..") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" {
		http.ServeFile(w, r, h.index)
		return
	}

	candidate := filepath.Join(h.root, filepath.FromSlash(rel))
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		// SPA fallback: unmatched paths render the index document.
		http.ServeFile(w, r, h.index)
		return
	}

	h.fs.ServeHTTP(w, r)
}
