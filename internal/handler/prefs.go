package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/handler/dto"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
)

// PrefsHandler persists per-session UI preferences.
type PrefsHandler struct {
	store  kvstore.Store
	logger *slog.Logger
}

// NewPrefsHandler creates a PrefsHandler.
func NewPrefsHandler(store kvstore.Store, logger *slog.Logger) *PrefsHandler {
	return &PrefsHandler{store: store, logger: logger}
}

// Get handles GET /admin/api/prefs. Missing values fall back to
// defaults: light color mode, sidebar open.
func (h *PrefsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	resp := dto.PrefsResponse{ColorMode: "light", SidebarOpen: true}

	if mode, ok, err := h.store.Get(r.Context(), sessionID, kvstore.KeyColorMode); err != nil {
		h.logger.Error("prefs read failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	} else if ok {
		resp.ColorMode = mode
	}

	if raw, ok, err := h.store.Get(r.Context(), sessionID, kvstore.KeySidebarOpen); err != nil {
		h.logger.Error("prefs read failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	} else if ok {
		if open, err := strconv.ParseBool(raw); err == nil {
			resp.SidebarOpen = open
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /admin/api/prefs. Only fields present in the body
// are written.
func (h *PrefsHandler) Update(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	var req dto.UpdatePrefsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if req.ColorMode != nil {
		if *req.ColorMode != "light" && *req.ColorMode != "dark" {
			writeError(w, http.StatusBadRequest, "INVALID_COLOR_MODE", "color mode must be light or dark")
			return
		}
		if err := h.store.Set(r.Context(), sessionID, kvstore.KeyColorMode, *req.ColorMode); err != nil {
			h.logger.Error("prefs write failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
			return
		}
	}

	if req.SidebarOpen != nil {
		if err := h.store.Set(r.Context(), sessionID, kvstore.KeySidebarOpen, strconv.FormatBool(*req.SidebarOpen)); err != nil {
			h.logger.Error("prefs write failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
			return
		}
	}

	h.Get(w, r)
}
