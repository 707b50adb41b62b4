package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/backend"
	"github.com/fapmendoza/admin-gateway/internal/handler/dto"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
	"github.com/fapmendoza/admin-gateway/internal/metrics"
	"github.com/fapmendoza/admin-gateway/internal/model"
	"github.com/fapmendoza/admin-gateway/internal/workflow"
)

// uploadFormKey identifies the CV upload form in the submit guard.
const uploadFormKey = "cv-upload"

// maxMultipartMemory bounds the in-memory part of multipart parsing;
// larger files spill to temp files.
const maxMultipartMemory = 10 << 20

// UploadHandler drives the CV batch upload workflow.
type UploadHandler struct {
	api
	client    *backend.Client
	submitter *workflow.Submitter
	resultTTL time.Duration
	recorder  metrics.Recorder

	// progress tracks best-effort upload percent per session.
	mu       sync.Mutex
	progress map[string]int
}

// NewUploadHandler creates an UploadHandler.
// recorder may be nil; batch outcomes are then not counted.
func NewUploadHandler(client *backend.Client, store kvstore.Store, submitter *workflow.Submitter, notifier *workflow.Notifier, resultTTL time.Duration, loginPath string, logger *slog.Logger, recorder metrics.Recorder) *UploadHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UploadHandler{
		api: api{
			store:     store,
			notifier:  notifier,
			logger:    logger,
			loginPath: loginPath,
		},
		client:    client,
		submitter: submitter,
		resultTTL: resultTTL,
		recorder:  recorder,
		progress:  make(map[string]int),
	}
}

func (h *UploadHandler) setProgress(sessionID string, percent int) {
	h.mu.Lock()
	h.progress[sessionID] = percent
	h.mu.Unlock()
}

func (h *UploadHandler) getProgress(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.progress[sessionID]
}

// Submit handles POST /admin/api/uploads/cv.
//
// One atomic multipart batch: files under "files" plus optional scalar
// fields. Validation runs before anything touches the network; an empty
// batch produces an error notification and zero backend calls. Exactly
// one batch may be in flight per session.
func (h *UploadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.notifier.Error(sessionID, "Could not read the upload")
		writeError(w, http.StatusBadRequest, "INVALID_MULTIPART", "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		h.recorder.IncUploadBatch("rejected")
		h.notifier.Error(sessionID, "Select at least one file")
		writeError(w, http.StatusBadRequest, "NO_FILES", "at least one file is required")
		return
	}

	fields := make(map[string]string)
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	token := h.sessionToken(r, sessionID)

	var results []model.UploadResult
	err := h.submitter.Do(r.Context(), sessionID+":"+uploadFormKey, func(ctx context.Context) error {
		files := make([]backend.UploadFile, 0, len(fileHeaders))
		for _, fh := range fileHeaders {
			f, err := fh.Open()
			if err != nil {
				return fmt.Errorf("open uploaded file %s: %w", fh.Filename, err)
			}
			defer f.Close()
			files = append(files, backend.UploadFile{
				Name:    fh.Filename,
				Content: f,
				Size:    fh.Size,
			})
		}

		h.setProgress(sessionID, 0)
		res, err := h.client.UploadCVBatch(ctx, token, files, fields, func(percent int) {
			h.setProgress(sessionID, percent)
		})
		if err != nil {
			return err
		}
		results = res
		return nil
	})
	if err != nil {
		// The previous result set stays untouched on failure.
		h.recorder.IncUploadBatch("failed")
		h.handleBackendError(w, r, sessionID, err)
		return
	}

	h.recorder.IncUploadBatch("success")
	h.recorder.ObserveUploadBatchSize(len(fileHeaders))

	set := model.ResultSet{
		BatchID:   ulid.Make().String(),
		Results:   results,
		CreatedAt: time.Now().UTC(),
	}
	h.storeResults(r, sessionID, set)

	h.notifier.Success(sessionID, fmt.Sprintf("Processed %d file(s)", len(results)))
	h.logger.Info("cv_batch_uploaded",
		slog.String("batch_id", set.BatchID),
		slog.Int("files", len(fileHeaders)),
		slog.Int("results", len(results)),
	)

	writeJSON(w, http.StatusOK, dto.UploadResponse{
		BatchID: set.BatchID,
		Results: set.Results,
	})
}

// storeResults replaces the previous result set, with the retention TTL
// doing the automatic clear.
func (h *UploadHandler) storeResults(r *http.Request, sessionID string, set model.ResultSet) {
	data, err := json.Marshal(set)
	if err != nil {
		h.logger.Error("marshal result set", slog.String("error", err.Error()))
		return
	}
	if err := h.store.SetTTL(r.Context(), sessionID, kvstore.KeyLastResults, string(data), h.resultTTL); err != nil {
		// Losing the cached copy only affects the results view; the
		// submit already succeeded.
		h.logger.Error("store result set", slog.String("error", err.Error()))
	}
}

// LastResults handles GET /admin/api/uploads/last.
// After the retention window the set reads back empty.
func (h *UploadHandler) LastResults(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	raw, ok, err := h.store.Get(r.Context(), sessionID, kvstore.KeyLastResults)
	if err != nil {
		h.logger.Error("read result set", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, dto.UploadResponse{Results: []model.UploadResult{}})
		return
	}

	var set model.ResultSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		h.logger.Error("decode result set", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, dto.UploadResponse{Results: []model.UploadResult{}})
		return
	}

	writeJSON(w, http.StatusOK, dto.UploadResponse{BatchID: set.BatchID, Results: set.Results})
}

// ClearResults handles DELETE /admin/api/uploads/last (manual clear).
func (h *UploadHandler) ClearResults(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	if err := h.store.Delete(r.Context(), sessionID, kvstore.KeyLastResults); err != nil {
		h.logger.Error("clear result set", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Progress handles GET /admin/api/uploads/progress.
// Purely cosmetic; correctness never depends on it.
func (h *UploadHandler) Progress(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionFromContext(r.Context())

	writeJSON(w, http.StatusOK, dto.ProgressResponse{
		State:   h.submitter.State(sessionID + ":" + uploadFormKey).String(),
		Percent: h.getProgress(sessionID),
	})
}
