package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/no-hive/solidity-learning/internal/hardhat"
	"github.com/no-hive/solidity-learning/internal/storage"
	"github.com/no-hive/solidity-learning/internal/tasks"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves the stored configuration snapshot.
type Handler struct {
	storage storage.Storage

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler reading from store.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	format, err := hardhat.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format", err.Error(), "use format=json or format=yaml")
		return
	}

	snapshot, ok := h.snapshot(w)
	if !ok {
		return
	}

	var body bytes.Buffer
	if err := hardhat.Encode(&body, snapshot.Config, format); err != nil {
		writeInternalError(w, err)
		return
	}

	contentType := "application/json"
	if format == hardhat.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Last-Modified", snapshot.ComposedAt.Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	_, _ = body.WriteTo(w)
}

func (h *Handler) handleGetTasks(w http.ResponseWriter, r *http.Request) {
	_ = r
	snapshot, ok := h.snapshot(w)
	if !ok {
		return
	}

	resp := tasksResponse{
		Tasks:      snapshot.Tasks,
		Plugins:    snapshot.Plugins,
		Extensions: snapshot.Extensions,
		ComposedAt: snapshot.ComposedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) snapshot(w http.ResponseWriter) (storage.Snapshot, bool) {
	snapshot, err := h.storage.GetSnapshot()
	if err != nil {
		if errors.Is(err, storage.ErrNotComposed) {
			writeError(w, http.StatusServiceUnavailable, "Not ready", err.Error())
			return storage.Snapshot{}, false
		}
		writeInternalError(w, err)
		return storage.Snapshot{}, false
	}
	return snapshot, true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type tasksResponse struct {
	Tasks      []tasks.Task `json:"tasks"`
	Plugins    []string     `json:"plugins"`
	Extensions []string     `json:"extensions"`
	ComposedAt time.Time    `json:"composedAt"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
