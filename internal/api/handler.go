package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/alexjait/AuditBookContract/internal/record"
	"github.com/alexjait/AuditBookContract/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler exposes the stored configuration record over HTTP. Signing keys are
// never returned; accounts are replaced by their derived addresses.
type Handler struct {
	storage storage.Storage
	logger  *zap.Logger

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

// WithLogger sets the logger used for reload events.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		logger:  zap.NewNop(),
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
	_ = r
	rec, err := h.storage.Get()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.configResponse(rec, ""))
}

func (h *Handler) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	_ = r
	rec, err := h.storage.Get()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, networksResponse{Networks: rec.NetworkNames()})
}

func (h *Handler) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	rec, err := h.storage.Get()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	endpoint, ok := rec.Redacted().Network(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown network", "no network named "+name, "GET /api/networks lists the configured networks")
		return
	}

	writeJSON(w, http.StatusOK, networkResponse{Name: name, NetworkEndpoint: endpoint})
}

func (h *Handler) handleValidation(w http.ResponseWriter, r *http.Request) {
	_ = r
	rec, err := h.storage.Get()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	problems := rec.Problems()
	if problems == nil {
		problems = []string{}
	}
	writeJSON(w, http.StatusOK, validationResponse{
		Valid:    len(problems) == 0,
		Problems: problems,
	})
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	rec, err := h.storage.Reload()
	if err != nil {
		h.logger.Warn("record reload rejected",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err),
		)
		if errors.Is(err, storage.ErrInvalidRecord) {
			writeError(w, http.StatusUnprocessableEntity, "Invalid configuration", err.Error(), "fix the environment and retry; the previous record is still active")
			return
		}
		writeInternalError(w, err)
		return
	}

	h.logger.Info("record reloaded",
		zap.Strings("networks", rec.NetworkNames()),
		zap.Int("unresolved", len(rec.Unresolved)),
	)
	writeJSON(w, http.StatusOK, h.configResponse(rec, "Configuration reloaded successfully"))
}

func (h *Handler) configResponse(rec record.Record, message string) configResponse {
	unresolved := rec.Unresolved
	if unresolved == nil {
		unresolved = []record.Placeholder{}
	}
	redacted := rec.Redacted()
	return configResponse{
		Solidity:   redacted.CompilerVersion,
		Networks:   redacted.Networks,
		Unresolved: unresolved,
		LoadedAt:   h.storage.LoadedAt(),
		Message:    message,
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type configResponse struct {
	Solidity   string                            `json:"solidity"`
	Networks   map[string]record.NetworkEndpoint `json:"networks"`
	Unresolved []record.Placeholder              `json:"unresolved"`
	LoadedAt   time.Time                         `json:"loadedAt"`
	Message    string                            `json:"message,omitempty"`
}

type networksResponse struct {
	Networks []string `json:"networks"`
}

type networkResponse struct {
	Name string `json:"name"`
	record.NetworkEndpoint
}

type validationResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
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
