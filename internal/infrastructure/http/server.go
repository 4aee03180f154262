package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"
	"idempotency-guard/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	TokenHeader   = "Idempotency-Token"
	OutcomeHeader = "Idempotency-Outcome"
)

var outcomeMessages = map[domain.OutcomeKind]string{
	domain.OutcomeNoToken:            "No idempotency token",
	domain.OutcomeAccepted:           "Saved the item alongside the idempotency token",
	domain.OutcomeDuplicateConfirmed: "Got the response and the idempotency tokens match",
	domain.OutcomeConflict:           "Bad hash value",
}

type Server struct {
	guard        *application.IdempotencyGuard
	maxBodyBytes int64
	timeout      time.Duration
	ping         func(ctx context.Context) error
	metrics      http.Handler
}

type ServerOption func(*Server)

func WithMaxBodyBytes(n int64) ServerOption           { return func(s *Server) { s.maxBodyBytes = n } }
func WithRequestTimeout(d time.Duration) ServerOption { return func(s *Server) { s.timeout = d } }
func WithMetricsHandler(h http.Handler) ServerOption  { return func(s *Server) { s.metrics = h } }

func NewServer(guard *application.IdempotencyGuard, opts ...ServerOption) *Server {
	s := &Server{guard: guard, maxBodyBytes: 1 << 20, ping: guard.Ping}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetReadyCheck overrides the readiness probe, which defaults to a store ping.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type outcomeResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Digest  string `json:"digest,omitempty"`
}

type recordResponse struct {
	Token     string    `json:"token"`
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HandleRequest runs the idempotency check for the request body.
func (s *Server) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	log := logx.WithFields(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		badRequest(w, "unreadable request body")
		return
	}

	var token *string
	if vals, ok := r.Header[http.CanonicalHeaderKey(TokenHeader)]; ok && len(vals) > 0 {
		token = &vals[0]
	}

	out, err := s.guard.Evaluate(ctx, token, body)
	if err != nil {
		var se *application.StoreError
		switch {
		case errors.Is(err, domain.ErrInvalidToken):
			badRequest(w, err.Error())
		case errors.As(err, &se):
			log.Error("request.store_error", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			log.Error("request.failed", zap.Error(err))
			internalError(w)
		}
		return
	}

	resp := outcomeResponse{Outcome: out.Kind.String(), Message: outcomeMessages[out.Kind]}
	if out.Kind != domain.OutcomeNoToken {
		resp.Token = out.Token
		resp.Digest = out.Digest.String()
	}
	status := http.StatusOK
	if !out.Success() {
		status = http.StatusBadRequest
	}
	w.Header().Set(OutcomeHeader, out.Kind.String())
	writeJSON(w, status, resp)
}

// GetRecord returns the stored record for a token.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.guard.Lookup(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidToken):
			badRequest(w, err.Error())
		case errors.Is(err, application.ErrNotFound):
			notFound(w)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{
		Token:     rec.Token,
		Digest:    rec.Digest.String(),
		CreatedAt: rec.CreatedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
