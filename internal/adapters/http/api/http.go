// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/golang/geo/r3"
	repository "github.com/okian/stride/internal/adapters/repository"
	"github.com/okian/stride/internal/domain/blend"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/reconstruct"
	"github.com/okian/stride/internal/domain/transform"
	"github.com/okian/stride/pkg/logger"
)

// ClipDependencies stores and reads clips.
type ClipDependencies interface {
	AddClip(ctx context.Context, label string, c *motion.Clip) (repository.Entry, error)
	Clip(ctx context.Context, id string) (repository.Entry, error)
	Clips(ctx context.Context) ([]repository.Summary, error)
	DeleteClip(ctx context.Context, id string) error

	// Facing estimates the yaw at a frame from shoulders and hips;
	// PathFacing estimates it from root travel between two frames.
	Facing(ctx context.Context, id string, frame int) (float64, r3.Vector, error)
	PathFacing(ctx context.Context, id string, from, to int) (float64, error)
}

// EditDependencies runs editing operations. Each one stores its result as
// a new clip and returns it.
type EditDependencies interface {
	Reconstruct(ctx context.Context, label string, capture reconstruct.Capture, bakeRest bool) (repository.Entry, error)
	Bake(ctx context.Context, id string) (repository.Entry, error)
	RemoveFootSliding(ctx context.Context, id string, cfg footlock.Config) (repository.Entry, footlock.Report, error)
	Transform(ctx context.Context, id string, op transform.Op, p transform.Params) (repository.Entry, error)
	Blend(ctx context.Context, aID, bID string, mode blend.Mode, frames int) (repository.Entry, error)
	Concat(ctx context.Context, aID, bID string) (repository.Entry, error)

	// Defaults applied when a request leaves them out.
	FootLockConfig() footlock.Config
	BlendFrames() int
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ClipDependencies
	EditDependencies
}

// Default request limits.
const (
	DefaultMaxRequestBytes = 64 << 20
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	clipsHandler  *ClipsHandler
	editsHandler  *EditsHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	maxRequestBytes int64
	logger          logger.Logger
}

// WithMaxRequestBytes bounds request bodies. Larger bodies get 413.
func WithMaxRequestBytes(n int64) ServerOption {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxRequestBytes = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{maxRequestBytes: DefaultMaxRequestBytes}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("api")
	}
	r := responder{logger: o.logger}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		clipsHandler:  &ClipsHandler{deps: deps, maxBytes: o.maxRequestBytes, responder: r},
		editsHandler:  &EditsHandler{deps: deps, maxBytes: o.maxRequestBytes, responder: r},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /clips", MetricsMiddleware(s.clipsHandler.HandleCreate, "clips_create"))
	mux.HandleFunc("GET /clips", MetricsMiddleware(s.clipsHandler.HandleList, "clips_list"))
	mux.HandleFunc("GET /clips/{id}", MetricsMiddleware(s.clipsHandler.HandleGet, "clips_get"))
	mux.HandleFunc("DELETE /clips/{id}", MetricsMiddleware(s.clipsHandler.HandleDelete, "clips_delete"))
	mux.HandleFunc("GET /clips/{id}/facing", MetricsMiddleware(s.clipsHandler.HandleFacing, "facing"))

	mux.HandleFunc("POST /clips/{id}/footlock", MetricsMiddleware(s.editsHandler.HandleFootLock, "footlock"))
	mux.HandleFunc("POST /clips/{id}/transform", MetricsMiddleware(s.editsHandler.HandleTransform, "transform"))
	mux.HandleFunc("POST /clips/{id}/bake", MetricsMiddleware(s.editsHandler.HandleBake, "bake"))
	mux.HandleFunc("POST /reconstruct", MetricsMiddleware(s.editsHandler.HandleReconstruct, "reconstruct"))
	mux.HandleFunc("POST /blend", MetricsMiddleware(s.editsHandler.HandleBlend, "blend"))
	mux.HandleFunc("POST /concat", MetricsMiddleware(s.editsHandler.HandleConcat, "concat"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
