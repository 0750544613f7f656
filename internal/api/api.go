// Package api exposes a tally store over HTTP.
//
// Routes:
//
//	GET    /state                 current state with depth and pending count
//	POST   /actions               apply one action
//	POST   /actions/async         dispatch delayed actions, returns a token
//	DELETE /dispatches/{token}    cancel a pending dispatch
//	POST   /undo                  revert to the previous state
//	GET    /events                datastar signal stream of state changes
//	GET    /healthz               liveness
//	GET    /metrics               Prometheus metrics, when configured
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/fnlux/internal/metrics"
	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/async"
	"github.com/dmitrymomot/fnlux/pkg/broadcast"
	"github.com/dmitrymomot/fnlux/pkg/httpserver"
	"github.com/dmitrymomot/fnlux/pkg/logger"
	"github.com/dmitrymomot/fnlux/pkg/requestid"
	"github.com/dmitrymomot/fnlux/pkg/store"
)

// maxDelay bounds the delay accepted by POST /actions/async.
const maxDelay = time.Minute

// Store is the store served by the API.
type Store = store.Store[tally.State, tally.Action]

// Handler serves the API routes.
type Handler struct {
	store    *Store
	events   broadcast.Broadcaster[tally.State]
	log      *slog.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records apply and dispatch outcomes in m and serves g on
// GET /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
	}
}

// New creates a Handler. events receives the store's change notifications
// and feeds GET /events. A nil logger discards output.
func New(s *Store, events broadcast.Broadcaster[tally.State], log *slog.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	h := &Handler{store: s, events: events, log: log.With(logger.Component("api"))}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router with every endpoint mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/healthz", httpserver.HealthCheckHandler(h.log))
	r.Get("/state", h.state)
	r.Post("/actions", h.apply)
	r.Post("/actions/async", h.applyAsync)
	r.Delete("/dispatches/{token}", h.cancel)
	r.Post("/undo", h.undo)
	r.Get("/events", h.stream)
	if h.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(h.gatherer))
	}

	return r
}

// meta is read after the handler's own mutation, so concurrent dispatches
// may already be counted in it.
func (h *Handler) meta() map[string]any {
	return map[string]any{
		"depth":   h.store.Depth(),
		"pending": h.store.Pending(),
	}
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Envelope{Data: h.store.State(), Meta: h.meta()})
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	var action tally.Action
	if err := decode(r, &action); err != nil {
		writeError(w, err)
		return
	}

	state, err := h.store.ApplyState(action)
	h.metrics.Applied(err)
	if err != nil {
		h.log.InfoContext(r.Context(), "action rejected", logger.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Data: state, Meta: h.meta()})
}

// AsyncRequest is the body of POST /actions/async. Every action resolves
// after Delay. A non-empty Fail rejects the dispatch after Delay instead.
type AsyncRequest struct {
	Actions []tally.Action `json:"actions"`
	Delay   string         `json:"delay,omitempty"`
	Fail    string         `json:"fail,omitempty"`
}

func (h *Handler) applyAsync(w http.ResponseWriter, r *http.Request) {
	var req AsyncRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var delay time.Duration
	if req.Delay != "" {
		d, err := time.ParseDuration(req.Delay)
		if err != nil || d < 0 || d > maxDelay {
			writeError(w, errors.Join(errInvalidBody, errors.New("delay must be a duration between 0 and 1m")))
			return
		}
		delay = d
	}

	// The dispatch outlives the request.
	ctx := context.WithoutCancel(r.Context())

	inputs := make([]*async.Future[tally.Action], 0, len(req.Actions)+1)
	for _, action := range req.Actions {
		inputs = append(inputs, tally.Delayed(ctx, delay, action, nil))
	}
	if req.Fail != "" {
		inputs = append(inputs, tally.Delayed(ctx, delay, tally.Action{}, errors.New(req.Fail)))
	}

	d := h.store.ApplyAsync(ctx, inputs...)
	go h.watch(ctx, d)

	writeJSON(w, http.StatusAccepted, Envelope{
		Data: map[string]any{"token": d.Token()},
		Meta: h.meta(),
	})
}

// watch logs the outcome of a dispatch started over HTTP.
func (h *Handler) watch(ctx context.Context, d *store.Dispatch[tally.State]) {
	_, err := d.Await()
	switch {
	case err != nil:
		h.metrics.Settled(metrics.OutcomeRejected)
		h.log.InfoContext(ctx, "dispatch rejected", logger.DispatchID(d.Token().String()), logger.Error(err))
	case d.Cancelled():
		h.metrics.Settled(metrics.OutcomeCancelled)
		h.log.InfoContext(ctx, "dispatch dropped", logger.DispatchID(d.Token().String()))
	default:
		h.metrics.Settled(metrics.OutcomeApplied)
	}
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	token, err := store.ParseToken(chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.store.CancelAsync(token)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	reverted := h.store.Undo()
	meta := h.meta()
	meta["reverted"] = reverted
	writeJSON(w, http.StatusOK, Envelope{Data: h.store.State(), Meta: meta})
}
