// Package api serves the engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/kilianp07/fleetsim/api/middleware"
	"github.com/kilianp07/fleetsim/core/logger"
	"github.com/kilianp07/fleetsim/core/model"
)

// Engine is the part of the engine exposed over HTTP.
type Engine interface {
	Submit(in model.JobInput) (model.Job, error)
	AddVehicle() int
	Snapshot() model.StateView
	Ticks() uint64
}

// Clock controls the periodic driver.
type Clock interface {
	Start()
	Stop()
	Running() bool
	Interval() time.Duration
}

// Dependencies holds what the router needs. Clock may be nil, in which case
// the clock routes answer 501.
type Dependencies struct {
	Engine Engine
	Clock  Clock
	Token  string
	Logger logger.Logger
}

// NewRouter builds the chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logger.Nop{}
	}
	h := &handlers{engine: deps.Engine, clock: deps.Clock, log: deps.Logger}
	r := chi.NewRouter()

	r.Use(mw.Logger(deps.Logger))
	r.Use(mw.Recovery(deps.Logger))

	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(mw.BearerToken(deps.Token))

		r.Get("/api/state", h.state)
		r.Get("/api/jobs", h.listJobs)
		r.Post("/api/jobs", h.submitJob)
		r.Post("/api/vehicles", h.addVehicle)
		r.Get("/api/stats", h.stats)

		r.Get("/api/clock", h.clockStatus)
		r.Post("/api/clock/start", h.clockStart)
		r.Post("/api/clock/stop", h.clockStop)
	})

	return r
}
