package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/kilianp07/fleetsim/api/response"
	"github.com/kilianp07/fleetsim/core/logger"
	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/stats"
)

const maxBodyBytes = 1 << 20

type handlers struct {
	engine Engine
	clock  Clock
	log    logger.Logger
}

// ClockStatus is returned by the clock routes.
type ClockStatus struct {
	Running    bool   `json:"running"`
	IntervalMS int64  `json:"interval_ms"`
	Ticks      uint64 `json:"ticks"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, map[string]string{"status": "ok"})
}

func (h *handlers) state(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, h.engine.Snapshot())
}

func (h *handlers) listJobs(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, h.engine.Snapshot().Views())
}

func (h *handlers) stats(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, stats.Summarize(h.engine.Snapshot()))
}

func (h *handlers) submitJob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		response.Error(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body is too large", nil)
		return
	}
	in, err := model.DecodeJobInput(body)
	if err == nil {
		var job model.Job
		job, err = h.engine.Submit(in)
		if err == nil {
			response.Created(w, job)
			return
		}
	}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(),
			map[string]string{"field": verr.Field, "reason": verr.Reason})
		return
	}
	h.log.Errorf("submit job: %v", err)
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit job", nil)
}

func (h *handlers) addVehicle(w http.ResponseWriter, _ *http.Request) {
	free := h.engine.AddVehicle()
	response.Created(w, map[string]int{"free_vehicles": free})
}

func (h *handlers) clockStatus(w http.ResponseWriter, _ *http.Request) {
	if h.clock == nil {
		clockUnavailable(w)
		return
	}
	response.JSON(w, h.clockState())
}

func (h *handlers) clockStart(w http.ResponseWriter, _ *http.Request) {
	if h.clock == nil {
		clockUnavailable(w)
		return
	}
	h.clock.Start()
	h.log.Infof("clock started")
	response.JSON(w, h.clockState())
}

func (h *handlers) clockStop(w http.ResponseWriter, _ *http.Request) {
	if h.clock == nil {
		clockUnavailable(w)
		return
	}
	h.clock.Stop()
	h.log.Infof("clock stopped")
	response.JSON(w, h.clockState())
}

func (h *handlers) clockState() ClockStatus {
	return ClockStatus{
		Running:    h.clock.Running(),
		IntervalMS: h.clock.Interval().Milliseconds(),
		Ticks:      h.engine.Ticks(),
	}
}

func clockUnavailable(w http.ResponseWriter) {
	response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "No clock driver configured", nil)
}
