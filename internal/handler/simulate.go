package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/simulation"
)

// SimulationService is the part of the job service the HTTP handlers use.
// The streaming handler holds the richer interface with Subscribe.
type SimulationService interface {
	Submit(ctx context.Context, input string) (*domain.SimulationJob, error)
	Get(id string) (*domain.SimulationJob, error)
	Result(id string) (string, error)
	Cancel(id string) error
	Queue() simulation.QueueStatus
}

// SubmitSimulationRequest is the async submit body. The profile text is
// base64-encoded to survive JSON framing, mirroring the streaming socket.
type SubmitSimulationRequest struct {
	SimcInput string `json:"simc_input" validate:"required"`
}

// HandleSubmitSimulation queues a simulation and returns the job snapshot
func HandleSubmitSimulation(svc SimulationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitSimulationRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Submit simulation"); err != nil {
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(req.SimcInput)
		if err != nil {
			respondError(w, http.StatusBadRequest, "simc_input is not valid base64")
			return
		}

		job, err := svc.Submit(r.Context(), string(decoded))
		if err != nil {
			respondServiceError(w, r, ErrMsgSubmitSimulationFailed, err)
			return
		}

		respondJSON(w, http.StatusAccepted, job)
	}
}

// HandleSimulationStatus returns the current snapshot of a job
func HandleSimulationStatus(svc SimulationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := GetPathParam(r, w, "jobID")
		if !ok {
			return
		}

		job, err := svc.Get(jobID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetStatusFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, job)
	}
}

// HandleSimulationResult returns the HTML report of a completed job
func HandleSimulationResult(svc SimulationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := GetPathParam(r, w, "jobID")
		if !ok {
			return
		}

		html, err := svc.Result(jobID)
		if err != nil {
			respondServiceError(w, r, ErrMsgGetResultFailed, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprint(w, html); err != nil {
			logger.FromContext(r.Context()).Error("Failed to write simulation result", "error", err)
		}
	}
}

// HandleCancelSimulation aborts a queued or running job
func HandleCancelSimulation(svc SimulationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := GetPathParam(r, w, "jobID")
		if !ok {
			return
		}

		if err := svc.Cancel(jobID); err != nil {
			respondServiceError(w, r, ErrMsgCancelJobFailed, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgJobCanceledSuccess})
	}
}

// HandleQueueStatus reports queue occupancy
func HandleQueueStatus(svc SimulationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Queue())
	}
}
