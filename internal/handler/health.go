package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/wowlab/guildsim/internal/database"
	"github.com/wowlab/guildsim/internal/logger"
)

const readinessTimeout = 2 * time.Second

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HandleHealthz provides a basic liveness check
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports readiness to accept traffic. A job cannot be
// persisted without the database, so a failed ping means not ready.
func HandleReadyz(dbPool database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Error("Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Message: "database connection failed",
			})
			return
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
