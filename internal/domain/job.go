package domain

import "time"

// JobStatus is the lifecycle state of a simulation job
type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Terminal reports whether the status is final
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// EstimatedSecondsPerJob is the rough wall-clock cost of one queued
// simulation, used to derive the estimated wait from the queue position.
const EstimatedSecondsPerJob = 30

// SimulationJob tracks one SimulationCraft run through the queue
type SimulationJob struct {
	ID            string    `json:"job_id"`
	Status        JobStatus `json:"status"`
	QueuePosition int       `json:"queue_position,omitempty"`
	EstimatedWait int       `json:"estimated_wait,omitempty"`
	Input         string    `json:"-"`
	ResultHTML    string    `json:"-"`
	Error         string    `json:"error,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
	StartedAt     time.Time `json:"started_at,omitempty"`
	FinishedAt    time.Time `json:"finished_at,omitempty"`
}

// Duration returns the run time of a finished job, zero otherwise
func (j *SimulationJob) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}
