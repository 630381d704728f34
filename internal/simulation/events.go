package simulation

// EventType tags a progress update sent to streaming clients.
type EventType string

const (
	EventStatus        EventType = "status"
	EventQueuePosition EventType = "queue_position"
	EventEstimatedWait EventType = "estimated_wait"
	EventStdout        EventType = "stdout"
	EventStderr        EventType = "stderr"
	EventError         EventType = "error"
	EventResult        EventType = "result"
	EventComplete      EventType = "complete"
)

// Event is one progress update from a queued or running job. It is the
// wire shape pushed over the streaming socket, so field names are part of
// the protocol.
type Event struct {
	Type     EventType `json:"type"`
	JobID    string    `json:"job_id,omitempty"`
	Content  string    `json:"content,omitempty"`
	Position int       `json:"queue_position,omitempty"`
	Wait     int       `json:"estimated_wait,omitempty"`
	Progress int       `json:"progress,omitempty"`
}

// Terminal reports whether no further events follow this one.
func (e Event) Terminal() bool {
	return e.Type == EventComplete
}
