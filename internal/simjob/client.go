// Package simjob is the client-side view of a remote simulation queue.
// Submit returns a Job whose update channel carries every progress event
// until the terminal one, regardless of whether the events arrive over a
// WebSocket or a status poller.
package simjob

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/httpclient"
	"github.com/wowlab/guildsim/internal/simulation"
	"github.com/wowlab/guildsim/internal/stream"
)

// DefaultPollInterval is the status poll cadence when streaming is
// unavailable.
const DefaultPollInterval = 5 * time.Second

// cancelTimeout bounds the best-effort server-side cancel request.
const cancelTimeout = 5 * time.Second

// Config tunes the client.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL string
	// PollInterval is the fallback poll cadence. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration
	// HTTP overrides the polling client. Zero means a default client.
	HTTP *httpclient.Client
	// Dialer overrides the WebSocket dialer.
	Dialer *websocket.Dialer
}

// Client submits simulations to a remote server. Streaming is the primary
// strategy; when the socket cannot be established the client falls back to
// submitting over HTTP and polling for status.
type Client struct {
	baseURL      string
	pollInterval time.Duration
	http         *httpclient.Client
	dialer       *websocket.Dialer
}

// New creates a client for the server at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("simjob: base URL is required")
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.HTTP == nil {
		httpClient, err := httpclient.New(httpclient.Config{})
		if err != nil {
			return nil, fmt.Errorf("simjob: create http client: %w", err)
		}
		cfg.HTTP = httpClient
	}
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		pollInterval: cfg.PollInterval,
		http:         cfg.HTTP,
		dialer:       cfg.Dialer,
	}, nil
}

// Submit queues a simulation on the server and returns a Job observing it.
// The socket strategy is tried first; a failed dial falls back to the
// async endpoint plus polling.
func (c *Client) Submit(ctx context.Context, input string) (*Job, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: empty simulation input", domain.ErrInvalidInput)
	}

	job := newJob(c)

	conn, _, err := c.dialer.DialContext(ctx, c.streamURL(), nil)
	if err == nil {
		encoded := base64.StdEncoding.EncodeToString([]byte(input))
		if writeErr := conn.WriteJSON(stream.SubmitMessage{SimcInput: encoded}); writeErr == nil {
			go job.streamLoop(conn)
			return job, nil
		}
		_ = conn.Close()
	}

	status, err := c.submitAsync(ctx, input)
	if err != nil {
		job.cancel()
		return nil, err
	}

	job.setID(status.JobID)
	job.emit(simulation.Event{Type: simulation.EventStatus, JobID: status.JobID, Content: status.Status})
	job.emit(simulation.Event{Type: simulation.EventQueuePosition, JobID: status.JobID, Position: status.QueuePosition})
	job.emit(simulation.Event{Type: simulation.EventEstimatedWait, JobID: status.JobID, Wait: status.EstimatedWait})
	go job.pollLoop(status)
	return job, nil
}

// jobStatus mirrors the async submit and status response bodies.
type jobStatus struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	QueuePosition int    `json:"queue_position"`
	EstimatedWait int    `json:"estimated_wait"`
	Error         string `json:"error,omitempty"`
}

func (c *Client) streamURL() string {
	base := c.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/simulate/stream"
}

func (c *Client) submitAsync(ctx context.Context, input string) (*jobStatus, error) {
	body, err := json.Marshal(stream.SubmitMessage{
		SimcInput: base64.StdEncoding.EncodeToString([]byte(input)),
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/api/simulate/async",
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	})
	if err != nil {
		return nil, mapRemoteError(err)
	}

	var status jobStatus
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return nil, fmt.Errorf("simjob: decode submit response: %w", err)
	}
	return &status, nil
}

func (c *Client) status(ctx context.Context, jobID string) (*jobStatus, error) {
	var status jobStatus
	err := c.http.GetJSON(ctx, c.baseURL+"/api/simulate/status/"+jobID, nil, nil, &status)
	if err != nil {
		return nil, mapRemoteError(err)
	}
	return &status, nil
}

func (c *Client) result(ctx context.Context, jobID string) (string, error) {
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/simulate/result/" + jobID,
	})
	if err != nil {
		return "", mapRemoteError(err)
	}
	return string(resp.Body), nil
}

// cancelRemote asks the server to abort the job. Best effort; the caller
// is tearing down either way.
func (c *Client) cancelRemote(jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()

	_, _ = c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/api/simulate/cancel/" + jobID,
	})
}

func mapRemoteError(err error) error {
	var apiErr *httpclient.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return domain.ErrJobNotFound
		case apiErr.Kind == httpclient.KindRateLimited:
			return domain.ErrRateLimited
		}
	}
	return err
}
