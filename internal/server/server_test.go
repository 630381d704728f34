package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wowlab/guildsim/internal/auth"
	"github.com/wowlab/guildsim/internal/domain"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/handler"
	"github.com/wowlab/guildsim/internal/roster"
	"github.com/wowlab/guildsim/internal/simulation"
)

func readerOf(s string) io.Reader {
	return strings.NewReader(s)
}

// fakePool always reports a healthy database.
type fakePool struct{}

func (f *fakePool) Ping(ctx context.Context) error { return nil }
func (f *fakePool) Close()                         {}

// fakeSims is a minimal in-memory simulation queue.
type fakeSims struct {
	jobs map[string]*domain.SimulationJob
}

func newFakeSims() *fakeSims {
	return &fakeSims{jobs: make(map[string]*domain.SimulationJob)}
}

func (f *fakeSims) Submit(ctx context.Context, input string) (*domain.SimulationJob, error) {
	job := &domain.SimulationJob{
		ID:            "job-1",
		Status:        domain.JobStatusQueued,
		Input:         input,
		QueuePosition: 1,
		EstimatedWait: domain.EstimatedSecondsPerJob,
	}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeSims) Get(id string) (*domain.SimulationJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeSims) Result(id string) (string, error) { return "", domain.ErrJobNotFound }
func (f *fakeSims) Cancel(id string) error           { return domain.ErrJobNotFound }
func (f *fakeSims) Queue() simulation.QueueStatus {
	return simulation.QueueStatus{Queued: len(f.jobs), Workers: 2}
}

type allowAll struct{}

func (allowAll) IsOfficer(ctx context.Context, guildID, userID string) (bool, error) {
	return true, nil
}

func newTestServer(t *testing.T) (*Server, *auth.Manager) {
	t.Helper()

	sessions, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	rosters := roster.NewService(roster.NewFakeRosterRepository(), allowAll{}, event.NewMemoryBus())

	srv := NewServer(0, nil, Dependencies{
		DBPool:      &fakePool{},
		Simulations: newFakeSims(),
		Bus:         event.NewMemoryBus(),
		Rosters:     rosters,
		Sessions:    sessions,
		AuthConfig:  handler.AuthConfig{FrontendURL: "http://localhost:3000"},
	})
	return srv, sessions
}

func TestServerRoutes_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerRoutes_SubmitSimulation(t *testing.T) {
	srv, _ := newTestServer(t)

	payload, err := json.Marshal(handler.SubmitSimulationRequest{
		SimcInput: base64.StdEncoding.EncodeToString([]byte("armory=us,stormrage,player")),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/simulate/async", bytes.NewBuffer(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var job domain.SimulationJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, domain.JobStatusQueued, job.Status)

	// Security headers apply to API responses too.
	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
}

func TestServerRoutes_SessionRequired(t *testing.T) {
	srv, sessions := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rosters/some-id", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// With a valid session cookie the same route resolves.
	token, err := sessions.IssueSession(&domain.User{ID: "user-1", BattleTag: "Tag#1234"})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/rosters/some-id", nil)
	req.AddCookie(sessions.SessionCookie(token, false))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerRoutes_OptionalGroupsUnmounted(t *testing.T) {
	srv, _ := newTestServer(t)

	// No Blizzard client configured, so armory and login routes are absent.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/items/19019/media", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
