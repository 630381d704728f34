package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wowlab/guildsim/internal/auth"
	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/database"
	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/guild"
	"github.com/wowlab/guildsim/internal/handler"
	"github.com/wowlab/guildsim/internal/logger"
	"github.com/wowlab/guildsim/internal/metrics"
	"github.com/wowlab/guildsim/internal/roster"
	"github.com/wowlab/guildsim/internal/stream"
	"github.com/wowlab/guildsim/internal/user"
)

// Dependencies bundles everything the router mounts. Optional pieces may
// be nil: without a Blizzard client the armory and OAuth routes are not
// registered, and without a session manager nothing account-scoped is.
type Dependencies struct {
	DBPool      database.Pool
	Simulations handler.SimulationService
	Streams     *stream.Handler
	Bus         event.Bus
	Users       user.Service
	Guilds      guild.Service
	Rosters     roster.Service
	Sessions    *auth.Manager
	Bnet        *blizzard.Client
	AuthConfig  handler.AuthConfig
}

type Server struct {
	httpServer *http.Server
	deps       Dependencies
}

// NewServer creates a new Server instance
func NewServer(port int, trustedProxies []string, deps Dependencies) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Simulation queue
		r.Route("/simulate", func(r chi.Router) {
			r.Post("/async", handler.HandleSubmitSimulation(deps.Simulations))
			r.Get("/status/{jobID}", handler.HandleSimulationStatus(deps.Simulations))
			r.Get("/result/{jobID}", handler.HandleSimulationResult(deps.Simulations))
			r.Post("/cancel/{jobID}", handler.HandleCancelSimulation(deps.Simulations))
			r.Get("/queue", handler.HandleQueueStatus(deps.Simulations))
			if deps.Streams != nil {
				r.Get("/stream", deps.Streams.Simulate)
			}
		})
		if deps.Streams != nil {
			r.Get("/notifications", deps.Streams.Notifications)
		}

		// Profile parsing and batch generation
		r.Route("/profile", func(r chi.Router) {
			r.Post("/parse", handler.HandleParseProfile(deps.Bus))
			r.Post("/combinations", handler.HandleCombinationCount())
			r.Post("/generate", handler.HandleGenerateProfiles())
		})

		// Game API lookups
		if deps.Bnet != nil {
			r.Get("/realms", handler.HandleRealmIndex(deps.Bnet))
			r.Get("/items/{itemID}/media", handler.HandleItemMedia(deps.Bnet))
			r.Get("/characters/{realm}/{name}", handler.HandleCharacterProfile(deps.Bnet))
			r.Get("/characters/{realm}/{name}/equipment", handler.HandleCharacterEquipment(deps.Bnet))
		}

		// OAuth login flow
		r.Route("/auth", func(r chi.Router) {
			if deps.Bnet != nil && deps.Users != nil && deps.Sessions != nil {
				r.Get("/login", handler.HandleLogin(deps.AuthConfig))
				r.Get("/callback", handler.HandleCallback(deps.Bnet, deps.Users, deps.Sessions, deps.AuthConfig))
			}
			r.Post("/logout", handler.HandleLogout(deps.AuthConfig))
		})

		// Session-scoped routes
		if deps.Sessions != nil {
			r.Group(func(r chi.Router) {
				r.Use(TrackAuthFailures(trustedProxies, detector))
				r.Use(deps.Sessions.RequireSession)

				if deps.Users != nil {
					r.Get("/auth/me", handler.HandleMe(deps.Users))
					r.Delete("/account", handler.HandleDeleteAccount(deps.Users, deps.AuthConfig))
					r.Get("/account/characters", handler.HandleListCharacters(deps.Users))
					r.Put("/account/characters/{characterID}/role", handler.HandleSetCharacterRole(deps.Users))
				}

				if deps.Guilds != nil {
					r.Route("/guilds", func(r chi.Router) {
						r.Post("/sync", handler.HandleSyncGuild(deps.Guilds))
						r.Get("/{guildID}", handler.HandleGetGuild(deps.Guilds))
						r.Get("/{guildID}/members", handler.HandleGuildMembers(deps.Guilds))
						r.Put("/{guildID}/roster-rank", handler.HandleSetRosterRank(deps.Guilds))
						if deps.Rosters != nil {
							r.Get("/{guildID}/rosters", handler.HandleListRosters(deps.Rosters))
						}
					})
				}

				if deps.Rosters != nil {
					r.Route("/rosters", func(r chi.Router) {
						r.Post("/", handler.HandleCreateRoster(deps.Rosters))
						r.Get("/{rosterID}", handler.HandleGetRoster(deps.Rosters))
						r.Put("/{rosterID}", handler.HandleRenameRoster(deps.Rosters))
						r.Delete("/{rosterID}", handler.HandleDeleteRoster(deps.Rosters))
						r.Post("/{rosterID}/characters", handler.HandleAddRosterCharacter(deps.Rosters))
						r.Put("/{rosterID}/characters/{characterID}", handler.HandleUpdateRosterCharacter(deps.Rosters))
						r.Delete("/{rosterID}/characters/{characterID}", handler.HandleRemoveRosterCharacter(deps.Rosters))
					})
				}
			})
		}
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		deps: deps,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Hijack passes through to the underlying writer. The WebSocket routes
// need this to take over the connection.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderCookie) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
