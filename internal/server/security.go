package server

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/wowlab/guildsim/internal/logger"
)

// Suspicious-activity thresholds. Counters reset every window.
const (
	failedAuthAlertThreshold = 5
	requestRateLimit         = 1000
	rateLimitWindow          = 5 * time.Minute
	rateLimitLogInterval     = 100
)

// RequestSizeLimitMiddleware caps request body size. Oversized bodies make
// the next read fail, which surfaces as 413 from http.MaxBytesReader.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SuspiciousActivityDetector tracks per-IP failure and request counts over
// a sliding window and raises alerts when thresholds are crossed.
type SuspiciousActivityDetector struct {
	mu               sync.Mutex
	failedAuthByIP   map[string]int
	requestCountByIP map[string]int
	lastResetTime    time.Time
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		failedAuthByIP:   make(map[string]int),
		requestCountByIP: make(map[string]int),
		lastResetTime:    time.Now(),
	}
}

// RecordFailedAuth records a rejected session token.
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetCountsIfNeeded()
	s.failedAuthByIP[ip]++

	if s.failedAuthByIP[ip] >= failedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", s.failedAuthByIP[ip])
	}
}

// RecordRequest counts a request against the window and reports whether the
// caller is still under the rate limit.
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetCountsIfNeeded()
	s.requestCountByIP[ip]++

	count := s.requestCountByIP[ip]
	if count <= requestRateLimit {
		return true
	}
	// Log every Nth blocked request to avoid flooding the log.
	if count%rateLimitLogInterval == 0 {
		slog.Warn(SecurityAlertHighRate,
			"ip", ip,
			"count_in_window", count)
	}
	return false
}

// Caller must hold the mutex.
func (s *SuspiciousActivityDetector) resetCountsIfNeeded() {
	if time.Since(s.lastResetTime) > rateLimitWindow {
		s.requestCountByIP = make(map[string]int)
		s.failedAuthByIP = make(map[string]int)
		s.lastResetTime = time.Now()
	}
}

// SecurityLoggingMiddleware enforces the per-IP rate limit.
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, trustedProxies)

			if !detector.RecordRequest(ip) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// TrackAuthFailures watches session-protected routes and records 401
// responses so repeated invalid cookies from one address raise an alert.
// Must be installed outside the session middleware.
func TrackAuthFailures(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			if rw.statusCode == http.StatusUnauthorized {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"ip", ip)
			}
		})
	}
}

// extractIP resolves the client address. X-Forwarded-For is honored only
// when the direct peer is a configured trusted proxy, and then only its
// rightmost entry, since that is the hop the proxy itself saw.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	trusted := false
	for _, proxy := range trustedProxies {
		if proxy == remoteIP {
			trusted = true
			break
		}
	}
	if !trusted {
		return remoteIP
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// SecurityHeadersMiddleware sets the standard browser hardening headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
