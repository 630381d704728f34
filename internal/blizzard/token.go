package blizzard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/wowlab/guildsim/internal/httpclient"
	"github.com/wowlab/guildsim/internal/metrics"
)

// tokenRefreshMargin renews the app token this long before it expires so
// in-flight requests never race the expiry.
const tokenRefreshMargin = time.Minute

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// tokenSource manages the client-credentials token used for server-to-server
// API calls. It is safe for concurrent use.
type tokenSource struct {
	http         *httpclient.Client
	oauthURL     string
	clientID     string
	clientSecret string

	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time
}

func newTokenSource(http *httpclient.Client, oauthURL, clientID, clientSecret string) *tokenSource {
	return &tokenSource{
		http:         http,
		oauthURL:     oauthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// Token returns a valid access token, refreshing it when near expiry.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires.Add(-tokenRefreshMargin)) {
		return s.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	resp, err := s.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    s.oauthURL + "/token",
		Header: http.Header{
			"Authorization": {basicAuth(s.clientID, s.clientSecret)},
			"Content-Type":  {"application/x-www-form-urlencoded"},
		},
		Body: []byte(form.Encode()),
	})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(EndpointToken, metrics.StatusError).Inc()
		return "", fmt.Errorf("fetch app token: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues(EndpointToken, metrics.StatusOK).Inc()

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	s.token = tr.AccessToken
	s.expires = s.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return s.token, nil
}

func basicAuth(id, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+secret))
}
