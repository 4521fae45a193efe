package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/time/rate"
)

// DefaultHTTPTimeout bounds a single request when HTTPConfig.Timeout is unset.
const DefaultHTTPTimeout = 10 * time.Second

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// NewHTTPClient creates the client shared by every HTTP feed.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	URL     string
	Method  string
	Headers map[string]string
	// Body is sent as-is, typically JSON.
	Body string
	// MinInterval is the shortest time between two requests. Refreshes
	// arriving sooner keep the previous value.
	MinInterval time.Duration
	Selection
}

// HTTPSource polls a JSON endpoint on every refresh.
type HTTPSource struct {
	name    string
	cfg     HTTPConfig
	client  *http.Client
	limiter *rate.Limiter

	mu     sync.RWMutex
	latest cty.Value
}

// NewHTTPSource creates an HTTP feed. A nil client gets NewHTTPClient(0).
func NewHTTPSource(name string, cfg HTTPConfig, client *http.Client) (*HTTPSource, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("feed %q: url is required", name)
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	if _, err := ParsePath(cfg.Path); err != nil {
		return nil, fmt.Errorf("feed %q: %w", name, err)
	}
	if client == nil {
		client = NewHTTPClient(0)
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &HTTPSource{
		name:    name,
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		latest:  cty.NilVal,
	}, nil
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) Latest() (cty.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != cty.NilVal
}

// Refresh requests the endpoint and stores the selected value. On failure
// the previous value is kept.
func (s *HTTPSource) Refresh(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("feed", s.name, "url", s.cfg.URL)

	if !s.limiter.Allow() {
		logger.Debug("Feed refresh skipped, rate limited.")
		return nil
	}

	var body io.Reader
	if s.cfg.Body != "" {
		body = strings.NewReader(s.cfg.Body)
	}
	req, err := http.NewRequestWithContext(ctx, s.cfg.Method, s.cfg.URL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.cfg.Headers {
		req.Header.Set(k, v)
	}

	logger.Debug("Requesting feed.", "method", s.cfg.Method)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	v, err := s.cfg.Decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest = v
	s.mu.Unlock()
	logger.Debug("Feed refreshed.", "status", resp.StatusCode)
	return nil
}

// Close releases idle connections.
func (s *HTTPSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
