package feed

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/burstdsl/internal/ctxlog"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultConnectTimeout bounds the socket.io handshake.
const DefaultConnectTimeout = 15 * time.Second

// SocketIOConfig configures a SocketIOSource.
type SocketIOConfig struct {
	URL       string
	Namespace string
	// Event is the server event whose first argument becomes the value.
	Event string
	// EmitEvent, when set, is emitted with EmitData after every connect,
	// typically a subscription request.
	EmitEvent          string
	EmitData           cty.Value
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
	Selection
}

// SocketIOSource keeps the latest payload of a socket.io event. The
// connection is opened on the first refresh and kept until Close.
type SocketIOSource struct {
	name string
	cfg  SocketIOConfig

	mu      sync.RWMutex
	io      *socket.Socket
	latest  cty.Value
	lastErr error
}

// NewSocketIOSource validates cfg and creates an unconnected source.
func NewSocketIOSource(name string, cfg SocketIOConfig) (*SocketIOSource, error) {
	if cfg.URL == "" || cfg.Event == "" {
		return nil, fmt.Errorf("feed %q: url and event are required", name)
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("feed %q: failed to parse URL: %w", name, err)
	}
	if _, err := ParsePath(cfg.Path); err != nil {
		return nil, fmt.Errorf("feed %q: %w", name, err)
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	return &SocketIOSource{name: name, cfg: cfg, latest: cty.NilVal}, nil
}

func (s *SocketIOSource) Name() string { return s.name }

func (s *SocketIOSource) Latest() (cty.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != cty.NilVal
}

// Refresh connects on first use. Afterwards values arrive on their own and
// Refresh only reports the last payload decoding failure, if any.
func (s *SocketIOSource) Refresh(ctx context.Context) error {
	s.mu.RLock()
	connected, lastErr := s.io != nil, s.lastErr
	s.mu.RUnlock()
	if connected {
		return lastErr
	}
	return s.connect(ctx)
}

func (s *SocketIOSource) connect(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("feed", s.name, "url", s.cfg.URL, "event", s.cfg.Event)

	parsedURL, err := url.Parse(s.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	emitData, err := value.ToGo(s.cfg.EmitData)
	if err != nil {
		return fmt.Errorf("failed to convert emit data: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if s.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.cfg.Namespace, opts)

	connectChan := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Feed connected.", "sid", io.Id())
		if s.cfg.EmitEvent != "" {
			logger.Debug("Emitting subscription.", "emit_event", s.cfg.EmitEvent)
			io.Emit(s.cfg.EmitEvent, emitData)
		}
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.On(types.EventName(s.cfg.Event), func(data ...any) {
		if err := s.receive(data...); err != nil {
			logger.Warn("Failed to decode feed payload.", "error", err)
			return
		}
		logger.Debug("Feed payload received.")
	})

	logger.Debug("Connecting feed...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(s.cfg.ConnectTimeout):
		io.Disconnect()
		return fmt.Errorf("timed out after %v waiting for socket.io connection", s.cfg.ConnectTimeout)
	}

	s.mu.Lock()
	s.io = io
	s.mu.Unlock()
	return nil
}

// receive stores the first argument of an event.
func (s *SocketIOSource) receive(data ...any) error {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}

	v, err := value.FromGo(payload)
	if err == nil {
		v, err = s.cfg.Apply(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		return err
	}
	s.latest = v
	return nil
}

// Close disconnects the socket.
func (s *SocketIOSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.io != nil {
		s.io.Disconnect()
		s.io = nil
	}
	return nil
}
