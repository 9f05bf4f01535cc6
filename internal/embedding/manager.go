package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/engramhq/engram/internal/logging"
	"github.com/engramhq/engram/pkg/config"
)

var log = logging.GetLogger("embedding")

// Manager selects and holds the active Provider, following the engine
// configuration's auto/explicit/none selection mode (SPEC_FULL §4.9).
// Modeled on the teacher's Manager (internal/ai/manager.go) initialize/
// status shape, narrowed to the embedding concern.
type Manager struct {
	mu       sync.RWMutex
	active   Provider
	cfg      config.EmbeddingConfig
	resolved bool
}

// NewManager constructs a Manager without probing availability yet; call
// Resolve to select a provider.
func NewManager(cfg config.EmbeddingConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Resolve picks the active provider according to cfg.Mode:
//   - "none": NoneProvider, always.
//   - an explicit provider name ("local-daemon", "remote-http",
//     "in-process"): that provider, even if currently unavailable (callers
//     see Embed errors at call time rather than silent fallback).
//   - "auto" (default): probe local-daemon, then remote-http, then fall
//     back to in-process, which is always available.
func (m *Manager) Resolve(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch Mode(m.cfg.Mode) {
	case ModeNone:
		m.active = NewNoneProvider()
	case ModeLocal:
		m.active = NewLocalDaemonProvider(m.cfg.LocalDaemon.BaseURL, m.cfg.LocalDaemon.Model)
	case ModeRemote:
		m.active = NewRemoteHTTPProvider(m.cfg.RemoteHTTP.Endpoint, m.cfg.RemoteHTTP.APIKey, m.cfg.RemoteHTTP.Model)
	case ModeInProc:
		m.active = NewInProcessProvider()
	case ModeAuto, "":
		m.active = m.probe(ctx)
	default:
		return fmt.Errorf("unknown embedding mode: %q", m.cfg.Mode)
	}

	m.resolved = true
	log.Info("embedding provider resolved", "provider", m.active.Name(), "model", m.active.Model())
	return nil
}

func (m *Manager) probe(ctx context.Context) Provider {
	local := NewLocalDaemonProvider(m.cfg.LocalDaemon.BaseURL, m.cfg.LocalDaemon.Model)
	if local.Available(ctx) {
		return local
	}
	log.Debug("local embedding daemon unavailable, trying remote-http")

	if m.cfg.RemoteHTTP.Endpoint != "" {
		remote := NewRemoteHTTPProvider(m.cfg.RemoteHTTP.Endpoint, m.cfg.RemoteHTTP.APIKey, m.cfg.RemoteHTTP.Model)
		if remote.Available(ctx) {
			return remote
		}
	}

	log.Warn("no configured embedding provider is available, falling back to in-process")
	return NewInProcessProvider()
}

// Active returns the currently-selected provider, resolving lazily if
// Resolve was never called.
func (m *Manager) Active(ctx context.Context) (Provider, error) {
	m.mu.RLock()
	if m.resolved {
		p := m.active
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	if err := m.Resolve(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, nil
}

// Embed generates a vector for text using the active provider. Returns
// (nil, nil) rather than an error when the active provider is NoneProvider,
// so callers can treat "no embedding configured" as a normal lexical-only
// path rather than a failure (spec §4.9's "none" selection mode).
func (m *Manager) Embed(ctx context.Context, text string) ([]float64, error) {
	p, err := m.Active(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := p.(*NoneProvider); ok {
		return nil, nil
	}
	return p.Embed(ctx, text)
}

// Status reports the active provider for diagnostics (engine stats/export
// surfaces).
type Status struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Available bool   `json:"available"`
}

func (m *Manager) GetStatus(ctx context.Context) *Status {
	p, err := m.Active(ctx)
	if err != nil {
		return &Status{Provider: "unresolved"}
	}
	return &Status{
		Provider:  p.Name(),
		Model:     p.Model(),
		Available: p.Available(ctx),
	}
}
