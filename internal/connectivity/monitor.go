// Package connectivity tracks whether the service can reach the outside
// world.
package connectivity

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"booth/internal/infra"
)

// Options configures a Monitor.
type Options struct {
	ProbeURL   string
	Interval   time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Monitor holds the process-wide online flag. It starts online; probes and
// explicit Set calls flip it, and observers hear about every change.
type Monitor struct {
	probeURL   string
	interval   time.Duration
	httpClient *http.Client
	logger     *infra.Logger

	online atomic.Bool

	mu        sync.Mutex
	observers map[int]func(bool)
	nextObs   int
}

// NewMonitor returns a monitor in the online state.
func NewMonitor(opts Options) *Monitor {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.Discard()
	}
	m := &Monitor{
		probeURL:   strings.TrimSpace(opts.ProbeURL),
		interval:   interval,
		httpClient: client,
		logger:     logger,
		observers:  make(map[int]func(bool)),
	}
	m.online.Store(true)
	return m
}

// Online reports the current flag.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Set records an explicit connectivity signal and reports whether it changed
// the flag.
func (m *Monitor) Set(online bool) bool {
	if m.online.Swap(online) == online {
		return false
	}
	m.logger.Info().Bool("online", online).Msg("connectivity: status changed")

	m.mu.Lock()
	observers := make([]func(bool), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()
	for _, fn := range observers {
		fn(online)
	}
	return true
}

// Subscribe registers fn for changes and returns a function removing it.
func (m *Monitor) Subscribe(fn func(bool)) func() {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// Probe issues one HEAD request to the probe URL and updates the flag. Any
// HTTP response counts as reachable; only transport failures mean offline.
func (m *Monitor) Probe(ctx context.Context) bool {
	if m.probeURL == "" {
		return m.Online()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		m.logger.Warn().Err(err).Str("url", m.probeURL).Msg("connectivity: invalid probe url")
		return m.Online()
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return m.Online()
		}
		m.logger.Debug().Err(err).Msg("connectivity: probe failed")
		m.Set(false)
		return false
	}
	resp.Body.Close()
	m.Set(true)
	return true
}

// Run probes once immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	if m.probeURL == "" {
		return
	}
	m.Probe(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}
