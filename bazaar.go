package bazaar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/bazaar/plugin"
	"github.com/xraph/bazaar/store"
)

// Market is the exchange engine. Every mutating operation runs inside one
// store.Atomic unit of work; the ledger is the source of truth and account
// balances are a cache of its per-user sum.
type Market struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   func() time.Time

	// Background worker
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Configuration
	sweepInterval time.Duration // 0 disables the grant-expiry sweep
}

// New creates a new Market instance.
func New(s store.Store, opts ...Option) *Market {
	m := &Market{
		store:    s,
		plugins:  plugin.NewRegistry(),
		logger:   slog.Default(),
		clock:    time.Now,
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Option configures a Market instance.
type Option func(*Market)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Market) {
		m.logger = logger
		m.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(m *Market) {
		_ = m.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithExpirySweep enables the background grant-expiry sweep at the given
// interval. The sweep only flips the stored status flag for hygiene;
// entitlement checks never trust the flag alone, so the sweep is safe to
// leave off entirely.
func WithExpirySweep(interval time.Duration) Option {
	return func(m *Market) {
		m.sweepInterval = interval
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Market) {
		m.clock = clock
	}
}

// Plugins exposes the plugin registry.
func (m *Market) Plugins() *plugin.Registry { return m.plugins }

// Store exposes the underlying store for direct reads.
func (m *Market) Store() store.Store { return m.store }

// Start migrates the store, initializes plugins, and launches the expiry
// sweep worker when configured.
func (m *Market) Start(ctx context.Context) error {
	if err := m.store.Migrate(ctx); err != nil {
		return err
	}

	m.plugins.EmitInit(ctx, m)

	if m.sweepInterval > 0 {
		m.wg.Add(1)
		go m.expirySweepWorker(ctx)
	}

	m.logger.Info("market started",
		"plugins", m.plugins.Count(),
		"sweep_interval", m.sweepInterval,
	)

	return nil
}

// Stop shuts down the Market. Subsequent calls are no-ops.
func (m *Market) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()

		m.plugins.EmitShutdown(context.Background())
		err = m.store.Close()
	})
	return err
}

// expirySweepWorker periodically flips grants whose window has closed.
func (m *Market) expirySweepWorker(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.sweepExpiredGrants(ctx)
		}
	}
}

func (m *Market) sweepExpiredGrants(ctx context.Context) {
	count, err := m.store.ExpireDueGrants(ctx, m.clock())
	if err != nil {
		m.logger.Error("grant expiry sweep failed", "error", err)
		return
	}
	if count > 0 {
		m.plugins.EmitGrantsExpired(ctx, count)
		m.logger.Debug("expired grants swept", "count", count)
	}
}
