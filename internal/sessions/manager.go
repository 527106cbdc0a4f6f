// Package sessions keeps quote sessions in a bounded, expiring in-memory
// cache. Evicted or expired sessions are closed, which stops any pending
// submission timer and revokes their preview references.
package sessions

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/goliatone/go-lawnquote/internal/logging"
	"github.com/goliatone/go-lawnquote/internal/metrics"
	"github.com/goliatone/go-lawnquote/pkg/preview"
	"github.com/goliatone/go-lawnquote/pkg/quote"
)

const (
	defaultMaxSessions = 1024
	defaultTTL         = 30 * time.Minute
)

// Config bounds the cache.
type Config struct {
	// Max is the number of sessions kept before the least recently used one
	// is evicted.
	Max int
	// TTL is how long an untouched session survives. Get renews it.
	TTL time.Duration
	// SubmitDelay overrides quote.DefaultSubmitDelay when positive.
	SubmitDelay time.Duration
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the logger. A no-op logger is used otherwise.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics records session and submission metrics.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithPreviewStore shares store between all sessions. A MemoryStore is
// created otherwise.
func WithPreviewStore(store preview.Store) Option {
	return func(m *Manager) {
		if store != nil {
			m.store = store
		}
	}
}

// WithSessionOptions appends options applied to every new session. They run
// after the manager's own options, so hooks set here replace the logging and
// metrics hooks.
func WithSessionOptions(options ...quote.Option) Option {
	return func(m *Manager) {
		m.sessionOptions = append(m.sessionOptions, options...)
	}
}

// WithIDGenerator replaces uuid.NewString for session ids.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// Manager creates and tracks sessions.
type Manager struct {
	cache          *expirable.LRU[string, *quote.Session]
	store          preview.Store
	logger         *zap.Logger
	metrics        *metrics.Metrics
	sessionOptions []quote.Option
	submitDelay    time.Duration
	newID          func() string
}

// New constructs a Manager.
func New(cfg Config, options ...Option) *Manager {
	if cfg.Max <= 0 {
		cfg.Max = defaultMaxSessions
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}

	m := &Manager{
		logger:      zap.NewNop(),
		submitDelay: cfg.SubmitDelay,
		newID:       uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(m)
	}
	if m.store == nil {
		m.store = preview.NewMemoryStore()
	}
	// NewLRU starts a cleanup goroutine that lives as long as the process;
	// expirable offers no way to stop it.
	m.cache = expirable.NewLRU[string, *quote.Session](cfg.Max, m.evicted, cfg.TTL)
	return m
}

// Store returns the preview store shared by the sessions.
func (m *Manager) Store() preview.Store {
	return m.store
}

// Create starts a new idle session.
func (m *Manager) Create() *quote.Session {
	id := m.newID()
	log := m.logger.With(logging.SessionField(id))

	options := []quote.Option{
		quote.WithID(id),
		quote.WithPreviewStore(m.store),
		quote.WithSubmitDelay(m.submitDelay),
		quote.OnStateChange(func(from, to quote.State) {
			m.metrics.ObserveTransition(from, to)
			log.Debug("session state changed",
				zap.String("from", from.String()),
				zap.String("state", to.String()))
		}),
		quote.OnSubmitted(func(req quote.Request) {
			log.Info("quote request submitted",
				zap.String("length", req.Length),
				zap.String("area", string(req.Area)),
				zap.Strings("photos", req.PhotoNames),
				zap.Time("submitted_at", req.SubmittedAt))
		}),
	}
	options = append(options, m.sessionOptions...)

	session := quote.New(options...)
	m.cache.Add(id, session)
	m.metrics.SessionOpened()
	log.Debug("session created")
	return session
}

// Get returns the session with id and renews its TTL.
func (m *Manager) Get(id string) (*quote.Session, bool) {
	if id == "" {
		return nil, false
	}
	session, ok := m.cache.Get(id)
	if !ok {
		return nil, false
	}
	if session.Closed() {
		m.cache.Remove(id)
		return nil, false
	}
	m.cache.Add(id, session)
	return session, true
}

// GetOrCreate returns the session with id, or a new one when it is unknown
// or expired.
func (m *Manager) GetOrCreate(id string) (*quote.Session, bool) {
	if session, ok := m.Get(id); ok {
		return session, false
	}
	return m.Create(), true
}

// Remove closes and forgets the session. It reports whether the session was
// present.
func (m *Manager) Remove(id string) bool {
	return m.cache.Remove(id)
}

// Len reports how many sessions are cached.
func (m *Manager) Len() int {
	return m.cache.Len()
}

// CloseAll closes every cached session.
func (m *Manager) CloseAll() {
	m.cache.Purge()
}

func (m *Manager) evicted(id string, session *quote.Session) {
	if err := session.Close(); err != nil {
		m.logger.Warn("close session", logging.SessionField(id), zap.Error(err))
	}
	m.metrics.SessionClosed()
	m.logger.Debug("session closed", logging.SessionField(id))
}
