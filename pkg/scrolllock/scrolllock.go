// Package scrolllock suppresses page scrolling while floating widgets are
// open.
//
// The lock is a process-wide resource per document, so it is reference
// counted: the body styles change on the first acquisition and are restored
// on the last release. Each widget owns its own release handles and never
// touches the shared count directly.
package scrolllock

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/reactive"
	"github.com/vango-dev/floatkit/pkg/telemetry"
)

// Locker acquires a scroll lock. The returned Disposer releases exactly
// that acquisition and is idempotent.
type Locker interface {
	Lock() reactive.Disposer
}

// Manager is a reference-counted scroll lock for one document.
type Manager struct {
	mu      sync.Mutex
	doc     dom.Document
	count   int
	saved   map[string]string
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records acquisitions on metrics.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a manager for doc.
func NewManager(doc dom.Document, opts ...Option) *Manager {
	m := &Manager{
		doc:    doc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// lockedStyles are the body properties a lock overrides.
var lockedStyles = []string{"overflow", "padding-right"}

// Lock implements Locker.
func (m *Manager) Lock() reactive.Disposer {
	if m.doc == nil {
		return reactive.Noop
	}

	m.mu.Lock()
	m.count++
	first := m.count == 1
	if first {
		m.apply()
	}
	m.mu.Unlock()

	m.metrics.ScrollLockAcquired()
	if first {
		m.logger.Debug("scroll lock applied")
	}
	return reactive.Once(m.release)
}

func (m *Manager) release() {
	m.mu.Lock()
	if m.count == 0 {
		m.mu.Unlock()
		return
	}
	m.count--
	last := m.count == 0
	if last {
		m.restore()
	}
	m.mu.Unlock()

	m.metrics.ScrollLockReleased()
	if last {
		m.logger.Debug("scroll lock released")
	}
}

// apply saves the current body styles and hides overflow, padding the body
// by the scrollbar width so content does not shift.
func (m *Manager) apply() {
	body := m.doc.Body()
	m.saved = make(map[string]string, len(lockedStyles))
	for _, prop := range lockedStyles {
		m.saved[prop] = body.Style(prop)
	}

	if gap := m.doc.Viewport().Width - body.Rect().Width; gap > 0 {
		body.SetStyle("padding-right", fmt.Sprintf("%gpx", gap))
	}
	body.SetStyle("overflow", "hidden")
}

func (m *Manager) restore() {
	body := m.doc.Body()
	for _, prop := range lockedStyles {
		body.SetStyle(prop, m.saved[prop])
	}
	m.saved = nil
}

// Count returns the number of outstanding acquisitions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Locked reports whether the lock is currently applied.
func (m *Manager) Locked() bool {
	return m.Count() > 0
}

var managers sync.Map // dom.Document -> *Manager

// For returns the process-wide manager for doc, creating it on first use.
// Options only apply when the manager is created. The manager, and with it
// doc, stays referenced until Forget(doc) is called.
func For(doc dom.Document, opts ...Option) *Manager {
	if existing, ok := managers.Load(doc); ok {
		return existing.(*Manager)
	}
	m, _ := managers.LoadOrStore(doc, NewManager(doc, opts...))
	return m.(*Manager)
}

// Forget drops the shared manager for doc. Hosts must call it when a
// document is discarded. Managers already handed out keep working; the next
// For creates a fresh one.
func Forget(doc dom.Document) {
	managers.Delete(doc)
}
