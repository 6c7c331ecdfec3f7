package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health of a single component
type ComponentHealth struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// SystemHealth represents the overall system health
type SystemHealth struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     time.Duration              `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// Checker is one component health probe.
type Checker interface {
	Check(ctx context.Context) ComponentHealth
	Name() string
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) ComponentHealth
}

func (cf CheckFunc) Check(ctx context.Context) ComponentHealth { return cf.fn(ctx) }
func (cf CheckFunc) Name() string                              { return cf.name }

func NewCheckFunc(name string, fn func(ctx context.Context) ComponentHealth) Checker {
	return CheckFunc{name: name, fn: fn}
}

// Manager runs registered checkers and aggregates their results.
type Manager struct {
	mu        sync.RWMutex
	checkers  map[string]Checker
	startTime time.Time
	timeout   time.Duration
}

func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Manager{
		checkers:  make(map[string]Checker),
		startTime: time.Now(),
		timeout:   timeout,
	}
}

// Register adds a checker, replacing any previous one with the same name.
func (m *Manager) Register(c Checker) {
	m.mu.Lock()
	m.checkers[c.Name()] = c
	m.mu.Unlock()
}

// Check runs all checkers and aggregates: any unhealthy component makes the
// system unhealthy; any degraded one makes it degraded.
func (m *Manager) Check(ctx context.Context) SystemHealth {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.RLock()
	checkers := make([]Checker, 0, len(m.checkers))
	for _, c := range m.checkers {
		checkers = append(checkers, c)
	}
	m.mu.RUnlock()

	components := make(map[string]ComponentHealth, len(checkers))
	overall := StatusHealthy
	for _, c := range checkers {
		start := time.Now()
		ch := c.Check(ctx)
		ch.Name = c.Name()
		ch.LastChecked = time.Now()
		ch.Duration = time.Since(start)
		components[c.Name()] = ch

		switch ch.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	return SystemHealth{
		Status:     overall,
		Timestamp:  time.Now(),
		Uptime:     time.Since(m.startTime),
		Components: components,
	}
}

// Handler serves the aggregated health report as JSON. Unhealthy systems
// report 503 so load balancers can react.
func (m *Manager) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := m.Check(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}
