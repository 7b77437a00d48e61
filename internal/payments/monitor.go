package payments

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// AcquirerMonitor periodically probes the acquirer's health endpoint so the
// gateway can report downstream reachability. It never gates submissions;
// authorization attempts go out regardless of the last probe result.
type AcquirerMonitor struct {
	healthURL  string
	interval   time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
	done       chan struct{}

	mu sync.RWMutex
	up bool
}

func NewAcquirerMonitor(healthURL string, interval time.Duration, httpClient *http.Client, logger *slog.Logger, metrics *Metrics) *AcquirerMonitor {
	return &AcquirerMonitor{
		healthURL:  healthURL,
		interval:   interval,
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
		done:       make(chan struct{}),
	}
}

// StartMonitoring probes immediately and then on every tick until Stop.
func (m *AcquirerMonitor) StartMonitoring() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkAcquirerHealth()

	for {
		select {
		case <-ticker.C:
			m.checkAcquirerHealth()
		case <-m.done:
			return
		}
	}
}

func (m *AcquirerMonitor) Stop() {
	close(m.done)
}

// Up reports the result of the most recent probe.
func (m *AcquirerMonitor) Up() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.up
}

func (m *AcquirerMonitor) checkAcquirerHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.healthURL, nil)
	if err != nil {
		m.logger.Error("failed to create health check request", "url", m.healthURL, "error", err)
		m.setUp(false)
		return
	}

	resp, err := m.httpClient.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		m.logger.Warn("acquirer health check failed", "url", m.healthURL, "error", err)
		m.setUp(false)
		return
	}

	if resp.StatusCode != http.StatusOK {
		m.logger.Warn("acquirer health check returned non-OK status", "url", m.healthURL, "status", resp.StatusCode)
		m.setUp(false)
		return
	}

	m.setUp(true)
}

func (m *AcquirerMonitor) setUp(up bool) {
	m.mu.Lock()
	m.up = up
	m.mu.Unlock()
	m.metrics.setAcquirerUp(up)
}
