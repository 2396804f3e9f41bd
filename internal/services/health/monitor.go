package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Monitor probes the payment processor endpoint on a ticker and caches
// the last observed status, so checkout requests can fail fast with a
// 503 instead of timing out against a dead processor.
type Monitor struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger

	mutex    sync.RWMutex
	healthy  bool
	lastSeen time.Time

	stopChan chan struct{}
}

func NewMonitor(endpoint string, log zerolog.Logger) *Monitor {
	return &Monitor{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 2 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        5,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
				DisableKeepAlives:   false,
			},
		},
		log:      log,
		healthy:  true,
		stopChan: make(chan struct{}),
	}
}

func (m *Monitor) Healthy() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.healthy
}

func (m *Monitor) Start() {
	m.log.Info().Str("endpoint", m.endpoint).Msg("starting processor health monitor")
	ticker := time.NewTicker(15 * time.Second)

	go func() {
		m.probe()
		for {
			select {
			case <-ticker.C:
				m.probe()
			case <-m.stopChan:
				ticker.Stop()
				m.log.Info().Msg("processor health monitor stopped")
				return
			}
		}
	}()
}

func (m *Monitor) Stop() {
	close(m.stopChan)
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint, nil)
	if err != nil {
		m.update(false)
		return
	}
	resp, err := m.client.Do(req)
	if err != nil {
		m.log.Warn().Err(err).Msg("processor health probe failed")
		m.update(false)
		return
	}
	defer resp.Body.Close()

	m.update(resp.StatusCode < http.StatusInternalServerError)
}

func (m *Monitor) update(healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if healthy != m.healthy {
		m.log.Info().Bool("healthy", healthy).Msg("processor health changed")
	}
	m.healthy = healthy
	if healthy {
		m.lastSeen = time.Now()
	}
}
