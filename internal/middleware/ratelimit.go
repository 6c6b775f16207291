package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"jobprep/interview/internal/models"
	"jobprep/interview/internal/utils"

	"golang.org/x/time/rate"
)

// LimiterManager keeps one token bucket per key (user or client IP).
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	once     sync.Once
}

// NewLimiterManager allows requestsPerMin per key with the given burst.
func NewLimiterManager(requestsPerMin, burst int) *LimiterManager {
	m := &LimiterManager{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		done:     make(chan struct{}),
	}
	go m.cleanupRoutine(10 * time.Minute)
	return m
}

func (m *LimiterManager) getLimiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, exists := m.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = limiter
	}
	m.lastSeen[key] = time.Now()
	return limiter
}

func (m *LimiterManager) Allow(key string) bool {
	return m.getLimiter(key).Allow()
}

func (m *LimiterManager) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup(interval)
		case <-m.done:
			return
		}
	}
}

// cleanup drops limiters not used within evictionAge
func (m *LimiterManager) cleanup(evictionAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, lastSeen := range m.lastSeen {
		if now.Sub(lastSeen) > evictionAge {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}
}

func (m *LimiterManager) Close() {
	m.once.Do(func() { close(m.done) })
}

// RateLimit rejects requests over the per-key budget with 429. Authenticated
// requests are keyed by user, others by client IP.
func RateLimit(m *LimiterManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := UserID(r)
			if key == "" {
				key = clientIP(r)
			}
			if !m.Allow(key) {
				w.Header().Set("Retry-After", "1")
				utils.JSON(w, http.StatusTooManyRequests, models.ErrorResponse{
					Code:    "rate_limited",
					Message: "Too many requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
