// Package ratelimit provides request rate limiting for the API's
// credential endpoints.
package ratelimit

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter defines the interface for rate limiters.
type Limiter interface {
	// Allow checks if a request is allowed for the given key.
	// Returns true if allowed, false if rate limited.
	Allow(ctx context.Context, key string) (bool, error)

	// Reset resets the rate limit for the given key.
	Reset(ctx context.Context, key string) error

	// Close releases any resources held by the limiter.
	Close() error
}

// Config holds rate limit middleware configuration.
type Config struct {
	// KeyFunc extracts the rate limit key from an HTTP request.
	// Defaults to client IP address.
	KeyFunc func(r *http.Request) string

	// OnLimited is called when a request is rate limited.
	// Defaults to a plain 429 response.
	OnLimited func(w http.ResponseWriter, r *http.Request)
}

// GetClientIP extracts the client IP from an HTTP request.
// Checks X-Forwarded-For and X-Real-IP headers first.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP in the list
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	// Strip port if present
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
		if addr[i] == ']' {
			// IPv6 address, already stripped
			break
		}
	}
	return addr
}

// entry represents a rate limit entry for a key.
type entry struct {
	count    int
	windowAt time.Time
}

// MemoryLimiter is an in-memory fixed window rate limiter.
type MemoryLimiter struct {
	mu      sync.RWMutex
	entries map[string]*entry
	rate    int
	window  time.Duration
	done    chan struct{}
}

// NewMemoryLimiter creates a new in-memory rate limiter allowing rate
// requests per window. A background goroutine evicts expired entries
// until Close is called.
func NewMemoryLimiter(rate int, window time.Duration) *MemoryLimiter {
	ml := &MemoryLimiter{
		entries: make(map[string]*entry),
		rate:    rate,
		window:  window,
		done:    make(chan struct{}),
	}

	go ml.cleanup()

	return ml
}

// Allow checks if a request is allowed for the given key.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, exists := m.entries[key]

	if !exists || now.After(e.windowAt) {
		// New window
		m.entries[key] = &entry{
			count:    1,
			windowAt: now.Add(m.window),
		}
		return m.rate >= 1, nil
	}

	if e.count+1 > m.rate {
		return false, nil
	}

	e.count++
	return true, nil
}

// Reset resets the rate limit for the given key.
func (m *MemoryLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close stops the cleanup goroutine.
func (m *MemoryLimiter) Close() error {
	close(m.done)
	return nil
}

// GetResetTime returns the time when the rate limit resets for a key.
func (m *MemoryLimiter) GetResetTime(key string) time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[key]
	if !exists {
		return time.Now().Add(m.window)
	}

	return e.windowAt
}

// cleanup periodically removes expired entries.
func (m *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(m.window)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *MemoryLimiter) removeExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, e := range m.entries {
		if now.After(e.windowAt) {
			delete(m.entries, key)
		}
	}
}

// Middleware applies rate limiting to the wrapped handler. Limiter
// errors are logged and the request is allowed through; throttling is
// best effort and must not take the API down with it.
func Middleware(limiter Limiter, cfg *Config) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = GetClientIP
	}

	onLimited := cfg.OnLimited
	if onLimited == nil {
		onLimited = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Printf("[ratelimit] error checking rate limit for key %s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				if ml, ok := limiter.(*MemoryLimiter); ok {
					resetAt := ml.GetResetTime(key)
					retryAfter := int(time.Until(resetAt).Seconds())
					if retryAfter < 0 {
						retryAfter = 0
					}
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}

				onLimited(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
