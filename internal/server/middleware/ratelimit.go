package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const tooManyRequestsBody = `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`

// keyedLimiters tracks one token bucket per key (tenant ID, client IP).
// Entries idle longer than 30 minutes are evicted by a background sweep.
type keyedLimiters[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*limiterEntry
	rps     float64
	burst   int
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newKeyedLimiters[K comparable](ctx context.Context, requestsPerSecond float64, burst int) *keyedLimiters[K] {
	kl := &keyedLimiters[K]{
		entries: make(map[K]*limiterEntry),
		rps:     requestsPerSecond,
		burst:   burst,
	}
	go kl.sweep(ctx)
	return kl
}

func (kl *keyedLimiters[K]) sweep(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			kl.mu.Lock()
			cutoff := time.Now().Add(-30 * time.Minute)
			for key, e := range kl.entries {
				if e.lastAccess.Before(cutoff) {
					delete(kl.entries, key)
				}
			}
			kl.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func (kl *keyedLimiters[K]) allow(key K) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	e, ok := kl.entries[key]
	if !ok {
		e = &limiterEntry{
			limiter:    rate.NewLimiter(rate.Limit(kl.rps), kl.burst),
			lastAccess: time.Now(),
		}
		kl.entries[key] = e
	} else {
		e.lastAccess = time.Now()
	}
	return e.limiter.Allow()
}

// RateLimitByIP applies per-IP rate limiting for unauthenticated endpoints
// (register, login, refresh). Relies on chi's RealIP middleware having
// rewritten r.RemoteAddr. ctx bounds the cleanup goroutine.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiters := newKeyedLimiters[string](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(r.RemoteAddr) {
				http.Error(w, tooManyRequestsBody, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies per-tenant rate limiting so one account group cannot
// starve the others. Requests without a tenant in context pass through;
// RequireTenant runs earlier in the chain and rejects those anyway.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiters := newKeyedLimiters[uuid.UUID](ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, ok := TenantIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if !limiters.allow(tenantID) {
				http.Error(w, tooManyRequestsBody, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
