// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in a sliding window. Safe for concurrent
// use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per duration.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.cleanupLoop(duration * 2)
	return l
}

// Allow reports whether a request from key fits in the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the window for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP, preferring proxy headers over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// JoinLimiter throttles join-code submissions. The code space is small
// enough to enumerate, so failed guesses are limited both per source IP and
// per account.
type JoinLimiter struct {
	ipLimiter  *Limiter
	uidLimiter *Limiter
}

// NewJoinLimiter returns a limiter tuned for join-code guessing: 20 attempts
// per IP per minute, 10 attempts per account per 5 minutes.
func NewJoinLimiter() *JoinLimiter {
	return &JoinLimiter{
		ipLimiter:  New(20, time.Minute),
		uidLimiter: New(10, 5*time.Minute),
	}
}

// Check reports whether a join-code attempt may proceed.
func (jl *JoinLimiter) Check(r *http.Request, uid string) bool {
	if !jl.ipLimiter.Allow(ClientIP(r)) {
		return false
	}
	if uid != "" && !jl.uidLimiter.Allow(uid) {
		return false
	}
	return true
}

// ResetUID clears the account window after a code resolves, so legitimate
// members re-submitting a known code are never locked out.
func (jl *JoinLimiter) ResetUID(uid string) {
	if uid != "" {
		jl.uidLimiter.Reset(uid)
	}
}
