package ratelimit

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = 3 * time.Minute
)

// Limiter is a per-client-address sliding window. State is in-process only
// and lost on restart; with multiple instances each node limits
// independently. Handlers run on parallel goroutines, so the window map is
// mutex-guarded.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	seen   map[string][]time.Time
	now    func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		limit:  limit,
		window: window,
		seen:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow admits or denies one request from addr. On denial, retryAfter is the
// whole seconds until the oldest retained request leaves the window. Every
// call also purges expired timestamps for all tracked addresses, bounding
// memory to active clients.
func (l *Limiter) Allow(addr string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	for ip, stamps := range l.seen {
		valid := stamps[:0]
		for _, ts := range stamps {
			if ts.After(cutoff) {
				valid = append(valid, ts)
			}
		}
		if len(valid) == 0 {
			delete(l.seen, ip)
		} else {
			l.seen[ip] = valid
		}
	}

	recent := l.seen[addr]
	if len(recent) >= l.limit {
		oldest := recent[0]
		for _, ts := range recent[1:] {
			if ts.Before(oldest) {
				oldest = ts
			}
		}
		retry := int(math.Ceil(oldest.Add(l.window).Sub(now).Seconds()))
		if retry < 1 {
			retry = 1
		}
		return false, retry
	}

	l.seen[addr] = append(recent, now)
	return true, 0
}

// Tracked reports how many addresses currently hold window state.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
