package middleware

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// window tracks request counts for one requester key. count and windowStart
// are guarded by mu so concurrent bursts never undercount.
type window struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// Decision is the outcome of a sliding window check
type Decision struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long until the window resets; zero when allowed
	RetryAfter time.Duration
}

// SlidingWindowLimiter counts requests per key in a rolling interval.
// State is process-local and bounded: windows live in an expirable LRU so
// idle keys age out instead of accumulating forever.
type SlidingWindowLimiter struct {
	windows *lru.LRU[string, *window]
	mu      sync.Mutex // guards get-or-create so two goroutines never race in separate windows
}

const defaultMaxWindows = 65536

// NewSlidingWindowLimiter creates a limiter. maxEntries bounds how many
// distinct requester keys are tracked. Entries are re-armed on every
// request, so ttl governs how long an idle key is remembered; it should
// exceed the longest interval the limiter will be asked about so that a
// client cannot clear its count by pausing inside an open window.
func NewSlidingWindowLimiter(maxEntries int, ttl time.Duration) *SlidingWindowLimiter {
	if maxEntries <= 0 {
		maxEntries = defaultMaxWindows
	}
	return &SlidingWindowLimiter{
		windows: lru.NewLRU[string, *window](maxEntries, nil, ttl),
	}
}

// Allow records a request against the key's window and reports whether it
// fits under limit within the interval. The window resets once the interval
// has fully elapsed since it opened.
func (l *SlidingWindowLimiter) Allow(key string, limit int, interval time.Duration) Decision {
	l.mu.Lock()
	w, ok := l.windows.Get(key)
	if !ok {
		w = &window{}
	}
	// Re-add on every request: the LRU expires entries a fixed TTL after
	// the last Add, so a window under sustained traffic would otherwise be
	// evicted mid-interval and its count lost.
	l.windows.Add(key, w)
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if w.windowStart.IsZero() || now.Sub(w.windowStart) >= interval {
		w.windowStart = now
		w.count = 0
	}

	if w.count >= limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: interval - now.Sub(w.windowStart),
		}
	}

	w.count++
	return Decision{Allowed: true, Remaining: limit - w.count}
}

// Len returns the number of tracked requester keys
func (l *SlidingWindowLimiter) Len() int {
	return l.windows.Len()
}
