package ratelimit

import (
	"sync"
	"time"
)

// SendLimiter caps how often report deliveries may be triggered, keeping
// the outbound mail and messaging providers inside their quotas.
type SendLimiter struct {
	sendsPerMinute int
	sendsPerDay    int
	enabled        bool

	// Delivery tracking
	minuteWindow []time.Time
	dayWindow    []time.Time
	mu           sync.Mutex
}

// NewSendLimiter creates a limiter with the given delivery caps
func NewSendLimiter(sendsPerMinute, sendsPerDay int, enabled bool) *SendLimiter {
	return &SendLimiter{
		sendsPerMinute: sendsPerMinute,
		sendsPerDay:    sendsPerDay,
		enabled:        enabled,
		minuteWindow:   make([]time.Time, 0),
		dayWindow:      make([]time.Time, 0),
	}
}

// AllowSend checks if another delivery is allowed right now
// Returns true if allowed, false if the cap is reached
func (rl *SendLimiter) AllowSend() bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.cleanup(now)

	if rl.sendsPerMinute > 0 && len(rl.minuteWindow) >= rl.sendsPerMinute {
		return false
	}
	if rl.sendsPerDay > 0 && len(rl.dayWindow) >= rl.sendsPerDay {
		return false
	}

	// Record the delivery
	rl.minuteWindow = append(rl.minuteWindow, now)
	rl.dayWindow = append(rl.dayWindow, now)

	return true
}

// cleanup removes expired entries from the time windows
func (rl *SendLimiter) cleanup(now time.Time) {
	rl.minuteWindow = filterTimes(rl.minuteWindow, now.Add(-1*time.Minute))
	rl.dayWindow = filterTimes(rl.dayWindow, now.Add(-24*time.Hour))
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Stats contains limiter statistics
type Stats struct {
	Enabled          bool `json:"enabled"`
	SendsLastMinute  int  `json:"sends_last_minute"`
	SendsLastDay     int  `json:"sends_last_day"`
	LimitPerMinute   int  `json:"limit_per_minute"`
	LimitPerDay      int  `json:"limit_per_day"`
	RemainingThisDay int  `json:"remaining_this_day"`
}

// GetStats returns current limiter statistics
func (rl *SendLimiter) GetStats() Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.cleanup(now)

	remaining := rl.sendsPerDay - len(rl.dayWindow)
	if remaining < 0 {
		remaining = 0
	}

	return Stats{
		Enabled:          true,
		SendsLastMinute:  len(rl.minuteWindow),
		SendsLastDay:     len(rl.dayWindow),
		LimitPerMinute:   rl.sendsPerMinute,
		LimitPerDay:      rl.sendsPerDay,
		RemainingThisDay: remaining,
	}
}

// Reset clears all tracked deliveries (useful for testing)
func (rl *SendLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.minuteWindow = make([]time.Time, 0)
	rl.dayWindow = make([]time.Time, 0)
}
