// Package dedup provides a TTL-bounded idempotency-key set for channel
// adapters: a duplicate delivery of the same inbound event (a webhook
// retry, an at-least-once queue re-delivery) is detected and dropped
// before it reaches AnswerToUserRequestUseCase.
package dedup

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Options configures Set.
type Options struct {
	// TTL is how long a key is remembered before it is eligible to be
	// swept.
	TTL time.Duration

	// MaxSize bounds the set; once exceeded, the oldest keys are evicted
	// first.
	MaxSize int

	// SweepSchedule is a cron expression controlling how often expired
	// keys are swept in the background. Defaults to "@every 1m".
	SweepSchedule string
}

// Set is a process-local, TTL-bounded idempotency-key set.
type Set struct {
	mu      sync.Mutex
	seen    map[string]int64 // key -> first-seen unix milli
	ttl     time.Duration
	maxSize int

	cron *cron.Cron
}

// New creates a Set and starts its background sweep schedule. Call Stop
// when the adapter shuts down.
func New(opts Options) *Set {
	ttl := opts.TTL
	if ttl < 0 {
		ttl = 0
	}
	maxSize := opts.MaxSize
	if maxSize < 0 {
		maxSize = 0
	}
	schedule := opts.SweepSchedule
	if schedule == "" {
		schedule = "@every 1m"
	}

	s := &Set{
		seen:    make(map[string]int64),
		ttl:     ttl,
		maxSize: maxSize,
	}

	s.cron = cron.New()
	_, _ = s.cron.AddFunc(schedule, func() { s.sweep(time.Now()) })
	s.cron.Start()

	return s
}

// Stop halts the background sweep. Safe to call more than once.
func (s *Set) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Seen reports whether key has already been recorded within the TTL, and
// records it (refreshing its timestamp) either way.
func (s *Set) Seen(key string) bool {
	return s.SeenAt(key, time.Now())
}

// SeenAt is Seen with an explicit timestamp, for deterministic tests.
func (s *Set) SeenAt(key string, now time.Time) bool {
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nowMilli := now.UnixMilli()

	if existing, ok := s.seen[key]; ok {
		if s.ttl <= 0 || nowMilli-existing < s.ttl.Milliseconds() {
			s.seen[key] = nowMilli
			return true
		}
	}

	s.seen[key] = nowMilli
	s.evictOverCapacity()
	return false
}

// Size returns the current number of tracked keys.
func (s *Set) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func (s *Set) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	cutoff := now.UnixMilli() - s.ttl.Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ts := range s.seen {
		if ts < cutoff {
			delete(s.seen, key)
		}
	}
}

// evictOverCapacity must be called with s.mu held.
func (s *Set) evictOverCapacity() {
	if s.maxSize <= 0 {
		return
	}
	for len(s.seen) > s.maxSize {
		var oldestKey string
		var oldestTS int64 = int64(^uint64(0) >> 1)
		for k, ts := range s.seen {
			if ts < oldestTS {
				oldestTS = ts
				oldestKey = k
			}
		}
		if oldestKey == "" {
			break
		}
		delete(s.seen, oldestKey)
	}
}

// Key builds the idempotency key for one inbound channel event.
func Key(channel, eventID string) string {
	if eventID == "" {
		return ""
	}
	if channel == "" {
		return eventID
	}
	return channel + ":" + eventID
}
