package llm

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at     time.Time
	d      time.Duration
	failed bool
}

// StatsSnapshot is a point-in-time aggregate of backend call latencies
// inside the rolling window.
type StatsSnapshot struct {
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Stats tracks backend call latencies and failures within a rolling window.
// Samples arrive in time order, so pruning is a binary search for the
// window cutoff.
type Stats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{maxAge: maxAge}
}

// Record adds one completed call. failed marks calls that returned an
// error; their latency still counts toward the percentiles.
func (s *Stats) Record(d time.Duration, failed bool) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(now)
	s.samples = append(s.samples, sample{at: now, d: d, failed: failed})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(time.Now())
	n := len(s.samples)
	if n == 0 {
		return StatsSnapshot{}
	}

	ms := make([]int64, n)
	var sum int64
	snap := StatsSnapshot{Count: n}
	for i, sm := range s.samples {
		ms[i] = sm.d.Milliseconds()
		sum += ms[i]
		if sm.failed {
			snap.Errors++
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })

	snap.MinMs = ms[0]
	snap.MaxMs = ms[n-1]
	snap.AvgMs = float64(sum) / float64(n)
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	return snap
}

func (s *Stats) prune(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].at.Before(cutoff)
	})
	if keep > 0 {
		s.samples = append(s.samples[:0], s.samples[keep:]...)
	}
}

// percentile linearly interpolates between the two sorted values
// straddling the requested rank.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	rank := float64(len(sorted)-1) * pct / 100
	lo := int(rank)
	if lo == len(sorted)-1 {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[lo+1])*frac
}
