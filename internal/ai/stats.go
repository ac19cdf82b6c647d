package ai

import (
	"math"
	"sync"
	"time"
)

// Stats is a point-in-time view of the generator usage.
type Stats struct {
	TotalRequests   int       `json:"total_requests"`
	Successful      int       `json:"successful_generations"`
	Failed          int       `json:"failed_generations"`
	SuccessRate     float64   `json:"success_rate"`
	AvgResponseTime float64   `json:"avg_response_time"`
	UpdatedAt       time.Time `json:"last_updated"`
}

type statsRecorder struct {
	mu         sync.Mutex
	total      int
	successful int
	failed     int
	avgSeconds float64
	updatedAt  time.Time
}

func (r *statsRecorder) record(success bool, elapsed time.Duration, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	if success {
		r.successful++
	} else {
		r.failed++
	}
	r.avgSeconds += (elapsed.Seconds() - r.avgSeconds) / float64(r.total)
	r.updatedAt = at
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{
		TotalRequests:   r.total,
		Successful:      r.successful,
		Failed:          r.failed,
		AvgResponseTime: round2(r.avgSeconds),
		UpdatedAt:       r.updatedAt,
	}
	if r.total > 0 {
		s.SuccessRate = round2(float64(r.successful) / float64(r.total) * 100)
	}
	return s
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
