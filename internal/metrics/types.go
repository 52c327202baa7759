// internal/metrics/types.go
package metrics

import (
	"math"
	"time"
)

// ModelMetrics is the top-level document for a single model's aggregated data.
type ModelMetrics struct {
	ModelName          string                 `json:"model_name"`
	LastUpdatedUTC     time.Time              `json:"last_updated_utc"`
	OverallStats       RunningAggregatedStats `json:"overall_stats"`
	PerformanceBuckets []PerformanceBucket    `json:"performance_buckets"`
}

// PerformanceBucket holds aggregated stats for a specific dimension, like input token count.
type PerformanceBucket struct {
	Dimension string                 `json:"dimension"`
	Bucket    string                 `json:"bucket"`
	Stats     RunningAggregatedStats `json:"stats"`
}

// RunningAggregatedStats stores the running statistical values for a set of metrics.
// It uses Welford's online algorithm for calculating mean and standard deviation.
type RunningAggregatedStats struct {
	TotalRequests int64 `json:"total_requests"`

	LatencyMillis   RunningStat `json:"latency_ms"`
	TokensPerSecond RunningStat `json:"tokens_per_second"`
	InputTokens     RunningStat `json:"input_tokens"`
	OutputTokens    RunningStat `json:"output_tokens"`
}

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"-"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Observe folds one value into the running statistics.
func (rs *RunningStat) Observe(value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min, rs.Max = value, value
	} else {
		rs.Min = math.Min(rs.Min, value)
		rs.Max = math.Max(rs.Max, value)
	}
	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	rs.M2 += delta * (value - rs.Mean)
}

// StdDev returns the sample standard deviation of the recorded values.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
