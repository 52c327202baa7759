// internal/metrics/aggregator.go
package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mwiater/syndeo/internal/logging"
	"github.com/mwiater/syndeo/internal/providers"
)

// Aggregator collects and manages performance metrics for models.
type Aggregator struct {
	mutex    sync.Mutex
	metrics  map[string]*ModelMetrics
	filePath string
	ticker   *time.Ticker
}

var (
	instance *Aggregator
	once     sync.Once
)

// GetInstance returns the singleton instance of the Aggregator.
func GetInstance() *Aggregator {
	once.Do(func() {
		instance = NewAggregator()
	})
	return instance
}

// NewAggregator creates and initializes a new Aggregator.
func NewAggregator() *Aggregator {
	agg := &Aggregator{
		metrics:  make(map[string]*ModelMetrics),
		filePath: "reports/data/model_performance_metrics.json",
	}

	agg.load()

	agg.ticker = time.NewTicker(1 * time.Minute)
	go func() {
		for range agg.ticker.C {
			agg.save()
		}
	}()

	return agg
}

// load reads metrics from the JSON file into memory.
func (a *Aggregator) load() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	data, err := os.ReadFile(a.filePath)
	if err != nil {
		return
	}

	var metricsSlice []*ModelMetrics
	if err := json.Unmarshal(data, &metricsSlice); err != nil {
		return
	}

	for _, m := range metricsSlice {
		a.metrics[m.ModelName] = m
	}
}

// save writes the current metrics from memory to the JSON file.
func (a *Aggregator) save() {
	logging.LogEvent("[METRICS] Saving metrics to %s", a.filePath)
	a.mutex.Lock()
	defer a.mutex.Unlock()

	var metricsSlice []*ModelMetrics
	for _, m := range a.metrics {
		metricsSlice = append(metricsSlice, m)
	}

	data, err := json.MarshalIndent(metricsSlice, "", "  ")
	if err != nil {
		return
	}

	_ = os.MkdirAll(filepath.Dir(a.filePath), 0o755)
	os.WriteFile(a.filePath, data, 0644)
}

// Record updates the metrics for a given model with a completed call.
func (a *Aggregator) Record(resp providers.ChatResponse) {
	logging.LogEvent("[METRICS] Record called for model %s", resp.Model)
	a.mutex.Lock()
	defer a.mutex.Unlock()

	modelMetrics, exists := a.metrics[resp.Model]
	if !exists {
		modelMetrics = &ModelMetrics{
			ModelName: resp.Model,
		}
		a.metrics[resp.Model] = modelMetrics
	}

	modelMetrics.LastUpdatedUTC = time.Now().UTC()

	updateStats(&modelMetrics.OverallStats, resp)

	bucket := getBucket(resp.PromptTokens)
	found := false
	for i := range modelMetrics.PerformanceBuckets {
		if modelMetrics.PerformanceBuckets[i].Dimension == "input_tokens" && modelMetrics.PerformanceBuckets[i].Bucket == bucket {
			updateStats(&modelMetrics.PerformanceBuckets[i].Stats, resp)
			found = true
			break
		}
	}
	if !found {
		newBucket := PerformanceBucket{
			Dimension: "input_tokens",
			Bucket:    bucket,
			Stats:     RunningAggregatedStats{},
		}
		updateStats(&newBucket.Stats, resp)
		modelMetrics.PerformanceBuckets = append(modelMetrics.PerformanceBuckets, newBucket)
	}
}

// Snapshot returns a copy of the aggregated metrics for every model seen so far.
func (a *Aggregator) Snapshot() []ModelMetrics {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]ModelMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		out = append(out, *m)
	}
	return out
}

// updateStats updates the running statistics with a completed call.
func updateStats(stats *RunningAggregatedStats, resp providers.ChatResponse) {
	stats.TotalRequests++
	stats.LatencyMillis.Observe(float64(resp.Duration.Milliseconds()))

	var tokensPerSecond float64
	if resp.Duration > 0 {
		tokensPerSecond = float64(resp.CompletionTokens) / resp.Duration.Seconds()
	}
	stats.TokensPerSecond.Observe(tokensPerSecond)

	stats.InputTokens.Observe(float64(resp.PromptTokens))
	stats.OutputTokens.Observe(float64(resp.CompletionTokens))
}

// getBucket determines the appropriate performance bucket for a given number of input tokens.
func getBucket(inputTokens int) string {
	switch {
	case inputTokens <= 256:
		return "0-256"
	case inputTokens <= 1024:
		return "257-1024"
	case inputTokens <= 4096:
		return "1025-4096"
	case inputTokens <= 8192:
		return "4097-8192"
	default:
		return "8192+"
	}
}

// Close stops the ticker and saves the metrics.
func (a *Aggregator) Close() {
	a.ticker.Stop()
	a.save()
}

// Close gracefully shuts down the singleton aggregator instance.
func Close() {
	if instance != nil {
		instance.Close()
	}
}
