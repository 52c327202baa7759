// internal/predict/manifest.go
package predict

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/syndeo/internal/metrics"
)

// ModelStats summarizes one model's pass over the test set.
type ModelStats struct {
	Model            string              `json:"model"`
	File             string              `json:"file"`
	Total            int                 `json:"total"`
	OK               int                 `json:"ok"`
	Failed           int                 `json:"failed"`
	Latency          metrics.RunningStat `json:"latency_ms"`
	LatencyStdDevMS  float64             `json:"latency_stddev_ms"`
	PromptTokens     int                 `json:"prompt_tokens"`
	CompletionTokens int                 `json:"completion_tokens"`
}

// Manifest records the shape of one prediction run so downstream scoring
// and judging can be traced back to the exact inputs that produced the
// files.
type Manifest struct {
	RunID      string       `json:"run_id"`
	Endpoint   string       `json:"endpoint"`
	TestFile   string       `json:"test_file"`
	ConfigPath string       `json:"config_path,omitempty"`
	Examples   int          `json:"examples"`
	Requested  []string     `json:"requested_models"`
	Models     []ModelStats `json:"models"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// NewManifest stamps a fresh run with a unique id.
func NewManifest(opts Options, configPath string, examples int) *Manifest {
	return &Manifest{
		RunID:      uuid.NewString(),
		Endpoint:   opts.Endpoint,
		TestFile:   opts.TestFile,
		ConfigPath: configPath,
		Examples:   examples,
		Requested:  opts.Models,
		StartedAt:  time.Now().UTC(),
	}
}

// Finish stamps the completion time and derives per-model stddev fields,
// which json marshaling cannot compute from the running stats alone.
func (m *Manifest) Finish() {
	m.FinishedAt = time.Now().UTC()
	for i := range m.Models {
		m.Models[i].LatencyStdDevMS = m.Models[i].Latency.StdDev()
	}
}

// Write saves the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
