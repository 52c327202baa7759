// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultJudgeTimeout bounds a single judge call.
	defaultJudgeTimeout = 120 * time.Second
	// defaultJudgeRetries defines how many times a judge call is attempted when the config omits the value.
	defaultJudgeRetries = 4
	// defaultJudgeCooldown is the pause between judge retry attempts.
	defaultJudgeCooldown = 2 * time.Second
	// defaultJudgeRatePerMinute caps judge calls within a sliding minute.
	defaultJudgeRatePerMinute = 30
	// defaultJudgeCheckpointEvery controls how often judge verdicts are flushed to disk.
	defaultJudgeCheckpointEvery = 25
	// defaultJudgeCacheSize bounds the in-memory judge verdict cache.
	defaultJudgeCacheSize = 4096
	// defaultGenerationDelay paces sequential narrative requests.
	defaultGenerationDelay = 500 * time.Millisecond
	// defaultGenerationConcurrency is the worker count for parallel narrative generation.
	defaultGenerationConcurrency = 15
	// defaultMinReasoningRunes is the acceptance threshold for generated reasoning.
	defaultMinReasoningRunes = 100
	// defaultTrainPermutations is the number of shuffled copies of each training puzzle.
	defaultTrainPermutations = 3
)

// Config represents the top-level application configuration.
type Config struct {
	Endpoints      []Endpoint `json:"endpoints"`
	DataDir        string     `json:"dataDir,omitempty"`
	Debug          bool       `json:"debug"`
	Metrics        bool       `json:"metrics"`
	TimeoutSeconds int        `json:"timeout,omitempty"`
	LogFile        string     `json:"logFile,omitempty"`
	Generation     Generation `json:"generation"`
	Judge          Judge      `json:"judge"`
	ConfigPath     string     `json:"-"`
}

// Endpoint represents a single chat-completion endpoint that can serve language models.
type Endpoint struct {
	Name       string     `json:"name"`
	URL        string     `json:"url,omitempty"`
	Type       string     `json:"type"`
	APIKeyEnv  string     `json:"apiKeyEnv,omitempty"`
	Models     []string   `json:"models"`
	Parameters Parameters `json:"parameters"`
}

// Parameters defines the set of parameters that can be used to control a language model's behavior.
type Parameters struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// Generation configures the reasoning-narrative stage.
type Generation struct {
	Endpoint          string `json:"endpoint"`
	Model             string `json:"model"`
	Concurrency       int    `json:"concurrency,omitempty"`
	DelayMs           int    `json:"delayMs,omitempty"`
	MinReasoningRunes int    `json:"minReasoningRunes,omitempty"`
	Retries           int    `json:"retries,omitempty"`
	Permutations      int    `json:"permutations,omitempty"`
}

// Judge configures the pairwise LLM-judge stage.
type Judge struct {
	Endpoint        string `json:"endpoint"`
	Model           string `json:"model"`
	RatePerMinute   int    `json:"ratePerMinute,omitempty"`
	Retries         int    `json:"retries,omitempty"`
	CooldownSeconds int    `json:"cooldownSeconds,omitempty"`
	TimeoutSeconds  int    `json:"timeout,omitempty"`
	CheckpointEvery int    `json:"checkpointEvery,omitempty"`
	CacheSize       int    `json:"cacheSize,omitempty"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "syndeo.log"
}

// DataDirPath returns the root directory for generated datasets and reports.
func (c Config) DataDirPath() string {
	if dir := strings.TrimSpace(c.DataDir); dir != "" {
		return dir
	}
	return "data"
}

// EndpointByName returns the endpoint with the given name.
func (c Config) EndpointByName(name string) (Endpoint, error) {
	for _, e := range c.Endpoints {
		if e.Name == name {
			return e, nil
		}
	}
	return Endpoint{}, fmt.Errorf("no endpoint named %q in config", name)
}

// APIKey resolves the endpoint's API key from the environment. An empty
// result means the endpoint is unauthenticated or offline.
func (e Endpoint) APIKey() string {
	if strings.TrimSpace(e.APIKeyEnv) == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(e.APIKeyEnv))
}

// DelayDuration returns the pause between sequential narrative requests.
func (g Generation) DelayDuration() time.Duration {
	if g.DelayMs <= 0 {
		return defaultGenerationDelay
	}
	return time.Duration(g.DelayMs) * time.Millisecond
}

// Workers returns the worker count for parallel narrative generation.
func (g Generation) Workers() int {
	if g.Concurrency <= 0 {
		return defaultGenerationConcurrency
	}
	return g.Concurrency
}

// MinRunes returns the acceptance threshold for generated reasoning text.
func (g Generation) MinRunes() int {
	if g.MinReasoningRunes <= 0 {
		return defaultMinReasoningRunes
	}
	return g.MinReasoningRunes
}

// RetryAttempts returns the configured number of attempts for a narrative call.
func (g Generation) RetryAttempts() int {
	if g.Retries <= 0 {
		return 3
	}
	return g.Retries
}

// TrainPermutations returns how many shuffled copies of each training
// puzzle the narrative stage produces.
func (g Generation) TrainPermutations() int {
	if g.Permutations <= 0 {
		return defaultTrainPermutations
	}
	return g.Permutations
}

// Rate returns the judge call budget per sliding minute.
func (j Judge) Rate() int {
	if j.RatePerMinute <= 0 {
		return defaultJudgeRatePerMinute
	}
	return j.RatePerMinute
}

// RetryAttempts returns the configured number of attempts for a judge call.
func (j Judge) RetryAttempts() int {
	if j.Retries <= 0 {
		return defaultJudgeRetries
	}
	return j.Retries
}

// Cooldown returns the pause between judge retry attempts.
func (j Judge) Cooldown() time.Duration {
	if j.CooldownSeconds <= 0 {
		return defaultJudgeCooldown
	}
	return time.Duration(j.CooldownSeconds) * time.Second
}

// CallTimeout bounds a single judge request.
func (j Judge) CallTimeout() time.Duration {
	if j.TimeoutSeconds <= 0 {
		return defaultJudgeTimeout
	}
	return time.Duration(j.TimeoutSeconds) * time.Second
}

// CheckpointInterval returns how many verdicts accumulate before a checkpoint write.
func (j Judge) CheckpointInterval() int {
	if j.CheckpointEvery <= 0 {
		return defaultJudgeCheckpointEvery
	}
	return j.CheckpointEvery
}

// VerdictCacheSize bounds the in-memory judge verdict cache.
func (j Judge) VerdictCacheSize() int {
	if j.CacheSize <= 0 {
		return defaultJudgeCacheSize
	}
	return j.CacheSize
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if len(config.Endpoints) == 0 {
			return Config{}, errors.New("config must contain at least one endpoint")
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q): %w", DefaultConfigPath, legacyConfigPath, os.ErrNotExist)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, os.ErrNotExist)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := validateConfigBytes(raw); err != nil {
		return Config{}, fmt.Errorf("config file %q is invalid: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
