package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Accent database
	DBPath       string `yaml:"db_path"`
	DictDir      string `yaml:"dict_dir"`
	DictGlob     string `yaml:"dict_glob"`
	PreferSource string `yaml:"prefer_source"`

	// Rendering
	InlineRubyBudget int `yaml:"inline_ruby_budget"`

	// Audio sources
	AudioLanguage           string   `yaml:"audio_language"`
	AudioPreferredUsers     []string `yaml:"audio_preferred_users"`
	AudioPreferredCountries []string `yaml:"audio_preferred_countries"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// Dictionary downloads
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	FetchAttempts int           `yaml:"fetch_attempts"`

	// Request limits
	MaxRequestBytes int64 `yaml:"max_request_bytes"`
}

// Load builds the configuration. An optional YAML file, pointed at by
// PITCHCARD_CONFIG, supplies base values; environment variables override
// every field.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("PITCHCARD_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("PITCHCARD_API_KEY", cfg.APIKey)
	cfg.DBPath = envOr("PITCHCARD_DB_PATH", cfg.DBPath)
	cfg.DictDir = envOr("PITCHCARD_DICT_DIR", cfg.DictDir)
	cfg.DictGlob = envOr("PITCHCARD_DICT_GLOB", cfg.DictGlob)
	cfg.PreferSource = envOr("PITCHCARD_PREFER_SOURCE", cfg.PreferSource)
	cfg.InlineRubyBudget = envInt("INLINE_RUBY_BUDGET", cfg.InlineRubyBudget)
	cfg.AudioLanguage = envOr("AUDIO_LANGUAGE", cfg.AudioLanguage)
	cfg.AudioPreferredUsers = envList("AUDIO_PREFERRED_USERS", cfg.AudioPreferredUsers)
	cfg.AudioPreferredCountries = envList("AUDIO_PREFERRED_COUNTRIES", cfg.AudioPreferredCountries)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.FetchTimeout = envDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FetchAttempts = envInt("FETCH_ATTEMPTS", cfg.FetchAttempts)
	cfg.MaxRequestBytes = envInt64("MAX_REQUEST_BYTES", cfg.MaxRequestBytes)

	if cfg.InlineRubyBudget <= 0 {
		cfg.InlineRubyBudget = 2
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.FetchAttempts <= 0 {
		cfg.FetchAttempts = 3
	}
	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = 10485760
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:             "8090",
		DBPath:           "data/accents.db",
		DictDir:          "data/dicts",
		DictGlob:         "**/*.tsv",
		AudioLanguage:    "ja",
		InlineRubyBudget: 2,
		WorkerCount:      4,
		MaxQueueSize:     100,
		JobTTL:           1 * time.Hour,
		FetchTimeout:     30 * time.Second,
		FetchAttempts:    3,
		MaxRequestBytes:  10485760, // 10MB
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PITCHCARD_API_KEY is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("PITCHCARD_DB_PATH is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
