// Package config provides the configuration structure for the aivoice-service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/book-expert/aivoice-service/aivoice"
	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultPollInterval  = 10 * time.Millisecond
	defaultOutputDir     = "output"
	defaultMetricsListen = ":9464"
)

// AIVoiceConfig holds the settings for the host program and synthesis defaults.
type AIVoiceConfig struct {
	HostName           string `toml:"host_name"            env:"HOST_NAME"`
	StartHost          bool   `toml:"start_host"           env:"START_HOST"`
	DefaultVoice       string `toml:"default_voice"        env:"DEFAULT_VOICE"`
	DefaultStyle       string `toml:"default_style"        env:"DEFAULT_STYLE"`
	OutputDir          string `toml:"output_dir"           env:"OUTPUT_DIR"`
	WaitTimeoutSeconds int    `toml:"wait_timeout_seconds" env:"WAIT_TIMEOUT_SECONDS"`
	PollIntervalMillis int    `toml:"poll_interval_ms"     env:"POLL_INTERVAL_MS"`
}

// WaitTimeout returns how long to wait for a synthesis to finish. Zero means no limit.
func (c AIVoiceConfig) WaitTimeout() time.Duration {
	if c.WaitTimeoutSeconds <= 0 {
		return 0
	}

	return time.Duration(c.WaitTimeoutSeconds) * time.Second
}

// Style parses DefaultStyle. An empty value is the normal style.
func (c AIVoiceConfig) Style() (aivoice.Style, error) {
	if c.DefaultStyle == "" {
		return aivoice.StyleNormal, nil
	}

	style, err := aivoice.ParseStyle(c.DefaultStyle)
	if err != nil {
		return aivoice.StyleNormal, fmt.Errorf("invalid default_style: %w", err)
	}

	return style, nil
}

// PollInterval returns the host status polling interval.
func (c AIVoiceConfig) PollInterval() time.Duration {
	if c.PollIntervalMillis <= 0 {
		return defaultPollInterval
	}

	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

// OutputDirectory returns where the CLI writes audio when no path is given.
func (c AIVoiceConfig) OutputDirectory() string {
	if c.OutputDir == "" {
		return defaultOutputDir
	}

	return c.OutputDir
}

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                      string `toml:"url"                         env:"URL"`
	TTSConsumerName          string `toml:"tts_consumer_name"           env:"CONSUMER_NAME"`
	TextProcessedSubject     string `toml:"text_processed_subject"      env:"TEXT_PROCESSED_SUBJECT"`
	AudioChunkCreatedSubject string `toml:"audio_chunk_created_subject" env:"AUDIO_CHUNK_CREATED_SUBJECT"`
	AudioObjectStoreBucket   string `toml:"audio_object_store_bucket"   env:"AUDIO_BUCKET"`
	TextObjectStoreBucket    string `toml:"text_object_store_bucket"    env:"TEXT_BUCKET"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir" env:"LOGS_DIR"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	ListenAddr string `toml:"listen_addr" env:"METRICS_ADDR"`
}

// Address returns the metrics listen address.
func (c MetricsConfig) Address() string {
	if c.ListenAddr == "" {
		return defaultMetricsListen
	}

	return c.ListenAddr
}

// Config is the root configuration structure. Environment variables such as
// AIVOICE_HOST_NAME or NATS_URL override the file.
type Config struct {
	AIVoice AIVoiceConfig `toml:"aivoice" envPrefix:"AIVOICE_"`
	NATS    NATSConfig    `toml:"nats"    envPrefix:"NATS_"`
	Paths   PathsConfig   `toml:"paths"   envPrefix:"AIVOICE_"`
	Metrics MetricsConfig `toml:"metrics" envPrefix:"AIVOICE_"`
}

// Load loads the configuration for the aivoice-service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	err = ApplyEnvironment(&cfg, nil)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile reads the configuration from an explicit TOML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	var cfg Config

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}

	err = ApplyEnvironment(&cfg, nil)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnvironment overrides cfg with the variables in environment. A nil map
// reads the process environment.
func ApplyEnvironment(cfg *Config, environment map[string]string) error {
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}

	err := env.ParseWithOptions(cfg, opts)
	if err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return nil
}
