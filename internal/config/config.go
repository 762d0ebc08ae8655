package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	cm.v.SetDefault("extract.extension", defaults.Extract.Extension)
	cm.v.SetDefault("extract.workers", defaults.Extract.Workers)
	cm.v.SetDefault("extract.dpi", defaults.Extract.DPI)
	cm.v.SetDefault("extract.min_confidence", defaults.Extract.MinConfidence)
	cm.v.SetDefault("extract.languages", defaults.Extract.Languages)
	cm.v.SetDefault("extract.poll_interval_ms", defaults.Extract.PollIntervalMS)
	cm.v.SetDefault("extract.document_timeout_seconds", defaults.Extract.DocumentTimeoutSeconds)
	cm.v.SetDefault("ocr.tessdata_prefix", defaults.OCR.TessdataPrefix)
	cm.v.SetDefault("server.host", defaults.Server.Host)
	cm.v.SetDefault("server.port", defaults.Server.Port)
	cm.v.SetDefault("log.level", defaults.Log.Level)
	cm.v.SetDefault("log.format", defaults.Log.Format)

	// Environment variables with PDFSIFT_ prefix, e.g. PDFSIFT_EXTRACT_WORKERS
	cm.v.SetEnvPrefix("PDFSIFT")
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("config")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		cm.v.AddConfigPath("$HOME/.pdfsift")
	}

	// Try to read config file (not required)
	if err := cm.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the file viper loaded, or "" when running on defaults.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
// Invalid edits are logged and the previous config stays in effect.
func (cm *Manager) WatchConfig(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			logger.Warn("ignoring invalid config change", "file", e.Name, "error", err)
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		logger.Info("config reloaded", "file", e.Name)
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Extract.Workers < 1 {
		return fmt.Errorf("extract.workers must be at least 1, got %d", c.Extract.Workers)
	}
	if c.Extract.DPI < 1 {
		return fmt.Errorf("extract.dpi must be positive, got %d", c.Extract.DPI)
	}
	if c.Extract.MinConfidence < 0 || c.Extract.MinConfidence > 100 {
		return fmt.Errorf("extract.min_confidence must be within 0..100, got %d", c.Extract.MinConfidence)
	}
	if c.Extract.PollIntervalMS < 1 {
		return fmt.Errorf("extract.poll_interval_ms must be positive, got %d", c.Extract.PollIntervalMS)
	}
	if c.Extract.DocumentTimeoutSeconds < 0 {
		return fmt.Errorf("extract.document_timeout_seconds must not be negative")
	}
	if !strings.HasPrefix(c.Extract.Extension, ".") {
		return fmt.Errorf("extract.extension must start with '.', got %q", c.Extract.Extension)
	}
	return nil
}

// PollInterval returns the pause/cancel sampling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Extract.PollIntervalMS) * time.Millisecond
}

// DocumentTimeout returns the per-document deadline, zero when disabled.
func (c *Config) DocumentTimeout() time.Duration {
	return time.Duration(c.Extract.DocumentTimeoutSeconds) * time.Second
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# pdfsift configuration
# ocr.tessdata_prefix uses ${ENV_VAR} syntax; leave it unset to use Tesseract's built-in path.
# Every key can also be set as PDFSIFT_<SECTION>_<KEY>, e.g. PDFSIFT_EXTRACT_WORKERS=8

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
