package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default values
const (
	DefaultDownloadDir     = "downloads"
	DefaultMaxFileSizeMB   = 2000
	DefaultMaxParallel     = 2
	DefaultDeliveredTTLMin = 2
	DefaultSweepTTLMin     = 2
	DefaultScheduleStart   = "08:00"
	DefaultScheduleEnd     = "23:00"

	MinParallel = 1
	MaxParallel = 10

	DefaultConfigFile = "config.yaml"
)

// Config is the persisted configuration record: bot credential, admin
// allow-list, size ceiling, storage paths, and retention settings.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`

	DownloadDir          string `yaml:"download_dir"`
	MaxParallelDownloads int    `yaml:"max_parallel_downloads"`

	// Minutes a delivered file stays on disk before the lifecycle manager
	// deletes it.
	DeliveredTTLMinutes int `yaml:"delivered_ttl_minutes"`

	// Fallback age for the periodic sweep: files in the download directory
	// that were never tracked are removed once older than this.
	SweepTTLMinutes int `yaml:"sweep_ttl_minutes"`

	// RemuxEnabled turns on the optional ffmpeg remux of containers outside
	// the accepted set. Off by default; files are delivered as produced.
	RemuxEnabled bool `yaml:"remux_enabled"`

	Schedule ScheduleConfig `yaml:"schedule"`
}

// TelegramConfig holds the bot credential and transport limits.
type TelegramConfig struct {
	Token         string  `yaml:"token"`
	AdminIDs      []int64 `yaml:"admin_ids"`
	MaxFileSizeMB float64 `yaml:"max_file_size_mb"`
}

// ScheduleConfig is the optional weekly availability window applied at
// startup. The /schedule command edits the live gate, not this record.
type ScheduleConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Start    string   `yaml:"start"` // "08:00"
	End      string   `yaml:"end"`   // "23:00"
	Weekdays []string `yaml:"weekdays,omitempty"`
}

// Load reads the YAML config at path. When the file does not exist, a config
// with defaults is written there and returned, so a first run leaves an
// editable file behind.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// IsAdmin reports whether the user id is on the admin allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// MaxFileSizeBytes returns the size ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Telegram.MaxFileSizeMB * 1024 * 1024)
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills missing fields and clamps out-of-range values.
func (c *Config) applyDefaults() {
	if c.Telegram.MaxFileSizeMB <= 0 {
		c.Telegram.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if c.DownloadDir == "" {
		c.DownloadDir = DefaultDownloadDir
	}
	if c.MaxParallelDownloads < MinParallel {
		c.MaxParallelDownloads = DefaultMaxParallel
	}
	if c.MaxParallelDownloads > MaxParallel {
		c.MaxParallelDownloads = MaxParallel
	}
	if c.DeliveredTTLMinutes <= 0 {
		c.DeliveredTTLMinutes = DefaultDeliveredTTLMin
	}
	if c.SweepTTLMinutes <= 0 {
		c.SweepTTLMinutes = DefaultSweepTTLMin
	}
	if c.Schedule.Start == "" {
		c.Schedule.Start = DefaultScheduleStart
	}
	if c.Schedule.End == "" {
		c.Schedule.End = DefaultScheduleEnd
	}
}
