package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Booking    BookingConfig    `yaml:"booking"`
	Photos     PhotoConfig      `yaml:"photos"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// RefreshConfig holds the dashboard alert refresh loop configuration.
type RefreshConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// BookingConfig holds the reservation/availability configuration.
type BookingConfig struct {
	SlotStepMinutes    int    `yaml:"slot_step_minutes"`
	AdvanceBookingDays int    `yaml:"advance_booking_days"`
	Timezone           string `yaml:"timezone"`
}

// PhotoConfig holds the photo upload storage configuration.
type PhotoConfig struct {
	Dir          string `yaml:"dir"`
	BaseURL      string `yaml:"base_url"`
	MaxSizeBytes int64  `yaml:"max_size_bytes"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Refresh.IntervalSeconds <= 0 {
		cfg.Refresh.IntervalSeconds = 15
	}
	cfg.Refresh.Interval = time.Duration(cfg.Refresh.IntervalSeconds) * time.Second

	if cfg.Booking.SlotStepMinutes <= 0 {
		cfg.Booking.SlotStepMinutes = 30
	}
	if cfg.Booking.AdvanceBookingDays <= 0 {
		cfg.Booking.AdvanceBookingDays = 30
	}
	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "Europe/Paris"
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Photos.Dir == "" {
		cfg.Photos.Dir = "./uploads"
	}
	if cfg.Photos.BaseURL == "" {
		cfg.Photos.BaseURL = "/uploads"
	}
	if cfg.Photos.MaxSizeBytes <= 0 {
		cfg.Photos.MaxSizeBytes = 5 << 20
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
