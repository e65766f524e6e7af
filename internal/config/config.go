package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/claude/presscoach/internal/session"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	History   HistoryConfig   `yaml:"history"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Session   SessionConfig   `yaml:"session"`
	// Defaults, when it has a goal, configures a session at startup.
	Defaults session.Input `yaml:"defaults"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// Storage drivers for workout results.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// HistoryConfig locates the local SQLite workout history.
type HistoryConfig struct {
	Dir string `yaml:"dir"`
}

// MQTTConfig subscribes to landmark frames published by the pose estimator.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Format   string `yaml:"format"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type SessionConfig struct {
	ClockInterval time.Duration `yaml:"clock_interval"`
	FinishOnGoal  bool          `yaml:"finish_on_goal"`
}

// Apply fills in settings the input leaves to the server.
func (s SessionConfig) Apply(in session.Input) session.Input {
	if in.FinishOnGoal == nil {
		v := s.FinishOnGoal
		in.FinishOnGoal = &v
	}
	return in
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

func defaults() *Config {
	return &Config{
		Storage: StorageConfig{Driver: DriverPostgres},
		MQTT: MQTTConfig{
			ClientID: "presscoach",
			Topic:    "presscoach/frames",
			Format:   "json",
		},
		Tailscale: TailscaleConfig{Hostname: "presscoach"},
		Session: SessionConfig{
			ClockInterval: time.Second,
			FinishOnGoal:  true,
		},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix PRESSCOACH_ and underscore-separated paths:
//
//	PRESSCOACH_SERVER_HOST, PRESSCOACH_SERVER_PORT,
//	PRESSCOACH_AUTH_API_KEY, PRESSCOACH_STORAGE_DRIVER,
//	PRESSCOACH_DB_HOST, PRESSCOACH_DB_PORT, PRESSCOACH_DB_NAME,
//	PRESSCOACH_DB_USER, PRESSCOACH_DB_PASSWORD, PRESSCOACH_DB_SSLMODE,
//	PRESSCOACH_HISTORY_DIR,
//	PRESSCOACH_MQTT_ENABLED, PRESSCOACH_MQTT_BROKER, PRESSCOACH_MQTT_TOPIC,
//	PRESSCOACH_TAILSCALE_ENABLED
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PRESSCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PRESSCOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PRESSCOACH_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("PRESSCOACH_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("PRESSCOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PRESSCOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PRESSCOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PRESSCOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PRESSCOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PRESSCOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("PRESSCOACH_HISTORY_DIR"); v != "" {
		cfg.History.Dir = v
	}
	if v := os.Getenv("PRESSCOACH_MQTT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.Enabled = b
		}
	}
	if v := os.Getenv("PRESSCOACH_MQTT_BROKER"); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv("PRESSCOACH_MQTT_TOPIC"); v != "" {
		cfg.MQTT.Topic = v
	}
	if v := os.Getenv("PRESSCOACH_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	case DriverSQLite:
		if c.History.Dir == "" {
			return fmt.Errorf("history.dir is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of postgres, sqlite", c.Storage.Driver)
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if c.MQTT.Topic == "" {
			return fmt.Errorf("mqtt.topic is required when mqtt is enabled")
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
		}
		if c.MQTT.Format != "json" && c.MQTT.Format != "msgpack" {
			return fmt.Errorf("mqtt.format %q is not one of json, msgpack", c.MQTT.Format)
		}
	}

	if c.Session.ClockInterval <= 0 {
		return fmt.Errorf("session.clock_interval must be positive")
	}

	if c.Defaults.Goal != "" {
		if _, err := c.Session.Apply(c.Defaults).Parse(); err != nil {
			return fmt.Errorf("defaults: %w", err)
		}
	}
	return nil
}
