package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error returned from this package.
var ErrInvalid = errors.New("invalid configuration")

// Server holds all configuration for the bounty server process.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	LogLevel string `yaml:"log_level"` // debug|info|warn|error

	// Host engine bridge
	Bridge BridgeConfig `yaml:"bridge"`

	// Match history
	Database DatabaseConfig `yaml:"database"`
}

// BridgeConfig holds settings of the host engine WebSocket bridge.
type BridgeConfig struct {
	Secret        string        `yaml:"secret"`          // HS256 key shared with the host
	ServerID      string        `yaml:"server_id"`       // expected "srv" claim, empty = any
	SendQueueSize int           `yaml:"send_queue_size"` // outbound command buffer
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	PongTimeout   time.Duration `yaml:"pong_timeout"`
	MaxMessage    int64         `yaml:"max_message"` // bytes
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// DatabaseConfig holds match-history storage parameters.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres|sqlite|none
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // sqlite file

	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return "file:" + d.Path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress: "0.0.0.0",
		Port:        7780,
		LogLevel:    "info",
		Bridge: BridgeConfig{
			SendQueueSize: 1024,
			WriteTimeout:  5 * time.Second,
			PongTimeout:   60 * time.Second,
			MaxMessage:    64 << 10,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Host:         "127.0.0.1",
			Port:         5432,
			User:         "bounty",
			Password:     "bounty",
			DBName:       "bounty",
			SSLMode:      "disable",
			Path:         "bountyhunter.db",
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Validate checks Server for values the process cannot run with.
func (s Server) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, s.Port)
	}
	if s.Bridge.Secret == "" {
		return fmt.Errorf("%w: bridge.secret is required", ErrInvalid)
	}
	if s.Bridge.SendQueueSize <= 0 {
		return fmt.Errorf("%w: bridge.send_queue_size must be positive", ErrInvalid)
	}
	switch s.Database.Driver {
	case DriverPostgres, DriverNone:
	case DriverSQLite:
		if s.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalid, s.Database.Driver)
	}
	return nil
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func load(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}
