package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Tasks     TasksConfig     `yaml:"tasks"`
	Inventory InventoryConfig `yaml:"inventory"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

type GRPCConfig struct {
	Address string `yaml:"address"` // e.g. ":50051"
}

// HTTPConfig is the ops listener serving /healthz and /metrics.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// TasksConfig tunes the task workflow.
type TasksConfig struct {
	MaxActivePerRescuer    int     `yaml:"max_active_per_rescuer"`
	CompletionRadiusMeters float64 `yaml:"completion_radius_meters"`
	// EnforceProximity re-checks the distance gate when a task is completed.
	EnforceProximity bool `yaml:"enforce_proximity"`
	// ReverseInventoryOnDelete undoes a completed task's stock change when it is deleted.
	ReverseInventoryOnDelete bool `yaml:"reverse_inventory_on_delete"`
}

// NegativeStockPolicy decides what a request fulfilment does to stock that would go below zero.
type NegativeStockPolicy string

const (
	NegativeStockClamp NegativeStockPolicy = "clamp"
	NegativeStockAllow NegativeStockPolicy = "allow"
)

type InventoryConfig struct {
	NegativeStock NegativeStockPolicy `yaml:"negative_stock"`
}

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "relief.db"},
		GRPC:     GRPCConfig{Address: ":50051"},
		HTTP:     HTTPConfig{Address: ":8080"},
		Log:      LogConfig{Level: "info"},
		Tasks: TasksConfig{
			MaxActivePerRescuer:    4,
			CompletionRadiusMeters: 500,
			EnforceProximity:       true,
		},
		Inventory: InventoryConfig{NegativeStock: NegativeStockClamp},
	}
}

// Load reads the optional YAML file at path (empty skips it), then applies
// environment overrides. JWT_SECRET is required.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but falls back to a development JWT secret.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		path = getEnv("CONFIG_FILE", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.GRPC.Address = getEnv("GRPC_ADDRESS", c.GRPC.Address)
	c.HTTP.Address = getEnv("HTTP_ADDRESS", c.HTTP.Address)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Inventory.NegativeStock = NegativeStockPolicy(getEnv("NEGATIVE_STOCK", string(c.Inventory.NegativeStock)))

	var err error
	if c.Log.Development, err = getEnvBool("LOG_DEVELOPMENT", c.Log.Development); err != nil {
		return err
	}
	if c.Tasks.MaxActivePerRescuer, err = getEnvInt("MAX_ACTIVE_TASKS", c.Tasks.MaxActivePerRescuer); err != nil {
		return err
	}
	if c.Tasks.CompletionRadiusMeters, err = getEnvFloat("COMPLETION_RADIUS_METERS", c.Tasks.CompletionRadiusMeters); err != nil {
		return err
	}
	if c.Tasks.EnforceProximity, err = getEnvBool("ENFORCE_PROXIMITY", c.Tasks.EnforceProximity); err != nil {
		return err
	}
	if c.Tasks.ReverseInventoryOnDelete, err = getEnvBool("REVERSE_INVENTORY_ON_DELETE", c.Tasks.ReverseInventoryOnDelete); err != nil {
		return err
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Tasks.MaxActivePerRescuer <= 0 {
		return fmt.Errorf("tasks.max_active_per_rescuer must be positive, got %d", c.Tasks.MaxActivePerRescuer)
	}
	if c.Tasks.CompletionRadiusMeters <= 0 {
		return fmt.Errorf("tasks.completion_radius_meters must be positive, got %v", c.Tasks.CompletionRadiusMeters)
	}
	switch c.Inventory.NegativeStock {
	case NegativeStockClamp, NegativeStockAllow:
	default:
		return fmt.Errorf("inventory.negative_stock must be %q or %q, got %q", NegativeStockClamp, NegativeStockAllow, c.Inventory.NegativeStock)
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, gRPC: %s, HTTP: %s, MaxActive: %d, Radius: %.0fm, EnforceProximity: %t, Auth: *** (masked) ***}",
		c.Database.Path, c.GRPC.Address, c.HTTP.Address, c.Tasks.MaxActivePerRescuer, c.Tasks.CompletionRadiusMeters, c.Tasks.EnforceProximity)
}
