package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/claude/repcoach/internal/models"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	Fatigue   FatigueConfig   `yaml:"fatigue"`
	Planner   PlannerConfig   `yaml:"planner"`
	Catalogue CatalogueConfig `yaml:"catalogue"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type FatigueConfig struct {
	WindowHours int `yaml:"window_hours"`
}

type PlannerConfig struct {
	DefaultGoal string   `yaml:"default_goal"`
	Equipment   []string `yaml:"equipment"`
}

type CatalogueConfig struct {
	SeedPath string `yaml:"seed_path"`
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

// Window returns the fatigue aggregation window.
func (f FatigueConfig) Window() time.Duration {
	return time.Duration(f.WindowHours) * time.Hour
}

// Goal returns the parsed default goal.
func (p PlannerConfig) Goal() models.WorkoutGoal {
	g, err := models.ParseWorkoutGoal(p.DefaultGoal)
	if err != nil {
		return models.GoalGeneralFitness
	}
	return g
}

// EquipmentSet returns the configured equipment.
func (p PlannerConfig) EquipmentSet() models.EquipmentSet {
	return models.ParseEquipmentSet(p.Equipment)
}

// SlogLevel maps the configured level name to a slog level. Empty means info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix REPCOACH_ and underscore-separated paths:
//
//	REPCOACH_SERVER_HOST, REPCOACH_SERVER_PORT,
//	REPCOACH_DB_HOST, REPCOACH_DB_PORT, REPCOACH_DB_NAME,
//	REPCOACH_DB_USER, REPCOACH_DB_PASSWORD, REPCOACH_DB_SSLMODE,
//	REPCOACH_AUTH_API_KEY, REPCOACH_LOG_LEVEL,
//	REPCOACH_FATIGUE_WINDOW_HOURS, REPCOACH_PLANNER_DEFAULT_GOAL,
//	REPCOACH_PLANNER_EQUIPMENT (comma-separated)
func Load(path string) (*Config, error) {
	cfg := &Config{
		Fatigue: FatigueConfig{WindowHours: 48},
		Planner: PlannerConfig{DefaultGoal: string(models.GoalHypertrophy)},
	}

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
	if v := os.Getenv("REPCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPCOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPCOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPCOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPCOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPCOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPCOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPCOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPCOACH_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("REPCOACH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REPCOACH_FATIGUE_WINDOW_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			cfg.Fatigue.WindowHours = hours
		}
	}
	if v := os.Getenv("REPCOACH_PLANNER_DEFAULT_GOAL"); v != "" {
		cfg.Planner.DefaultGoal = v
	}
	if v := os.Getenv("REPCOACH_PLANNER_EQUIPMENT"); v != "" {
		var items []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		cfg.Planner.Equipment = items
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
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
	// an empty key disables auth, which is only allowed on the tailnet
	if c.Auth.APIKey == "" && !c.Tailscale.Enabled {
		return fmt.Errorf("auth.api_key is required unless tailscale is enabled")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Fatigue.WindowHours <= 0 {
		return fmt.Errorf("fatigue.window_hours must be positive, got %d", c.Fatigue.WindowHours)
	}
	if _, err := models.ParseWorkoutGoal(c.Planner.DefaultGoal); err != nil {
		return fmt.Errorf("planner.default_goal: %w", err)
	}
	for _, e := range c.Planner.Equipment {
		if _, ok := models.ParseEquipment(e); !ok {
			return fmt.Errorf("planner.equipment: unknown item %q", e)
		}
	}
	return nil
}
