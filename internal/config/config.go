// Package config provides Viper-based configuration loading for the arena simulation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SimulationConfig holds tick-loop settings.
type SimulationConfig struct {
	// TickInterval is the wall-clock period between simulation frames.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// FixedStep feeds TickInterval as the frame delta instead of the measured elapsed time.
	FixedStep bool `mapstructure:"fixed_step"`
	// Seed seeds the deterministic random source. Zero selects crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// AutoAcquire enables target acquisition for non-champion units without a target.
	AutoAcquire bool `mapstructure:"auto_acquire"`
	// Width and Height bound the playable map in world units.
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// ContentConfig locates the content definitions loaded at startup.
type ContentConfig struct {
	// UnitsDir holds one YAML file per unit model.
	UnitsDir string `mapstructure:"units_dir"`
	// EffectsDir holds one YAML file per status effect definition.
	EffectsDir string `mapstructure:"effects_dir"`
	// RulesFile is the reward rules YAML file.
	RulesFile string `mapstructure:"rules_file"`
	// ScriptRoot holds one subdirectory of Lua scripts per model. Empty disables scripting.
	ScriptRoot string `mapstructure:"script_root"`
	// InstructionLimit caps the Lua opcodes executed per hook invocation.
	InstructionLimit int `mapstructure:"instruction_limit"`
	// WatchScripts reloads a model's scripts when its files change.
	WatchScripts bool `mapstructure:"watch_scripts"`
}

// DatabaseConfig holds PostgreSQL connection settings for the reward journal.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JournalConfig controls persistence of death and reward events.
type JournalConfig struct {
	// Enabled turns on the PostgreSQL journal sink.
	Enabled bool `mapstructure:"enabled"`
	// BufferSize is the number of events buffered before new ones are dropped.
	BufferSize int `mapstructure:"buffer_size"`
	// FlushInterval is the maximum time an event waits before being written.
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Journal    JournalConfig    `mapstructure:"journal"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Journal.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateJournal(c.Journal); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.tick_interval must be > 0, got %s", s.TickInterval))
	}
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.width and simulation.height must be > 0, got %gx%g", s.Width, s.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.UnitsDir == "" {
		errs = append(errs, "content.units_dir must not be empty")
	}
	if c.EffectsDir == "" {
		errs = append(errs, "content.effects_dir must not be empty")
	}
	if c.RulesFile == "" {
		errs = append(errs, "content.rules_file must not be empty")
	}
	if c.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.instruction_limit must be >= 0, got %d", c.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateJournal(j JournalConfig) error {
	if !j.Enabled {
		return nil
	}
	var errs []string
	if j.BufferSize < 1 {
		errs = append(errs, fmt.Sprintf("journal.buffer_size must be >= 1, got %d", j.BufferSize))
	}
	if j.FlushInterval <= 0 {
		errs = append(errs, "journal.flush_interval must be > 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARENA_ prefix
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewViper returns a Viper instance pre-populated with the default configuration.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.tick_interval", "33ms")
	v.SetDefault("simulation.fixed_step", true)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.auto_acquire", true)
	v.SetDefault("simulation.width", 15000.0)
	v.SetDefault("simulation.height", 15000.0)

	v.SetDefault("content.units_dir", "content/units")
	v.SetDefault("content.effects_dir", "content/effects")
	v.SetDefault("content.rules_file", "content/rules.yaml")
	v.SetDefault("content.script_root", "content/scripts")
	v.SetDefault("content.instruction_limit", 0)
	v.SetDefault("content.watch_scripts", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arena")
	v.SetDefault("database.password", "arena")
	v.SetDefault("database.name", "arena")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.buffer_size", 1024)
	v.SetDefault("journal.flush_interval", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
