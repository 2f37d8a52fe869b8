package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lucabarin/turnario/pkg/core/rotation"
)

// RotationPair is one week of the fixed on-call cycle
type RotationPair struct {
	Technician string `yaml:"technician" validate:"required"`
	Helper     string `yaml:"helper" validate:"required"`
}

// RotationConfig anchors the 4-week on-call cycle. The anchor must be a
// Friday: on-call blocks change every Friday.
type RotationConfig struct {
	Anchor string         `yaml:"anchor" validate:"required,datetime=2006-01-02"`
	Pairs  []RotationPair `yaml:"pairs" validate:"required,len=4,dive"`
}

// OnCallShiftConfig shapes the shifts generated by the rotation sync job
type OnCallShiftConfig struct {
	Start           string `yaml:"start" validate:"required"`
	End             string `yaml:"end" validate:"required"`
	SeatsTechnician int    `yaml:"seatsTechnician" validate:"min=1"`
	SeatsHelper     int    `yaml:"seatsHelper" validate:"min=1"`
}

// ActivitySheetConfig selects and parameterizes the daily activity source
type ActivitySheetConfig struct {
	Source        string `yaml:"source" validate:"required,oneof=gsheets xlsx"`
	SpreadsheetID string `yaml:"spreadsheetID,omitempty" validate:"required_if=Source gsheets"`
	WorkbookDir   string `yaml:"workbookDir,omitempty" validate:"required_if=Source xlsx"`
}

// KafkaConfig points the notification sink at its broker
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" validate:"required,min=1,dive,hostname_port"`
	Topic   string   `yaml:"topic" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL   string              `yaml:"databaseURL" validate:"required"`
	Timezone      string              `yaml:"timezone" validate:"required"`
	Rotation      RotationConfig      `yaml:"rotation"`
	OnCallShift   OnCallShiftConfig   `yaml:"oncallShift"`
	ActivitySheet ActivitySheetConfig `yaml:"activitySheet"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	ExcludedPdL   []string            `yaml:"excludedPdL,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from turnario_config.yaml.
// It looks in the current directory first, then in the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the rotation calendar and the
// timezone name
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.RotationCalendar(); err != nil {
		return fmt.Errorf("invalid rotation config: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	return nil
}

// RotationCalendar builds the immutable on-call calendar from the config.
// Loaded once at process start; nothing mutates the rotation afterwards.
func (c *Config) RotationCalendar() (*rotation.Calendar, error) {
	anchor, err := time.Parse("2006-01-02", c.Rotation.Anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rotation anchor: %w", err)
	}

	pairs := make([]rotation.Pair, 0, len(c.Rotation.Pairs))
	for _, p := range c.Rotation.Pairs {
		pairs = append(pairs, rotation.Pair{
			Technician: rotation.Entry{Surname: p.Technician, Role: "technician"},
			Helper:     rotation.Entry{Surname: p.Helper, Role: "helper"},
		})
	}

	return rotation.NewCalendar(anchor, pairs)
}

// Location returns the configured timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// findConfigFile searches for turnario_config.yaml in the current directory
// and the home directory
func findConfigFile() (string, error) {
	configFileName := "turnario_config.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
