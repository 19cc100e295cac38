// Package config loads the contactform settings. Sources apply in order:
// built-in defaults, an optional .env file, an optional YAML file and finally
// CONTACTFORM_ prefixed environment variables. The merged result is validated
// before it is returned.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONTACTFORM_"

// DefaultEnvFile is read when present in the working directory.
const DefaultEnvFile = ".env"

type Config struct {
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Form   FormConfig   `yaml:"form" envPrefix:"FORM_"`
	Theme  ThemeConfig  `yaml:"theme" envPrefix:"THEME_"`
	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR" validate:"required"`
	BasePath        string        `yaml:"base_path" env:"BASE_PATH"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"MAX_BODY_BYTES" validate:"gt=0"`
}

type FormConfig struct {
	// SubmitDelay must be positive; the form session treats zero as unset.
	SubmitDelay      time.Duration `yaml:"submit_delay" env:"SUBMIT_DELAY" validate:"gt=0"`
	SuccessText      string        `yaml:"success_text" env:"SUCCESS_TEXT" validate:"required"`
	Honeypot         string        `yaml:"honeypot" env:"HONEYPOT" validate:"omitempty,alphanum"`
	NameMinLength    int           `yaml:"name_min_length" env:"NAME_MIN_LENGTH" validate:"gte=1"`
	MessageMinLength int           `yaml:"message_min_length" env:"MESSAGE_MIN_LENGTH" validate:"gte=1"`
	MaxAttempts      int           `yaml:"max_attempts" env:"MAX_ATTEMPTS" validate:"gte=0"`
}

type ThemeConfig struct {
	Variant string `yaml:"variant" env:"VARIANT" validate:"omitempty,oneof=light dark"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    64 << 10,
		},
		Form: FormConfig{
			SubmitDelay:      2 * time.Second,
			SuccessText:      "Thank you for reaching out! I'll get back to you within 24 hours.",
			Honeypot:         "website",
			NameMinLength:    2,
			MessageMinLength: 10,
			MaxAttempts:      3,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. An empty path skips the YAML file; a missing
// .env file is not an error.
func Load(path string) (Config, error) {
	return LoadWithEnvFile(path, DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit .env location. Variables already
// present in the environment are never overwritten by the file.
func LoadWithEnvFile(path, envFile string) (Config, error) {
	cfg := Default()

	if envFile = strings.TrimSpace(envFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Theme.Variant = strings.ToLower(strings.TrimSpace(cfg.Theme.Variant))

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints on cfg.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
