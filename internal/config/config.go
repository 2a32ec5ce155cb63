package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Session  SessionConfig  `mapstructure:"session"`
	Emulator EmulatorConfig `mapstructure:"emulator"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// StoreConfig holds the bills backend connection settings
type StoreConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig identifies the connected employee
type SessionConfig struct {
	Email string `mapstructure:"email"`
}

// EmulatorConfig holds the development backend emulator settings
type EmulatorConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	DatabasePath string        `mapstructure:"database_path"`
	UploadDir    string        `mapstructure:"upload_dir"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ExportConfig holds listing export settings
type ExportConfig struct {
	OutputPath string `mapstructure:"output_path"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Store defaults
	viper.SetDefault("store.base_url", "http://localhost:5678")
	viper.SetDefault("store.timeout", 30*time.Second)

	// Emulator defaults
	viper.SetDefault("emulator.host", "0.0.0.0")
	viper.SetDefault("emulator.port", 5678)
	viper.SetDefault("emulator.database_path", "data/billed.db")
	viper.SetDefault("emulator.upload_dir", "data/receipts")
	viper.SetDefault("emulator.read_timeout", 30*time.Second)
	viper.SetDefault("emulator.write_timeout", 30*time.Second)

	// Export defaults
	viper.SetDefault("export.output_path", "bills.xlsx")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Credentials come from the environment, not the config file
	viper.BindEnv("store.token", "BILLED_TOKEN")
	viper.BindEnv("store.base_url", "BILLED_STORE_URL")
	viper.BindEnv("session.email", "BILLED_EMAIL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store.BaseURL == "" {
		return fmt.Errorf("store.base_url is required")
	}
	if c.Session.Email == "" {
		return fmt.Errorf("session.email is required")
	}
	if c.Emulator.Port <= 0 || c.Emulator.Port > 65535 {
		return fmt.Errorf("emulator.port must be a valid port number")
	}
	return nil
}
