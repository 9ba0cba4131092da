package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Billing  BillingConfig  `mapstructure:"billing"`
	Report   ReportConfig   `mapstructure:"report"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
	MaxIdleConns  int    `mapstructure:"max_idle_conns"`
	BusyTimeout   int    `mapstructure:"busy_timeout_ms"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// BillingConfig holds the rates the financial engine runs with. Companies
// maps material-company names to the tax rate the workshop pays them;
// anything absent falls back to DefaultInternalTaxRate. The customer-facing
// rate is flat per invoice, independent of the per-company rates.
type BillingConfig struct {
	CustomerTaxRate        float64            `mapstructure:"customer_tax_rate"`
	CardSurchargeRate      float64            `mapstructure:"card_surcharge_rate"`
	DefaultInternalTaxRate float64            `mapstructure:"default_internal_tax_rate"`
	Companies              map[string]float64 `mapstructure:"companies"`
}

// ReportConfig holds monthly report export configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
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
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/workshop.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.busy_timeout_ms", 5000)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Billing defaults: Ontario HST on invoices, same default rate on
	// supplier cost until a company-specific rate is configured.
	viper.SetDefault("billing.customer_tax_rate", 0.13)
	viper.SetDefault("billing.card_surcharge_rate", 0.025)
	viper.SetDefault("billing.default_internal_tax_rate", 0.13)

	// Report defaults
	viper.SetDefault("report.output_dir", "reports")

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("report.output_dir", "REPORT_OUTPUT_DIR")
	viper.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Billing.CustomerTaxRate < 0 || c.Billing.CustomerTaxRate >= 1 {
		return fmt.Errorf("billing.customer_tax_rate must be a decimal rate between 0 and 1")
	}
	if c.Billing.CardSurchargeRate < 0 || c.Billing.CardSurchargeRate >= 1 {
		return fmt.Errorf("billing.card_surcharge_rate must be a decimal rate between 0 and 1")
	}
	if c.Billing.DefaultInternalTaxRate < 0 || c.Billing.DefaultInternalTaxRate >= 1 {
		return fmt.Errorf("billing.default_internal_tax_rate must be a decimal rate between 0 and 1")
	}
	for name, rate := range c.Billing.Companies {
		if rate < 0 || rate >= 1 {
			return fmt.Errorf("billing.companies[%s] must be a decimal rate between 0 and 1", name)
		}
	}
	return nil
}
