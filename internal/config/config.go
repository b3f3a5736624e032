package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"tokoadmin/internal/models"
)

// Config is the process configuration.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	DBDriver       string
	DatabaseDSN    string
	JWTSecret      string
	RabbitMQURL    string
	Exchange       string
	Queue          string
	TaxRate        decimal.Decimal
	Shipping       map[string]models.ShippingMethod
	RequestTimeout time.Duration
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file::memory:?cache=shared")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "toko.events")
	v.SetDefault("RABBITMQ_QUEUE", "toko.order_events")
	v.SetDefault("TAX_RATE", "0.08")
	v.SetDefault("SHIPPING_METHODS", "standard:9.99,express:19.99,pickup:0")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		Exchange:       v.GetString("RABBITMQ_EXCHANGE"),
		Queue:          v.GetString("RABBITMQ_QUEUE"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
	}

	rate, err := decimal.NewFromString(v.GetString("TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("TAX_RATE is invalid: %w", err)
	}
	cfg.TaxRate = rate

	if cfg.Shipping, err = ParseShippingMethods(v.GetString("SHIPPING_METHODS")); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

// ParseShippingMethods parses "name:charge,name:charge".
func ParseShippingMethods(raw string) (map[string]models.ShippingMethod, error) {
	methods := make(map[string]models.ShippingMethod)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, charge, ok := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("SHIPPING_METHODS entry %q must be name:charge", part)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(charge))
		if err != nil || amount.IsNegative() {
			return nil, fmt.Errorf("SHIPPING_METHODS charge for %q is invalid", name)
		}
		methods[name] = models.ShippingMethod{Name: name, Charge: amount}
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("SHIPPING_METHODS is empty")
	}
	return methods, nil
}

// ShippingMethodNames lists the configured methods in name order.
func (c *Config) ShippingMethodNames() []string {
	names := make([]string, 0, len(c.Shipping))
	for name := range c.Shipping {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is empty")
	}
	switch c.DBDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for driver %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver)
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1)")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}
