package config_test

import (
	"testing"
	"time"

	"tokoadmin/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]string) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "0.08", cfg.TaxRate.String())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"express", "pickup", "standard"}, cfg.ShippingMethodNames())
	assert.Equal(t, "9.99", cfg.Shipping["standard"].Charge.StringFixed(2))
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":   {"DB_DRIVER": "mongo"},
		"tax":      {"TAX_RATE": "1.5"},
		"tax text": {"TAX_RATE": "eight"},
		"shipping": {"SHIPPING_METHODS": "standard"},
		"negative": {"SHIPPING_METHODS": "standard:-1"},
		"empty":    {"SHIPPING_METHODS": " , "},
		"dsn":      {"DB_DRIVER": "postgres", "DATABASE_DSN": ""},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.FromViper(newViper(overrides))
			assert.Error(t, err)
		})
	}
}

func TestFromViper_MemoryDriverNeedsNoDSN(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]string{"DB_DRIVER": "MEMORY", "DATABASE_DSN": ""}))
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.DBDriver)
}
