package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.False(t, cfg.Inventory.Enforce)
	assert.Equal(t, 10, cfg.Inventory.DefaultLowStockThreshold)
	assert.Equal(t, "P", cfg.Orders.CodePrefix)
	assert.Equal(t, "QRC", cfg.Orders.BalanceCodePrefix)
	assert.Equal(t, "es", cfg.I18n.DefaultLang)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INVENTORY_ENFORCE", "true")
	t.Setenv("INVENTORY_DEFAULT_LOW_STOCK", "4")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_ENABLE_INBOUND", "not-a-bool")
	t.Setenv("ORDER_CODE_PREFIX", "BAR")

	cfg := LoadEnv()

	assert.True(t, cfg.Inventory.Enforce)
	assert.Equal(t, 4, cfg.Inventory.DefaultLowStockThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.EnableInbound, "unparseable values fall back to the default")
	assert.Equal(t, "BAR", cfg.Orders.CodePrefix)
}
