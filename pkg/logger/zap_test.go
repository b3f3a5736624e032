package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FieldsAndRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var l Logger = &ZapLogger{z: zap.New(core)}

	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).WithFields(String("order_id", "ORD-1")).Info("order approved", Int("items", 2), Error(errors.New("boom")))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "ORD-1", fields["order_id"])
		assert.EqualValues(t, 2, fields["items"])
		assert.Equal(t, "boom", fields["error"])
	}
}

func TestZapLogger_WithContextWithoutID(t *testing.T) {
	l := NewNop()
	assert.Same(t, l, l.WithContext(context.Background()))
}

func TestZapLogger_NamedAndTypedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).Named("gorm")

	l.Warn("slow query",
		Int64("rows", 12),
		Duration("elapsed", 250*time.Millisecond),
		Strings("tables", []string{"orders", "order_items"}),
		Error(nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "gorm", entries[0].LoggerName)
		fields := entries[0].ContextMap()
		assert.EqualValues(t, 12, fields["rows"])
		assert.Equal(t, 250*time.Millisecond, fields["elapsed"])
		assert.Equal(t, []interface{}{"orders", "order_items"}, fields["tables"])
		assert.NotContains(t, fields, "error")
	}
}

func TestNewZapLogger_Level(t *testing.T) {
	_, err := NewZapLogger("development", Options{Level: "loud"})
	assert.Error(t, err)

	l, err := NewZapLogger("production", Options{Level: "warn"})
	if assert.NoError(t, err) {
		assert.False(t, l.(*ZapLogger).z.Core().Enabled(zap.InfoLevel))
		assert.True(t, l.(*ZapLogger).z.Core().Enabled(zap.WarnLevel))
	}
}

func TestIsProduction(t *testing.T) {
	assert.True(t, IsProduction("production"))
	assert.True(t, IsProduction(" PROD "))
	assert.False(t, IsProduction("development"))
	assert.False(t, IsProduction(""))
}
