package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokoadmin/internal/repositories"
	"tokoadmin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observedGORMLogger() (gormlogger.Interface, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return repositories.NewGORMLogger(logger.FromZap(zap.New(core))), logs
}

func sampleQuery() (string, int64) { return "SELECT * FROM products", 0 }

func TestGORMLogger_IgnoresRecordNotFound(t *testing.T) {
	l, logs := observedGORMLogger()

	l.Trace(context.Background(), time.Now(), sampleQuery, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len())
}

func TestGORMLogger_QueryError(t *testing.T) {
	l, logs := observedGORMLogger()
	ctx := logger.ContextWithRequestID(context.Background(), "req-9")

	l.Trace(ctx, time.Now(), sampleQuery, errors.New("no such table: products"))
	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "gorm", entries[0].LoggerName)
		fields := entries[0].ContextMap()
		assert.Equal(t, "SELECT * FROM products", fields["sql"])
		assert.Equal(t, "req-9", fields["request_id"])
		assert.Equal(t, "no such table: products", fields["error"])
	}
}

func TestGORMLogger_SlowQueryAndLevels(t *testing.T) {
	l, logs := observedGORMLogger()

	l.Trace(context.Background(), time.Now().Add(-time.Second), sampleQuery, nil)
	if assert.Equal(t, 1, logs.Len()) {
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
		assert.Equal(t, "slow sampleQuery", logs.All()[0].Message)
	}

	l.Trace(context.Background(), time.Now(), sampleQuery, nil)
	assert.Equal(t, 1, logs.Len(), "fast queries are not logged at warn level")

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now().Add(-time.Second), sampleQuery, errors.New("boom"))
	silent.Error(context.Background(), "failed %s", "x")
	assert.Equal(t, 1, logs.Len())

	l.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), sampleQuery, nil)
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[1].Level)
}
