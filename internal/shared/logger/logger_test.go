package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"welfare-cms/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInterface_Contract(t *testing.T) {
	var _ Logger = NewLogger()
	var _ Logger = NewLoggerWithConfig("info", "json")
	var _ Logger = NewZapLogger("info", true)
	var _ Logger = Nop()
}

func TestLogrusLogger_WithContextAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "debug")

	ctx := context.WithValue(context.Background(), contextkeys.RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, contextkeys.AdminUserKey, "admin")
	log.WithContext(ctx).WithComponent("content").Info("saved")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "saved", line["message"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "admin", line["admin_user"])
	assert.Equal(t, "content", line["component"])
}

func TestLogrusLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "warn")

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warnf("shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
}

func TestZapLogger_WithFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	log.WithFields(map[string]interface{}{"domain": "home"}).Info("cache miss")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cache miss", entry.Message)
	assert.Equal(t, "home", entry.ContextMap()["domain"])
}
