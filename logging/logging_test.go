package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	shim "github.com/goliatone/go-shim"
	"github.com/goliatone/go-shim/pkg/transport"
	"github.com/goliatone/go-shim/rules"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSONUsesShortFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Configure(&buf, "debug", "json")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "info", line["lvl"])
	assert.Contains(t, line, "ts")
}

func TestConfigureDefaultsAndErrors(t *testing.T) {
	logger, err := Configure(nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLevel, logger.GetLevel())

	_, err = Configure(nil, "info", "xml")
	assert.Error(t, err)

	_, err = Configure(nil, "loud", "text")
	assert.Error(t, err)
}

func TestHubFormatterAddsDepth(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Configure(&buf, "info", "json")
	require.NoError(t, err)

	hub := shim.NewHub()
	hub.PushScope()
	ctx := shim.NewContext(context.Background(), hub)
	logger.WithContext(ctx).Info("scoped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(2), line["hub_depth"])
}

func TestLogOperationLevels(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	adapter := NewLogrus(logger)

	adapter.LogOperation(shim.LogEvent{Op: "pop", Depth: 1, Skipped: true, Reason: "root"})
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "pop", entry.Data["op"])
	assert.Equal(t, true, entry.Data["skipped"])
	assert.Equal(t, "shim", entry.Data["component"])

	boom := errors.New("boom")
	adapter.LogOperation(shim.LogEvent{Op: "deliver", Client: "go-shim", Err: boom})
	entry = hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, boom, entry.Data[logrus.ErrorKey])
}

func TestLogEvaluation(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	adapter := NewLogrus(logger)

	adapter.LogEvaluation(rules.LogEvent{Engine: "expr", Rule: "before_send", Result: true})
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.TraceLevel, entry.Level)
	assert.Equal(t, true, entry.Data["result"])

	adapter.LogEvaluation(rules.LogEvent{Engine: "cel", Err: rules.ErrNotBoolean})
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSendWritesReport(t *testing.T) {
	logger, hook := test.NewNullLogger()
	adapter := NewLogrus(logger)

	err := adapter.Send(context.Background(), transport.Report{
		Kind:    transport.KindException,
		Channel: "errors",
		Event: shim.Event{
			EventID:   "abc",
			Level:     shim.LevelFatal,
			Tags:      map[string]any{"env": "prod"},
			Exception: []shim.Exception{{Type: "*errors.errorString", Value: "boom"}},
		},
	})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "abc", entry.Data["event_id"])
	assert.Equal(t, "*errors.errorString", entry.Data["exception_type"])
}

func TestLevelFor(t *testing.T) {
	cases := map[shim.Level]logrus.Level{
		shim.LevelFatal:    logrus.ErrorLevel,
		shim.LevelCritical: logrus.ErrorLevel,
		shim.LevelError:    logrus.ErrorLevel,
		shim.LevelWarning:  logrus.WarnLevel,
		shim.LevelInfo:     logrus.InfoLevel,
		shim.LevelLog:      logrus.InfoLevel,
		shim.LevelDebug:    logrus.DebugLevel,
		"":                 logrus.InfoLevel,
	}
	for level, want := range cases {
		assert.Equal(t, want, LevelFor(level), "level %q", level)
	}
}

func TestNewLogrusDefaultsToStandardLogger(t *testing.T) {
	adapter := NewLogrus(nil)
	require.NotNil(t, adapter)
	assert.Equal(t, logrus.StandardLogger(), adapter.entry.Logger)
}
