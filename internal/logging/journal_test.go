package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func observed(level zapcore.Level) (*Journal, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewJournal(zap.New(core)), logs
}

func fieldMap(e observer.LoggedEntry) map[string]interface{} {
	return e.ContextMap()
}

func TestJournalLogsIntervalLifecycle(t *testing.T) {
	j, logs := observed(zapcore.DebugLevel)

	j.IntervalStart(interval.Pomodoro{
		Span:        interval.Span{Start: t0},
		IntentionID: "abc",
		Duration:    25 * time.Minute,
	})
	j.IntervalProgress(0.5)
	j.IntervalEnd()

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "interval started", entries[0].Message)
	assert.Equal(t, "Pomodoro", fieldMap(entries[0])["kind"])
	assert.Equal(t, "abc", fieldMap(entries[0])["intention"])
	assert.Equal(t, 25*time.Minute, fieldMap(entries[0])["duration"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, 0.5, fieldMap(entries[1])["fraction"])

	assert.Equal(t, "interval ended", entries[2].Message)
	assert.Equal(t, "Pomodoro", fieldMap(entries[2])["kind"])
}

func TestJournalSkipsProgressAtInfo(t *testing.T) {
	j, logs := observed(zapcore.InfoLevel)
	j.IntervalStart(interval.StartPrompt{Span: interval.Span{Start: t0}})
	j.IntervalProgress(0.1)

	assert.Equal(t, 1, logs.Len())
	_, hasDuration := fieldMap(logs.All()[0])["duration"]
	assert.False(t, hasDuration, "start prompt has no duration")
}

func TestJournalLogsIntentions(t *testing.T) {
	j, logs := observed(zapcore.InfoLevel)
	est := 4
	in := intention.Intention{ID: "id-1", Description: "Write report", Estimate: &est}

	j.IntentionAdded(in)
	j.IntentionCompleted(in)
	j.IntentionAbandoned(in)

	assert.Equal(t, 1, logs.FilterMessage("intention added").FilterField(zap.Int("estimate", 4)).Len())
	assert.Equal(t, 1, logs.FilterMessage("intention completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("intention abandoned").Len())
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", FormatJSON, &buf)
	require.NoError(t, err)

	log.Info("hello", zap.String("k", "v"))
	require.NoError(t, log.Sync())

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "v", line["k"])
	assert.Contains(t, line, "ts")
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, err := New("loud", FormatConsole, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "xml"))
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", FormatConsole, &buf)
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
