package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return NewLogrusAdapterFromLogger(logger), buf
}

func TestLogrusAdapter_FieldsAreWritten(t *testing.T) {
	log, buf := newBufferedAdapter(logrus.DebugLevel)

	log.WithField(FieldSide, "sales").Info("extracted", F(FieldCount, 3))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "extracted", entry["msg"])
	assert.Equal(t, "sales", entry[FieldSide])
	assert.Equal(t, float64(3), entry[FieldCount])
	assert.Equal(t, "info", entry["level"])
}

func TestLogrusAdapter_WithErrorAndFields(t *testing.T) {
	log, buf := newBufferedAdapter(logrus.DebugLevel)

	log.WithError(errors.New("boom")).WithFields(F(FieldFile, "a.xlsx"), F(FieldRow, 17)).Error("failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "a.xlsx", entry[FieldFile])
	assert.Equal(t, float64(17), entry[FieldRow])
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	log, buf := newBufferedAdapter(logrus.WarnLevel)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogrusAdapter_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := NewLogrusAdapter("nonsense", "text")

	adapter, ok := log.(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.InfoLevel, adapter.logger.GetLevel())
	_, isText := adapter.logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestNewLogrusAdapter_JSONFormat(t *testing.T) {
	adapter, ok := NewLogrusAdapter("debug", "json").(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.DebugLevel, adapter.logger.GetLevel())
	_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestNewNopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNopLogger().WithField("k", "v").Error("discarded")
	})
}
