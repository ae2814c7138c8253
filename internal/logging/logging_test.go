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

func TestNewWithOutput_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewWithOutput("debug", "text", &bytes.Buffer{}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewWithOutput("loud", "text", &bytes.Buffer{}).GetLevel())
}

func TestLogError_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput("info", "json", &buf)

	LogError(logger, "orders.go", "AdvanceStatus", "saving order", map[string]string{"id": "ORD-1001"}, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "orders.go", entry["module"])
	assert.Equal(t, "AdvanceStatus", entry["funcName"])
	assert.Equal(t, "saving order", entry["context"])
	assert.Contains(t, entry, "data")
}

func TestLogError_NoData(t *testing.T) {
	var buf bytes.Buffer
	LogError(NewWithOutput("info", "json", &buf), "m", "f", "c", nil, errors.New("x"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "data")
}
