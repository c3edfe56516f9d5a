package logger

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_Release(t *testing.T) {
	t.Setenv("GIN_MODE", "release")

	l := New(io.Discard, "")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, new(logrus.JSONFormatter), l.Formatter)
}

func TestNew_Debug(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")

	l := New(io.Discard, "")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, new(logrus.TextFormatter), l.Formatter)
}

func TestNew_Level(t *testing.T) {
	t.Setenv("GIN_MODE", "release")

	l := New(io.Discard, "warn")
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	var out bytes.Buffer
	l = New(&out, "loud")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Contains(t, out.String(), "unknown log level")
}
