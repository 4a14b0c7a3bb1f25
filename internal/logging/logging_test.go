package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := NewWithOutput(Config{Level: "debug"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l, err = NewWithOutput(Config{Level: "nonsense"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestNewWritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "capital.log")

	var buf bytes.Buffer
	l, err := NewWithOutput(Config{Level: "info", File: path, MaxSize: 1}, &buf)
	require.NoError(t, err)

	l.WithField("op", "authenticate").Info("session created")

	assert.Contains(t, buf.String(), "session created")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "op=authenticate")
}
