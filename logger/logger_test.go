package logger

import (
	"log/slog"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexhholmes/ptsim"
)

// Compile-time check: slog satisfies the interface without an adapter
var _ ptsim.Logger = (*slog.Logger)(nil)

func TestZapAdapter(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	m, err := ptsim.Open(ptsim.WithLogger(NewZap(zap.New(core))))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.CreateProcess(3, 2))

	entries := logs.FilterMessage("process created").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 3, fields["pid"])
	assert.EqualValues(t, 2, fields["pages"])
}

func TestLogrusAdapter(t *testing.T) {
	t.Parallel()

	l, hook := logrustest.NewNullLogger()
	m, err := ptsim.Open(ptsim.WithLogger(NewLogrus(l)))
	require.NoError(t, err)
	defer m.Close()

	// Ask for more pages than exist so the partial allocation is reported
	require.Error(t, m.CreateProcess(0, 64))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "process left with partial allocation", entry.Message)
	assert.EqualValues(t, 62, entry.Data["pages"])
}

func TestArgsToFields(t *testing.T) {
	t.Parallel()

	fields := argsToFields([]any{"pid", 1, 2, "skipped", "dangling"})
	assert.Equal(t, logrus.Fields{"pid": 1}, fields)
}
