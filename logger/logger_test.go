package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger(t *testing.T) {
	require := require.New(t)

	t.Run("JSON Output", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewSlogWriter(&buf, InfoLevel, false, false)

		l.Debug("hidden")
		require.Zero(buf.Len())

		l.With("queue", "orders").Info("queue stats", "length", 3)

		var rec map[string]any
		require.NoError(json.Unmarshal(buf.Bytes(), &rec))
		require.Equal("queue stats", rec["msg"])
		require.Equal("orders", rec["queue"])
		require.EqualValues(3, rec["length"])
		require.Contains(rec, "ts")
	})

	t.Run("Set Level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewSlogWriter(&buf, InfoLevel, false, false)
		require.Equal(InfoLevel, l.Level())

		child := l.With("k", "v")
		l.SetLevel(DebugLevel)
		require.Equal(DebugLevel, child.Level())

		child.Debug("now visible")
		require.Contains(buf.String(), "now visible")

		l.SetLevel(ErrorLevel)
		require.Equal(ErrorLevel, l.Level())
	})

	t.Run("Console Output", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewSlogWriter(&buf, InfoLevel, false, true)
		l.Warn("capacity rejected", "requested", 1)
		require.Contains(buf.String(), "capacity rejected")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: DebugLevel},
		{in: "INFO", want: InfoLevel},
		{in: "", want: InfoLevel},
		{in: "warning", want: WarnLevel},
		{in: "error", want: ErrorLevel},
		{in: "fatal", want: FatalLevel},
		{in: "verbose", want: InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	require := require.New(t)

	orig := GetLogger()
	defer SetLogger(orig)

	m := NewMockLogger()
	m.On("Info", "hello", []any{"k", 1}).Once()
	SetLogger(m)
	SetLogger(nil)

	Info("hello", "k", 1)
	require.Same(m, With("a", "b"))
	m.AssertExpectations(t)
}

func TestMockLoggerAllowAll(t *testing.T) {
	m := NewMockLogger().AllowAll()
	m.Debug("a")
	m.Warn("b", "k", "v")
	m.AssertNotCalled(t, "Error", mock.Anything, mock.Anything)
}
