package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return buf
}

func TestLogger_ScopesAreAttached(t *testing.T) {
	buf := captureOutput(t)

	New("repositories").File("serviceRequest.repository").Function("Create").Info("created", "id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created", entry["msg"])
	assert.Equal(t, "repositories", entry["package"])
	assert.Equal(t, "serviceRequest.repository", entry["file"])
	assert.Equal(t, "Create", entry["function"])
	assert.Equal(t, "abc", entry["id"])
}

func TestLogger_FunctionDoesNotMutateParent(t *testing.T) {
	parent := New("app")
	child := parent.Function("New")

	assert.Empty(t, parent.function)
	assert.Equal(t, "New", child.function)
}

func TestLogger_ErrWrapsCause(t *testing.T) {
	captureOutput(t)
	cause := errors.New("disk full")

	err := New("test").Err("failed to persist", cause, "id", "1")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to persist: disk full", err.Error())
}

func TestLogger_ErrorReturnsMessage(t *testing.T) {
	captureOutput(t)

	err := New("test").Error("database path is empty", "dbPath", "")
	assert.EqualError(t, err, "database path is empty")

	err = New("test").ErrMsg("nil check failed")
	assert.EqualError(t, err, "nil check failed")
}

func TestSetLevel(t *testing.T) {
	buf := captureOutput(t)
	t.Cleanup(func() { SetLevel("info") })

	tests := []struct {
		name      string
		level     string
		debugSeen bool
	}{
		{name: "debug enables debug", level: "debug", debugSeen: true},
		{name: "info hides debug", level: "info", debugSeen: false},
		{name: "unknown falls back to info", level: "loud", debugSeen: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetLevel(tt.level)
			New("test").Debug("probe")
			assert.Equal(t, tt.debugSeen, buf.Len() > 0)
		})
	}
}
