package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLogFilePath_UsesStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	path, err := getLogFilePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "query-batch", "app.log"), path)
}

func TestInitLogger_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	t.Cleanup(func() { defaultLogger = nil })

	InitLogger(false)
	Info("file processed", "name", "a.txt")

	data, err := os.ReadFile(filepath.Join(dir, "query-batch", "app.log"))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	require.Equal(t, "file processed", entry["msg"])
	require.Equal(t, "a.txt", entry["name"])
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { defaultLogger = nil })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	Warnf("skipped %d files", 2)
	Debug("detail")

	require.Contains(t, buf.String(), "skipped 2 files")
	require.Contains(t, buf.String(), `"level":"DEBUG"`)
}
