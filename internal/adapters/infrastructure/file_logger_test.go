package infrastructure

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefsky.app/internal/ports"
)

func readLogLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestNewFileLoggerAdapter(t *testing.T) {
	tests := []struct {
		name        string
		logPath     string
		expectError string
	}{
		{name: "Flat", logPath: "providers.log"},
		{name: "Nested", logPath: filepath.Join("nested", "deep", "providers.log")},
		{name: "Empty", expectError: "log file path cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.logPath
			if path != "" {
				path = filepath.Join(t.TempDir(), path)
			}

			logger, err := NewFileLoggerAdapter(path)

			if tt.expectError != "" {
				assert.Nil(t, logger)
				assert.ErrorContains(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = logger.Close() })
			assert.FileExists(t, path)
		})
	}
}

func TestFileLoggerAdapter_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.log")
	logger, err := NewFileLoggerAdapter(path)
	require.NoError(t, err)
	logger.clock = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	logger.Info("Provider request completed",
		ports.F("provider", "openmeteo"),
		ports.F("duration_ms", 42))
	logger.Error("Provider request failed", ports.F("error", stderrors.New("connection refused")))
	logger.Debug("debug")
	logger.Warn("warn")
	require.NoError(t, logger.Close())

	entries := readLogLines(t, path)
	require.Len(t, entries, 4)

	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "Provider request completed", entries[0]["message"])
	assert.Equal(t, "openmeteo", entries[0]["provider"])
	assert.Equal(t, float64(42), entries[0]["duration_ms"])
	assert.Equal(t, "2024-03-01T12:00:00Z", entries[0]["timestamp"])

	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Equal(t, "connection refused", entries[1]["error"])
	assert.Equal(t, "DEBUG", entries[2]["level"])
	assert.Equal(t, "WARN", entries[3]["level"])
}

func TestFileLoggerAdapter_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.log")

	for i := 0; i < 2; i++ {
		logger, err := NewFileLoggerAdapter(path)
		require.NoError(t, err)
		logger.Info("entry")
		require.NoError(t, logger.Close())
	}

	assert.Len(t, readLogLines(t, path), 2)
}

func TestFileLoggerAdapter_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.log")
	logger, err := NewFileLoggerAdapter(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.Info("entry", ports.F("n", i))
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readLogLines(t, path), 20)
}

func TestFileLoggerAdapter_WriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.log")
	logger, err := NewFileLoggerAdapter(path)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	logger.Info("dropped")

	assert.Empty(t, readLogLines(t, path))
	assert.NoError(t, logger.Close())
}

func TestTeeLogger(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileLoggerAdapter(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	second, err := NewFileLoggerAdapter(filepath.Join(dir, "b.log"))
	require.NoError(t, err)

	tee := TeeLogger{first, second}
	tee.Info("both")
	tee.Warn("both")
	require.NoError(t, first.Close())
	require.NoError(t, second.Close())

	assert.Len(t, readLogLines(t, filepath.Join(dir, "a.log")), 2)
	assert.Len(t, readLogLines(t, filepath.Join(dir, "b.log")), 2)
}
