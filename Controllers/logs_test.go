package Controllers

import (
	"TaskFlow/middleware"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(ts time.Time, method, path string, status int, ms int) middleware.LogData {
	return middleware.LogData{
		Timestamp: ts,
		Method:    method,
		Path:      path,
		Status:    status,
		Latency:   time.Duration(ms) * time.Millisecond,
		Username:  "asha",
	}
}

func TestReadLogsWindowAndGarbage(t *testing.T) {
	day := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), middleware.RequestLogFile)

	var lines []byte
	for _, e := range []middleware.LogData{
		entry(day.Add(-time.Hour), "GET", "/api/tasks", 200, 5),
		entry(day.Add(9*time.Hour), "GET", "/api/tasks", 200, 5),
		entry(day.Add(23*time.Hour), "POST", "/api/tasks/status", 400, 5),
	} {
		raw, err := json.Marshal(e)
		require.NoError(t, err)
		lines = append(lines, raw...)
		lines = append(lines, '\n')
	}
	lines = append(lines, []byte("not json\n\n")...)
	require.NoError(t, os.WriteFile(path, lines, 0644))

	logs, err := readLogs(path, day, day.Add(24*time.Hour-time.Nanosecond))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "/api/tasks/status", logs[1].Path)

	missing, err := readLogs(filepath.Join(t.TempDir(), "nope.log"), day, day)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFilterAndGroupLogs(t *testing.T) {
	now := time.Now()
	logs := []middleware.LogData{
		entry(now, "GET", "/api/tasks", 200, 10),
		entry(now, "GET", "/api/tasks", 500, 30),
		entry(now, "get", "/api/tasks", 200, 20),
		entry(now, "POST", "/api/tasks/status", 200, 4),
		entry(now, "GET", "/api/dashboard", 200, 8),
	}

	filtered := filterLogs(logs, "TASKS", "GET", "", "")
	assert.Len(t, filtered, 3)
	assert.Len(t, filterLogs(logs, "", "", "500", ""), 1)
	assert.Empty(t, filterLogs(logs, "", "", "", "omar"))

	groups := groupLogs(logs[:4])
	require.Len(t, groups, 3)
	g := groups[0]
	assert.Equal(t, "GET", g.Method)
	assert.Equal(t, 2, g.Count)
	assert.InDelta(t, 20.0, g.AvgLatency, 0.001)
	assert.InDelta(t, 10.0, g.MinLatency, 0.001)
	assert.InDelta(t, 30.0, g.MaxLatency, 0.001)
	assert.InDelta(t, 0.5, g.SuccessRate, 0.001)
}
