package Controllers

import (
	"TaskFlow/middleware"
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogGroup represents a group of logs by method and path
type LogGroup struct {
	Path        string               `json:"path"`
	Method      string               `json:"method"`
	Count       int                  `json:"count"`
	AvgLatency  float64              `json:"avg_latency_ms"`
	MinLatency  float64              `json:"min_latency_ms"`
	MaxLatency  float64              `json:"max_latency_ms"`
	SuccessRate float64              `json:"success_rate"`
	Logs        []middleware.LogData `json:"logs"`
}

// LogHandler serves the request log written by middleware.RequestLogger
type LogHandler struct {
	Dir string
	Now func() time.Time
}

func NewLogHandler(dir string) *LogHandler {
	return &LogHandler{Dir: dir, Now: time.Now}
}

func (h *LogHandler) file() string {
	return filepath.Join(h.Dir, middleware.RequestLogFile)
}

// logRange reads date_from/date_to; no dates means today
func (h *LogHandler) logRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := h.Now()
	fromStr, toStr := c.Query("date_from"), c.Query("date_to")
	if fromStr == "" && toStr == "" {
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return from, from.Add(24*time.Hour - time.Nanosecond), nil
	}

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := now
	if fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, now.Location())
		if err != nil {
			return from, to, errors.New("Invalid date_from format. Use YYYY-MM-DD")
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, now.Location())
		if err != nil {
			return from, to, errors.New("Invalid date_to format. Use YYYY-MM-DD")
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

// readLogs loads the entries within [from, to]; a missing file is an empty log
func readLogs(path string, from, to time.Time) ([]middleware.LogData, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var logs []middleware.LogData
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry middleware.LogData
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if !entry.Timestamp.Before(from) && !entry.Timestamp.After(to) {
			logs = append(logs, entry)
		}
	}
	return logs, scanner.Err()
}

func filterLogs(logs []middleware.LogData, path, method, status, username string) []middleware.LogData {
	var filtered []middleware.LogData
	wantStatus, statusErr := strconv.Atoi(status)
	for _, entry := range logs {
		if path != "" && !strings.Contains(strings.ToLower(entry.Path), strings.ToLower(path)) {
			continue
		}
		if method != "" && !strings.EqualFold(entry.Method, method) {
			continue
		}
		if status != "" && statusErr == nil && entry.Status != wantStatus {
			continue
		}
		if username != "" && !strings.EqualFold(entry.Username, username) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func latencyMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// groupLogs groups by method and path, busiest first
func groupLogs(logs []middleware.LogData) []LogGroup {
	index := map[string]*LogGroup{}
	var order []string
	successes := map[string]int{}

	for _, entry := range logs {
		key := fmt.Sprintf("%s %s", entry.Method, entry.Path)
		ms := latencyMs(entry.Latency)
		g, ok := index[key]
		if !ok {
			g = &LogGroup{Path: entry.Path, Method: entry.Method, MinLatency: ms, MaxLatency: ms}
			index[key] = g
			order = append(order, key)
		}
		g.AvgLatency = (g.AvgLatency*float64(g.Count) + ms) / float64(g.Count+1)
		g.Count++
		if ms < g.MinLatency {
			g.MinLatency = ms
		}
		if ms > g.MaxLatency {
			g.MaxLatency = ms
		}
		if isSuccess(entry.Status) {
			successes[key]++
		}
		g.Logs = append(g.Logs, entry)
	}

	groups := make([]LogGroup, 0, len(order))
	for _, key := range order {
		g := index[key]
		g.SuccessRate = float64(successes[key]) / float64(g.Count)
		groups = append(groups, *g)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	return groups
}

// GetLogs retrieves logs with pagination, date filtering, and grouping
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	from, to, err := h.logRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 50
	}

	logs, err := readLogs(h.file(), from, to)
	if err != nil {
		log.Printf("Error reading logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}
	logs = filterLogs(logs, c.Query("path"), c.Query("method"), c.Query("status"), c.Query("username"))
	groups := groupLogs(logs)

	total := len(groups)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"groups":       groups[start:end],
		"total_logs":   len(logs),
		"total_groups": total,
		"page":         page,
		"page_size":    pageSize,
		"total_pages":  (total + pageSize - 1) / pageSize,
		"date_from":    from,
		"date_to":      to,
	})
}

// GetLogStats returns statistics about logs
func (h *LogHandler) GetLogStats(c *fiber.Ctx) error {
	from, to, err := h.logRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logs, err := readLogs(h.file(), from, to)
	if err != nil {
		log.Printf("Error reading logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	var successful, failed int
	var totalLatency, minLatency, maxLatency time.Duration
	methodStats := map[string]int{}
	statusStats := map[int]int{}
	userStats := map[string]int{}
	pathStats := map[string]int{}

	for i, entry := range logs {
		if isSuccess(entry.Status) {
			successful++
		} else if entry.Status >= 400 {
			failed++
		}
		totalLatency += entry.Latency
		if i == 0 || entry.Latency < minLatency {
			minLatency = entry.Latency
		}
		if entry.Latency > maxLatency {
			maxLatency = entry.Latency
		}
		methodStats[entry.Method]++
		statusStats[entry.Status]++
		pathStats[entry.Path]++
		if entry.Username != "" {
			userStats[entry.Username]++
		}
	}

	var avgLatency time.Duration
	successRate := 0.0
	if n := len(logs); n > 0 {
		avgLatency = totalLatency / time.Duration(n)
		successRate = float64(successful) / float64(n) * 100
	}

	type pathCount struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	topPaths := make([]pathCount, 0, len(pathStats))
	for p, n := range pathStats {
		topPaths = append(topPaths, pathCount{p, n})
	}
	sort.Slice(topPaths, func(i, j int) bool {
		if topPaths[i].Count != topPaths[j].Count {
			return topPaths[i].Count > topPaths[j].Count
		}
		return topPaths[i].Path < topPaths[j].Path
	})
	if len(topPaths) > 10 {
		topPaths = topPaths[:10]
	}

	return c.JSON(fiber.Map{
		"total_requests":      len(logs),
		"successful_requests": successful,
		"error_requests":      failed,
		"success_rate":        successRate,
		"avg_latency_ms":      latencyMs(avgLatency),
		"min_latency_ms":      latencyMs(minLatency),
		"max_latency_ms":      latencyMs(maxLatency),
		"method_stats":        methodStats,
		"status_stats":        statusStats,
		"user_stats":          userStats,
		"top_paths":           topPaths,
		"date_from":           from,
		"date_to":             to,
	})
}
