package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestLogFile = "requests.log"
	ErrorLogFile   = "errors.log"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	Console bool
	File    bool
	// Directory holding requests.log and errors.log
	Dir string
	// "json" or "text"
	Format      string
	IncludeBody bool
	SkipPaths   []string
}

// LogData is one line of requests.log
type LogData struct {
	Timestamp     time.Time     `json:"timestamp"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	URL           string        `json:"url"`
	Status        int           `json:"status"`
	Latency       time.Duration `json:"latency"`
	IP            string        `json:"ip"`
	UserAgent     string        `json:"user_agent"`
	RequestID     string        `json:"request_id"`
	RequestBody   interface{}   `json:"request_body,omitempty"`
	Error         string        `json:"error,omitempty"`
	UserID        interface{}   `json:"user_id"`
	Username      string        `json:"username"`
	Role          string        `json:"role,omitempty"`
	ContentLength int64         `json:"content_length"`
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig(dir string) LogConfig {
	if dir == "" {
		dir = "logs"
	}
	return LogConfig{
		Console:   true,
		File:      true,
		Dir:       dir,
		Format:    "json",
		SkipPaths: []string{"/health"},
	}
}

// RequestLogger logs every request as JSON into dir/requests.log
func RequestLogger(dir string) fiber.Handler {
	return LoggingMiddleware(DefaultLogConfig(dir))
}

// LoggingMiddleware creates a new logging middleware with the given configuration
func LoggingMiddleware(cfg LogConfig) fiber.Handler {
	if cfg.File {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}
		start := time.Now()

		var requestBody interface{}
		if cfg.IncludeBody && c.Method() != fiber.MethodGet {
			if body := c.Body(); len(body) > 0 {
				var parsed interface{}
				if err := json.Unmarshal(body, &parsed); err == nil {
					requestBody = redact(parsed)
				} else {
					requestBody = string(body)
				}
			}
		}

		err := c.Next()

		data := LogData{
			Timestamp:     start,
			Method:        c.Method(),
			Path:          c.Path(),
			URL:           c.OriginalURL(),
			Status:        c.Response().StatusCode(),
			Latency:       time.Since(start),
			IP:            c.IP(),
			UserAgent:     c.Get(fiber.HeaderUserAgent),
			RequestID:     c.Get("X-Request-ID"),
			RequestBody:   requestBody,
			ContentLength: int64(len(c.Response().Body())),
		}
		if user, ok := UserFrom(c); ok {
			data.UserID = user.ID
			data.Username = user.Username
			data.Role = user.UserType
		}
		if err != nil {
			data.Error = err.Error()
		}

		writeLog(cfg, RequestLogFile, data)
		if err != nil || data.Status >= fiber.StatusBadRequest {
			errCfg := cfg
			errCfg.Console = false
			writeLog(errCfg, ErrorLogFile, data)
		}
		return err
	}
}

// redact drops credentials from logged bodies
func redact(body interface{}) interface{} {
	m, ok := body.(map[string]interface{})
	if !ok {
		return body
	}
	for _, k := range []string{"password", "new_password"} {
		if _, ok := m[k]; ok {
			m[k] = "***"
		}
	}
	return m
}

func writeLog(cfg LogConfig, file string, data LogData) {
	var line string
	if cfg.Format == "text" {
		line = formatTextLog(data)
	} else {
		b, _ := json.Marshal(data)
		line = string(b)
	}
	if cfg.Console {
		log.Println(line)
	}
	if cfg.File {
		appendLine(filepath.Join(cfg.Dir, file), line)
	}
}

func formatTextLog(data LogData) string {
	user := ""
	if data.UserID != nil {
		user = fmt.Sprintf(" user:%v(%s)", data.UserID, data.Username)
	}
	return fmt.Sprintf("[%s] %s %s %d %s %s%s",
		data.Timestamp.Format("2006-01-02 15:04:05"),
		data.Method,
		data.Path,
		data.Status,
		data.Latency,
		data.IP,
		user,
	)
}

var fileMu sync.Mutex

func appendLine(path, line string) {
	fileMu.Lock()
	defer fileMu.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if len(line) > 0 && line[len(line)-1] != '\n' {
		line += "\n"
	}
	if _, err := file.WriteString(line); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}

