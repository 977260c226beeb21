package Config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server
type Config struct {
	Addr     string
	LogDir   string
	Timezone string

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	FMSSheetPath      string
	FMSImportSchedule string
	ChecklistSchedule string
	DigestSchedule    string

	SlackBotToken  string
	SlackChannelID string

	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      bool
}

// Load reads .env (if present) and the process environment
func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	return Config{
		Addr:     envOrDefault("APP_ADDR", ":3001"),
		LogDir:   envOrDefault("LOG_DIR", "logs"),
		Timezone: envOrDefault("APP_TIMEZONE", "Asia/Kolkata"),

		DBDriver:   envOrDefault("DB_DRIVER", "sqlite"),
		DBPath:     envOrDefault("DB_PATH", "database.db"),
		DBHost:     envOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:     envInt("DB_PORT", 3306),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOrDefault("DB_NAME", "taskflow"),

		JWTSecret:     envOrDefault("JWT_SECRET", "secret"),
		AdminUsername: envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		FMSSheetPath:      os.Getenv("FMS_SHEET_PATH"),
		FMSImportSchedule: envOrDefault("FMS_IMPORT_SCHEDULE", "0 */30 * * * *"),
		ChecklistSchedule: envOrDefault("CHECKLIST_SCHEDULE", "0 5 0 * * *"),
		DigestSchedule:    envOrDefault("DIGEST_SCHEDULE", "0 0 9 * * *"),

		SlackBotToken:  os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannelID: os.Getenv("SLACK_CHANNEL_ID"),

		SMTPServer:   os.Getenv("SMTP_SERVER"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPFromName: envOrDefault("SMTP_FROM_NAME", "TaskFlow"),
		SMTPTLS:      os.Getenv("SMTP_TLS") == "true",
	}
}

// Location resolves the configured timezone, falling back to the local zone
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, using local: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

// MySQLDSN builds the DSN used by the mysql gorm driver
func (c Config) MySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.DBUser
	cfg.Passwd = c.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.DBHost, c.DBPort)
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.Loc = c.Location()
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// SMTPEnabled reports whether password-reset emails can be sent
func (c Config) SMTPEnabled() bool {
	return c.SMTPServer != "" && c.SMTPFrom != ""
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}
