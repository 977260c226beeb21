package Models

import (
	"TaskFlow/Config"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database, migrates the schema and seeds the admin account
func Connect(cfg Config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.MySQLDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(connection); err != nil {
		return nil, err
	}

	if cfg.AdminPassword != "" {
		if err := SeedAdmin(connection, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Printf("Error seeding admin user: %v", err)
		}
	}

	DB = connection
	return connection, nil
}

// Migrate creates or updates every table used by the application
func Migrate(db *gorm.DB) error {
	// 1. Tables without dependencies
	if err := db.AutoMigrate(&Department{}, &User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	// 2. Task sources
	if err := db.AutoMigrate(
		&Task{},
		&ChecklistTemplate{},
		&ChecklistSubtask{},
		&FMSTask{},
	); err != nil {
		return fmt.Errorf("migrate tasks: %w", err)
	}

	// 3. User-facing side tables
	if err := db.AutoMigrate(
		&UserMotivation{},
		&PasswordResetRequest{},
		&Notification{},
	); err != nil {
		return fmt.Errorf("migrate side tables: %w", err)
	}

	return nil
}

// SeedAdmin creates the admin user when no user with that username exists yet
func SeedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	active := UserStatusActive
	admin := User{
		Username: username,
		Name:     "Administrator",
		Password: hash,
		UserType: RoleAdmin,
		Status:   &active,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin user %q", username)
	return nil
}
