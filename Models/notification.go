package Models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ResetPending  = "pending"
	ResetApproved = "approved"
	ResetRejected = "rejected"

	NotificationPasswordReset = "password_reset"
	NotificationResetDecision = "password_reset_decision"
)

type UserMotivation struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"uniqueIndex"`
	Message   string `json:"message" gorm:"type:text"`
	UpdatedBy uint   `json:"updated_by"`
}

type PasswordResetRequest struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index"`
	NewPasswordHash []byte     `json:"-"`
	Status          string     `json:"status" gorm:"type:varchar(16);default:pending;index"`
	DecidedBy       *uint      `json:"decided_by"`
	DecidedAt       *time.Time `json:"decided_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type Notification struct {
	gorm.Model
	UserID  uint           `json:"user_id" gorm:"index"`
	Type    string         `json:"type" gorm:"type:varchar(64)"`
	Message string         `json:"message" gorm:"type:text"`
	Data    datatypes.JSON `json:"data"`
	IsRead  bool           `json:"is_read" gorm:"default:false"`
}

// Notify stores a notification for a single user
func Notify(db *gorm.DB, userID uint, kind, message string, data interface{}) error {
	n := Notification{UserID: userID, Type: kind, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		n.Data = datatypes.JSON(raw)
	}
	return db.Create(&n).Error
}

// NotifyAdmins fans a notification out to every admin user
func NotifyAdmins(db *gorm.DB, kind, message string, data interface{}) error {
	var admins []User
	if err := db.Where("user_type = ?", RoleAdmin).Find(&admins).Error; err != nil {
		return err
	}
	for _, admin := range admins {
		if err := Notify(db, admin.ID, kind, message, data); err != nil {
			return err
		}
	}
	return nil
}
