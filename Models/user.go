package Models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleDoer    = "doer"
	RoleClient  = "client"

	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
)

type Department struct {
	gorm.Model
	Name string `json:"name" gorm:"type:varchar(255);uniqueIndex"`
}

type User struct {
	gorm.Model
	Username     string  `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string  `json:"name" gorm:"type:varchar(255)"`
	Email        string  `json:"email" gorm:"type:varchar(255)"`
	Password     []byte  `json:"-"`
	UserType     string  `json:"user_type" gorm:"type:varchar(20);default:doer"`
	Status       *string `json:"status" gorm:"column:status;type:varchar(20)"`
	DepartmentID *uint   `json:"department_id" gorm:"index"`
	ManagerID    *uint   `json:"manager_id" gorm:"index"`

	Department *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

// EffectiveStatus treats a missing status as Active
func (u User) EffectiveStatus() string {
	if u.Status == nil || strings.TrimSpace(*u.Status) == "" {
		return UserStatusActive
	}
	return *u.Status
}

// DisplayName prefers the full name and falls back to the username
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Username
}

func (u User) IsAdmin() bool   { return u.UserType == RoleAdmin }
func (u User) IsManager() bool { return u.UserType == RoleManager }
func (u User) IsDoer() bool    { return u.UserType == RoleDoer }
