package Controllers

import (
	"TaskFlow/Models"
	"TaskFlow/email"
	"TaskFlow/middleware"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserHandler struct {
	DB *gorm.DB
	// Mailer is optional; nil disables decision emails
	Mailer email.Mailer
	Now    func() time.Time
}

func NewUserHandler(db *gorm.DB, mailer email.Mailer) *UserHandler {
	return &UserHandler{DB: db, Mailer: mailer, Now: time.Now}
}

// canManage reports whether auth may act on target: admins on anyone,
// managers on themselves and their reports, doers on themselves.
func canManage(auth Models.AuthContext, target Models.User) bool {
	switch {
	case auth.IsAdmin():
		return true
	case target.ID == auth.UserID:
		return true
	case auth.IsManager():
		return target.ManagerID != nil && *target.ManagerID == auth.UserID
	}
	return false
}

// GetMotivation returns the motivation message of the caller, or of user_id
func (h *UserHandler) GetMotivation(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}

	userID := auth.UserID
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return respond(c, fiber.StatusBadRequest, statusError, "Invalid user_id")
		}
		userID = uint(id)
	}
	if userID != auth.UserID {
		var target Models.User
		if err := h.DB.First(&target, userID).Error; err != nil {
			return respond(c, fiber.StatusNotFound, statusError, "User not found")
		}
		if !canManage(auth, target) {
			return respond(c, fiber.StatusForbidden, statusError, "You are not allowed to view this user")
		}
	}

	var m Models.UserMotivation
	if err := h.DB.Where("user_id = ?", userID).Limit(1).Find(&m).Error; err != nil {
		log.Printf("Error loading motivation for user %d: %v", userID, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not load motivation")
	}
	return c.JSON(fiber.Map{"user_id": userID, "message": m.Message})
}

type motivationRequest struct {
	UserID  uint   `json:"user_id" form:"user_id" validate:"required"`
	Message string `json:"message" form:"message" validate:"max=1000"`
}

// SetMotivation stores the motivation message shown on a user's dashboard
func (h *UserHandler) SetMotivation(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req motivationRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	var target Models.User
	if err := h.DB.First(&target, req.UserID).Error; err != nil {
		return respond(c, fiber.StatusNotFound, statusError, "User not found")
	}
	if !canManage(auth, target) {
		return respond(c, fiber.StatusForbidden, statusError, "You are not allowed to update this user")
	}

	m := Models.UserMotivation{UserID: target.ID, Message: strings.TrimSpace(req.Message), UpdatedBy: auth.UserID}
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"message", "updated_by", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		log.Printf("Error saving motivation for user %d: %v", target.ID, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not save motivation")
	}
	return respond(c, fiber.StatusOK, statusSuccess, "Motivation message saved")
}

type resetRequest struct {
	Username    string `json:"username" form:"username" validate:"required"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=6"`
}

// RequestPasswordReset files a pending reset for admins to decide
func (h *UserHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req resetRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	var user Models.User
	err := h.DB.Where("LOWER(username) = ?", Models.MatchKey(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return respond(c, fiber.StatusNotFound, statusError, "User not found")
	}
	if err != nil {
		log.Printf("Error loading user %q: %v", req.Username, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not file the request")
	}

	var pending int64
	if err := h.DB.Model(&Models.PasswordResetRequest{}).Where("user_id = ? AND status = ?", user.ID, Models.ResetPending).Count(&pending).Error; err != nil {
		log.Printf("Error counting pending resets for %s: %v", user.Username, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not file the request")
	}
	if pending > 0 {
		return respond(c, fiber.StatusConflict, statusError, "A reset request is already pending")
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not file the request")
	}

	reset := Models.PasswordResetRequest{UserID: user.ID, NewPasswordHash: hash, Status: Models.ResetPending}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reset).Error; err != nil {
			return err
		}
		return Models.NotifyAdmins(tx, Models.NotificationPasswordReset,
			fmt.Sprintf("%s requested a password reset", user.DisplayName()),
			fiber.Map{"request_id": reset.ID, "user_id": user.ID, "username": user.Username})
	})
	if err != nil {
		log.Printf("Error filing password reset for %s: %v", user.Username, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not file the request")
	}
	return respond(c, fiber.StatusOK, statusSuccess, "Password reset requested. An administrator will review it.")
}

// ListPasswordResets lists reset requests, pending ones by default
func (h *UserHandler) ListPasswordResets(c *fiber.Ctx) error {
	status := c.Query("status", Models.ResetPending)
	var requests []Models.PasswordResetRequest
	q := h.DB.Preload("User").Order("created_at desc")
	if status != "all" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&requests).Error; err != nil {
		log.Printf("Error loading password resets: %v", err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not load requests")
	}
	return c.JSON(fiber.Map{"requests": requests})
}

func (h *UserHandler) ApprovePasswordReset(c *fiber.Ctx) error {
	return h.decide(c, true)
}

func (h *UserHandler) RejectPasswordReset(c *fiber.Ctx) error {
	return h.decide(c, false)
}

func (h *UserHandler) decide(c *fiber.Ctx, approve bool) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, statusError, "Invalid request id")
	}

	var reset Models.PasswordResetRequest
	if err := h.DB.Preload("User").First(&reset, id).Error; err != nil {
		return respond(c, fiber.StatusNotFound, statusError, "Request not found")
	}
	if reset.Status != Models.ResetPending || reset.User == nil {
		return respond(c, fiber.StatusConflict, statusError, "Request was already decided")
	}

	now := h.Now()
	status, verb := Models.ResetRejected, "rejected"
	if approve {
		status, verb = Models.ResetApproved, "approved"
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if approve {
			if err := tx.Model(&Models.User{}).Where("id = ?", reset.UserID).Update("password", reset.NewPasswordHash).Error; err != nil {
				return err
			}
		}
		res := tx.Model(&Models.PasswordResetRequest{}).
			Where("id = ? AND status = ?", reset.ID, Models.ResetPending).
			Updates(map[string]interface{}{"status": status, "decided_by": auth.UserID, "decided_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyDecided
		}
		return Models.Notify(tx, reset.UserID, Models.NotificationResetDecision,
			fmt.Sprintf("Your password reset request was %s", verb),
			fiber.Map{"request_id": reset.ID, "status": status})
	})
	if errors.Is(err, errAlreadyDecided) {
		return respond(c, fiber.StatusConflict, statusError, "Request was already decided")
	}
	if err != nil {
		log.Printf("Error deciding password reset %d: %v", reset.ID, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not save the decision")
	}

	if h.Mailer != nil && reset.User.Email != "" {
		if err := h.Mailer.Send(email.PasswordResetDecision(*reset.User, approve)); err != nil {
			log.Printf("Error emailing reset decision to %s: %v", reset.User.Email, err)
		}
	}
	return respond(c, fiber.StatusOK, statusSuccess, fmt.Sprintf("Password reset %s", verb))
}

var errAlreadyDecided = errors.New("password reset already decided")
