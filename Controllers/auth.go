package Controllers

import (
	"TaskFlow/Models"
	"TaskFlow/middleware"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB   *gorm.DB
	Auth *middleware.JWTAuth
	Now  func() time.Time
}

func NewAuthHandler(db *gorm.DB, auth *middleware.JWTAuth) *AuthHandler {
	return &AuthHandler{DB: db, Auth: auth, Now: time.Now}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks the password and sets the session cookie
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	var user Models.User
	err := h.DB.Where("LOWER(username) = ?", Models.MatchKey(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return respond(c, fiber.StatusUnauthorized, statusError, "Incorrect username or password")
	}
	if err != nil {
		log.Printf("Error loading user %q: %v", req.Username, err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not log in")
	}
	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(req.Password)); err != nil {
		return respond(c, fiber.StatusUnauthorized, statusError, "Incorrect username or password")
	}
	if user.EffectiveStatus() != Models.UserStatusActive {
		return respond(c, fiber.StatusForbidden, statusError, "Account is inactive")
	}

	now := h.Now()
	token, err := h.Auth.Issue(user.ID, now)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		return respond(c, fiber.StatusInternalServerError, statusError, "Could not log in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Expires:  now.Add(middleware.TokenTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Login successful",
		"user":    Models.AuthContextFor(user),
	})
}

// Logout expires the session cookie
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Expires:  h.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return respond(c, fiber.StatusOK, statusSuccess, "Logged out")
}

// User returns the logged-in user
func (h *AuthHandler) User(c *fiber.Ctx) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return unauthorized(c)
	}
	if user.DepartmentID != nil {
		var dept Models.Department
		if err := h.DB.First(&dept, *user.DepartmentID).Error; err == nil {
			user.Department = &dept
		}
	}
	return c.JSON(user)
}

// ValidateToken answers whether the cookie is still good
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(fiber.Map{"valid": true, "user": auth})
}

// HashPassword is the single place passwords are hashed
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}
