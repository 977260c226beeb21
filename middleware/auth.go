package middleware

import (
	"TaskFlow/Models"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

const (
	CookieName = "jwt"
	TokenTTL   = 24 * time.Hour

	localUser = "user"
	localAuth = "auth"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// JWTAuth issues and verifies the session cookie
type JWTAuth struct {
	DB     *gorm.DB
	Secret []byte
}

func NewJWTAuth(db *gorm.DB, secret string) *JWTAuth {
	return &JWTAuth{DB: db, Secret: []byte(secret)}
}

// Issue signs a token whose issuer is the user id
func (a *JWTAuth) Issue(userID uint, now time.Time) (string, error) {
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    strconv.Itoa(int(userID)),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})
	return claims.SignedString(a.Secret)
}

// Parse validates a token and returns the user id it was issued for
func (a *JWTAuth) Parse(token string) (uint, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Issuer, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// Verify authenticates the cookie and, when roles are given, requires one of them.
// The loaded user and its AuthContext are stored in Locals.
func (a *JWTAuth) Verify(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(CookieName)
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Logged In.",
			})
		}

		id, err := a.Parse(cookie)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		var user Models.User
		if err := a.DB.Where("id = ?", id).First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		if user.EffectiveStatus() != Models.UserStatusActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Account is inactive",
			})
		}

		auth := Models.AuthContextFor(user)
		c.Locals(localUser, user)
		c.Locals(localAuth, auth)

		if len(roles) == 0 {
			return c.Next()
		}
		for _, role := range roles {
			if auth.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient permissions to access this resource",
		})
	}
}

// AuthFrom returns the AuthContext stored by Verify
func AuthFrom(c *fiber.Ctx) (Models.AuthContext, bool) {
	auth, ok := c.Locals(localAuth).(Models.AuthContext)
	return auth, ok
}

// UserFrom returns the user stored by Verify
func UserFrom(c *fiber.Ctx) (Models.User, bool) {
	user, ok := c.Locals(localUser).(Models.User)
	return user, ok
}

// RequireRole gates a route behind Verify to the given roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, ok := AuthFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Logged In.",
			})
		}
		for _, role := range roles {
			if auth.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient permissions to access this resource",
		})
	}
}
