package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/divi2001/Traffic-Analysis-App/apperr"
	"github.com/divi2001/Traffic-Analysis-App/auth"
	"github.com/divi2001/Traffic-Analysis-App/models"
)

const userKey = "user"

// AuthRequired resolves the bearer token to a user row and stores it in the
// request locals. Handlers behind it only ever see an authenticated user.
func AuthRequired(db *gorm.DB, svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var tokenStr string

		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		} else {
			tokenStr = c.Cookies("JWT")
		}

		if tokenStr == "" {
			return apperr.Unauthorized("You are not authorized!")
		}

		email, err := svc.ParseSubject(tokenStr)
		if err != nil {
			return apperr.Unauthorized("Invalid token")
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("User not found")
			}
			return apperr.Internal("Database error", err)
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user resolved by AuthRequired.
func CurrentUser(c *fiber.Ctx) (models.User, error) {
	user, ok := c.Locals(userKey).(models.User)
	if !ok {
		return models.User{}, apperr.Unauthorized("You are not authorized!")
	}
	return user, nil
}
