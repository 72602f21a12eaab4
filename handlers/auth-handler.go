package handler

import (
	"errors"
	"net/mail"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/divi2001/Traffic-Analysis-App/apperr"
	"github.com/divi2001/Traffic-Analysis-App/auth"
	"github.com/divi2001/Traffic-Analysis-App/models"
)

type AuthHandler struct {
	DB  *gorm.DB
	Svc *auth.Service
}

func NewAuthHandler(db *gorm.DB, svc *auth.Service) *AuthHandler {
	return &AuthHandler{DB: db, Svc: svc}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	type RegisterRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(RegisterRequest)
	if err := c.BodyParser(input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	if input.Name == "" || input.Password == "" {
		return apperr.BadRequest("Name and password are required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return apperr.BadRequest("Invalid email address")
	}

	var existing models.User
	err := h.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return apperr.BadRequest("Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("Database error", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return apperr.Internal("Failed to hash password", err)
	}

	user := models.User{Name: input.Name, Email: input.Email, Password: hash}
	if err := h.DB.Create(&user).Error; err != nil {
		return apperr.Internal("Failed to create user", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "User registered successfully",
		"data":    nil,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginRequest)
	if err := c.BodyParser(input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	var user models.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.BadRequest("Invalid credentials")
		}
		return apperr.Internal("Database error", err)
	}

	if !auth.CheckPasswordHash(input.Password, user.Password) {
		return apperr.BadRequest("Invalid credentials")
	}

	tokenStr, err := h.Svc.IssueToken(user)
	if err != nil {
		return apperr.Internal("Failed to generate token", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "JWT",
		Value:    tokenStr,
		Expires:  time.Now().Add(time.Hour * 24 * 7),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Login successful",
		"data": fiber.Map{
			"access_token": tokenStr,
			"token_type":   "bearer",
		},
	})
}
