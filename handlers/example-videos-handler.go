package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/divi2001/Traffic-Analysis-App/apperr"
	"github.com/divi2001/Traffic-Analysis-App/models"
)

type ExampleVideoHandler struct {
	DB *gorm.DB
}

func NewExampleVideoHandler(db *gorm.DB) *ExampleVideoHandler {
	return &ExampleVideoHandler{DB: db}
}

// List returns the active entries of the example-video catalog.
func (h *ExampleVideoHandler) List(c *fiber.Ctx) error {
	var videos []models.ExampleVideo
	if err := h.DB.Where("is_active = ?", true).Find(&videos).Error; err != nil {
		return apperr.Internal("Database error", err)
	}
	if videos == nil {
		videos = []models.ExampleVideo{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Example videos fetched successfully",
		"data":    videos,
	})
}

// IncrementViews bumps the view counter for one catalog entry.
func (h *ExampleVideoHandler) IncrementViews(c *fiber.Ctx) error {
	videoID, err := c.ParamsInt("video_id")
	if err != nil {
		return apperr.NotFound("Video not found")
	}

	var video models.ExampleVideo
	if err := h.DB.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Video not found")
		}
		return apperr.Internal("Database error", err)
	}

	err = h.DB.Model(&models.ExampleVideo{}).Where("id = ?", video.ID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	if err != nil {
		return apperr.Internal("Database error", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "View count updated",
		"data":    nil,
	})
}
