package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/divi2001/Traffic-Analysis-App/apperr"
	"github.com/divi2001/Traffic-Analysis-App/middleware"
	"github.com/divi2001/Traffic-Analysis-App/models"
	"github.com/divi2001/Traffic-Analysis-App/storage"
)

var allowedVideoTypes = map[string]bool{
	"video/mp4": true,
	"video/avi": true,
	"video/mkv": true,
}

type VideoHandler struct {
	DB    *gorm.DB
	Store *storage.LocalStore
}

func NewVideoHandler(db *gorm.DB, store *storage.LocalStore) *VideoHandler {
	return &VideoHandler{DB: db, Store: store}
}

// UploadVideo handles a standalone single-file upload not tied to a job.
func (h *VideoHandler) UploadVideo(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperr.BadRequest("No file provided")
	}

	if !allowedVideoTypes[fileHeader.Header.Get("Content-Type")] {
		return apperr.BadRequest("Invalid file format")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apperr.Internal("Error opening the file", err)
	}
	defer src.Close()

	savedPath, err := h.Store.SaveUpload(src, fileHeader.Filename)
	if err != nil {
		return apperr.Internal("Error saving file", err)
	}

	video := models.Video{
		UserID:     user.ID,
		Filename:   fileHeader.Filename,
		FilePath:   savedPath,
		UploadedAt: time.Now().UTC(),
	}
	if err := h.DB.Create(&video).Error; err != nil {
		return apperr.Internal("Error saving to database", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Video uploaded successfully",
		"data":    fiber.Map{"filename": video.Filename},
	})
}

// ListVideos returns id and filename of every uploaded video.
func (h *VideoHandler) ListVideos(c *fiber.Ctx) error {
	type videoItem struct {
		ID       uint   `json:"id"`
		Filename string `json:"filename"`
	}

	var items []videoItem
	if err := h.DB.Model(&models.Video{}).Select("id, filename").Scan(&items).Error; err != nil {
		return apperr.Internal("Database error", err)
	}
	if items == nil {
		items = []videoItem{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Videos fetched successfully",
		"data":    items,
	})
}
