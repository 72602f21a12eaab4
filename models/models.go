package models

import (
	"encoding/json"
	"log"
	"time"
)

type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusAnalyzing JobStatus = "ANALYZING"
	StatusComplete  JobStatus = "COMPLETE"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
}

type Video struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Filename   string    `json:"filename" gorm:"not null"`
	FilePath   string    `json:"file_path" gorm:"not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
	// Reserved for the analysis pipeline; nothing writes it yet.
	Processed int `json:"processed" gorm:"default:0"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type Job struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	JobNumber       string    `json:"job_number" gorm:"uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"not null"`
	Status          JobStatus `json:"status" gorm:"type:text;not null"`
	Latitude        string    `json:"latitude"`
	Longitude       string    `json:"longitude"`
	AdditionalNotes string    `json:"additional_notes"`
	SurveyHours     string    `json:"survey_hours"`
	// JSON-encoded list of category strings; read through SurveyTypeList.
	SurveyTypes string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// JobVideo links a job to an uploaded video, in insertion order.
type JobVideo struct {
	ID      uint `gorm:"primaryKey"`
	JobID   uint `gorm:"not null;index"`
	VideoID uint `gorm:"not null;index"`
}

type Report struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	JobID       uint      `json:"job_id" gorm:"not null;index"`
	FilePath    string    `json:"file_path" gorm:"not null"`
	ReportType  string    `json:"report_type" gorm:"not null"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ExampleVideo struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description"`
	VideoPath     string    `json:"video_path" gorm:"not null"`
	ThumbnailPath string    `json:"thumbnail_path" gorm:"not null"`
	UploadedAt    time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	Category      string    `json:"category"`
	ViewsCount    int       `json:"views_count" gorm:"default:0"`
}

// SurveyTypeList decodes the stored survey_types column. Empty or malformed
// content yields an empty list, never an error; malformed rows are logged.
func (j *Job) SurveyTypeList() []string {
	if j.SurveyTypes == "" {
		return []string{}
	}

	var types []string
	if err := json.Unmarshal([]byte(j.SurveyTypes), &types); err != nil {
		log.Printf("job %d: malformed survey_types %q, treating as empty", j.ID, j.SurveyTypes)
		return []string{}
	}
	if types == nil {
		return []string{}
	}
	return types
}

// EncodeSurveyTypes serializes the given categories for storage. An empty
// list stores as the empty string rather than "[]".
func EncodeSurveyTypes(types []string) (string, error) {
	if len(types) == 0 {
		return "", nil
	}
	b, err := json.Marshal(types)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
