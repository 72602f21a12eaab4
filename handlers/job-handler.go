package handler

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/divi2001/Traffic-Analysis-App/apperr"
	"github.com/divi2001/Traffic-Analysis-App/middleware"
	"github.com/divi2001/Traffic-Analysis-App/models"
	"github.com/divi2001/Traffic-Analysis-App/reports"
	"github.com/divi2001/Traffic-Analysis-App/storage"
)

// JobHandler owns the job lifecycle: creation, video attachment, status
// transitions and report generation.
type JobHandler struct {
	DB    *gorm.DB
	Store *storage.LocalStore
	Gen   reports.ExcelGenerator
}

func NewJobHandler(db *gorm.DB, store *storage.LocalStore) *JobHandler {
	return &JobHandler{DB: db, Store: store}
}

type videoRef struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
}

type jobResponse struct {
	ID              uint             `json:"id"`
	JobNumber       string           `json:"job_number"`
	Name            string           `json:"name"`
	Status          models.JobStatus `json:"status"`
	Latitude        string           `json:"latitude"`
	Longitude       string           `json:"longitude"`
	AdditionalNotes string           `json:"additional_notes"`
	SurveyHours     string           `json:"survey_hours"`
	SurveyTypes     []string         `json:"survey_types"`
	CreatedAt       time.Time        `json:"created_at"`
	CompletedAt     *time.Time       `json:"completed_at"`
	Videos          []videoRef       `json:"videos"`
}

func toJobResponse(job models.Job, videos []videoRef) jobResponse {
	if videos == nil {
		videos = []videoRef{}
	}
	return jobResponse{
		ID:              job.ID,
		JobNumber:       job.JobNumber,
		Name:            job.Name,
		Status:          job.Status,
		Latitude:        job.Latitude,
		Longitude:       job.Longitude,
		AdditionalNotes: job.AdditionalNotes,
		SurveyHours:     job.SurveyHours,
		SurveyTypes:     job.SurveyTypeList(),
		CreatedAt:       job.CreatedAt,
		CompletedAt:     job.CompletedAt,
		Videos:          videos,
	}
}

// findOwnedJob loads a job scoped to its owner. A job belonging to another
// user is indistinguishable from a missing one.
func (h *JobHandler) findOwnedJob(user models.User, jobID int) (models.Job, error) {
	var job models.Job
	err := h.DB.Where("id = ? AND user_id = ?", jobID, user.ID).First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Job{}, apperr.NotFound("Job not found")
		}
		return models.Job{}, apperr.Internal("Database error", err)
	}
	return job, nil
}

// videosForJobs fetches the linked videos for all given jobs in one query,
// keyed by job id and ordered by link insertion.
func (h *JobHandler) videosForJobs(jobIDs []uint) (map[uint][]videoRef, error) {
	byJob := make(map[uint][]videoRef, len(jobIDs))
	if len(jobIDs) == 0 {
		return byJob, nil
	}

	var rows []struct {
		JobID    uint
		ID       uint
		Filename string
	}
	err := h.DB.Table("job_videos").
		Select("job_videos.job_id AS job_id, videos.id AS id, videos.filename AS filename").
		Joins("JOIN videos ON videos.id = job_videos.video_id").
		Where("job_videos.job_id IN ?", jobIDs).
		Order("job_videos.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("Database error", err)
	}

	for _, r := range rows {
		byJob[r.JobID] = append(byJob[r.JobID], videoRef{ID: r.ID, Filename: r.Filename})
	}
	return byJob, nil
}

func (h *JobHandler) listJobs(c *fiber.Ctx, jobs []models.Job) error {
	ids := make([]uint, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}

	byJob, err := h.videosForJobs(ids)
	if err != nil {
		return err
	}

	result := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		result = append(result, toJobResponse(j, byJob[j.ID]))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Jobs fetched successfully",
		"data":    result,
	})
}

// Dashboard lists the caller's jobs currently under analysis.
func (h *JobHandler) Dashboard(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var jobs []models.Job
	if err := h.DB.Where("user_id = ? AND status = ?", user.ID, models.StatusAnalyzing).Find(&jobs).Error; err != nil {
		return apperr.Internal("Database error", err)
	}

	return h.listJobs(c, jobs)
}

// Historical lists the caller's completed jobs, most recently completed first.
func (h *JobHandler) Historical(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var jobs []models.Job
	err = h.DB.Where("user_id = ? AND status = ?", user.ID, models.StatusComplete).
		Order("completed_at DESC").
		Find(&jobs).Error
	if err != nil {
		return apperr.Internal("Database error", err)
	}

	return h.listJobs(c, jobs)
}

func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("job_id")
	if err != nil {
		return apperr.NotFound("Job not found")
	}

	job, err := h.findOwnedJob(user, jobID)
	if err != nil {
		return err
	}

	byJob, err := h.videosForJobs([]uint{job.ID})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Job fetched successfully",
		"data":    toJobResponse(job, byJob[job.ID]),
	})
}

func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	type JobCreateRequest struct {
		Name            string   `json:"name"`
		JobNumber       string   `json:"job_number"`
		Latitude        string   `json:"latitude"`
		Longitude       string   `json:"longitude"`
		AdditionalNotes string   `json:"additional_notes"`
		SurveyHours     string   `json:"survey_hours"`
		SurveyTypes     []string `json:"survey_types"`
	}

	input := new(JobCreateRequest)
	if err := c.BodyParser(input); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	if input.Name == "" || input.JobNumber == "" {
		return apperr.BadRequest("Name and job number are required")
	}

	// Job numbers are unique across all users. Concurrent creates racing
	// past this check are caught by the unique index instead.
	var count int64
	if err := h.DB.Model(&models.Job{}).Where("job_number = ?", input.JobNumber).Count(&count).Error; err != nil {
		return apperr.Internal("Database error checking job number", err)
	}
	if count > 0 {
		return apperr.Conflict(fmt.Sprintf("Job number '%s' already exists", input.JobNumber))
	}

	surveyTypes, err := models.EncodeSurveyTypes(input.SurveyTypes)
	if err != nil {
		return apperr.Internal("Failed to encode survey types", err)
	}

	// New jobs go straight to ANALYZING; any caller-supplied status is ignored.
	job := models.Job{
		UserID:          user.ID,
		JobNumber:       input.JobNumber,
		Name:            input.Name,
		Status:          models.StatusAnalyzing,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		AdditionalNotes: input.AdditionalNotes,
		SurveyHours:     input.SurveyHours,
		SurveyTypes:     surveyTypes,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.DB.Create(&job).Error; err != nil {
		return apperr.Internal("Error creating job", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Job created successfully",
		"data":    toJobResponse(job, nil),
	})
}

// UploadVideos attaches multipart files to a job. Each file is its own unit
// of persistence: a failure partway through leaves earlier files saved and
// linked.
func (h *JobHandler) UploadVideos(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("job_id")
	if err != nil {
		return apperr.NotFound("Job not found")
	}

	job, err := h.findOwnedJob(user, jobID)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperr.BadRequest("No files provided")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return apperr.BadRequest("No files provided")
	}

	uploaded := make([]fiber.Map, 0, len(files))
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			return apperr.Internal("Error opening the file", err)
		}

		savedPath, err := h.Store.SaveUpload(src, fileHeader.Filename)
		src.Close()
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
			return apperr.Internal("Error saving video record", err)
		}

		link := models.JobVideo{JobID: job.ID, VideoID: video.ID}
		if err := h.DB.Create(&link).Error; err != nil {
			return apperr.Internal("Error linking video to job", err)
		}

		uploaded = append(uploaded, fiber.Map{
			"original_name": fileHeader.Filename,
			"saved_path":    savedPath,
		})
	}

	// A re-upload puts the job back under analysis.
	if job.Status != models.StatusAnalyzing {
		err := h.DB.Model(&models.Job{}).Where("id = ?", job.ID).
			Update("status", models.StatusAnalyzing).Error
		if err != nil {
			return apperr.Internal("Error updating job status", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Videos uploaded successfully",
		"data":    fiber.Map{"files": uploaded},
	})
}

// Complete marks a job as finished. This is the only transition into
// COMPLETE; nothing flips status in the background.
func (h *JobHandler) Complete(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("job_id")
	if err != nil {
		return apperr.NotFound("Job not found")
	}

	job, err := h.findOwnedJob(user, jobID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       models.StatusComplete,
		"completed_at": now,
	}
	if err := h.DB.Model(&models.Job{}).Where("id = ?", job.ID).Updates(updates).Error; err != nil {
		return apperr.Internal("Error updating job status", err)
	}
	job.Status = models.StatusComplete
	job.CompletedAt = &now

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Job marked as complete",
		"data":    toJobResponse(job, nil),
	})
}

func (h *JobHandler) ListReports(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("job_id")
	if err != nil {
		return apperr.NotFound("Job not found")
	}

	// Ownership first so existence never leaks through the status gate.
	job, err := h.findOwnedJob(user, jobID)
	if err != nil {
		return err
	}

	if job.Status != models.StatusComplete {
		return apperr.BadRequest("Reports are only available for completed jobs")
	}

	var reportList []models.Report
	if err := h.DB.Where("job_id = ?", job.ID).Find(&reportList).Error; err != nil {
		return apperr.Internal("Database error", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Reports fetched successfully",
		"data":    reportList,
	})
}

func (h *JobHandler) DownloadReport(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("job_id")
	if err != nil {
		return apperr.NotFound("Job not found")
	}
	reportID, err := c.ParamsInt("report_id")
	if err != nil {
		return apperr.NotFound("Report not found")
	}

	job, err := h.findOwnedJob(user, jobID)
	if err != nil {
		return err
	}

	var report models.Report
	err = h.DB.Where("id = ? AND job_id = ?", reportID, job.ID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Report not found")
		}
		return apperr.Internal("Database error", err)
	}

	// Stored paths are data; refuse anything outside the reports root.
	if !h.Store.InsideReports(report.FilePath) {
		return apperr.BadRequest("Invalid report path")
	}

	f, err := os.Open(report.FilePath)
	if err != nil {
		return apperr.NotFound("Report file not found")
	}

	filename := fmt.Sprintf("report_%s_%d.xlsx", job.JobNumber, report.ID)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set(fiber.HeaderContentType, reports.XLSXContentType)
	return c.SendStream(f)
}

func (h *JobHandler) GenerateReport(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	jobID, err := c.ParamsInt("job_id")
	if err != nil {
		return apperr.NotFound("Job not found")
	}

	job, err := h.findOwnedJob(user, jobID)
	if err != nil {
		return err
	}

	// Same-day regenerations share a name and overwrite the artifact; each
	// run still records its own report row.
	reportName := fmt.Sprintf("report_%s_%s.xlsx", job.JobNumber, time.Now().UTC().Format("20060102"))
	reportPath := h.Store.ReportPath(reportName)

	snap := reports.Snapshot{
		JobNumber: job.JobNumber,
		Status:    string(job.Status),
		CreatedAt: job.CreatedAt,
	}
	if err := h.Gen.Generate(snap, reportPath); err != nil {
		return apperr.Internal("Failed to generate report", err)
	}

	report := models.Report{
		JobID:       job.ID,
		FilePath:    reportPath,
		ReportType:  "Excel",
		GeneratedAt: time.Now().UTC(),
	}
	if err := h.DB.Create(&report).Error; err != nil {
		return apperr.Internal("Failed to save report record", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Report generated successfully",
		"data":    fiber.Map{"path": reportPath},
	})
}
