package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/divi2001/Traffic-Analysis-App/auth"
	handler "github.com/divi2001/Traffic-Analysis-App/handlers"
	"github.com/divi2001/Traffic-Analysis-App/middleware"
	"github.com/divi2001/Traffic-Analysis-App/storage"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, authSvc *auth.Service, store *storage.LocalStore) {
	app.Use(logger.New())

	authHandler := handler.NewAuthHandler(db, authSvc)
	jobHandler := handler.NewJobHandler(db, store)
	videoHandler := handler.NewVideoHandler(db, store)
	exampleHandler := handler.NewExampleVideoHandler(db)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	requireAuth := middleware.AuthRequired(db, authSvc)

	// Static job routes go first so they don't match as :job_id.
	jobs := app.Group("/jobs", requireAuth)
	jobs.Get("/dashboard/", jobHandler.Dashboard)
	jobs.Get("/historical/", jobHandler.Historical)
	jobs.Post("/create/", jobHandler.CreateJob)
	jobs.Get("/:job_id/", jobHandler.GetJob)
	jobs.Post("/:job_id/upload-videos/", jobHandler.UploadVideos)
	jobs.Post("/:job_id/complete/", jobHandler.Complete)
	jobs.Get("/:job_id/reports/", jobHandler.ListReports)
	jobs.Get("/:job_id/reports/:report_id/download", jobHandler.DownloadReport)
	jobs.Post("/:job_id/generate-report/", jobHandler.GenerateReport)

	videos := app.Group("/videos", requireAuth)
	videos.Post("/upload/", videoHandler.UploadVideo)

	app.Get("/videolist/list/", videoHandler.ListVideos)

	examples := app.Group("/example-videos")
	examples.Get("/", exampleHandler.List)
	examples.Post("/:video_id/view/", exampleHandler.IncrementViews)
}
