package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/divi2001/Traffic-Analysis-App/apperr"
	"github.com/divi2001/Traffic-Analysis-App/auth"
	"github.com/divi2001/Traffic-Analysis-App/config"
	"github.com/divi2001/Traffic-Analysis-App/database"
	"github.com/divi2001/Traffic-Analysis-App/models"
	"github.com/divi2001/Traffic-Analysis-App/router"
	"github.com/divi2001/Traffic-Analysis-App/storage"
)

func main() {
	db := database.Connect()

	// Run migrations
	err := database.MigrateModels(db,
		&models.User{},
		&models.Video{},
		&models.Job{},
		&models.JobVideo{},
		&models.Report{},
		&models.ExampleVideo{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := storage.NewLocalStore(
		config.ConfigOr("UPLOAD_DIR", "uploads"),
		config.ConfigOr("REPORTS_DIR", "reports"),
	)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}

	authSvc := auth.NewService(db, config.Config("JWT_SECRET"))

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
		BodyLimit:    512 * 1024 * 1024,
	})
	app.Use(cors.New())

	router.SetupRoutes(app, db, authSvc, store)

	// close the database connection
	defer func() {
		if err := database.Close(db); err != nil {
			log.Fatal(err)
		}
	}()

	port := config.ConfigOr("PORT", "8000")
	fmt.Println("Server is listening at the port " + port)
	log.Fatal(app.Listen(":" + port))
}
