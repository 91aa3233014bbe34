package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hrms-backend/config"
	"hrms-backend/handlers"
	"hrms-backend/pkg/paseto"
	"hrms-backend/pkg/sealbox"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
	"hrms-backend/router"
	"hrms-backend/seeder"

	_ "time/tzdata"
)

// @title HRMS API
// @version 1.0
// @description HR management API covering employees, attendance, leave, payroll, performance, increments and recruitment.
//
// @contact.name API Support
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
//
// @tag.name Auth
// @tag.description Login, registration and password flows
//
// @tag.name Users
// @tag.description Employee records and hierarchy
//
// @tag.name Attendance
// @tag.description Punches, breaks, kiosk QR and summaries
//
// @tag.name Payroll
// @tag.description Salary computation and payslips
//
// @tag.name Recruitment
// @tag.description Candidate pipeline and hiring
func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := config.MongoConnect(cfg); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer config.DisconnectDB()

	if err := config.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	handlers.SetLocation(cfg.Location())

	pasetoKey, err := config.DecodeKey(cfg.PasetoSecret)
	if err != nil {
		log.Fatalf("Invalid PASETO_SECRET: %v", err)
	}
	tokens, err := paseto.NewPasetoMaker(pasetoKey, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token maker: %v", err)
	}

	var boxKey []byte
	if cfg.DataEncryptionKey != "" {
		if boxKey, err = config.DecodeKey(cfg.DataEncryptionKey); err != nil {
			log.Fatalf("Invalid DATA_ENCRYPTION_KEY: %v", err)
		}
	} else {
		log.Println("Warning: DATA_ENCRYPTION_KEY not set, bank details are stored in plain text")
	}
	box, err := sealbox.New(boxKey)
	if err != nil {
		log.Fatalf("Failed to create data cipher: %v", err)
	}

	if cfg.SeedOnStart {
		err := seeder.Run(context.Background(), seeder.Repos{
			Orgs:        repository.NewOrganizationRepository(),
			Departments: repository.NewDepartmentRepository(),
			Users:       repository.NewUserRepository(),
			Counters:    repository.NewCounterRepository(),
		})
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "HRMS API",
		ErrorHandler: util.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	config.SetupCORS(app, cfg.AllowedOrigins)

	router.SetupRoutes(app, router.Deps{
		Config:   cfg,
		Tokens:   tokens,
		Box:      box,
		Holidays: util.NewHolidayClient(cfg.HolidayAPIURL),
	})

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("API Documentation: http://localhost:%s/docs/index.html", cfg.Port)
	log.Printf("CORS enabled for origins: %v", cfg.AllowedOrigins)
	log.Fatal(app.Listen(":" + cfg.Port))
}
