package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"hrms-backend/config"
	"hrms-backend/config/middleware"
	_ "hrms-backend/docs"
	"hrms-backend/handlers"
	"hrms-backend/models"
	"hrms-backend/pkg/mailer"
	"hrms-backend/pkg/paseto"
	"hrms-backend/pkg/sealbox"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

// Deps are the process-wide services built in main.
type Deps struct {
	Config   *config.AppConfig
	Tokens   *paseto.Maker
	Box      *sealbox.Box
	Holidays util.HolidaySource
}

func SetupRoutes(app *fiber.App, deps Deps) {
	log.Println("Registering application routes...")
	cfg := deps.Config

	// Repositories
	userRepo := repository.NewUserRepository()
	orgRepo := repository.NewOrganizationRepository()
	deptRepo := repository.NewDepartmentRepository()
	attendanceRepo := repository.NewAttendanceRepository()
	scheduleRepo := repository.NewWorkScheduleRepository()
	leaveRepo := repository.NewLeaveRequestRepository()
	taskRepo := repository.NewTaskRepository()
	perfRepo := repository.NewPerformanceRepository()
	kraRepo := repository.NewKRARepository()
	growthRepo := repository.NewGrowthRepository()
	incrementRepo := repository.NewIncrementRepository()
	incentiveRepo := repository.NewIncentiveRepository()
	payrollRepo := repository.NewPayrollRepository()
	candidateRepo := repository.NewCandidateRepository()
	emailRepo := repository.NewEmailRepository()
	reportRepo := repository.NewReportRepository()
	counterRepo := repository.NewCounterRepository()

	mail := mailer.NewService(mailer.NewTransport(cfg), cfg.EmailFrom, emailRepo)

	// Handlers
	authCfg := handlers.AuthConfig{
		ResetSecret: cfg.JWTSecret,
		ResetTTL:    cfg.ResetTokenTTL,
		FrontendURL: cfg.FrontendURL,
	}
	authHandler := handlers.NewAuthHandler(userRepo, counterRepo, deps.Tokens, mail, authCfg)
	userHandler := handlers.NewUserHandler(userRepo, deptRepo, leaveRepo, attendanceRepo, candidateRepo, deps.Box)
	orgHandler := handlers.NewOrganizationHandler(orgRepo, deptRepo, userRepo)
	deptHandler := handlers.NewDepartmentHandler(deptRepo, userRepo)
	scheduleHandler := handlers.NewWorkScheduleHandler(scheduleRepo, deps.Holidays)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceRepo, userRepo, orgRepo, leaveRepo, scheduleRepo, deps.Holidays)
	leaveHandler := handlers.NewLeaveRequestHandler(leaveRepo, attendanceRepo, userRepo, orgRepo, deps.Holidays, mail)
	taskHandler := handlers.NewTaskHandler(taskRepo, userRepo)
	perfHandler := handlers.NewPerformanceHandler(perfRepo, kraRepo, taskRepo, attendanceRepo, userRepo, orgRepo, deps.Holidays)
	kraHandler := handlers.NewKRAHandler(kraRepo, userRepo)
	growthHandler := handlers.NewGrowthHandler(growthRepo)
	incrementHandler := handlers.NewIncrementHandler(incrementRepo, perfRepo, kraRepo, growthRepo, userRepo, mail)
	incentiveHandler := handlers.NewIncentiveHandler(incentiveRepo, perfRepo, kraRepo, growthRepo, userRepo)
	payrollHandler := handlers.NewPayrollHandler(payrollRepo, userRepo, attendanceRepo, leaveRepo, deptRepo, orgRepo, deps.Holidays, mail)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo, userRepo, counterRepo, mail, authCfg)
	mailHandler := handlers.NewMailHandler(mail, emailRepo)
	reportHandler := handlers.NewReportHandler(reportRepo, userRepo, deptRepo, attendanceRepo, orgRepo, payrollRepo, perfRepo, kraRepo, deps.Holidays)

	auth := middleware.AuthMiddleware(deps.Tokens)
	adminOnly := middleware.AdminMiddleware()
	hrOnly := middleware.RoleMiddleware(models.RoleAdmin, models.RoleHR)
	managers := middleware.RoleMiddleware(models.RoleAdmin, models.RoleHR, models.RoleManager)

	// Health check & Docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HRMS API",
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")

	// Authentication
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/register", auth, hrOnly, authHandler.Register)
	authGroup.Post("/logout", auth, authHandler.Logout)

	// Users
	users := api.Group("/users", auth)
	users.Post("/change-password", authHandler.ChangePassword)
	users.Get("/me", userHandler.GetMe)
	users.Get("/:id", userHandler.GetUserByID)
	users.Put("/:id", userHandler.UpdateUser)
	users.Put("/:id/bank-details", userHandler.UpdateBankDetails)
	users.Get("/:id/reporting-chain", userHandler.GetReportingChain)
	users.Get("/:id/direct-reports", userHandler.GetDirectReports)

	admin := api.Group("/admin", auth, hrOnly)
	admin.Get("/users", userHandler.GetAllUsers)
	admin.Delete("/users/:id", adminOnly, userHandler.DeleteUser)
	admin.Get("/dashboard-stats", userHandler.GetDashboardStats)

	// Organizations & departments
	orgs := api.Group("/organizations", auth)
	orgs.Get("/", orgHandler.GetAllOrganizations)
	orgs.Get("/:id", orgHandler.GetOrganizationByID)
	orgs.Get("/:id/hierarchy", orgHandler.GetHierarchy)
	orgs.Post("/", adminOnly, orgHandler.CreateOrganization)
	orgs.Put("/:id", adminOnly, orgHandler.UpdateOrganization)
	orgs.Put("/:id/settings", adminOnly, orgHandler.UpdateSettings)
	orgs.Post("/:id/kiosk-secret", adminOnly, orgHandler.RotateKioskSecret)
	orgs.Delete("/:id", adminOnly, orgHandler.DeleteOrganization)

	depts := api.Group("/departments", auth)
	depts.Get("/", deptHandler.GetAllDepartments)
	depts.Get("/:id", deptHandler.GetDepartmentByID)
	depts.Post("/", hrOnly, deptHandler.CreateDepartment)
	depts.Put("/:id", hrOnly, deptHandler.UpdateDepartment)
	depts.Delete("/:id", hrOnly, deptHandler.DeleteDepartment)

	// Work schedules & holidays
	api.Get("/holidays", auth, scheduleHandler.GetHolidays)
	schedules := api.Group("/work-schedules", auth)
	schedules.Get("/", scheduleHandler.GetAllWorkSchedules)
	schedules.Get("/:id", scheduleHandler.GetWorkScheduleByID)
	schedules.Post("/", hrOnly, scheduleHandler.CreateWorkSchedule)
	schedules.Put("/:id", hrOnly, scheduleHandler.UpdateWorkSchedule)
	schedules.Delete("/:id", hrOnly, scheduleHandler.DeleteWorkSchedule)

	// Attendance
	attendance := api.Group("/attendance", auth)
	attendance.Post("/punch-in", attendanceHandler.PunchIn)
	attendance.Post("/punch-out", attendanceHandler.PunchOut)
	attendance.Post("/break/start", attendanceHandler.StartBreak)
	attendance.Post("/break/end", attendanceHandler.EndBreak)
	attendance.Get("/my-history", attendanceHandler.GetMyAttendanceHistory)
	attendance.Get("/summary", attendanceHandler.GetSummary)
	attendance.Get("/generate-qr", hrOnly, attendanceHandler.GenerateQRCode)
	attendance.Get("/kiosk-code", hrOnly, attendanceHandler.GetKioskCode)
	attendance.Get("/today", hrOnly, attendanceHandler.GetTodayAttendance)
	attendance.Get("/export", hrOnly, attendanceHandler.ExportAttendance)
	attendance.Post("/mark-absent", hrOnly, attendanceHandler.MarkAbsent)
	attendance.Get("/", hrOnly, attendanceHandler.GetAttendances)
	attendance.Put("/:id", hrOnly, attendanceHandler.UpdateAttendance)

	// Leave requests
	leaves := api.Group("/leave-requests", auth)
	leaves.Post("/", leaveHandler.CreateLeaveRequest)
	leaves.Get("/", leaveHandler.GetAllLeaveRequests)
	leaves.Get("/:id", leaveHandler.GetLeaveRequestByID)
	leaves.Put("/:id/status", hrOnly, leaveHandler.UpdateLeaveRequestStatus)

	// Tasks
	tasks := api.Group("/tasks", auth)
	tasks.Post("/", managers, taskHandler.CreateTask)
	tasks.Get("/", taskHandler.GetTasks)
	tasks.Put("/responses/:id/rate", managers, taskHandler.RateResponse)
	tasks.Get("/:id", taskHandler.GetTaskByID)
	tasks.Put("/:id/status", taskHandler.UpdateTaskStatus)
	tasks.Delete("/:id", managers, taskHandler.DeleteTask)
	tasks.Post("/:id/responses", taskHandler.SubmitResponse)
	tasks.Get("/:id/responses", taskHandler.GetResponses)

	// Performance & KRA
	perf := api.Group("/performance", auth)
	perf.Get("/", perfHandler.GetPerformances)
	perf.Post("/scores/calculate", managers, perfHandler.CalculateScore)
	perf.Get("/scores", perfHandler.GetScores)
	perf.Post("/reviews", managers, perfHandler.CreateReview)
	perf.Get("/reviews", perfHandler.GetReviews)
	perf.Get("/reviews/:id", perfHandler.GetReviewByID)
	perf.Put("/reviews/:id", managers, perfHandler.UpdateReview)
	perf.Put("/reviews/:id/submit", managers, perfHandler.SubmitReview)
	perf.Put("/reviews/:id/acknowledge", perfHandler.AcknowledgeReview)
	perf.Post("/consolidate", managers, perfHandler.Consolidate)

	kra := api.Group("/kra", auth)
	kra.Post("/", managers, kraHandler.CreateKRA)
	kra.Get("/", kraHandler.GetKRAs)
	kra.Get("/:id", kraHandler.GetKRAByID)
	kra.Put("/:id", managers, kraHandler.UpdateKRA)
	kra.Put("/:id/self-rate", kraHandler.SelfRate)
	kra.Put("/:id/evaluate", managers, kraHandler.Evaluate)
	kra.Delete("/:id", managers, kraHandler.DeleteKRA)

	// Company growth, increments & incentives
	growth := api.Group("/company-growth", auth)
	growth.Get("/", growthHandler.GetGrowth)
	growth.Get("/:year/:quarter", growthHandler.GetQuarter)
	growth.Get("/:year/:quarter/metrics", growthHandler.GetMetrics)
	growth.Post("/", hrOnly, growthHandler.SaveGrowth)
	growth.Delete("/:id", hrOnly, growthHandler.DeleteGrowth)

	increments := api.Group("/increments", auth)
	increments.Get("/", incrementHandler.GetIncrements)
	increments.Post("/calculate", hrOnly, incrementHandler.CalculateIncrement)
	increments.Put("/:id/approve", hrOnly, incrementHandler.ApproveIncrement)
	increments.Put("/:id/reject", hrOnly, incrementHandler.RejectIncrement)

	incentives := api.Group("/incentives", auth)
	incentives.Get("/", incentiveHandler.GetIncentives)
	incentives.Post("/calculate", hrOnly, incentiveHandler.CalculateIncentive)
	incentives.Put("/:id/approve", hrOnly, incentiveHandler.ApproveIncentive)
	incentives.Put("/:id/mark-paid", hrOnly, incentiveHandler.MarkIncentivePaid)

	// Payroll (static paths before /:id)
	payroll := api.Group("/payroll", auth)
	payroll.Post("/periods", hrOnly, payrollHandler.CreatePeriod)
	payroll.Get("/periods", hrOnly, payrollHandler.GetPeriods)
	payroll.Get("/periods/:id", hrOnly, payrollHandler.GetPeriod)
	payroll.Put("/periods/:id/lock", hrOnly, payrollHandler.LockPeriod)
	payroll.Post("/periods/:id/adjustments", hrOnly, payrollHandler.AddAdjustment)
	payroll.Get("/periods/:id/adjustments", hrOnly, payrollHandler.GetAdjustments)
	payroll.Delete("/periods/:id/adjustments/:adjustmentId", hrOnly, payrollHandler.DeleteAdjustment)
	payroll.Post("/periods/:id/generate", hrOnly, payrollHandler.GeneratePayroll)
	payroll.Get("/periods/:id/export", hrOnly, payrollHandler.ExportRegister)
	payroll.Post("/full-and-final", hrOnly, payrollHandler.FullAndFinal)
	payroll.Get("/", payrollHandler.GetPayrolls)
	payroll.Get("/:id", payrollHandler.GetPayrollByID)
	payroll.Get("/:id/payslip", payrollHandler.GetPayslip)
	payroll.Put("/:id/mark-paid", hrOnly, payrollHandler.MarkPaid)

	// Recruitment
	candidates := api.Group("/candidates", auth, hrOnly)
	candidates.Post("/", candidateHandler.CreateCandidate)
	candidates.Get("/", candidateHandler.GetCandidates)
	candidates.Get("/:id", candidateHandler.GetCandidateByID)
	candidates.Put("/:id", candidateHandler.UpdateCandidate)
	candidates.Put("/:id/status", candidateHandler.UpdateStatus)
	candidates.Post("/:id/interviews", candidateHandler.AddInterview)
	candidates.Post("/:id/hire", candidateHandler.Hire)
	candidates.Delete("/:id", candidateHandler.DeleteCandidate)

	// Mail & reports
	mailGroup := api.Group("/mail", auth, hrOnly)
	mailGroup.Post("/send", mailHandler.SendMail)
	mailGroup.Get("/logs", mailHandler.GetLogs)

	reports := api.Group("/reports", auth)
	reports.Post("/generate", hrOnly, reportHandler.GenerateReports)
	reports.Get("/", hrOnly, reportHandler.GetReports)
	reports.Get("/:userId", reportHandler.GetUserReport)

	log.Printf("Registered %d routes. Swagger documentation at /docs/index.html", len(app.GetRoutes(true)))
}
