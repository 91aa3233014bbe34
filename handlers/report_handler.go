package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type ReportHandler struct {
	reportRepo     repository.ReportRepository
	userRepo       repository.UserRepository
	deptRepo       repository.DepartmentRepository
	attendanceRepo repository.AttendanceRepository
	orgRepo        repository.OrganizationRepository
	payrollRepo    repository.PayrollRepository
	perfRepo       repository.PerformanceRepository
	kraRepo        repository.KRARepository
	holidays       util.HolidaySource
}

func NewReportHandler(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	attendanceRepo repository.AttendanceRepository,
	orgRepo repository.OrganizationRepository,
	payrollRepo repository.PayrollRepository,
	perfRepo repository.PerformanceRepository,
	kraRepo repository.KRARepository,
	holidays util.HolidaySource,
) *ReportHandler {
	return &ReportHandler{
		reportRepo:     reportRepo,
		userRepo:       userRepo,
		deptRepo:       deptRepo,
		attendanceRepo: attendanceRepo,
		orgRepo:        orgRepo,
		payrollRepo:    payrollRepo,
		perfRepo:       perfRepo,
		kraRepo:        kraRepo,
		holidays:       holidays,
	}
}

// GenerateReports godoc
// @Summary Rebuild employee reports
// @Description Rebuilds the summary report for every active employee, or one employee when user_id is given
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ReportGeneratePayload false "User and month"
// @Success 200 {object} models.Envelope{data=[]models.Report}
// @Router /reports/generate [post]
func (h *ReportHandler) GenerateReports(c *fiber.Ctx) error {
	var payload models.ReportGeneratePayload
	if len(c.Body()) > 0 {
		if err := util.ParseBody(c, &payload); err != nil {
			return err
		}
	}
	month := payload.Month
	if month == "" {
		month = now().Format(monthLayout)
	}

	ctx, cancel := context.WithTimeout(c.Context(), batchTimeout)
	defer cancel()

	var users []models.User
	if payload.UserID != "" {
		userID, err := parseObjectID(payload.UserID, "user_id")
		if err != nil {
			return err
		}
		user, err := h.userRepo.FindUserByID(ctx, userID)
		if err != nil {
			return storeError(err, "User")
		}
		users = []models.User{*user}
	} else {
		var err error
		if users, err = h.userRepo.FindActiveUsers(ctx); err != nil {
			return storeError(err, "Users")
		}
	}

	deptNames := make(map[primitive.ObjectID]string)
	reports := make([]models.Report, 0, len(users))
	for i := range users {
		report, err := h.build(ctx, &users[i], month, deptNames)
		if err != nil {
			return err
		}
		if err := h.reportRepo.UpsertReport(ctx, report); err != nil {
			return storeError(err, "Report")
		}
		reports = append(reports, *report)
	}
	log.Printf("reports: rebuilt %d report(s) for %s", len(reports), month)
	return util.Success(c, fiber.StatusOK, "Reports generated", reports)
}

func (h *ReportHandler) build(ctx context.Context, user *models.User, month string, deptNames map[primitive.ObjectID]string) (*models.Report, error) {
	start, end, err := monthBounds(month)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid month, expected YYYY-MM")
	}
	summary, err := monthlySummary(ctx, h.attendanceRepo, h.orgRepo, h.holidays, user, month, start, end)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		UserID:         user.ID,
		Name:           user.Name,
		EmployeeID:     user.EmployeeID,
		Designation:    user.Designation,
		Month:          month,
		AttendanceRate: summary.AttendanceRate,
		PresentDays:    summary.PresentDays + summary.LateDays,
		LateDays:       summary.LateDays,
		LeaveDays:      summary.LeaveDays,
		GeneratedAt:    now(),
	}

	if user.DepartmentID != nil {
		name, ok := deptNames[*user.DepartmentID]
		if !ok {
			if dept, err := h.deptRepo.GetDepartmentByID(ctx, *user.DepartmentID); err == nil {
				name = dept.Name
			}
			deptNames[*user.DepartmentID] = name
		}
		report.Department = name
	}

	payroll, err := h.payrollRepo.FindLatestPayroll(ctx, user.ID)
	switch {
	case err == nil:
		report.LastNetPay = payroll.NetPay
	case err != repository.ErrNotFound:
		return nil, storeError(err, "Payroll")
	}

	scores, err := h.perfRepo.FindScoresByUser(ctx, user.ID)
	if err != nil {
		return nil, storeError(err, "Performance scores")
	}
	if len(scores) > 0 {
		report.LastPerformanceScore = scores[0].Metrics.OverallScore
	}

	kras, err := h.kraRepo.FindKRAsByUser(ctx, user.ID)
	if err != nil {
		return nil, storeError(err, "KRAs")
	}
	for _, k := range kras {
		if k.Status == models.KRAEvaluated {
			report.LastKRAScore = k.Score
			break
		}
	}
	return report, nil
}

// GetReports godoc
// @Summary List reports
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department name"
// @Success 200 {object} models.Envelope{data=[]models.Report}
// @Router /reports [get]
func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	reports, err := h.reportRepo.ListReports(ctx, c.Query("department"))
	if err != nil {
		return storeError(err, "Reports")
	}
	return util.Success(c, fiber.StatusOK, "", reports)
}

// GetUserReport godoc
// @Summary Get employee report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.Envelope{data=models.Report}
// @Router /reports/{userId} [get]
func (h *ReportHandler) GetUserReport(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, claims, userID); err != nil {
		return err
	}
	report, err := h.reportRepo.FindReportByUser(ctx, userID)
	if err != nil {
		return storeError(err, "Report")
	}
	return util.Success(c, fiber.StatusOK, "", report)
}
