package handlers

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	"hrms-backend/pkg/export"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type PayrollHandler struct {
	payrollRepo    repository.PayrollRepository
	userRepo       repository.UserRepository
	attendanceRepo repository.AttendanceRepository
	leaveRepo      repository.LeaveRequestRepository
	deptRepo       repository.DepartmentRepository
	orgRepo        repository.OrganizationRepository
	holidays       util.HolidaySource
	mail           Mailer
}

func NewPayrollHandler(
	payrollRepo repository.PayrollRepository,
	userRepo repository.UserRepository,
	attendanceRepo repository.AttendanceRepository,
	leaveRepo repository.LeaveRequestRepository,
	deptRepo repository.DepartmentRepository,
	orgRepo repository.OrganizationRepository,
	holidays util.HolidaySource,
	mail Mailer,
) *PayrollHandler {
	return &PayrollHandler{
		payrollRepo:    payrollRepo,
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		deptRepo:       deptRepo,
		orgRepo:        orgRepo,
		holidays:       holidays,
		mail:           mail,
	}
}

func (h *PayrollHandler) defaultSettings(ctx context.Context) models.OrgSettings {
	return orgSettings(ctx, h.orgRepo, nil)
}

// CreatePeriod godoc
// @Summary Open payroll period
// @Description Working days come from the weekly schedule minus public holidays
// @Tags Payroll
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param period body models.PayrollPeriodPayload true "Month"
// @Success 201 {object} models.Envelope{data=models.PayrollPeriod}
// @Failure 409 {object} models.ErrorEnvelope "Period already exists"
// @Router /payroll/periods [post]
func (h *PayrollHandler) CreatePeriod(c *fiber.Ctx) error {
	var payload models.PayrollPeriodPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	start, end, err := monthBounds(payload.Month)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid month, expected YYYY-MM")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.payrollRepo.FindPeriodByMonth(ctx, payload.Month); err == nil {
		return fiber.NewError(fiber.StatusConflict, "Payroll period already exists for "+payload.Month)
	}

	holidays := holidaysBetween(ctx, h.holidays, start, end)
	dates := make([]string, 0, len(holidays))
	for d := range holidays {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	settings := h.defaultSettings(ctx)
	period := &models.PayrollPeriod{
		Month:       payload.Month,
		StartDate:   start.Format(dateLayout),
		EndDate:     end.Format(dateLayout),
		WorkingDays: calc.WorkingDays(start, end, calc.WeekdaysFor(settings.WorkingDaysPerWeek), holidays),
		Holidays:    dates,
		Status:      models.PeriodOpen,
	}
	if err := h.payrollRepo.CreatePeriod(ctx, period); err != nil {
		return storeError(err, "Payroll period")
	}
	return util.Success(c, fiber.StatusCreated, "Payroll period created", period)
}

// GetPeriods godoc
// @Summary List payroll periods
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.PayrollPeriod}
// @Router /payroll/periods [get]
func (h *PayrollHandler) GetPeriods(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	periods, err := h.payrollRepo.ListPeriods(ctx)
	if err != nil {
		return storeError(err, "Payroll periods")
	}
	return util.Success(c, fiber.StatusOK, "", periods)
}

func (h *PayrollHandler) period(ctx context.Context, c *fiber.Ctx) (*models.PayrollPeriod, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	period, err := h.payrollRepo.FindPeriodByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Payroll period")
	}
	return period, nil
}

func (h *PayrollHandler) openPeriod(ctx context.Context, c *fiber.Ctx) (*models.PayrollPeriod, error) {
	period, err := h.period(ctx, c)
	if err != nil {
		return nil, err
	}
	if period.Status == models.PeriodLocked {
		return nil, fiber.NewError(fiber.StatusConflict, "Payroll period "+period.Month+" is locked")
	}
	return period, nil
}

// GetPeriod godoc
// @Summary Get payroll period
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Success 200 {object} models.Envelope{data=models.PayrollPeriod}
// @Router /payroll/periods/{id} [get]
func (h *PayrollHandler) GetPeriod(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	period, err := h.period(ctx, c)
	if err != nil {
		return err
	}
	return util.Success(c, fiber.StatusOK, "", period)
}

// LockPeriod godoc
// @Summary Lock payroll period
// @Description A locked period accepts no further generation or adjustments
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Success 200 {object} models.Envelope{data=models.PayrollPeriod}
// @Router /payroll/periods/{id}/lock [put]
func (h *PayrollHandler) LockPeriod(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	period, err := h.openPeriod(ctx, c)
	if err != nil {
		return err
	}
	period.Status = models.PeriodLocked
	if err := h.payrollRepo.SavePeriod(ctx, period); err != nil {
		return storeError(err, "Payroll period")
	}
	return util.Success(c, fiber.StatusOK, "Payroll period locked", period)
}

// AddAdjustment godoc
// @Summary Add payroll adjustment
// @Tags Payroll
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Param adjustment body models.PayrollAdjustmentPayload true "Adjustment"
// @Success 201 {object} models.Envelope{data=models.PayrollAdjustment}
// @Router /payroll/periods/{id}/adjustments [post]
func (h *PayrollHandler) AddAdjustment(c *fiber.Ctx) error {
	var payload models.PayrollAdjustmentPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	userID, err := parseObjectID(payload.UserID, "user_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	period, err := h.openPeriod(ctx, c)
	if err != nil {
		return err
	}
	if _, err := h.userRepo.FindUserByID(ctx, userID); err != nil {
		return storeError(err, "User")
	}

	adj := &models.PayrollAdjustment{
		UserID:    userID,
		PeriodID:  period.ID,
		Type:      payload.Type,
		Label:     payload.Label,
		Amount:    calc.Round2(payload.Amount),
		CreatedBy: currentUser(c).UserID,
	}
	if err := h.payrollRepo.CreateAdjustment(ctx, adj); err != nil {
		return storeError(err, "Payroll adjustment")
	}
	return util.Success(c, fiber.StatusCreated, "Adjustment added", adj)
}

// GetAdjustments godoc
// @Summary List payroll adjustments
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Param user_id query string false "User ID"
// @Success 200 {object} models.Envelope{data=[]models.PayrollAdjustment}
// @Router /payroll/periods/{id}/adjustments [get]
func (h *PayrollHandler) GetAdjustments(c *fiber.Ctx) error {
	userID, err := optionalID(c.Query("user_id"), "user_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	period, err := h.period(ctx, c)
	if err != nil {
		return err
	}
	adjustments, err := h.payrollRepo.FindAdjustments(ctx, period.ID, userID)
	if err != nil {
		return storeError(err, "Payroll adjustments")
	}
	return util.Success(c, fiber.StatusOK, "", adjustments)
}

// DeleteAdjustment godoc
// @Summary Delete payroll adjustment
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Param adjustmentId path string true "Adjustment ID"
// @Success 200 {object} models.Envelope
// @Router /payroll/periods/{id}/adjustments/{adjustmentId} [delete]
func (h *PayrollHandler) DeleteAdjustment(c *fiber.Ctx) error {
	adjID, err := paramID(c, "adjustmentId")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	period, err := h.openPeriod(ctx, c)
	if err != nil {
		return err
	}
	adjustments, err := h.payrollRepo.FindAdjustments(ctx, period.ID, nil)
	if err != nil {
		return storeError(err, "Payroll adjustments")
	}
	found := false
	for _, a := range adjustments {
		if a.ID == adjID {
			found = true
			break
		}
	}
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "Payroll adjustment not found")
	}
	if err := h.payrollRepo.DeleteAdjustment(ctx, adjID); err != nil {
		return storeError(err, "Payroll adjustment")
	}
	return util.Success(c, fiber.StatusOK, "Adjustment deleted", nil)
}

type GenerateResult struct {
	Period    models.PayrollPeriod `json:"period"`
	Generated int                  `json:"generated"`
	Skipped   []string             `json:"skipped"`
}

// GeneratePayroll godoc
// @Summary Generate payroll
// @Description Computes payroll for every active employee (or the given user_ids) from attendance, approved leave and adjustments. Paid payrolls are left untouched.
// @Tags Payroll
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Param payload body models.PayrollGeneratePayload false "Restrict to users"
// @Success 200 {object} models.Envelope{data=GenerateResult}
// @Failure 409 {object} models.ErrorEnvelope "Period locked"
// @Router /payroll/periods/{id}/generate [post]
func (h *PayrollHandler) GeneratePayroll(c *fiber.Ctx) error {
	var payload models.PayrollGeneratePayload
	if len(c.Body()) > 0 {
		if err := util.ParseBody(c, &payload); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(c.Context(), batchTimeout)
	defer cancel()

	period, err := h.openPeriod(ctx, c)
	if err != nil {
		return err
	}
	start, end, err := monthBounds(period.Month)
	if err != nil {
		return err
	}

	var users []models.User
	if len(payload.UserIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(payload.UserIDs))
		for _, raw := range payload.UserIDs {
			id, err := parseObjectID(raw, "user_ids")
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		users, err = h.userRepo.FindUsersByIDs(ctx, ids)
	} else {
		users, err = h.userRepo.FindActiveUsers(ctx)
	}
	if err != nil {
		return storeError(err, "Users")
	}

	existing, err := h.payrollRepo.ListPayrollsWithUser(ctx, period.ID)
	if err != nil {
		return storeError(err, "Payrolls")
	}
	paid := make(map[primitive.ObjectID]bool)
	for _, p := range existing {
		if p.Status == models.PayrollPaid {
			paid[p.UserID] = true
		}
	}

	holidays := make(map[string]bool, len(period.Holidays))
	for _, d := range period.Holidays {
		holidays[d] = true
	}

	result := GenerateResult{Skipped: []string{}}
	for i := range users {
		user := &users[i]
		switch {
		case paid[user.ID]:
			result.Skipped = append(result.Skipped, user.EmployeeID+": already paid")
			continue
		case user.Salary <= 0:
			result.Skipped = append(result.Skipped, user.EmployeeID+": no salary")
			continue
		case !user.DateOfJoining.IsZero() && user.DateOfJoining.After(end):
			result.Skipped = append(result.Skipped, user.EmployeeID+": joins after period")
			continue
		}

		payroll, err := h.computePayroll(ctx, user, period, start, end, holidays)
		if err != nil {
			return err
		}
		if err := h.payrollRepo.UpsertPayroll(ctx, payroll); err != nil {
			return storeError(err, "Payroll")
		}
		result.Generated++

		h.mail.Notify(ctx, models.EmailCategoryPayslip, user.Email,
			"Payslip for "+period.Month,
			fmt.Sprintf("Hello %s,\n\nYour payslip for %s is available. Net pay: %.2f.", user.Name, period.Month, payroll.NetPay))
	}

	at := now()
	period.Status = models.PeriodProcessed
	period.ProcessedAt = &at
	if err := h.payrollRepo.SavePeriod(ctx, period); err != nil {
		return storeError(err, "Payroll period")
	}
	result.Period = *period

	log.Printf("payroll: generated %d payrolls for %s (%d skipped)", result.Generated, period.Month, len(result.Skipped))
	return util.Success(c, fiber.StatusOK, fmt.Sprintf("%d payrolls generated", result.Generated), result)
}

func (h *PayrollHandler) computePayroll(ctx context.Context, user *models.User, period *models.PayrollPeriod, start, end time.Time, holidays map[string]bool) (*models.Payroll, error) {
	records, err := h.attendanceRepo.FindAttendances(ctx, repository.AttendanceFilter{
		UserID:   &user.ID,
		FromDate: period.StartDate,
		ToDate:   period.EndDate,
	})
	if err != nil {
		return nil, storeError(err, "Attendance")
	}
	leaves, err := h.leaveRepo.FindOverlapping(ctx, &user.ID, period.StartDate, period.EndDate, models.LeaveApproved)
	if err != nil {
		return nil, storeError(err, "Leave requests")
	}
	adjustments, err := h.payrollRepo.FindAdjustments(ctx, period.ID, &user.ID)
	if err != nil {
		return nil, storeError(err, "Payroll adjustments")
	}

	settings := orgSettings(ctx, h.orgRepo, user)
	summary := summarizeAttendance(user.ID, period.Month, records, period.WorkingDays)

	in := calc.PayrollInput{
		MonthlySalary: user.Salary,
		WorkingDays:   period.WorkingDays,
		PresentDays:   float64(summary.PresentDays + summary.LateDays),
		HalfDays:      float64(summary.HalfDays),
		PaidLeaveDays: paidLeaveDays(leaves, start, end, calc.WeekdaysFor(settings.WorkingDaysPerWeek), holidays),
		HolidayDays:   float64(summary.HolidayDays),
		OvertimeHours: summary.OvertimeHours,
		StandardHours: settings.StandardHours,
	}
	for _, a := range adjustments {
		in.Adjustments = append(in.Adjustments, calc.Adjustment{Type: a.Type, Amount: a.Amount})
	}
	res := calc.CalculatePayroll(in)

	return &models.Payroll{
		UserID:          user.ID,
		PeriodID:        period.ID,
		Month:           period.Month,
		MonthlySalary:   user.Salary,
		WorkingDays:     period.WorkingDays,
		PaidDays:        res.PaidDays,
		LOPDays:         res.LOPDays,
		OvertimeHours:   summary.OvertimeHours,
		Earnings:        res.Earnings,
		Deductions:      res.Deductions,
		Gross:           res.Gross,
		TotalDeductions: res.TotalDeductions,
		NetPay:          res.NetPay,
		Status:          models.PayrollGenerated,
	}, nil
}

// GetPayrolls godoc
// @Summary List payrolls
// @Description HR lists a period (period_id) or an employee (user_id); other employees see their own
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Param period_id query string false "Period ID"
// @Param user_id query string false "User ID"
// @Success 200 {object} models.Envelope{data=[]models.Payroll}
// @Router /payroll [get]
func (h *PayrollHandler) GetPayrolls(c *fiber.Ctx) error {
	claims := currentUser(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if isHR(claims) && c.Query("period_id") != "" {
		periodID, err := parseObjectID(c.Query("period_id"), "period_id")
		if err != nil {
			return err
		}
		payrolls, err := h.payrollRepo.ListPayrollsWithUser(ctx, periodID)
		if err != nil {
			return storeError(err, "Payrolls")
		}
		return util.Success(c, fiber.StatusOK, "", payrolls)
	}

	userID, err := targetUser(claims, c.Query("user_id"))
	if err != nil {
		return err
	}
	if userID != claims.UserID && !isHR(claims) {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
	payrolls, err := h.payrollRepo.FindPayrollsByUser(ctx, userID)
	if err != nil {
		return storeError(err, "Payrolls")
	}
	return util.Success(c, fiber.StatusOK, "", payrolls)
}

func (h *PayrollHandler) payroll(ctx context.Context, c *fiber.Ctx) (*models.Payroll, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	payroll, err := h.payrollRepo.FindPayrollByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Payroll")
	}
	claims := currentUser(c)
	if payroll.UserID != claims.UserID && !isHR(claims) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
	return payroll, nil
}

// GetPayrollByID godoc
// @Summary Get payroll
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payroll ID"
// @Success 200 {object} models.Envelope{data=models.Payroll}
// @Router /payroll/{id} [get]
func (h *PayrollHandler) GetPayrollByID(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	payroll, err := h.payroll(ctx, c)
	if err != nil {
		return err
	}
	return util.Success(c, fiber.StatusOK, "", payroll)
}

// GetPayslip godoc
// @Summary Download payslip
// @Tags Payroll
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Payroll ID"
// @Success 200 {file} file
// @Router /payroll/{id}/payslip [get]
func (h *PayrollHandler) GetPayslip(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	payroll, err := h.payroll(ctx, c)
	if err != nil {
		return err
	}
	user, err := h.userRepo.FindUserByID(ctx, payroll.UserID)
	if err != nil {
		return storeError(err, "User")
	}

	data := export.PayslipData{Employee: *user, Payroll: *payroll}
	if user.DepartmentID != nil {
		if dept, err := h.deptRepo.GetDepartmentByID(ctx, *user.DepartmentID); err == nil {
			data.Department = dept.Name
		}
	}
	if org, err := organizationFor(ctx, h.orgRepo, user); err == nil {
		data.CompanyName = org.Name
	}

	pdf, err := export.PayslipPDF(data)
	if err != nil {
		return err
	}
	return sendFile(c, pdf, pdfContentType, fmt.Sprintf("payslip-%s-%s.pdf", user.EmployeeID, payroll.Month))
}

// MarkPaid godoc
// @Summary Mark payroll paid
// @Tags Payroll
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payroll ID"
// @Success 200 {object} models.Envelope{data=models.Payroll}
// @Failure 409 {object} models.ErrorEnvelope "Already paid"
// @Router /payroll/{id}/mark-paid [put]
func (h *PayrollHandler) MarkPaid(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	payroll, err := h.payroll(ctx, c)
	if err != nil {
		return err
	}
	if payroll.Status == models.PayrollPaid {
		return fiber.NewError(fiber.StatusConflict, "Payroll is already paid")
	}
	at := now()
	payroll.Status = models.PayrollPaid
	payroll.PaidAt = &at
	if err := h.payrollRepo.SavePayroll(ctx, payroll); err != nil {
		return storeError(err, "Payroll")
	}
	return util.Success(c, fiber.StatusOK, "Payroll marked as paid", payroll)
}

// ExportRegister godoc
// @Summary Export payroll register
// @Tags Payroll
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "Period ID"
// @Success 200 {file} file
// @Router /payroll/periods/{id}/export [get]
func (h *PayrollHandler) ExportRegister(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), batchTimeout)
	defer cancel()

	period, err := h.period(ctx, c)
	if err != nil {
		return err
	}
	payrolls, err := h.payrollRepo.ListPayrollsWithUser(ctx, period.ID)
	if err != nil {
		return storeError(err, "Payrolls")
	}
	data, err := export.PayrollRegisterXLSX(period.Month, payrolls)
	if err != nil {
		return err
	}
	return sendFile(c, data, xlsxContentType, "payroll-"+period.Month+".xlsx")
}

// FullAndFinal godoc
// @Summary Full and final settlement
// @Description Computes the exit settlement and marks the employee as exited
// @Tags Payroll
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.FullAndFinalPayload true "Exit details"
// @Success 200 {object} models.Envelope{data=models.FullAndFinalSettlement}
// @Failure 409 {object} models.ErrorEnvelope "Employee already exited"
// @Router /payroll/full-and-final [post]
func (h *PayrollHandler) FullAndFinal(c *fiber.Ctx) error {
	var payload models.FullAndFinalPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	userID, err := parseObjectID(payload.UserID, "user_id")
	if err != nil {
		return err
	}
	lwd, err := parseDate(payload.LastWorkingDay)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid last_working_day")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return storeError(err, "User")
	}
	if user.Status == models.UserStatusExited {
		return fiber.NewError(fiber.StatusConflict, "Employee has already exited")
	}
	if !user.DateOfJoining.IsZero() && lwd.Before(user.DateOfJoining) {
		return fiber.NewError(fiber.StatusBadRequest, "last_working_day is before the date of joining")
	}

	res := calc.CalculateFullAndFinal(calc.FnFInput{
		MonthlySalary:       user.Salary,
		DateOfJoining:       user.DateOfJoining,
		LastWorkingDay:      lwd,
		UnusedLeaves:        payload.UnusedLeaves,
		NoticeShortfallDays: payload.NoticeShortfallDays,
		OtherEarnings:       payload.OtherEarnings,
		OtherDeductions:     payload.OtherDeductions,
	})

	user.Status = models.UserStatusExited
	user.DateOfExit = &lwd
	user.LeaveBalance = 0
	if err := h.userRepo.SaveUser(ctx, user); err != nil {
		return storeError(err, "User")
	}

	return util.Success(c, fiber.StatusOK, "Full and final settlement computed", models.FullAndFinalSettlement{
		UserID:          user.ID,
		LastWorkingDay:  payload.LastWorkingDay,
		YearsOfService:  res.YearsOfService,
		PendingSalary:   res.PendingSalary,
		LeaveEncashment: res.LeaveEncashment,
		Gratuity:        res.Gratuity,
		OtherEarnings:   calc.Round2(payload.OtherEarnings),
		NoticeRecovery:  res.NoticeRecovery,
		OtherDeductions: calc.Round2(payload.OtherDeductions),
		NetPayable:      res.NetPayable,
	})
}
