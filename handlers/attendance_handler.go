package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	"hrms-backend/pkg/export"
	"hrms-backend/pkg/kiosk"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type AttendanceHandler struct {
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	orgRepo        repository.OrganizationRepository
	leaveRepo      repository.LeaveRequestRepository
	scheduleRepo   repository.WorkScheduleRepository
	holidays       util.HolidaySource
}

func NewAttendanceHandler(
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	leaveRepo repository.LeaveRequestRepository,
	scheduleRepo repository.WorkScheduleRepository,
	holidays util.HolidaySource,
) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		leaveRepo:      leaveRepo,
		scheduleRepo:   scheduleRepo,
		holidays:       holidays,
	}
}

type punchContext struct {
	user     *models.User
	settings models.OrgSettings
	source   string
}

// resolvePunch identifies whose attendance is being punched and checks the
// code. HR staff may punch for another user without a code.
func (h *AttendanceHandler) resolvePunch(ctx context.Context, c *fiber.Ctx, payload models.PunchPayload) (*punchContext, error) {
	claims := currentUser(c)
	userID := claims.UserID
	manual := false
	if payload.UserID != "" && payload.UserID != claims.UserID.Hex() {
		if !isHR(claims) {
			return nil, fiber.NewError(fiber.StatusForbidden, "Only HR can punch for another employee")
		}
		id, err := parseObjectID(payload.UserID, "user_id")
		if err != nil {
			return nil, err
		}
		userID = id
		manual = true
	}
	if payload.Code == "" && isHR(claims) {
		manual = true
	}
	if payload.Code == "" && !manual {
		return nil, fiber.NewError(fiber.StatusBadRequest, "A QR or kiosk code is required")
	}

	user, err := h.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User")
	}
	if !user.IsActive() {
		return nil, fiber.NewError(fiber.StatusForbidden, "Employee is not active")
	}

	org, err := organizationFor(ctx, h.orgRepo, user)
	if err != nil {
		log.Printf("attendance: no organization for user %s: %v", user.ID.Hex(), err)
		org = nil
	}
	settings := models.DefaultOrgSettings()
	if org != nil && org.Settings.StandardHours > 0 {
		settings = org.Settings
	}

	pc := &punchContext{user: user, settings: settings, source: models.SourceManual}
	if manual && payload.Code == "" {
		return pc, nil
	}

	if kiosk.LooksLikeCode(payload.Code) {
		if org == nil || !kiosk.Verify(payload.Code, org.KioskSecret, nowFunc()) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Kiosk code is invalid or expired")
		}
		pc.source = models.SourceKiosk
		return pc, nil
	}

	qr, err := h.attendanceRepo.FindQRCodeByValue(ctx, payload.Code)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, fiber.NewError(fiber.StatusBadRequest, "QR code is invalid")
		}
		return nil, storeError(err, "QR code")
	}
	if qr.Date != today() || nowFunc().After(qr.ExpiresAt) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "QR code has expired")
	}
	if err := h.attendanceRepo.MarkQRCodeAsUsed(ctx, qr.ID, user.ID); err != nil {
		log.Printf("attendance: failed to mark QR %s used: %v", qr.ID.Hex(), err)
	}
	pc.source = models.SourceQR
	return pc, nil
}

// PunchIn godoc
// @Summary Punch in
// @Description Records today's punch-in using the daily QR token or the kiosk code. HR may punch for user_id without a code.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param punch body models.PunchPayload true "Punch data"
// @Success 201 {object} models.Envelope{data=models.Attendance}
// @Failure 400 {object} models.ErrorEnvelope "Invalid or expired code"
// @Failure 409 {object} models.ErrorEnvelope "Already punched in"
// @Router /attendance/punch-in [post]
func (h *AttendanceHandler) PunchIn(c *fiber.Ctx) error {
	var payload models.PunchPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pc, err := h.resolvePunch(ctx, c, payload)
	if err != nil {
		return err
	}

	at := now()
	date := at.Format(dateLayout)
	status := models.AttendancePresent
	if calc.IsLate(at, pc.settings) {
		status = models.AttendanceLate
	}

	existing, err := h.attendanceRepo.FindAttendanceByUserAndDate(ctx, pc.user.ID, date)
	switch {
	case err == nil:
		if existing.PunchIn != nil {
			return fiber.NewError(fiber.StatusConflict, "Already punched in today")
		}
		if existing.Status == models.AttendanceOnLeave {
			return fiber.NewError(fiber.StatusConflict, "Employee is on approved leave today")
		}
		existing.PunchIn = &at
		existing.Status = status
		existing.Source = pc.source
		existing.Note = payload.Note
		if err := h.attendanceRepo.SaveAttendance(ctx, existing); err != nil {
			return storeError(err, "Attendance")
		}
		return util.Success(c, fiber.StatusCreated, "Punched in", existing)
	case err != repository.ErrNotFound:
		return storeError(err, "Attendance")
	}

	attendance := &models.Attendance{
		UserID:  pc.user.ID,
		Date:    date,
		PunchIn: &at,
		Status:  status,
		Source:  pc.source,
		Note:    payload.Note,
	}
	if err := h.attendanceRepo.CreateAttendance(ctx, attendance); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fiber.NewError(fiber.StatusConflict, "Already punched in today")
		}
		return storeError(err, "Attendance")
	}
	return util.Success(c, fiber.StatusCreated, "Punched in", attendance)
}

// PunchOut godoc
// @Summary Punch out
// @Description Closes today's attendance, any open break, and computes worked hours and status
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param punch body models.PunchPayload true "Punch data"
// @Success 200 {object} models.Envelope{data=models.Attendance}
// @Failure 404 {object} models.ErrorEnvelope "No punch-in today"
// @Failure 409 {object} models.ErrorEnvelope "Already punched out"
// @Router /attendance/punch-out [post]
func (h *AttendanceHandler) PunchOut(c *fiber.Ctx) error {
	var payload models.PunchPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	pc, err := h.resolvePunch(ctx, c, payload)
	if err != nil {
		return err
	}

	at := now()
	attendance, err := h.attendanceRepo.FindAttendanceByUserAndDate(ctx, pc.user.ID, at.Format(dateLayout))
	if err != nil || attendance.PunchIn == nil {
		if err != nil && err != repository.ErrNotFound {
			return storeError(err, "Attendance")
		}
		return fiber.NewError(fiber.StatusNotFound, "No punch-in recorded today")
	}
	if attendance.PunchOut != nil {
		return fiber.NewError(fiber.StatusConflict, "Already punched out today")
	}

	if i := attendance.OpenBreak(); i >= 0 {
		attendance.Breaks[i].End = &at
	}
	attendance.PunchOut = &at
	if payload.Note != "" {
		attendance.Note = payload.Note
	}
	applyHours(attendance, pc.settings)

	if err := h.attendanceRepo.SaveAttendance(ctx, attendance); err != nil {
		return storeError(err, "Attendance")
	}
	return util.Success(c, fiber.StatusOK, "Punched out", attendance)
}

// applyHours recomputes worked hours and status of a closed attendance day.
func applyHours(a *models.Attendance, settings models.OrgSettings) {
	if a.PunchIn == nil || a.PunchOut == nil {
		return
	}
	hours := calc.CalculateHours(*a.PunchIn, *a.PunchOut, a.Breaks, settings.StandardHours)
	a.TotalHours = hours.TotalHours
	a.BreakMinutes = hours.BreakMinutes
	a.OvertimeHours = hours.OvertimeHours
	a.Status = calc.ResolveAttendanceStatus(a.PunchIn.In(location), hours.TotalHours, settings)
}

func (h *AttendanceHandler) openDay(ctx context.Context, userID primitive.ObjectID) (*models.Attendance, error) {
	attendance, err := h.attendanceRepo.FindAttendanceByUserAndDate(ctx, userID, today())
	if err != nil || attendance.PunchIn == nil {
		if err != nil && err != repository.ErrNotFound {
			return nil, storeError(err, "Attendance")
		}
		return nil, fiber.NewError(fiber.StatusNotFound, "No punch-in recorded today")
	}
	if attendance.PunchOut != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Already punched out today")
	}
	return attendance, nil
}

// StartBreak godoc
// @Summary Start break
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param break body models.BreakPayload false "Break reason"
// @Success 200 {object} models.Envelope{data=models.Attendance}
// @Failure 409 {object} models.ErrorEnvelope "A break is already open"
// @Router /attendance/break/start [post]
func (h *AttendanceHandler) StartBreak(c *fiber.Ctx) error {
	var payload models.BreakPayload
	if len(c.Body()) > 0 {
		if err := util.ParseBody(c, &payload); err != nil {
			return err
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	attendance, err := h.openDay(ctx, currentUser(c).UserID)
	if err != nil {
		return err
	}
	if attendance.OpenBreak() >= 0 {
		return fiber.NewError(fiber.StatusConflict, "A break is already in progress")
	}

	attendance.Breaks = append(attendance.Breaks, models.Break{Start: now(), Reason: payload.Reason})
	if err := h.attendanceRepo.SaveAttendance(ctx, attendance); err != nil {
		return storeError(err, "Attendance")
	}
	return util.Success(c, fiber.StatusOK, "Break started", attendance)
}

// EndBreak godoc
// @Summary End break
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=models.Attendance}
// @Failure 409 {object} models.ErrorEnvelope "No open break"
// @Router /attendance/break/end [post]
func (h *AttendanceHandler) EndBreak(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	attendance, err := h.openDay(ctx, currentUser(c).UserID)
	if err != nil {
		return err
	}
	i := attendance.OpenBreak()
	if i < 0 {
		return fiber.NewError(fiber.StatusConflict, "No break in progress")
	}

	at := now()
	attendance.Breaks[i].End = &at
	if err := h.attendanceRepo.SaveAttendance(ctx, attendance); err != nil {
		return storeError(err, "Attendance")
	}
	return util.Success(c, fiber.StatusOK, "Break ended", attendance)
}

type QRCodeResponse struct {
	Code      string    `json:"code"`
	Date      string    `json:"date"`
	ExpiresAt time.Time `json:"expires_at"`
	Image     string    `json:"qr_code_image"`
}

// GenerateQRCode godoc
// @Summary Generate today's QR token
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Envelope{data=QRCodeResponse}
// @Router /attendance/generate-qr [get]
func (h *AttendanceHandler) GenerateQRCode(c *fiber.Ctx) error {
	at := now()
	endOfDay := time.Date(at.Year(), at.Month(), at.Day(), 23, 59, 59, 0, location)
	qr := &models.QRCode{
		Code:      uuid.New().String(),
		Date:      at.Format(dateLayout),
		ExpiresAt: endOfDay,
	}

	image, err := kiosk.QRDataURL(qr.Code)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.attendanceRepo.CreateQRCode(ctx, qr); err != nil {
		return storeError(err, "QR code")
	}
	return util.Success(c, fiber.StatusCreated, "QR code generated", QRCodeResponse{
		Code:      qr.Code,
		Date:      qr.Date,
		ExpiresAt: qr.ExpiresAt,
		Image:     image,
	})
}

type KioskCodeResponse struct {
	Code            string `json:"code"`
	ValidForSeconds int64  `json:"valid_for_seconds"`
	Image           string `json:"qr_code_image"`
}

// GetKioskCode godoc
// @Summary Current kiosk code
// @Description Rotating six-digit punch code of an organization
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param organization_id query string false "Organization ID (defaults to the primary organization)"
// @Success 200 {object} models.Envelope{data=KioskCodeResponse}
// @Router /attendance/kiosk-code [get]
func (h *AttendanceHandler) GetKioskCode(c *fiber.Ctx) error {
	orgID, err := optionalID(c.Query("organization_id"), "organization_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var org *models.Organization
	if orgID != nil {
		org, err = h.orgRepo.FindOrganizationByID(ctx, *orgID)
	} else {
		org, err = h.orgRepo.FindDefaultOrganization(ctx)
	}
	if err != nil {
		return storeError(err, "Organization")
	}
	if org.KioskSecret == "" {
		if org.KioskSecret, err = kiosk.NewSecret(org.Name); err != nil {
			return err
		}
		if err := h.orgRepo.SaveOrganization(ctx, org); err != nil {
			return storeError(err, "Organization")
		}
	}

	at := nowFunc()
	code, err := kiosk.CurrentCode(org.KioskSecret, at)
	if err != nil {
		return err
	}
	image, err := kiosk.QRDataURL(code)
	if err != nil {
		return err
	}
	return util.Success(c, fiber.StatusOK, "", KioskCodeResponse{
		Code:            code,
		ValidForSeconds: 30 - at.Unix()%30,
		Image:           image,
	})
}

// GetMyAttendanceHistory godoc
// @Summary My attendance history
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} models.Envelope{data=[]models.Attendance}
// @Router /attendance/my-history [get]
func (h *AttendanceHandler) GetMyAttendanceHistory(c *fiber.Ctx) error {
	userID := currentUser(c).UserID

	ctx, cancel := requestContext(c)
	defer cancel()

	history, err := h.attendanceRepo.FindAttendances(ctx, repository.AttendanceFilter{
		UserID:   &userID,
		FromDate: c.Query("from"),
		ToDate:   c.Query("to"),
	})
	if err != nil {
		return storeError(err, "Attendance")
	}
	return util.Success(c, fiber.StatusOK, "", history)
}

// GetTodayAttendance godoc
// @Summary Today's attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.AttendanceWithUser}
// @Router /attendance/today [get]
func (h *AttendanceHandler) GetTodayAttendance(c *fiber.Ctx) error {
	date := today()

	ctx, cancel := requestContext(c)
	defer cancel()

	records, _, err := h.attendanceRepo.ListAttendancesWithUser(ctx, repository.AttendanceFilter{FromDate: date, ToDate: date}, 1, 0)
	if err != nil {
		return storeError(err, "Attendance")
	}
	return util.Success(c, fiber.StatusOK, "", records)
}

// GetAttendances godoc
// @Summary List attendance
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param status query string false "Status"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} models.Envelope{data=models.PagedData}
// @Router /attendance [get]
func (h *AttendanceHandler) GetAttendances(c *fiber.Ctx) error {
	userID, err := optionalID(c.Query("user_id"), "user_id")
	if err != nil {
		return err
	}
	page, limit := util.Pagination(c)
	filter := repository.AttendanceFilter{
		UserID:   userID,
		FromDate: c.Query("from"),
		ToDate:   c.Query("to"),
		Status:   c.Query("status"),
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	records, total, err := h.attendanceRepo.ListAttendancesWithUser(ctx, filter, int64(page), int64(limit))
	if err != nil {
		return storeError(err, "Attendance")
	}
	return util.Paged(c, records, total, page, limit)
}

// UpdateAttendance godoc
// @Summary Correct attendance
// @Description Manual correction; worked hours are recomputed when both punches are known
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Param attendance body models.AttendanceUpdatePayload true "Correction"
// @Success 200 {object} models.Envelope{data=models.Attendance}
// @Router /attendance/{id} [put]
func (h *AttendanceHandler) UpdateAttendance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.AttendanceUpdatePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	attendance, err := h.attendanceRepo.FindAttendanceByID(ctx, id)
	if err != nil {
		return storeError(err, "Attendance")
	}
	if payload.PunchIn != "" {
		t, err := atClock(attendance.Date, payload.PunchIn)
		if err != nil {
			return err
		}
		attendance.PunchIn = &t
	}
	if payload.PunchOut != "" {
		t, err := atClock(attendance.Date, payload.PunchOut)
		if err != nil {
			return err
		}
		attendance.PunchOut = &t
	}
	if attendance.PunchIn != nil && attendance.PunchOut != nil && !attendance.PunchOut.After(*attendance.PunchIn) {
		return fiber.NewError(fiber.StatusBadRequest, "punch_out must be after punch_in")
	}

	user, err := h.userRepo.FindUserByID(ctx, attendance.UserID)
	if err != nil {
		return storeError(err, "User")
	}
	applyHours(attendance, orgSettings(ctx, h.orgRepo, user))
	if payload.Status != "" {
		attendance.Status = payload.Status
	}
	if payload.Note != "" {
		attendance.Note = payload.Note
	}
	attendance.Source = models.SourceManual

	if err := h.attendanceRepo.SaveAttendance(ctx, attendance); err != nil {
		return storeError(err, "Attendance")
	}
	return util.Success(c, fiber.StatusOK, "Attendance updated", attendance)
}

func atClock(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" 15:04", date+" "+clock, location)
	if err != nil {
		return t, fiber.NewError(fiber.StatusBadRequest, "Invalid time "+clock)
	}
	return t, nil
}

type MarkAbsentResult struct {
	Date      string `json:"date"`
	Scheduled bool   `json:"scheduled"`
	Marked    int    `json:"marked"`
}

// MarkAbsent godoc
// @Summary Mark absentees
// @Description For a scheduled work day, every active non-admin employee without attendance or approved leave is marked absent
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.MarkAbsentPayload true "Date"
// @Success 200 {object} models.Envelope{data=MarkAbsentResult}
// @Router /attendance/mark-absent [post]
func (h *AttendanceHandler) MarkAbsent(c *fiber.Ctx) error {
	var payload models.MarkAbsentPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	day, err := parseDate(payload.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid date")
	}
	if day.After(now()) {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot mark absences for a future date")
	}

	ctx, cancel := context.WithTimeout(c.Context(), batchTimeout)
	defer cancel()

	result := MarkAbsentResult{Date: payload.Date}

	rules, err := h.scheduleRepo.FindSchedulesStartingBy(ctx, payload.Date)
	if err != nil {
		return storeError(err, "Work schedules")
	}
	if len(expandSchedules(rules, day, day, holidaysBetween(ctx, h.holidays, day, day))) == 0 {
		return util.Success(c, fiber.StatusOK, "No work scheduled on this date", result)
	}
	result.Scheduled = true

	users, err := h.userRepo.FindActiveUsers(ctx)
	if err != nil {
		return storeError(err, "Users")
	}
	leaves, err := h.leaveRepo.FindOverlapping(ctx, nil, payload.Date, payload.Date, models.LeaveApproved)
	if err != nil {
		return storeError(err, "Leave requests")
	}
	existing, err := h.attendanceRepo.FindAttendances(ctx, repository.AttendanceFilter{FromDate: payload.Date, ToDate: payload.Date})
	if err != nil {
		return storeError(err, "Attendance")
	}

	skip := make(map[primitive.ObjectID]bool, len(leaves)+len(existing))
	for _, l := range leaves {
		skip[l.UserID] = true
	}
	for _, a := range existing {
		skip[a.UserID] = true
	}

	for _, u := range users {
		if u.Role == models.RoleAdmin || skip[u.ID] {
			continue
		}
		if !u.DateOfJoining.IsZero() && u.DateOfJoining.In(location).Format(dateLayout) > payload.Date {
			continue
		}
		record := &models.Attendance{
			UserID: u.ID,
			Date:   payload.Date,
			Status: models.AttendanceAbsent,
			Source: models.SourceSystem,
			Note:   "Marked absent",
		}
		if err := h.attendanceRepo.CreateAttendance(ctx, record); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return storeError(err, "Attendance")
		}
		result.Marked++
	}

	log.Printf("attendance: marked %d employees absent for %s", result.Marked, payload.Date)
	return util.Success(c, fiber.StatusOK, fmt.Sprintf("%d employees marked absent", result.Marked), result)
}

// GetSummary godoc
// @Summary Monthly attendance summary
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID (defaults to the caller)"
// @Param month query string false "YYYY-MM (defaults to the current month)"
// @Success 200 {object} models.Envelope{data=models.AttendanceSummary}
// @Router /attendance/summary [get]
func (h *AttendanceHandler) GetSummary(c *fiber.Ctx) error {
	claims := currentUser(c)
	userID, err := targetUser(claims, c.Query("user_id"))
	if err != nil {
		return err
	}
	month := c.Query("month", now().Format(monthLayout))
	start, end, err := monthBounds(month)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid month, expected YYYY-MM")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, claims, userID); err != nil {
		return err
	}
	user, err := h.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return storeError(err, "User")
	}
	summary, err := h.monthSummary(ctx, user, month, start, end)
	if err != nil {
		return err
	}
	return util.Success(c, fiber.StatusOK, "", summary)
}

func (h *AttendanceHandler) monthSummary(ctx context.Context, user *models.User, month string, start, end time.Time) (models.AttendanceSummary, error) {
	return monthlySummary(ctx, h.attendanceRepo, h.orgRepo, h.holidays, user, month, start, end)
}

// ExportAttendance godoc
// @Summary Export attendance
// @Description XLSX workbook with every attendance record of the month
// @Tags Attendance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param month query string true "YYYY-MM"
// @Success 200 {file} file
// @Router /attendance/export [get]
func (h *AttendanceHandler) ExportAttendance(c *fiber.Ctx) error {
	month := c.Query("month", now().Format(monthLayout))
	start, end, err := monthBounds(month)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid month, expected YYYY-MM")
	}

	ctx, cancel := context.WithTimeout(c.Context(), batchTimeout)
	defer cancel()

	records, _, err := h.attendanceRepo.ListAttendancesWithUser(ctx, repository.AttendanceFilter{
		FromDate: start.Format(dateLayout),
		ToDate:   end.Format(dateLayout),
	}, 1, 0)
	if err != nil {
		return storeError(err, "Attendance")
	}

	data, err := export.AttendanceXLSX(month, records)
	if err != nil {
		return err
	}
	return sendFile(c, data, xlsxContentType, "attendance-"+month+".xlsx")
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func sendFile(c *fiber.Ctx, data []byte, contentType, filename string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(data)
}
