package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type LeaveRequestHandler struct {
	leaveRepo      repository.LeaveRequestRepository
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	orgRepo        repository.OrganizationRepository
	holidays       util.HolidaySource
	mail           Mailer
}

func NewLeaveRequestHandler(
	leaveRepo repository.LeaveRequestRepository,
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	holidays util.HolidaySource,
	mail Mailer,
) *LeaveRequestHandler {
	return &LeaveRequestHandler{
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		holidays:       holidays,
		mail:           mail,
	}
}

// CreateLeaveRequest godoc
// @Summary Apply for leave
// @Description Days are counted as working days in the range. Overlapping pending or approved requests are rejected.
// @Tags Leave Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param leave body models.LeaveRequestCreatePayload true "Leave request"
// @Success 201 {object} models.Envelope{data=models.LeaveRequest}
// @Failure 400 {object} models.ValidationErrorEnvelope
// @Failure 409 {object} models.ErrorEnvelope "Overlapping request"
// @Router /leave-requests [post]
func (h *LeaveRequestHandler) CreateLeaveRequest(c *fiber.Ctx) error {
	var payload models.LeaveRequestCreatePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	start, err := parseDate(payload.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid start_date")
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid end_date")
	}
	if end.Before(start) {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return storeError(err, "User")
	}

	settings := orgSettings(ctx, h.orgRepo, user)
	days := calc.WorkingDays(start, end, calc.WeekdaysFor(settings.WorkingDaysPerWeek), holidaysBetween(ctx, h.holidays, start, end))
	if days == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "The selected range has no working days")
	}
	if payload.LeaveType != models.LeaveUnpaid && float64(days) > user.LeaveBalance {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Insufficient leave balance: %.1f days left", user.LeaveBalance))
	}

	overlapping, err := h.leaveRepo.FindOverlapping(ctx, &user.ID, payload.StartDate, payload.EndDate, models.LeavePending, models.LeaveApproved)
	if err != nil {
		return storeError(err, "Leave requests")
	}
	if len(overlapping) > 0 {
		return fiber.NewError(fiber.StatusConflict, "A pending or approved request already covers these dates")
	}

	request := &models.LeaveRequest{
		UserID:    user.ID,
		LeaveType: payload.LeaveType,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Days:      days,
		Reason:    payload.Reason,
		Status:    models.LeavePending,
	}
	if err := h.leaveRepo.CreateLeaveRequest(ctx, request); err != nil {
		return storeError(err, "Leave request")
	}
	return util.Success(c, fiber.StatusCreated, "Leave request submitted", request)
}

// GetAllLeaveRequests godoc
// @Summary List leave requests
// @Description HR sees every request; other employees see their own
// @Tags Leave Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param user_id query string false "User ID (HR only)"
// @Success 200 {object} models.Envelope{data=[]models.LeaveRequestWithUser}
// @Router /leave-requests [get]
func (h *LeaveRequestHandler) GetAllLeaveRequests(c *fiber.Ctx) error {
	claims := currentUser(c)
	filter := repository.LeaveFilter{Status: c.Query("status")}
	if isHR(claims) {
		userID, err := optionalID(c.Query("user_id"), "user_id")
		if err != nil {
			return err
		}
		filter.UserID = userID
	} else {
		filter.UserID = &claims.UserID
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	requests, err := h.leaveRepo.ListLeaveRequests(ctx, filter)
	if err != nil {
		return storeError(err, "Leave requests")
	}
	return util.Success(c, fiber.StatusOK, "", requests)
}

// GetLeaveRequestByID godoc
// @Summary Get leave request
// @Tags Leave Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave request ID"
// @Success 200 {object} models.Envelope{data=models.LeaveRequest}
// @Router /leave-requests/{id} [get]
func (h *LeaveRequestHandler) GetLeaveRequestByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	request, err := h.leaveRepo.FindLeaveRequestByID(ctx, id)
	if err != nil {
		return storeError(err, "Leave request")
	}
	if err := requireView(ctx, h.userRepo, currentUser(c), request.UserID); err != nil {
		return err
	}
	return util.Success(c, fiber.StatusOK, "", request)
}

// UpdateLeaveRequestStatus godoc
// @Summary Approve or reject leave
// @Description Approval marks each working day on_leave and deducts paid days from the balance
// @Tags Leave Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leave request ID"
// @Param status body models.LeaveRequestUpdatePayload true "Decision"
// @Success 200 {object} models.Envelope{data=models.LeaveRequest}
// @Failure 409 {object} models.ErrorEnvelope "Request already decided"
// @Router /leave-requests/{id}/status [put]
func (h *LeaveRequestHandler) UpdateLeaveRequestStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.LeaveRequestUpdatePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	request, err := h.leaveRepo.FindLeaveRequestByID(ctx, id)
	if err != nil {
		return storeError(err, "Leave request")
	}
	if request.Status != models.LeavePending {
		return fiber.NewError(fiber.StatusConflict, "Leave request has already been "+request.Status)
	}
	if request.UserID == currentUser(c).UserID {
		return fiber.NewError(fiber.StatusForbidden, "You cannot decide your own leave request")
	}
	user, err := h.userRepo.FindUserByID(ctx, request.UserID)
	if err != nil {
		return storeError(err, "User")
	}

	if payload.Status == models.LeaveApproved {
		if err := h.applyApproval(ctx, request, user); err != nil {
			return err
		}
	}

	if err := h.leaveRepo.UpdateLeaveStatus(ctx, request.ID, payload.Status, payload.Note); err != nil {
		return storeError(err, "Leave request")
	}
	request.Status = payload.Status
	request.Note = payload.Note

	h.mail.Notify(ctx, models.EmailCategoryLeave, user.Email,
		"Leave request "+payload.Status,
		fmt.Sprintf("Hello %s,\n\nYour %s leave from %s to %s has been %s.\n%s",
			user.Name, request.LeaveType, request.StartDate, request.EndDate, payload.Status, payload.Note))

	return util.Success(c, fiber.StatusOK, "Leave request "+payload.Status, request)
}

// applyApproval writes on_leave attendance for each working day of the
// request that has no record yet and deducts paid days from the balance.
func (h *LeaveRequestHandler) applyApproval(ctx context.Context, request *models.LeaveRequest, user *models.User) error {
	start, err := parseDate(request.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Leave request has an invalid start_date")
	}
	end, err := parseDate(request.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Leave request has an invalid end_date")
	}

	settings := orgSettings(ctx, h.orgRepo, user)
	weekdays := calc.WeekdaysFor(settings.WorkingDaysPerWeek)
	holidays := holidaysBetween(ctx, h.holidays, start, end)

	existing, err := h.attendanceRepo.FindAttendances(ctx, repository.AttendanceFilter{
		UserID:   &user.ID,
		FromDate: request.StartDate,
		ToDate:   request.EndDate,
	})
	if err != nil {
		return storeError(err, "Attendance")
	}
	recorded := make(map[string]bool, len(existing))
	for _, a := range existing {
		recorded[a.Date] = true
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		if !weekdays[d.Weekday()] || holidays[date] || recorded[date] {
			continue
		}
		record := &models.Attendance{
			UserID: user.ID,
			Date:   date,
			Status: models.AttendanceOnLeave,
			Source: models.SourceSystem,
			Note:   request.LeaveType + " leave",
		}
		if err := h.attendanceRepo.CreateAttendance(ctx, record); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return storeError(err, "Attendance")
		}
	}

	if request.IsPaid() {
		user.LeaveBalance -= float64(request.Days)
		if user.LeaveBalance < 0 {
			user.LeaveBalance = 0
		}
		if err := h.userRepo.SaveUser(ctx, user); err != nil {
			log.Printf("leave: failed to update balance of %s: %v", user.ID.Hex(), err)
			return storeError(err, "User")
		}
	}
	return nil
}
