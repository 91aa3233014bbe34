package handlers

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/teambition/rrule-go"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type WorkScheduleHandler struct {
	workScheduleRepo repository.WorkScheduleRepository
	holidays         util.HolidaySource
}

func NewWorkScheduleHandler(repo repository.WorkScheduleRepository, holidays util.HolidaySource) *WorkScheduleHandler {
	return &WorkScheduleHandler{
		workScheduleRepo: repo,
		holidays:         holidays,
	}
}

func scheduleFromPayload(p models.WorkSchedulePayload) (models.WorkSchedule, error) {
	schedule := models.WorkSchedule{
		Date:           strings.TrimSpace(p.Date),
		StartTime:      strings.TrimSpace(p.StartTime),
		EndTime:        strings.TrimSpace(p.EndTime),
		Note:           p.Note,
		RecurrenceRule: strings.TrimSpace(p.RecurrenceRule),
	}
	if schedule.EndTime <= schedule.StartTime {
		return schedule, fiber.NewError(fiber.StatusBadRequest, "end_time must be after start_time")
	}
	if schedule.RecurrenceRule != "" {
		if _, err := rrule.StrToROption(schedule.RecurrenceRule); err != nil {
			return schedule, fiber.NewError(fiber.StatusBadRequest, "Invalid recurrence_rule: "+err.Error())
		}
	}
	return schedule, nil
}

// CreateWorkSchedule godoc
// @Summary Create work schedule rule
// @Description A single date, or a recurring rule (RRULE) starting at date
// @Tags Work Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param schedule body models.WorkSchedulePayload true "Schedule rule"
// @Success 201 {object} models.Envelope{data=models.WorkSchedule}
// @Failure 400 {object} models.ErrorEnvelope
// @Router /work-schedules [post]
func (h *WorkScheduleHandler) CreateWorkSchedule(c *fiber.Ctx) error {
	var payload models.WorkSchedulePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	schedule, err := scheduleFromPayload(payload)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.workScheduleRepo.CreateSchedule(ctx, &schedule); err != nil {
		return storeError(err, "Work schedule")
	}
	return util.Success(c, fiber.StatusCreated, "Work schedule created", schedule)
}

// GetHolidays godoc
// @Summary Public holidays
// @Tags Work Schedules
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (defaults to the current year)"
// @Success 200 {object} models.Envelope{data=[]models.Holiday}
// @Failure 502 {object} models.ErrorEnvelope "Holiday provider unavailable"
// @Router /holidays [get]
func (h *WorkScheduleHandler) GetHolidays(c *fiber.Ctx) error {
	year := now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 || parsed > 2200 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid year")
		}
		year = parsed
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	holidays, err := h.holidays.Holidays(ctx, year)
	if err != nil {
		log.Printf("holidays: provider failed for %d: %v", year, err)
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch holidays")
	}
	return util.Success(c, fiber.StatusOK, "", holidays)
}

// GetWorkScheduleByID godoc
// @Summary Get work schedule rule
// @Tags Work Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} models.Envelope{data=models.WorkSchedule}
// @Failure 404 {object} models.ErrorEnvelope
// @Router /work-schedules/{id} [get]
func (h *WorkScheduleHandler) GetWorkScheduleByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	schedule, err := h.workScheduleRepo.FindScheduleByID(ctx, id)
	if err != nil {
		return storeError(err, "Work schedule")
	}
	return util.Success(c, fiber.StatusOK, "", schedule)
}

// GetAllWorkSchedules godoc
// @Summary Expanded work schedule
// @Description Every scheduled day in the range, recurring rules expanded and holidays removed
// @Tags Work Schedules
// @Produce json
// @Security BearerAuth
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string true "YYYY-MM-DD"
// @Success 200 {object} models.Envelope{data=[]models.WorkSchedule}
// @Router /work-schedules [get]
func (h *WorkScheduleHandler) GetAllWorkSchedules(c *fiber.Ctx) error {
	startDate, err := parseDate(c.Query("start_date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid start_date format")
	}
	endDate, err := parseDate(c.Query("end_date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid end_date format")
	}
	if endDate.Before(startDate) {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
	}
	if endDate.Sub(startDate) > 366*24*time.Hour {
		return fiber.NewError(fiber.StatusBadRequest, "Range must not exceed one year")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rules, err := h.workScheduleRepo.FindSchedulesStartingBy(ctx, endDate.Format(dateLayout))
	if err != nil {
		return storeError(err, "Work schedules")
	}
	holidayMap := holidaysBetween(ctx, h.holidays, startDate, endDate)
	return util.Success(c, fiber.StatusOK, "", expandSchedules(rules, startDate, endDate, holidayMap))
}

// expandSchedules returns one entry per scheduled day in [start, end],
// skipping holidays. When several rules cover a day the latest-starting rule wins.
func expandSchedules(rules []models.WorkSchedule, start, end time.Time, holidays map[string]bool) []models.WorkSchedule {
	byDate := make(map[string]models.WorkSchedule)
	add := func(rule models.WorkSchedule, day string) {
		if holidays[day] {
			return
		}
		if prev, ok := byDate[day]; ok && prev.Date > rule.Date {
			return
		}
		byDate[day] = rule
	}

	for _, rule := range rules {
		ruleStart, err := parseDate(rule.Date)
		if err != nil {
			continue
		}
		if rule.RecurrenceRule == "" {
			if !ruleStart.Before(start) && !ruleStart.After(end) {
				add(rule, rule.Date)
			}
			continue
		}

		rOption, err := rrule.StrToROption(rule.RecurrenceRule)
		if err != nil {
			log.Printf("work-schedules: skipping rule %s: %v", rule.ID.Hex(), err)
			continue
		}
		rOption.Dtstart = ruleStart
		rr, err := rrule.NewRRule(*rOption)
		if err != nil {
			continue
		}
		for _, instance := range rr.Between(start, end, true) {
			add(rule, instance.In(location).Format(dateLayout))
		}
	}

	days := make([]string, 0, len(byDate))
	for day := range byDate {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]models.WorkSchedule, 0, len(days))
	for _, day := range days {
		rule := byDate[day]
		out = append(out, models.WorkSchedule{
			ID:             rule.ID,
			Date:           day,
			StartTime:      rule.StartTime,
			EndTime:        rule.EndTime,
			Note:           rule.Note,
			RecurrenceRule: rule.RecurrenceRule,
		})
	}
	return out
}

// UpdateWorkSchedule godoc
// @Summary Update work schedule rule
// @Tags Work Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param schedule body models.WorkSchedulePayload true "Schedule rule"
// @Success 200 {object} models.Envelope{data=models.WorkSchedule}
// @Router /work-schedules/{id} [put]
func (h *WorkScheduleHandler) UpdateWorkSchedule(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.WorkSchedulePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	updated, err := scheduleFromPayload(payload)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	schedule, err := h.workScheduleRepo.FindScheduleByID(ctx, id)
	if err != nil {
		return storeError(err, "Work schedule")
	}
	updated.ID = schedule.ID
	updated.CreatedAt = schedule.CreatedAt
	if err := h.workScheduleRepo.SaveSchedule(ctx, &updated); err != nil {
		return storeError(err, "Work schedule")
	}
	return util.Success(c, fiber.StatusOK, "Work schedule updated", updated)
}

// DeleteWorkSchedule godoc
// @Summary Delete work schedule rule
// @Tags Work Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} models.Envelope
// @Router /work-schedules/{id} [delete]
func (h *WorkScheduleHandler) DeleteWorkSchedule(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.workScheduleRepo.DeleteSchedule(ctx, id); err != nil {
		return storeError(err, "Work schedule")
	}
	return util.Success(c, fiber.StatusOK, "Work schedule deleted", nil)
}
