package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type IncrementHandler struct {
	incrementRepo repository.IncrementRepository
	perfRepo      repository.PerformanceRepository
	kraRepo       repository.KRARepository
	growthRepo    repository.GrowthRepository
	userRepo      repository.UserRepository
	mail          Mailer
}

func NewIncrementHandler(
	incrementRepo repository.IncrementRepository,
	perfRepo repository.PerformanceRepository,
	kraRepo repository.KRARepository,
	growthRepo repository.GrowthRepository,
	userRepo repository.UserRepository,
	mail Mailer,
) *IncrementHandler {
	return &IncrementHandler{
		incrementRepo: incrementRepo,
		perfRepo:      perfRepo,
		kraRepo:       kraRepo,
		growthRepo:    growthRepo,
		userRepo:      userRepo,
		mail:          mail,
	}
}

// yearGrade returns the grade of the latest consolidated quarter of the
// year, falling back to the latest evaluated KRA of that year.
func yearGrade(ctx context.Context, perfs repository.PerformanceRepository, kras repository.KRARepository, userID primitive.ObjectID, year int) (string, error) {
	records, err := perfs.FindPerformancesForYear(ctx, userID, year)
	if err != nil {
		return "", err
	}
	if len(records) > 0 {
		return records[0].Grade, nil
	}

	sets, err := kras.FindKRAsByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, k := range sets {
		if k.Year == year && k.Status == models.KRAEvaluated {
			return k.Grade, nil
		}
	}
	return "", nil
}

// latestGrowth returns the metrics of the last recorded quarter of the year.
func latestGrowth(ctx context.Context, repo repository.GrowthRepository, year int) (*models.GrowthMetrics, error) {
	quarters, err := repo.FindGrowthForYear(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(quarters) == 0 {
		return nil, nil
	}
	last := quarters[len(quarters)-1]
	metrics, err := growthMetrics(ctx, repo, last.Year, last.Quarter)
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

// CalculateIncrement godoc
// @Summary Propose salary increment
// @Description Uses the year's performance grade (or KRA grade) scaled by company growth
// @Tags Increments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.IncrementCalculationPayload true "User and year"
// @Success 201 {object} models.Envelope{data=models.SalaryIncrement}
// @Failure 409 {object} models.ErrorEnvelope "Open increment exists"
// @Failure 422 {object} models.ErrorEnvelope "No grade or growth data"
// @Router /increments/calculate [post]
func (h *IncrementHandler) CalculateIncrement(c *fiber.Ctx) error {
	var payload models.IncrementCalculationPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	userID, err := parseObjectID(payload.UserID, "user_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return storeError(err, "User")
	}
	if _, err := h.incrementRepo.FindOpenIncrement(ctx, userID, payload.Year); err == nil {
		return fiber.NewError(fiber.StatusConflict, "An increment for this year is already proposed or approved")
	}

	grade, err := yearGrade(ctx, h.perfRepo, h.kraRepo, userID, payload.Year)
	if err != nil {
		return storeError(err, "Performance")
	}
	if grade == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No consolidated performance or evaluated KRA for this year")
	}
	growth, err := latestGrowth(ctx, h.growthRepo, payload.Year)
	if err != nil {
		return storeError(err, "Company growth")
	}
	if growth == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No company growth recorded for this year")
	}

	result := calc.CalculateIncrement(user.Salary, grade, growth.GrowthScore)
	effective := payload.EffectiveDate
	if effective == "" {
		effective = fmt.Sprintf("%04d-04-01", payload.Year+1)
	}
	inc := &models.SalaryIncrement{
		UserID:           user.ID,
		Year:             payload.Year,
		PreviousSalary:   user.Salary,
		PerformanceGrade: grade,
		GrowthScore:      growth.GrowthScore,
		GrowthMultiplier: result.Multiplier,
		IncrementPercent: result.IncrementPercent,
		NewSalary:        result.NewSalary,
		EffectiveDate:    effective,
		Status:           models.IncrementProposed,
	}
	if err := h.incrementRepo.CreateIncrement(ctx, inc); err != nil {
		return storeError(err, "Salary increment")
	}
	return util.Success(c, fiber.StatusCreated, "Increment proposed", inc)
}

func (h *IncrementHandler) decide(c *fiber.Ctx, status string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.DecisionPayload
	if len(c.Body()) > 0 {
		if err := util.ParseBody(c, &payload); err != nil {
			return err
		}
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	inc, err := h.incrementRepo.FindIncrementByID(ctx, id)
	if err != nil {
		return storeError(err, "Salary increment")
	}
	if inc.Status != models.IncrementProposed {
		return fiber.NewError(fiber.StatusConflict, "Increment has already been "+inc.Status)
	}
	user, err := h.userRepo.FindUserByID(ctx, inc.UserID)
	if err != nil {
		return storeError(err, "User")
	}

	inc.Status = status
	inc.ApprovedBy = &claims.UserID
	inc.Remarks = payload.Remarks

	if status == models.IncrementApproved {
		user.Salary = inc.NewSalary
		if err := h.userRepo.SaveUser(ctx, user); err != nil {
			return storeError(err, "User")
		}
	}
	if err := h.incrementRepo.SaveIncrement(ctx, inc); err != nil {
		return storeError(err, "Salary increment")
	}

	if status == models.IncrementApproved {
		h.mail.Notify(ctx, models.EmailCategoryIncrement, user.Email,
			fmt.Sprintf("Salary revision for %d", inc.Year),
			fmt.Sprintf("Hello %s,\n\nYour monthly salary has been revised from %.2f to %.2f (%.2f%%), effective %s.",
				user.Name, inc.PreviousSalary, inc.NewSalary, inc.IncrementPercent, inc.EffectiveDate))
	}
	log.Printf("increments: %s %s for user %s", inc.ID.Hex(), status, user.ID.Hex())
	return util.Success(c, fiber.StatusOK, "Increment "+status, inc)
}

// ApproveIncrement godoc
// @Summary Approve increment
// @Description Applies the new salary to the employee and notifies them
// @Tags Increments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Increment ID"
// @Param decision body models.DecisionPayload false "Remarks"
// @Success 200 {object} models.Envelope{data=models.SalaryIncrement}
// @Router /increments/{id}/approve [put]
func (h *IncrementHandler) ApproveIncrement(c *fiber.Ctx) error {
	return h.decide(c, models.IncrementApproved)
}

// RejectIncrement godoc
// @Summary Reject increment
// @Tags Increments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Increment ID"
// @Param decision body models.DecisionPayload false "Remarks"
// @Success 200 {object} models.Envelope{data=models.SalaryIncrement}
// @Router /increments/{id}/reject [put]
func (h *IncrementHandler) RejectIncrement(c *fiber.Ctx) error {
	return h.decide(c, models.IncrementRejected)
}

// GetIncrements godoc
// @Summary List increments
// @Description HR sees every record; other employees see their own
// @Tags Increments
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID"
// @Param year query int false "Year"
// @Param status query string false "proposed, approved or rejected"
// @Success 200 {object} models.Envelope{data=[]models.SalaryIncrement}
// @Router /increments [get]
func (h *IncrementHandler) GetIncrements(c *fiber.Ctx) error {
	claims := currentUser(c)
	filter := repository.IncrementFilter{Status: c.Query("status")}
	if isHR(claims) {
		userID, err := optionalID(c.Query("user_id"), "user_id")
		if err != nil {
			return err
		}
		filter.UserID = userID
	} else {
		filter.UserID = &claims.UserID
	}
	year, err := intQuery(c, "year")
	if err != nil {
		return err
	}
	filter.Year = year

	ctx, cancel := requestContext(c)
	defer cancel()

	increments, err := h.incrementRepo.ListIncrements(ctx, filter)
	if err != nil {
		return storeError(err, "Salary increments")
	}
	return util.Success(c, fiber.StatusOK, "", increments)
}
