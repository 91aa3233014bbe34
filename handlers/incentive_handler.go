package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type IncentiveHandler struct {
	incentiveRepo repository.IncentiveRepository
	perfRepo      repository.PerformanceRepository
	kraRepo       repository.KRARepository
	growthRepo    repository.GrowthRepository
	userRepo      repository.UserRepository
}

func NewIncentiveHandler(
	incentiveRepo repository.IncentiveRepository,
	perfRepo repository.PerformanceRepository,
	kraRepo repository.KRARepository,
	growthRepo repository.GrowthRepository,
	userRepo repository.UserRepository,
) *IncentiveHandler {
	return &IncentiveHandler{
		incentiveRepo: incentiveRepo,
		perfRepo:      perfRepo,
		kraRepo:       kraRepo,
		growthRepo:    growthRepo,
		userRepo:      userRepo,
	}
}

// quarterScore prefers the consolidated score and falls back to an evaluated KRA.
func quarterScore(ctx context.Context, perfs repository.PerformanceRepository, kras repository.KRARepository, userID primitive.ObjectID, year, quarter int) (float64, bool, error) {
	perf, err := perfs.FindPerformance(ctx, userID, year, quarter)
	if err == nil {
		return perf.FinalScore, true, nil
	}
	if err != repository.ErrNotFound {
		return 0, false, err
	}
	kra, err := kras.FindKRA(ctx, userID, year, quarter)
	if err == nil && kra.Status == models.KRAEvaluated {
		return kra.Score, true, nil
	}
	if err != nil && err != repository.ErrNotFound {
		return 0, false, err
	}
	return 0, false, nil
}

// CalculateIncentive godoc
// @Summary Calculate PLI or VLI
// @Description PLI scales the quarterly eligible amount by the performance score; VLI also by the company's target achievement
// @Tags Incentives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.IncentiveCalculationPayload true "User, quarter and type"
// @Success 200 {object} models.Envelope{data=models.Incentive}
// @Failure 409 {object} models.ErrorEnvelope "Already paid"
// @Failure 422 {object} models.ErrorEnvelope "No score or growth data"
// @Router /incentives/calculate [post]
func (h *IncentiveHandler) CalculateIncentive(c *fiber.Ctx) error {
	var payload models.IncentiveCalculationPayload
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
	score, ok, err := quarterScore(ctx, h.perfRepo, h.kraRepo, userID, payload.Year, payload.Quarter)
	if err != nil {
		return storeError(err, "Performance")
	}
	if !ok {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No consolidated performance or evaluated KRA for this quarter")
	}

	var achievement float64
	metrics, err := growthMetrics(ctx, h.growthRepo, payload.Year, payload.Quarter)
	switch {
	case err == nil:
		achievement = metrics.TargetAchievement
	case err == repository.ErrNotFound:
		if payload.Type == models.IncentiveVLI {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "No company growth recorded for this quarter")
		}
	default:
		return storeError(err, "Company growth")
	}

	result := calc.CalculateIncentive(payload.Type, user.Salary, user.PLIPercent, score, achievement)
	inc := &models.Incentive{
		UserID:            user.ID,
		Year:              payload.Year,
		Quarter:           payload.Quarter,
		Type:              payload.Type,
		PerformanceScore:  score,
		TargetAchievement: achievement,
		EligibleAmount:    result.EligibleAmount,
		PerformanceFactor: result.PerformanceFactor,
		CompanyFactor:     result.CompanyFactor,
		Payout:            result.Payout,
		Status:            models.IncentiveCalculated,
	}
	if err := h.incentiveRepo.UpsertIncentive(ctx, inc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fiber.NewError(fiber.StatusConflict, "This incentive has already been paid")
		}
		return storeError(err, "Incentive")
	}
	return util.Success(c, fiber.StatusOK, "Incentive calculated", inc)
}

func (h *IncentiveHandler) advance(c *fiber.Ctx, from, to string) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	inc, err := h.incentiveRepo.FindIncentiveByID(ctx, id)
	if err != nil {
		return storeError(err, "Incentive")
	}
	if inc.Status != from {
		return fiber.NewError(fiber.StatusConflict, "Incentive must be "+from+" to become "+to)
	}
	inc.Status = to
	switch to {
	case models.IncentiveApproved:
		inc.ApprovedBy = &claims.UserID
	case models.IncentivePaid:
		at := now()
		inc.PaidAt = &at
	}
	if err := h.incentiveRepo.SaveIncentive(ctx, inc); err != nil {
		return storeError(err, "Incentive")
	}
	return util.Success(c, fiber.StatusOK, "Incentive "+to, inc)
}

// ApproveIncentive godoc
// @Summary Approve incentive
// @Tags Incentives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incentive ID"
// @Success 200 {object} models.Envelope{data=models.Incentive}
// @Router /incentives/{id}/approve [put]
func (h *IncentiveHandler) ApproveIncentive(c *fiber.Ctx) error {
	return h.advance(c, models.IncentiveCalculated, models.IncentiveApproved)
}

// MarkIncentivePaid godoc
// @Summary Mark incentive paid
// @Tags Incentives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incentive ID"
// @Success 200 {object} models.Envelope{data=models.Incentive}
// @Router /incentives/{id}/mark-paid [put]
func (h *IncentiveHandler) MarkIncentivePaid(c *fiber.Ctx) error {
	return h.advance(c, models.IncentiveApproved, models.IncentivePaid)
}

// GetIncentives godoc
// @Summary List incentives
// @Tags Incentives
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID"
// @Param year query int false "Year"
// @Param quarter query int false "Quarter"
// @Param type query string false "PLI or VLI"
// @Param status query string false "calculated, approved or paid"
// @Success 200 {object} models.Envelope{data=[]models.Incentive}
// @Router /incentives [get]
func (h *IncentiveHandler) GetIncentives(c *fiber.Ctx) error {
	claims := currentUser(c)
	filter := repository.IncentiveFilter{Type: c.Query("type"), Status: c.Query("status")}
	if isHR(claims) {
		userID, err := optionalID(c.Query("user_id"), "user_id")
		if err != nil {
			return err
		}
		filter.UserID = userID
	} else {
		filter.UserID = &claims.UserID
	}
	var err error
	if filter.Year, err = intQuery(c, "year"); err != nil {
		return err
	}
	if filter.Quarter, err = intQuery(c, "quarter"); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	incentives, err := h.incentiveRepo.ListIncentives(ctx, filter)
	if err != nil {
		return storeError(err, "Incentives")
	}
	return util.Success(c, fiber.StatusOK, "", incentives)
}

// intQuery parses an optional integer query parameter; absent means 0.
func intQuery(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return v, nil
}
