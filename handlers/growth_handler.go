package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type GrowthHandler struct {
	growthRepo repository.GrowthRepository
}

func NewGrowthHandler(growthRepo repository.GrowthRepository) *GrowthHandler {
	return &GrowthHandler{growthRepo: growthRepo}
}

// previousQuarter returns the quarter before (year, quarter); Q1 rolls back to Q4.
func previousQuarter(year, quarter int) (int, int) {
	if quarter == 1 {
		return year - 1, 4
	}
	return year, quarter - 1
}

// growthMetrics compares a quarter with the one before it. A missing
// previous quarter yields metrics without growth ratios.
func growthMetrics(ctx context.Context, repo repository.GrowthRepository, year, quarter int) (models.GrowthMetrics, error) {
	current, err := repo.FindGrowth(ctx, year, quarter)
	if err != nil {
		return models.GrowthMetrics{}, err
	}
	py, pq := previousQuarter(year, quarter)
	previous, err := repo.FindGrowth(ctx, py, pq)
	if err != nil {
		if err != repository.ErrNotFound {
			return models.GrowthMetrics{}, err
		}
		previous = nil
	}
	return calc.CalculateGrowthMetrics(current, previous), nil
}

func yearQuarterParams(c *fiber.Ctx) (int, int, error) {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid year")
	}
	quarter, err := strconv.Atoi(c.Params("quarter"))
	if err != nil || quarter < 1 || quarter > 4 {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid quarter")
	}
	return year, quarter, nil
}

// SaveGrowth godoc
// @Summary Record quarterly growth
// @Description Creates or replaces the snapshot of a quarter; profit is revenue minus expenses
// @Tags Company Growth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param growth body models.CompanyGrowthPayload true "Snapshot"
// @Success 200 {object} models.Envelope{data=models.CompanyGrowth}
// @Router /company-growth [post]
func (h *GrowthHandler) SaveGrowth(c *fiber.Ctx) error {
	var payload models.CompanyGrowthPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	growth := &models.CompanyGrowth{
		Year:          payload.Year,
		Quarter:       payload.Quarter,
		Revenue:       payload.Revenue,
		Expenses:      payload.Expenses,
		Profit:        calc.Round2(payload.Revenue - payload.Expenses),
		TargetRevenue: payload.TargetRevenue,
		EmployeeCount: payload.EmployeeCount,
		NewClients:    payload.NewClients,
		Notes:         payload.Notes,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.growthRepo.UpsertGrowth(ctx, growth); err != nil {
		return storeError(err, "Company growth")
	}
	return util.Success(c, fiber.StatusOK, "Company growth saved", growth)
}

// GetGrowth godoc
// @Summary List growth snapshots
// @Tags Company Growth
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Success 200 {object} models.Envelope{data=[]models.CompanyGrowth}
// @Router /company-growth [get]
func (h *GrowthHandler) GetGrowth(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var (
		records []models.CompanyGrowth
		err     error
	)
	if raw := c.Query("year"); raw != "" {
		year, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid year")
		}
		records, err = h.growthRepo.FindGrowthForYear(ctx, year)
	} else {
		records, err = h.growthRepo.ListGrowth(ctx)
	}
	if err != nil {
		return storeError(err, "Company growth")
	}
	return util.Success(c, fiber.StatusOK, "", records)
}

// GetQuarter godoc
// @Summary Get quarter snapshot
// @Tags Company Growth
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param quarter path int true "Quarter"
// @Success 200 {object} models.Envelope{data=models.CompanyGrowth}
// @Router /company-growth/{year}/{quarter} [get]
func (h *GrowthHandler) GetQuarter(c *fiber.Ctx) error {
	year, quarter, err := yearQuarterParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	growth, err := h.growthRepo.FindGrowth(ctx, year, quarter)
	if err != nil {
		return storeError(err, "Company growth")
	}
	return util.Success(c, fiber.StatusOK, "", growth)
}

// GetMetrics godoc
// @Summary Quarter growth metrics
// @Description Compares the quarter with the previous one (Q1 with Q4 of the previous year)
// @Tags Company Growth
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param quarter path int true "Quarter"
// @Success 200 {object} models.Envelope{data=models.GrowthMetrics}
// @Router /company-growth/{year}/{quarter}/metrics [get]
func (h *GrowthHandler) GetMetrics(c *fiber.Ctx) error {
	year, quarter, err := yearQuarterParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	metrics, err := growthMetrics(ctx, h.growthRepo, year, quarter)
	if err != nil {
		return storeError(err, "Company growth")
	}
	return util.Success(c, fiber.StatusOK, "", metrics)
}

// DeleteGrowth godoc
// @Summary Delete growth snapshot
// @Tags Company Growth
// @Produce json
// @Security BearerAuth
// @Param id path string true "Snapshot ID"
// @Success 200 {object} models.Envelope
// @Router /company-growth/{id} [delete]
func (h *GrowthHandler) DeleteGrowth(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.growthRepo.DeleteGrowth(ctx, id); err != nil {
		return storeError(err, "Company growth")
	}
	return util.Success(c, fiber.StatusOK, "Company growth deleted", nil)
}
