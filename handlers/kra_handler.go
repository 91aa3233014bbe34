package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type KRAHandler struct {
	kraRepo  repository.KRARepository
	userRepo repository.UserRepository
}

func NewKRAHandler(kraRepo repository.KRARepository, userRepo repository.UserRepository) *KRAHandler {
	return &KRAHandler{kraRepo: kraRepo, userRepo: userRepo}
}

func weightError(err error) error {
	if errors.Is(err, calc.ErrWeightExceeded) {
		return fiber.NewError(fiber.StatusBadRequest, "Total KRA weight must not exceed 100")
	}
	return err
}

// CreateKRA godoc
// @Summary Create KRA set
// @Description One set per employee and quarter; item weights must add up to at most 100
// @Tags KRA
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kra body models.KRAPayload true "KRA set"
// @Success 201 {object} models.Envelope{data=models.KRA}
// @Failure 400 {object} models.ErrorEnvelope "Weights exceed 100"
// @Failure 409 {object} models.ErrorEnvelope "KRA already exists for the quarter"
// @Router /kra [post]
func (h *KRAHandler) CreateKRA(c *fiber.Ctx) error {
	var payload models.KRAPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	userID, err := parseObjectID(payload.UserID, "user_id")
	if err != nil {
		return err
	}
	total, err := calc.TotalWeight(payload.Items)
	if err != nil {
		return weightError(err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, currentUser(c), userID); err != nil {
		return err
	}
	if _, err := h.kraRepo.FindKRA(ctx, userID, payload.Year, payload.Quarter); err == nil {
		return fiber.NewError(fiber.StatusConflict, "KRA already exists for this quarter")
	}

	kra := &models.KRA{
		UserID:      userID,
		Year:        payload.Year,
		Quarter:     payload.Quarter,
		Items:       payload.Items,
		TotalWeight: total,
		Status:      models.KRADraft,
	}
	if err := h.kraRepo.CreateKRA(ctx, kra); err != nil {
		return storeError(err, "KRA")
	}
	return util.Success(c, fiber.StatusCreated, "KRA created", kra)
}

func (h *KRAHandler) load(ctx context.Context, c *fiber.Ctx) (*models.KRA, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	kra, err := h.kraRepo.FindKRAByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "KRA")
	}
	if err := requireView(ctx, h.userRepo, currentUser(c), kra.UserID); err != nil {
		return nil, err
	}
	return kra, nil
}

// UpdateKRA godoc
// @Summary Update KRA items
// @Tags KRA
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "KRA ID"
// @Param kra body models.KRAPayload true "KRA set"
// @Success 200 {object} models.Envelope{data=models.KRA}
// @Failure 409 {object} models.ErrorEnvelope "Already evaluated"
// @Router /kra/{id} [put]
func (h *KRAHandler) UpdateKRA(c *fiber.Ctx) error {
	var payload models.KRAPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	total, err := calc.TotalWeight(payload.Items)
	if err != nil {
		return weightError(err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	kra, err := h.load(ctx, c)
	if err != nil {
		return err
	}
	if kra.Status == models.KRAEvaluated {
		return fiber.NewError(fiber.StatusConflict, "An evaluated KRA cannot be changed")
	}
	kra.Items = payload.Items
	kra.TotalWeight = total
	kra.Status = models.KRADraft
	if err := h.kraRepo.SaveKRA(ctx, kra); err != nil {
		return storeError(err, "KRA")
	}
	return util.Success(c, fiber.StatusOK, "KRA updated", kra)
}

// SelfRate godoc
// @Summary Self-rate KRA
// @Description The employee rates each item from 1 to 5, in item order
// @Tags KRA
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "KRA ID"
// @Param ratings body models.KRASelfRatingPayload true "Ratings"
// @Success 200 {object} models.Envelope{data=models.KRA}
// @Router /kra/{id}/self-rate [put]
func (h *KRAHandler) SelfRate(c *fiber.Ctx) error {
	var payload models.KRASelfRatingPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	kra, err := h.load(ctx, c)
	if err != nil {
		return err
	}
	if kra.UserID != currentUser(c).UserID {
		return fiber.NewError(fiber.StatusForbidden, "Only the employee can self-rate")
	}
	if kra.Status == models.KRAEvaluated {
		return fiber.NewError(fiber.StatusConflict, "KRA has already been evaluated")
	}
	if len(payload.Ratings) != len(kra.Items) {
		return fiber.NewError(fiber.StatusBadRequest, "One rating per KRA item is required")
	}
	for i, r := range payload.Ratings {
		kra.Items[i].SelfRating = r
	}
	kra.Status = models.KRASubmitted
	if err := h.kraRepo.SaveKRA(ctx, kra); err != nil {
		return storeError(err, "KRA")
	}
	return util.Success(c, fiber.StatusOK, "Self rating submitted", kra)
}

// Evaluate godoc
// @Summary Evaluate KRA
// @Description The manager records achievement and a rating per item; the weighted score and grade are computed
// @Tags KRA
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "KRA ID"
// @Param evaluation body models.KRAEvaluationPayload true "Evaluation"
// @Success 200 {object} models.Envelope{data=models.KRA}
// @Failure 409 {object} models.ErrorEnvelope "Already evaluated"
// @Router /kra/{id}/evaluate [put]
func (h *KRAHandler) Evaluate(c *fiber.Ctx) error {
	var payload models.KRAEvaluationPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	kra, err := h.load(ctx, c)
	if err != nil {
		return err
	}
	if kra.UserID == claims.UserID {
		return fiber.NewError(fiber.StatusForbidden, "You cannot evaluate your own KRA")
	}
	if kra.Status == models.KRAEvaluated {
		return fiber.NewError(fiber.StatusConflict, "KRA has already been evaluated")
	}
	if len(payload.Items) != len(kra.Items) {
		return fiber.NewError(fiber.StatusBadRequest, "One evaluation per KRA item is required")
	}
	for i, e := range payload.Items {
		kra.Items[i].Achieved = e.Achieved
		kra.Items[i].ManagerRating = e.ManagerRating
	}

	score, total, err := calc.CalculateKRAScore(kra.Items)
	if err != nil {
		return weightError(err)
	}
	kra.Score = score
	kra.TotalWeight = total
	kra.Grade = calc.GradeFor(score)
	kra.Status = models.KRAEvaluated
	kra.EvaluatedBy = &claims.UserID

	if err := h.kraRepo.SaveKRA(ctx, kra); err != nil {
		return storeError(err, "KRA")
	}
	return util.Success(c, fiber.StatusOK, "KRA evaluated", kra)
}

// GetKRAs godoc
// @Summary List KRAs
// @Tags KRA
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID (defaults to the caller)"
// @Success 200 {object} models.Envelope{data=[]models.KRA}
// @Router /kra [get]
func (h *KRAHandler) GetKRAs(c *fiber.Ctx) error {
	claims := currentUser(c)
	userID, err := targetUser(claims, c.Query("user_id"))
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, claims, userID); err != nil {
		return err
	}
	kras, err := h.kraRepo.FindKRAsByUser(ctx, userID)
	if err != nil {
		return storeError(err, "KRAs")
	}
	return util.Success(c, fiber.StatusOK, "", kras)
}

// GetKRAByID godoc
// @Summary Get KRA
// @Tags KRA
// @Produce json
// @Security BearerAuth
// @Param id path string true "KRA ID"
// @Success 200 {object} models.Envelope{data=models.KRA}
// @Router /kra/{id} [get]
func (h *KRAHandler) GetKRAByID(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	kra, err := h.load(ctx, c)
	if err != nil {
		return err
	}
	return util.Success(c, fiber.StatusOK, "", kra)
}

// DeleteKRA godoc
// @Summary Delete draft KRA
// @Tags KRA
// @Produce json
// @Security BearerAuth
// @Param id path string true "KRA ID"
// @Success 200 {object} models.Envelope
// @Failure 409 {object} models.ErrorEnvelope "Only drafts can be deleted"
// @Router /kra/{id} [delete]
func (h *KRAHandler) DeleteKRA(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	kra, err := h.load(ctx, c)
	if err != nil {
		return err
	}
	if kra.Status != models.KRADraft {
		return fiber.NewError(fiber.StatusConflict, "Only draft KRAs can be deleted")
	}
	if err := h.kraRepo.DeleteKRA(ctx, kra.ID); err != nil {
		return storeError(err, "KRA")
	}
	return util.Success(c, fiber.StatusOK, "KRA deleted", nil)
}
