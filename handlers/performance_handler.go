package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/calc"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

type PerformanceHandler struct {
	perfRepo       repository.PerformanceRepository
	kraRepo        repository.KRARepository
	taskRepo       repository.TaskRepository
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	orgRepo        repository.OrganizationRepository
	holidays       util.HolidaySource
}

func NewPerformanceHandler(
	perfRepo repository.PerformanceRepository,
	kraRepo repository.KRARepository,
	taskRepo repository.TaskRepository,
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	holidays util.HolidaySource,
) *PerformanceHandler {
	return &PerformanceHandler{
		perfRepo:       perfRepo,
		kraRepo:        kraRepo,
		taskRepo:       taskRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		holidays:       holidays,
	}
}

// quarterPeriods returns the YYYY-MM periods of a quarter.
func quarterPeriods(year, quarter int) []string {
	first := (quarter-1)*3 + 1
	return []string{
		fmt.Sprintf("%04d-%02d", year, first),
		fmt.Sprintf("%04d-%02d", year, first+1),
		fmt.Sprintf("%04d-%02d", year, first+2),
	}
}

func overallRating(ratings []models.CompetencyRating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return calc.Round2(float64(sum) / float64(len(ratings)))
}

// CalculateScore godoc
// @Summary Calculate monthly performance score
// @Description Combines task completion, punctuality, response ratings and attendance for one month
// @Tags Performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ScoreCalculationPayload true "User and period"
// @Success 200 {object} models.Envelope{data=models.PerformanceScore}
// @Router /performance/scores/calculate [post]
func (h *PerformanceHandler) CalculateScore(c *fiber.Ctx) error {
	var payload models.ScoreCalculationPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	userID, err := parseObjectID(payload.UserID, "user_id")
	if err != nil {
		return err
	}
	start, end, err := monthBounds(payload.Period)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid period, expected YYYY-MM")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, currentUser(c), userID); err != nil {
		return err
	}
	user, err := h.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return storeError(err, "User")
	}

	input, err := h.metricsInput(ctx, user, start, end)
	if err != nil {
		return err
	}
	metrics := calc.CalculatePerformanceMetrics(input)
	score := &models.PerformanceScore{
		UserID:  user.ID,
		Period:  payload.Period,
		Metrics: metrics,
		Grade:   calc.GradeFor(metrics.OverallScore),
	}
	if err := h.perfRepo.UpsertScore(ctx, score); err != nil {
		return storeError(err, "Performance score")
	}
	return util.Success(c, fiber.StatusOK, "Performance score calculated", score)
}

func (h *PerformanceHandler) metricsInput(ctx context.Context, user *models.User, start, end time.Time) (calc.MetricsInput, error) {
	var in calc.MetricsInput

	tasks, err := h.taskRepo.FindTasksDueBetween(ctx, user.ID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return in, storeError(err, "Tasks")
	}
	ids := make([]primitive.ObjectID, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
		in.TasksAssigned++
		if t.Status == models.TaskCompleted {
			in.TasksCompleted++
			if t.CompletedOnTime() {
				in.CompletedOnTime++
			}
		}
	}
	if len(ids) > 0 {
		responses, err := h.taskRepo.FindResponsesByTasks(ctx, ids)
		if err != nil {
			return in, storeError(err, "Task responses")
		}
		for _, r := range responses {
			if r.Rating > 0 {
				in.Ratings = append(in.Ratings, r.Rating)
			}
		}
	}

	records, err := h.attendanceRepo.FindAttendances(ctx, repository.AttendanceFilter{
		UserID:   &user.ID,
		FromDate: start.Format(dateLayout),
		ToDate:   end.Format(dateLayout),
	})
	if err != nil {
		return in, storeError(err, "Attendance")
	}
	settings := orgSettings(ctx, h.orgRepo, user)
	in.WorkingDays = calc.WorkingDays(start, end, calc.WeekdaysFor(settings.WorkingDaysPerWeek), holidaysBetween(ctx, h.holidays, start, end))
	in.PresentDays = attendedDays(summarizeAttendance(user.ID, start.Format(monthLayout), records, in.WorkingDays))
	return in, nil
}

// GetScores godoc
// @Summary Monthly performance scores
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID (defaults to the caller)"
// @Param period query string false "YYYY-MM"
// @Success 200 {object} models.Envelope{data=[]models.PerformanceScore}
// @Router /performance/scores [get]
func (h *PerformanceHandler) GetScores(c *fiber.Ctx) error {
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
	if period := c.Query("period"); period != "" {
		score, err := h.perfRepo.FindScore(ctx, userID, period)
		if err != nil {
			return storeError(err, "Performance score")
		}
		return util.Success(c, fiber.StatusOK, "", []models.PerformanceScore{*score})
	}
	scores, err := h.perfRepo.FindScoresByUser(ctx, userID)
	if err != nil {
		return storeError(err, "Performance scores")
	}
	return util.Success(c, fiber.StatusOK, "", scores)
}

// CreateReview godoc
// @Summary Create performance review
// @Description One review per employee and quarter, written by a manager or HR
// @Tags Performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param review body models.PerformanceReviewPayload true "Review"
// @Success 201 {object} models.Envelope{data=models.PerformanceReview}
// @Failure 409 {object} models.ErrorEnvelope "Review already exists"
// @Router /performance/reviews [post]
func (h *PerformanceHandler) CreateReview(c *fiber.Ctx) error {
	var payload models.PerformanceReviewPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	userID, err := parseObjectID(payload.UserID, "user_id")
	if err != nil {
		return err
	}

	claims := currentUser(c)
	if userID == claims.UserID {
		return fiber.NewError(fiber.StatusForbidden, "You cannot review yourself")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, claims, userID); err != nil {
		return err
	}
	if _, err := h.perfRepo.FindReview(ctx, userID, payload.Year, payload.Quarter); err == nil {
		return fiber.NewError(fiber.StatusConflict, "A review for this quarter already exists")
	}

	review := &models.PerformanceReview{
		UserID:        userID,
		ReviewerID:    claims.UserID,
		Year:          payload.Year,
		Quarter:       payload.Quarter,
		Ratings:       payload.Ratings,
		OverallRating: overallRating(payload.Ratings),
		Strengths:     payload.Strengths,
		Improvements:  payload.Improvements,
		Status:        models.ReviewDraft,
	}
	if err := h.perfRepo.CreateReview(ctx, review); err != nil {
		return storeError(err, "Performance review")
	}
	return util.Success(c, fiber.StatusCreated, "Review created", review)
}

func (h *PerformanceHandler) reviewForReviewer(ctx context.Context, c *fiber.Ctx) (*models.PerformanceReview, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	review, err := h.perfRepo.FindReviewByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Performance review")
	}
	claims := currentUser(c)
	if review.ReviewerID != claims.UserID && !isHR(claims) {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the reviewer can change this review")
	}
	if review.Status != models.ReviewDraft {
		return nil, fiber.NewError(fiber.StatusConflict, "Review has already been submitted")
	}
	return review, nil
}

// UpdateReview godoc
// @Summary Update draft review
// @Tags Performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param review body models.PerformanceReviewPayload true "Review"
// @Success 200 {object} models.Envelope{data=models.PerformanceReview}
// @Router /performance/reviews/{id} [put]
func (h *PerformanceHandler) UpdateReview(c *fiber.Ctx) error {
	var payload models.PerformanceReviewPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.reviewForReviewer(ctx, c)
	if err != nil {
		return err
	}
	review.Ratings = payload.Ratings
	review.OverallRating = overallRating(payload.Ratings)
	review.Strengths = payload.Strengths
	review.Improvements = payload.Improvements
	if err := h.perfRepo.SaveReview(ctx, review); err != nil {
		return storeError(err, "Performance review")
	}
	return util.Success(c, fiber.StatusOK, "Review updated", review)
}

// SubmitReview godoc
// @Summary Submit review
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} models.Envelope{data=models.PerformanceReview}
// @Router /performance/reviews/{id}/submit [put]
func (h *PerformanceHandler) SubmitReview(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.reviewForReviewer(ctx, c)
	if err != nil {
		return err
	}
	at := now()
	review.Status = models.ReviewSubmitted
	review.SubmittedAt = &at
	if err := h.perfRepo.SaveReview(ctx, review); err != nil {
		return storeError(err, "Performance review")
	}
	return util.Success(c, fiber.StatusOK, "Review submitted", review)
}

// AcknowledgeReview godoc
// @Summary Acknowledge review
// @Description The reviewed employee confirms having read a submitted review
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} models.Envelope{data=models.PerformanceReview}
// @Router /performance/reviews/{id}/acknowledge [put]
func (h *PerformanceHandler) AcknowledgeReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.perfRepo.FindReviewByID(ctx, id)
	if err != nil {
		return storeError(err, "Performance review")
	}
	if review.UserID != currentUser(c).UserID {
		return fiber.NewError(fiber.StatusForbidden, "Only the reviewed employee can acknowledge")
	}
	if review.Status != models.ReviewSubmitted {
		return fiber.NewError(fiber.StatusConflict, "Only submitted reviews can be acknowledged")
	}
	review.Status = models.ReviewAcknowledged
	if err := h.perfRepo.SaveReview(ctx, review); err != nil {
		return storeError(err, "Performance review")
	}
	return util.Success(c, fiber.StatusOK, "Review acknowledged", review)
}

// GetReviews godoc
// @Summary List reviews
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID (defaults to the caller)"
// @Success 200 {object} models.Envelope{data=[]models.PerformanceReview}
// @Router /performance/reviews [get]
func (h *PerformanceHandler) GetReviews(c *fiber.Ctx) error {
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
	reviews, err := h.perfRepo.FindReviewsByUser(ctx, userID)
	if err != nil {
		return storeError(err, "Performance reviews")
	}
	// drafts stay private to the reviewer
	if userID == claims.UserID && !isHR(claims) {
		visible := reviews[:0]
		for _, r := range reviews {
			if r.Status != models.ReviewDraft {
				visible = append(visible, r)
			}
		}
		reviews = visible
	}
	return util.Success(c, fiber.StatusOK, "", reviews)
}

// GetReviewByID godoc
// @Summary Get review
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} models.Envelope{data=models.PerformanceReview}
// @Router /performance/reviews/{id} [get]
func (h *PerformanceHandler) GetReviewByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	claims := currentUser(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.perfRepo.FindReviewByID(ctx, id)
	if err != nil {
		return storeError(err, "Performance review")
	}
	if review.ReviewerID != claims.UserID {
		if err := requireView(ctx, h.userRepo, claims, review.UserID); err != nil {
			return err
		}
		if review.UserID == claims.UserID && review.Status == models.ReviewDraft {
			return fiber.NewError(fiber.StatusNotFound, "Performance review not found")
		}
	}
	return util.Success(c, fiber.StatusOK, "", review)
}

// Consolidate godoc
// @Summary Consolidate quarterly performance
// @Description Blends the evaluated KRA score, the submitted review rating and the monthly metrics into a final score and grade
// @Tags Performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ConsolidationPayload true "User and quarter"
// @Success 200 {object} models.Envelope{data=models.Performance}
// @Failure 422 {object} models.ErrorEnvelope "Nothing to consolidate"
// @Router /performance/consolidate [post]
func (h *PerformanceHandler) Consolidate(c *fiber.Ctx) error {
	var payload models.ConsolidationPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	userID, err := parseObjectID(payload.UserID, "user_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, currentUser(c), userID); err != nil {
		return err
	}

	perf := &models.Performance{UserID: userID, Year: payload.Year, Quarter: payload.Quarter}

	kra, err := h.kraRepo.FindKRA(ctx, userID, payload.Year, payload.Quarter)
	switch {
	case err == nil:
		if kra.Status == models.KRAEvaluated {
			score := kra.Score
			perf.KRAScore = &score
		}
	case err != repository.ErrNotFound:
		return storeError(err, "KRA")
	}

	review, err := h.perfRepo.FindReview(ctx, userID, payload.Year, payload.Quarter)
	switch {
	case err == nil:
		if review.Status != models.ReviewDraft {
			rating := review.OverallRating
			perf.ReviewRating = &rating
		}
	case err != repository.ErrNotFound:
		return storeError(err, "Performance review")
	}

	scores, err := h.perfRepo.FindScoresInPeriods(ctx, userID, quarterPeriods(payload.Year, payload.Quarter))
	if err != nil {
		return storeError(err, "Performance scores")
	}
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s.Metrics.OverallScore
		}
		avg := calc.Round2(sum / float64(len(scores)))
		perf.MetricsScore = &avg
	}

	final, ok := calc.ConsolidateScore(perf.KRAScore, perf.ReviewRating, perf.MetricsScore)
	if !ok {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No evaluated KRA, submitted review or monthly score for this quarter")
	}
	perf.FinalScore = final
	perf.Grade = calc.GradeFor(final)

	if err := h.perfRepo.UpsertPerformance(ctx, perf); err != nil {
		return storeError(err, "Performance")
	}
	return util.Success(c, fiber.StatusOK, "Performance consolidated", perf)
}

// GetPerformances godoc
// @Summary Quarterly performance records
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "User ID (defaults to the caller)"
// @Param year query int false "Year"
// @Success 200 {object} models.Envelope{data=[]models.Performance}
// @Router /performance [get]
func (h *PerformanceHandler) GetPerformances(c *fiber.Ctx) error {
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

	var records []models.Performance
	if raw := c.Query("year"); raw != "" {
		year, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid year")
		}
		records, err = h.perfRepo.FindPerformancesForYear(ctx, userID, year)
	} else {
		records, err = h.perfRepo.FindPerformancesByUser(ctx, userID)
	}
	if err != nil {
		return storeError(err, "Performance")
	}
	return util.Success(c, fiber.StatusOK, "", records)
}
