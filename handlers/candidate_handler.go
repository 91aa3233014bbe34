package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"hrms-backend/models"
	"hrms-backend/pkg/password"
	"hrms-backend/pkg/resettoken"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

// inviteTTL bounds the set-password link sent to a new hire.
const inviteTTL = 7 * 24 * time.Hour

type CandidateHandler struct {
	candidateRepo repository.CandidateRepository
	userRepo      repository.UserRepository
	counterRepo   repository.CounterRepository
	mail          Mailer
	auth          AuthConfig
}

func NewCandidateHandler(
	candidateRepo repository.CandidateRepository,
	userRepo repository.UserRepository,
	counterRepo repository.CounterRepository,
	mail Mailer,
	auth AuthConfig,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		userRepo:      userRepo,
		counterRepo:   counterRepo,
		mail:          mail,
		auth:          auth,
	}
}

// CreateCandidate godoc
// @Summary Add candidate
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param candidate body models.CandidatePayload true "Candidate"
// @Success 201 {object} models.Envelope{data=models.Candidate}
// @Router /candidates [post]
func (h *CandidateHandler) CreateCandidate(c *fiber.Ctx) error {
	var payload models.CandidatePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	deptID, err := optionalID(payload.DepartmentID, "department_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	seq, err := h.counterRepo.NextSequence(ctx, repository.CandidateCounter)
	if err != nil {
		return err
	}
	candidate := &models.Candidate{
		Reference:       repository.FormatCandidateRef(seq),
		Name:            payload.Name,
		Email:           strings.ToLower(payload.Email),
		Phone:           payload.Phone,
		Position:        payload.Position,
		DepartmentID:    deptID,
		ExperienceYears: payload.ExperienceYears,
		ExpectedSalary:  payload.ExpectedSalary,
		Notes:           payload.Notes,
		Status:          models.CandidateApplied,
		Interviews:      []models.Interview{},
	}
	if err := h.candidateRepo.CreateCandidate(ctx, candidate); err != nil {
		return storeError(err, "Candidate")
	}
	return util.Success(c, fiber.StatusCreated, "Candidate added", candidate)
}

// GetCandidates godoc
// @Summary List candidates
// @Tags Recruitment
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pipeline status"
// @Param position query string false "Position"
// @Param search query string false "Name, email or reference"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} models.Envelope{data=models.PagedData}
// @Router /candidates [get]
func (h *CandidateHandler) GetCandidates(c *fiber.Ctx) error {
	page, limit := util.Pagination(c)
	filter := repository.CandidateFilter{
		Status:   c.Query("status"),
		Position: c.Query("position"),
		Search:   c.Query("search"),
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	candidates, total, err := h.candidateRepo.ListCandidates(ctx, filter, int64(page), int64(limit))
	if err != nil {
		return storeError(err, "Candidates")
	}
	return util.Paged(c, candidates, total, page, limit)
}

// GetCandidateByID godoc
// @Summary Get candidate
// @Tags Recruitment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.Envelope{data=models.Candidate}
// @Router /candidates/{id} [get]
func (h *CandidateHandler) GetCandidateByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	candidate, err := h.candidateRepo.FindCandidateByID(ctx, id)
	if err != nil {
		return storeError(err, "Candidate")
	}
	return util.Success(c, fiber.StatusOK, "", candidate)
}

// UpdateCandidate godoc
// @Summary Update candidate
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Param candidate body models.CandidatePayload true "Candidate"
// @Success 200 {object} models.Envelope{data=models.Candidate}
// @Router /candidates/{id} [put]
func (h *CandidateHandler) UpdateCandidate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.CandidatePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	deptID, err := optionalID(payload.DepartmentID, "department_id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	candidate, err := h.candidateRepo.FindCandidateByID(ctx, id)
	if err != nil {
		return storeError(err, "Candidate")
	}
	if candidate.Status == models.CandidateHired {
		return fiber.NewError(fiber.StatusConflict, "Hired candidates cannot be edited")
	}
	candidate.Name = payload.Name
	candidate.Email = strings.ToLower(payload.Email)
	candidate.Phone = payload.Phone
	candidate.Position = payload.Position
	candidate.DepartmentID = deptID
	candidate.ExperienceYears = payload.ExperienceYears
	candidate.ExpectedSalary = payload.ExpectedSalary
	candidate.Notes = payload.Notes
	if err := h.candidateRepo.SaveCandidate(ctx, candidate); err != nil {
		return storeError(err, "Candidate")
	}
	return util.Success(c, fiber.StatusOK, "Candidate updated", candidate)
}

// UpdateStatus godoc
// @Summary Move candidate in the pipeline
// @Description applied, screening, interview, offered, hired; any open stage may be rejected. Hiring goes through the hire endpoint.
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Param status body models.CandidateStatusPayload true "New status"
// @Success 200 {object} models.Envelope{data=models.Candidate}
// @Failure 409 {object} models.ErrorEnvelope "Invalid transition"
// @Router /candidates/{id}/status [put]
func (h *CandidateHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.CandidateStatusPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	if payload.Status == models.CandidateHired {
		return fiber.NewError(fiber.StatusBadRequest, "Use the hire endpoint to hire a candidate")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	candidate, err := h.candidateRepo.FindCandidateByID(ctx, id)
	if err != nil {
		return storeError(err, "Candidate")
	}
	if !models.CanTransition(candidate.Status, payload.Status) {
		return fiber.NewError(fiber.StatusConflict,
			fmt.Sprintf("Cannot move candidate from %s to %s", candidate.Status, payload.Status))
	}
	candidate.Status = payload.Status
	if err := h.candidateRepo.SaveCandidate(ctx, candidate); err != nil {
		return storeError(err, "Candidate")
	}
	return util.Success(c, fiber.StatusOK, "Candidate moved to "+payload.Status, candidate)
}

// AddInterview godoc
// @Summary Add interview round
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Param interview body models.InterviewPayload true "Interview"
// @Success 201 {object} models.Envelope{data=models.Candidate}
// @Router /candidates/{id}/interviews [post]
func (h *CandidateHandler) AddInterview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.InterviewPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	at, err := parseDateTime(payload.ScheduledAt)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid scheduled_at")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	candidate, err := h.candidateRepo.FindCandidateByID(ctx, id)
	if err != nil {
		return storeError(err, "Candidate")
	}
	if candidate.Status == models.CandidateHired || candidate.Status == models.CandidateRejected {
		return fiber.NewError(fiber.StatusConflict, "Candidate is no longer in the pipeline")
	}
	candidate.Interviews = append(candidate.Interviews, models.Interview{
		Round:       len(candidate.Interviews) + 1,
		ScheduledAt: at,
		Interviewer: payload.Interviewer,
		Feedback:    payload.Feedback,
		Rating:      payload.Rating,
	})
	if err := h.candidateRepo.SaveCandidate(ctx, candidate); err != nil {
		return storeError(err, "Candidate")
	}
	return util.Success(c, fiber.StatusCreated, "Interview added", candidate)
}

// Hire godoc
// @Summary Hire candidate
// @Description Creates the employee account for an offered candidate and emails a set-password link
// @Tags Recruitment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Param hire body models.HirePayload true "Employment details"
// @Success 201 {object} models.Envelope{data=models.User}
// @Failure 409 {object} models.ErrorEnvelope "Candidate not offered or email already registered"
// @Router /candidates/{id}/hire [post]
func (h *CandidateHandler) Hire(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var payload models.HirePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	deptID, err := optionalID(payload.DepartmentID, "department_id")
	if err != nil {
		return err
	}
	orgID, err := optionalID(payload.OrganizationID, "organization_id")
	if err != nil {
		return err
	}
	managerID, err := optionalID(payload.ManagerID, "manager_id")
	if err != nil {
		return err
	}
	joined, err := parseDate(payload.DateOfJoining)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid date_of_joining")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	candidate, err := h.candidateRepo.FindCandidateByID(ctx, id)
	if err != nil {
		return storeError(err, "Candidate")
	}
	if candidate.Status != models.CandidateOffered {
		return fiber.NewError(fiber.StatusConflict, "Only candidates with an offer can be hired")
	}

	temp, err := util.TempPassword()
	if err != nil {
		return err
	}
	hashed, err := password.HashPassword(temp)
	if err != nil {
		return err
	}
	role := payload.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if deptID == nil {
		deptID = candidate.DepartmentID
	}

	user := &models.User{
		Name:           candidate.Name,
		Email:          candidate.Email,
		Password:       hashed,
		Phone:          candidate.Phone,
		Role:           role,
		Designation:    payload.Designation,
		DepartmentID:   deptID,
		OrganizationID: orgID,
		ManagerID:      managerID,
		DateOfJoining:  joined,
		Status:         models.UserStatusActive,
		Salary:         payload.Salary,
		IsFirstLogin:   true,
	}
	if err := enrollEmployee(ctx, h.userRepo, h.counterRepo, user); err != nil {
		return err
	}

	candidate.Status = models.CandidateHired
	candidate.HiredUserID = &user.ID
	if err := h.candidateRepo.SaveCandidate(ctx, candidate); err != nil {
		return storeError(err, "Candidate")
	}

	token, err := resettoken.GenerateToken(h.auth.ResetSecret, user.ID.Hex(), user.Email, user.Password, inviteTTL)
	if err != nil {
		return err
	}
	link := strings.TrimRight(h.auth.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	h.mail.Notify(ctx, models.EmailCategoryHiring, user.Email,
		"Welcome aboard",
		fmt.Sprintf("Hello %s,\n\nYour employee ID is %s and you join on %s.\nChoose your password with the link below. It expires in 7 days.\n\n%s\n",
			user.Name, user.EmployeeID, payload.DateOfJoining, link))

	return util.Success(c, fiber.StatusCreated, "Candidate hired", user)
}

// DeleteCandidate godoc
// @Summary Delete candidate
// @Tags Recruitment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.Envelope
// @Router /candidates/{id} [delete]
func (h *CandidateHandler) DeleteCandidate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.candidateRepo.DeleteCandidate(ctx, id); err != nil {
		return storeError(err, "Candidate")
	}
	return util.Success(c, fiber.StatusOK, "Candidate deleted", nil)
}
