package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/sealbox"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

const maxChainDepth = 50

type UserHandler struct {
	userRepo       repository.UserRepository
	deptRepo       repository.DepartmentRepository
	leaveRepo      repository.LeaveRequestRepository
	attendanceRepo repository.AttendanceRepository
	candidateRepo  repository.CandidateRepository
	box            *sealbox.Box
}

func NewUserHandler(
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	leaveRepo repository.LeaveRequestRepository,
	attendanceRepo repository.AttendanceRepository,
	candidateRepo repository.CandidateRepository,
	box *sealbox.Box,
) *UserHandler {
	return &UserHandler{
		userRepo:       userRepo,
		deptRepo:       deptRepo,
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		candidateRepo:  candidateRepo,
		box:            box,
	}
}

// present returns a copy of the user that is safe to serialise: the bank
// account number is decrypted and masked.
func (h *UserHandler) present(user models.User) models.User {
	if user.BankDetails != nil {
		bank := *user.BankDetails
		plain, err := h.box.Open(bank.AccountNumber)
		if err != nil {
			log.Printf("users: failed to open account number of %s: %v", user.ID.Hex(), err)
			plain = ""
		}
		bank.AccountNumber = util.MaskAccount(plain)
		user.BankDetails = &bank
	}
	return user
}

// GetMe godoc
// @Summary Current profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=models.User}
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, currentUser(c).UserID)
	if err != nil {
		return storeError(err, "User")
	}
	return util.Success(c, fiber.StatusOK, "", h.present(*user))
}

// GetUserByID godoc
// @Summary Get user by ID
// @Description Self, admin/hr, or the user's manager
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 400 {object} models.ErrorEnvelope "Invalid ID"
// @Failure 403 {object} models.ErrorEnvelope "Access denied"
// @Failure 404 {object} models.ErrorEnvelope "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUserByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := requireView(ctx, h.userRepo, currentUser(c), id); err != nil {
		return err
	}
	user, err := h.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return storeError(err, "User")
	}
	return util.Success(c, fiber.StatusOK, "", h.present(*user))
}

// GetAllUsers godoc
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Name, email or employee ID"
// @Param role query string false "Role"
// @Param status query string false "Status"
// @Param department_id query string false "Department ID"
// @Success 200 {object} models.Envelope{data=models.PagedData}
// @Router /admin/users [get]
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	page, limit := util.Pagination(c)
	deptID, err := optionalID(c.Query("department_id"), "department_id")
	if err != nil {
		return err
	}
	filter := repository.UserFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		Role:         c.Query("role"),
		Status:       c.Query("status"),
		DepartmentID: deptID,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, total, err := h.userRepo.ListUsers(ctx, filter, int64(page), int64(limit))
	if err != nil {
		return storeError(err, "Users")
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, h.present(u))
	}
	return util.Paged(c, out, total, page, limit)
}

// UpdateUser godoc
// @Summary Update user
// @Description Employees may change their own phone and address; admin/hr may change HR fields
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body models.UserUpdatePayload true "Fields to update"
// @Success 200 {object} models.Envelope{data=models.User}
// @Failure 403 {object} models.ErrorEnvelope "Access denied"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	claims := currentUser(c)
	privileged := isHR(claims)
	if !privileged && claims.UserID != id {
		return fiber.NewError(fiber.StatusForbidden, "You can only update your own profile")
	}

	var payload models.UserUpdatePayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return storeError(err, "User")
	}

	if payload.Phone != "" {
		user.Phone = payload.Phone
	}
	if payload.Address != "" {
		user.Address = payload.Address
	}
	if privileged {
		if err := h.applyHRFields(ctx, claims, user, payload); err != nil {
			return err
		}
	}

	if err := h.userRepo.SaveUser(ctx, user); err != nil {
		return storeError(err, "User")
	}
	return util.Success(c, fiber.StatusOK, "User updated", h.present(*user))
}

func (h *UserHandler) applyHRFields(ctx context.Context, claims *models.Claims, user *models.User, p models.UserUpdatePayload) error {
	if err := checkRoleGrant(claims, user, p.Role); err != nil {
		return err
	}
	if p.Name != "" {
		user.Name = p.Name
	}
	if p.Email != "" && !strings.EqualFold(p.Email, user.Email) {
		if other, err := h.userRepo.FindUserByEmail(ctx, strings.ToLower(p.Email)); err == nil && other.ID != user.ID {
			return fiber.NewError(fiber.StatusConflict, "Email is already registered")
		}
		user.Email = strings.ToLower(p.Email)
	}
	if p.Role != "" {
		user.Role = p.Role
	}
	if p.Designation != "" {
		user.Designation = p.Designation
	}
	if p.DepartmentID != "" {
		deptID, err := parseObjectID(p.DepartmentID, "department_id")
		if err != nil {
			return err
		}
		if _, err := h.deptRepo.GetDepartmentByID(ctx, deptID); err != nil {
			return storeError(err, "Department")
		}
		user.DepartmentID = &deptID
	}
	if p.ManagerID != "" {
		managerID, err := parseObjectID(p.ManagerID, "manager_id")
		if err != nil {
			return err
		}
		if managerID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "A user cannot manage themselves")
		}
		user.ManagerID = &managerID
	}
	if p.Status != "" {
		user.Status = p.Status
	}
	if p.Salary != nil {
		user.Salary = *p.Salary
	}
	if p.PLIPercent != nil {
		user.PLIPercent = *p.PLIPercent
	}
	if p.LeaveBalance != nil {
		user.LeaveBalance = *p.LeaveBalance
	}
	return nil
}

// UpdateBankDetails godoc
// @Summary Update bank details
// @Description The account number is encrypted at rest and masked in responses
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param bank body models.BankDetailsPayload true "Bank details"
// @Success 200 {object} models.Envelope{data=models.User}
// @Router /users/{id}/bank-details [put]
func (h *UserHandler) UpdateBankDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	claims := currentUser(c)
	if claims.UserID != id && !isHR(claims) {
		return fiber.NewError(fiber.StatusForbidden, "You can only update your own bank details")
	}

	var payload models.BankDetailsPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	sealed, err := h.box.Seal(payload.AccountNumber)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return storeError(err, "User")
	}
	user.BankDetails = &models.BankDetails{
		BankName:      payload.BankName,
		AccountNumber: sealed,
		IFSC:          strings.ToUpper(payload.IFSC),
		AccountHolder: payload.AccountHolder,
	}
	if err := h.userRepo.SaveUser(ctx, user); err != nil {
		return storeError(err, "User")
	}
	return util.Success(c, fiber.StatusOK, "Bank details updated", h.present(*user))
}

// DeleteUser godoc
// @Summary Delete user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Envelope
// @Failure 404 {object} models.ErrorEnvelope "User not found"
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if id == currentUser(c).UserID {
		return fiber.NewError(fiber.StatusBadRequest, "You cannot delete your own account")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.userRepo.DeleteUser(ctx, id); err != nil {
		return storeError(err, "User")
	}
	return util.Success(c, fiber.StatusOK, "User deleted", nil)
}

// GetDashboardStats godoc
// @Summary Dashboard statistics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=models.DashboardStats}
// @Router /admin/dashboard-stats [get]
func (h *UserHandler) GetDashboardStats(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.userRepo.GetDashboardStats(ctx)
	if err != nil {
		return storeError(err, "Dashboard stats")
	}
	if stats.PendingLeaveRequests, err = h.leaveRepo.CountPendingRequests(ctx); err != nil {
		return storeError(err, "Leave requests")
	}
	if stats.PresentToday, err = h.attendanceRepo.CountAttendancesOn(ctx, today()); err != nil {
		return storeError(err, "Attendance")
	}
	if stats.TotalDepartments, err = h.deptRepo.CountDepartments(ctx); err != nil {
		return storeError(err, "Departments")
	}
	if stats.OpenCandidates, err = h.candidateRepo.CountOpenCandidates(ctx); err != nil {
		return storeError(err, "Candidates")
	}
	return util.Success(c, fiber.StatusOK, "", stats)
}

// GetReportingChain godoc
// @Summary Reporting chain
// @Description Managers from the user's direct manager up to the top of the hierarchy
// @Tags Hierarchy
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.Envelope{data=[]models.EmployeeRef}
// @Router /users/{id}/reporting-chain [get]
func (h *UserHandler) GetReportingChain(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return storeError(err, "User")
	}

	chain := []models.EmployeeRef{}
	seen := map[primitive.ObjectID]bool{user.ID: true}
	next := user.ManagerID
	for next != nil && len(chain) < maxChainDepth {
		if seen[*next] {
			log.Printf("hierarchy: manager cycle detected at %s", next.Hex())
			break
		}
		seen[*next] = true
		manager, err := h.userRepo.FindUserByID(ctx, *next)
		if err != nil {
			break
		}
		chain = append(chain, models.RefOf(*manager))
		next = manager.ManagerID
	}
	return util.Success(c, fiber.StatusOK, "", chain)
}

// GetDirectReports godoc
// @Summary Direct reports
// @Tags Hierarchy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Manager user ID"
// @Success 200 {object} models.Envelope{data=[]models.EmployeeRef}
// @Router /users/{id}/direct-reports [get]
func (h *UserHandler) GetDirectReports(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	reports, _, err := h.userRepo.ListUsers(ctx, repository.UserFilter{ManagerID: &id}, 1, 0)
	if err != nil {
		return storeError(err, "Users")
	}
	refs := make([]models.EmployeeRef, 0, len(reports))
	for _, u := range reports {
		if u.Status == models.UserStatusExited {
			continue
		}
		refs = append(refs, models.RefOf(u))
	}
	return util.Success(c, fiber.StatusOK, "", refs)
}
