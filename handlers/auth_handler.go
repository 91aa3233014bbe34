package handlers

import (
	"context"
	"fmt"
	"log"
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

type TokenIssuer interface {
	GenerateToken(user *models.User) (string, time.Time, error)
}

type AuthConfig struct {
	ResetSecret string
	ResetTTL    time.Duration
	FrontendURL string
}

type AuthHandler struct {
	userRepo    repository.UserRepository
	counterRepo repository.CounterRepository
	tokens      TokenIssuer
	mail        Mailer
	cfg         AuthConfig
}

func NewAuthHandler(userRepo repository.UserRepository, counterRepo repository.CounterRepository, tokens TokenIssuer, mail Mailer, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		counterRepo: counterRepo,
		tokens:      tokens,
		mail:        mail,
		cfg:         cfg,
	}
}

// enrollEmployee assigns the next employee number and stores the user.
func enrollEmployee(ctx context.Context, users repository.UserRepository, counters repository.CounterRepository, user *models.User) error {
	if existing, err := users.FindUserByEmail(ctx, user.Email); err == nil && existing != nil {
		return fiber.NewError(fiber.StatusConflict, "Email is already registered")
	}
	seq, err := counters.NextSequence(ctx, repository.EmployeeCounter)
	if err != nil {
		return err
	}
	user.EmployeeID = repository.FormatEmployeeID(seq)
	if err := users.CreateUser(ctx, user); err != nil {
		return storeError(err, "User")
	}
	return nil
}

// Register godoc
// @Summary Register employee
// @Description Creates an employee account with the next employee ID (admin/hr only)
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body models.UserRegisterPayload true "Employee registration data"
// @Success 201 {object} models.Envelope{data=models.User} "Employee registered"
// @Failure 400 {object} models.ValidationErrorEnvelope "Validation error"
// @Failure 403 {object} models.ErrorEnvelope "Admin role requires an admin"
// @Failure 409 {object} models.ErrorEnvelope "Email already registered"
// @Failure 500 {object} models.ErrorEnvelope "Internal error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var payload models.UserRegisterPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	if err := checkRoleGrant(currentUser(c), nil, payload.Role); err != nil {
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
	joined := now()
	if payload.DateOfJoining != "" {
		if joined, err = parseDate(payload.DateOfJoining); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date_of_joining")
		}
	}

	hashedPassword, err := password.HashPassword(payload.Password)
	if err != nil {
		return err
	}

	newUser := &models.User{
		Name:           payload.Name,
		Email:          strings.ToLower(payload.Email),
		Password:       hashedPassword,
		Phone:          payload.Phone,
		Role:           payload.Role,
		Designation:    payload.Designation,
		DepartmentID:   deptID,
		OrganizationID: orgID,
		ManagerID:      managerID,
		DateOfJoining:  joined,
		Status:         models.UserStatusActive,
		Salary:         payload.Salary,
		PLIPercent:     payload.PLIPercent,
		LeaveBalance:   payload.LeaveBalance,
		Address:        payload.Address,
		IsFirstLogin:   true,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := enrollEmployee(ctx, h.userRepo, h.counterRepo, newUser); err != nil {
		return err
	}

	h.mail.Notify(ctx, models.EmailCategoryWelcome, newUser.Email,
		"Welcome to the team",
		fmt.Sprintf("Hello %s,\n\nYour employee ID is %s. Sign in at %s with the password shared by HR.\n",
			newUser.Name, newUser.EmployeeID, h.cfg.FrontendURL))

	return util.Success(c, fiber.StatusCreated, "Employee registered", newUser)
}

// Login godoc
// @Summary Login
// @Description Verifies credentials and returns a PASETO access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.UserLoginPayload true "Login credentials"
// @Success 200 {object} models.Envelope{data=models.LoginData} "Login successful"
// @Failure 400 {object} models.ValidationErrorEnvelope "Validation error"
// @Failure 401 {object} models.ErrorEnvelope "Wrong email or password"
// @Failure 403 {object} models.ErrorEnvelope "Account no longer active"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload models.UserLoginPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByEmail(ctx, strings.ToLower(payload.Email))
	if err != nil || user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
	}
	if !password.CheckPasswordHash(payload.Password, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
	}
	if user.Status == models.UserStatusExited {
		return fiber.NewError(fiber.StatusForbidden, "Account is no longer active")
	}

	token, expiresAt, err := h.tokens.GenerateToken(user)
	if err != nil {
		return err
	}

	return util.Success(c, fiber.StatusOK, "Login successful", models.LoginData{
		Token:        token,
		ExpiresAt:    expiresAt.UTC().Format(time.RFC3339),
		UserID:       user.ID.Hex(),
		EmployeeID:   user.EmployeeID,
		Role:         user.Role,
		IsFirstLogin: user.IsFirstLogin,
	})
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Emails a reset link when the address belongs to an account. Always answers 200.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.ForgotPasswordPayload true "Account email"
// @Success 200 {object} models.Envelope "Reset link sent if the account exists"
// @Failure 400 {object} models.ValidationErrorEnvelope "Validation error"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var payload models.ForgotPasswordPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	const message = "If the email is registered, a reset link has been sent"

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByEmail(ctx, strings.ToLower(payload.Email))
	if err != nil || user.Status == models.UserStatusExited {
		return util.Success(c, fiber.StatusOK, message, nil)
	}

	token, err := resettoken.GenerateToken(h.cfg.ResetSecret, user.ID.Hex(), user.Email, user.Password, h.cfg.ResetTTL)
	if err != nil {
		log.Printf("forgot-password: failed to sign token for %s: %v", user.ID.Hex(), err)
		return util.Success(c, fiber.StatusOK, message, nil)
	}
	link := strings.TrimRight(h.cfg.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	h.mail.Notify(ctx, models.EmailCategoryReset, user.Email, "Reset your password",
		fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in %s.\n\n%s\n",
			user.Name, h.cfg.ResetTTL, link))

	return util.Success(c, fiber.StatusOK, message, nil)
}

// ResetPassword godoc
// @Summary Reset password
// @Description Sets a new password using the token from the reset email
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.ResetPasswordPayload true "Reset token and new password"
// @Success 200 {object} models.Envelope "Password updated"
// @Failure 400 {object} models.ErrorEnvelope "Invalid or expired token"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var payload models.ResetPasswordPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}

	claims, err := resettoken.ParseToken(h.cfg.ResetSecret, payload.Token)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired reset token")
	}
	userID, err := parseObjectID(claims.UserID, "reset token")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired reset token")
	}
	if resettoken.Fingerprint(user.Password) != claims.PasswordFP {
		return fiber.NewError(fiber.StatusBadRequest, "Reset token has already been used")
	}

	hashed, err := password.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	if err := h.userRepo.UpdateUserPassword(ctx, user.ID, hashed); err != nil {
		return storeError(err, "User")
	}
	return util.Success(c, fiber.StatusOK, "Password updated", nil)
}

// ChangePassword godoc
// @Summary Change password
// @Description Changes the password of the signed-in user
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param password body models.ChangePasswordPayload true "Old and new password"
// @Success 200 {object} models.Envelope "Password changed"
// @Failure 400 {object} models.ErrorEnvelope "Validation error or unchanged password"
// @Failure 401 {object} models.ErrorEnvelope "Old password does not match"
// @Router /users/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := currentUser(c)

	var payload models.ChangePasswordPayload
	if err := util.ParseBody(c, &payload); err != nil {
		return err
	}
	if payload.NewPassword == payload.OldPassword {
		return fiber.NewError(fiber.StatusBadRequest, "New password must differ from the old password")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return storeError(err, "User")
	}
	if !password.CheckPasswordHash(payload.OldPassword, user.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Old password does not match")
	}

	newHashedPassword, err := password.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}
	if err := h.userRepo.UpdateUserPassword(ctx, claims.UserID, newHashedPassword); err != nil {
		return storeError(err, "User")
	}
	return util.Success(c, fiber.StatusOK, "Password changed", nil)
}

// Logout godoc
// @Summary Logout
// @Description Tokens are stateless; the client discards its token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return util.Success(c, fiber.StatusOK, "Logged out. Discard the token on the client.", nil)
}
