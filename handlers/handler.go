package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/repository"
)

const (
	dateLayout     = "2006-01-02"
	monthLayout    = "2006-01"
	requestTimeout = 5 * time.Second
	batchTimeout   = 60 * time.Second
)

var (
	location = time.UTC
	nowFunc  = time.Now
)

// SetLocation sets the business timezone used for dates and shift times.
func SetLocation(loc *time.Location) {
	if loc != nil {
		location = loc
	}
}

func now() time.Time {
	return nowFunc().In(location)
}

func today() string {
	return now().Format(dateLayout)
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, location)
}

// parseDateTime parses a YYYY-MM-DDTHH:MM wall-clock time.
func parseDateTime(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout+"T15:04", value, location)
}

// monthBounds returns the first and last day of a YYYY-MM month.
func monthBounds(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(monthLayout, month, location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, -1), nil
}

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), requestTimeout)
}

func currentUser(c *fiber.Ctx) *models.Claims {
	claims, ok := c.Locals("user").(*models.Claims)
	if !ok {
		return &models.Claims{}
	}
	return claims
}

func isHR(claims *models.Claims) bool {
	return claims.HasRole(models.RoleAdmin, models.RoleHR)
}

// checkRoleGrant rejects role assignments the caller may not make: only an
// admin grants admin or edits an admin account, and nobody changes their own role.
func checkRoleGrant(claims *models.Claims, target *models.User, role string) error {
	if role == "" || (target != nil && role == target.Role) {
		return nil
	}
	if target != nil && target.ID == claims.UserID {
		return fiber.NewError(fiber.StatusForbidden, "You cannot change your own role")
	}
	if claims.Role != models.RoleAdmin && (role == models.RoleAdmin || (target != nil && target.Role == models.RoleAdmin)) {
		return fiber.NewError(fiber.StatusForbidden, "Only an admin can grant or revoke the admin role")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return id, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name+" format")
	}
	return id, nil
}

func parseObjectID(value, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return id, fiber.NewError(fiber.StatusBadRequest, "Invalid "+field)
	}
	return id, nil
}

// optionalID parses value when set. An empty value yields nil.
func optionalID(value, field string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := parseObjectID(value, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// storeError maps repository sentinels to HTTP errors.
func storeError(err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, what+" already exists")
	default:
		log.Printf("store error (%s): %v", what, err)
		return err
	}
}

// targetUser resolves the user a request is about: the requested id when
// given, otherwise the caller. Access is checked separately with requireView.
func targetUser(claims *models.Claims, requested string) (primitive.ObjectID, error) {
	if requested == "" {
		return claims.UserID, nil
	}
	return parseObjectID(requested, "user_id")
}

// canView reports whether the caller may see records of the given user.
// Managers see their direct reports.
func canView(ctx context.Context, users repository.UserRepository, claims *models.Claims, userID primitive.ObjectID) (bool, error) {
	if claims.UserID == userID || isHR(claims) {
		return true, nil
	}
	if !claims.HasRole(models.RoleManager) {
		return false, nil
	}
	user, err := users.FindUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.ManagerID != nil && *user.ManagerID == claims.UserID, nil
}

func requireView(ctx context.Context, users repository.UserRepository, claims *models.Claims, userID primitive.ObjectID) error {
	ok, err := canView(ctx, users, claims, userID)
	if err != nil {
		return storeError(err, "User")
	}
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
	return nil
}

// organizationFor returns the user's organization, or the default one.
func organizationFor(ctx context.Context, orgs repository.OrganizationRepository, user *models.User) (*models.Organization, error) {
	if user != nil && user.OrganizationID != nil {
		return orgs.FindOrganizationByID(ctx, *user.OrganizationID)
	}
	return orgs.FindDefaultOrganization(ctx)
}

// orgSettings returns the attendance rules that apply to the user, falling
// back to built-in defaults.
func orgSettings(ctx context.Context, orgs repository.OrganizationRepository, user *models.User) models.OrgSettings {
	org, err := organizationFor(ctx, orgs, user)
	if err != nil || org == nil || org.Settings.StandardHours <= 0 {
		return models.DefaultOrgSettings()
	}
	return org.Settings
}

// Mailer is the slice of the mail service handlers rely on.
type Mailer interface {
	Send(ctx context.Context, category string, to []string, subject, body string) (*models.Email, error)
	Notify(ctx context.Context, category string, to, subject, body string)
}
