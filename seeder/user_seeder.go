package seeder

import (
	"context"
	"log"
	"time"

	"hrms-backend/models"
	"hrms-backend/pkg/password"
	"hrms-backend/repository"
)

const (
	AdminEmail           = "admin@hrms.local"
	defaultAdminPassword = "Admin@12345"
)

// SeedAdmin creates the first administrator. The account must change its
// password on first login.
func SeedAdmin(ctx context.Context, userRepo repository.UserRepository, counterRepo repository.CounterRepository, org *models.Organization, dept *models.Department) (*models.User, error) {
	if existing, err := userRepo.FindUserByEmail(ctx, AdminEmail); err == nil {
		log.Printf("seeder: admin %s already exists, skipping", AdminEmail)
		return existing, nil
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	hashed, err := password.HashPassword(defaultAdminPassword)
	if err != nil {
		return nil, err
	}
	seq, err := counterRepo.NextSequence(ctx, repository.EmployeeCounter)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		EmployeeID:     repository.FormatEmployeeID(seq),
		Name:           "System Administrator",
		Email:          AdminEmail,
		Password:       hashed,
		Role:           models.RoleAdmin,
		Designation:    "Administrator",
		OrganizationID: &org.ID,
		DateOfJoining:  time.Now().Truncate(24 * time.Hour),
		Status:         models.UserStatusActive,
		IsFirstLogin:   true,
	}
	if dept != nil {
		admin.DepartmentID = &dept.ID
	}
	if err := userRepo.CreateUser(ctx, admin); err != nil {
		return nil, err
	}
	log.Printf("seeder: admin %s (%s) created with the default password", admin.Email, admin.EmployeeID)
	return admin, nil
}
