package seeder

import (
	"context"
	"log"

	"hrms-backend/models"
	"hrms-backend/pkg/kiosk"
	"hrms-backend/repository"
)

const defaultOrganization = "Head Office"

var defaultDepartments = []string{
	"Management",
	"Human Resources",
	"Finance",
	"Engineering",
	"Sales",
	"Marketing",
	"Customer Support",
	"Operations",
}

// SeedOrganization returns the default organization, creating it with the
// built-in attendance settings and a kiosk secret when it does not exist.
func SeedOrganization(ctx context.Context, orgRepo repository.OrganizationRepository) (*models.Organization, error) {
	existing, err := orgRepo.FindOrganizationByName(ctx, defaultOrganization)
	if err == nil {
		log.Printf("seeder: organization %q already exists, skipping", defaultOrganization)
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	secret, err := kiosk.NewSecret(defaultOrganization)
	if err != nil {
		return nil, err
	}
	org := &models.Organization{
		Name:        defaultOrganization,
		KioskSecret: secret,
		Settings:    models.DefaultOrgSettings(),
	}
	if err := orgRepo.CreateOrganization(ctx, org); err != nil {
		return nil, err
	}
	log.Printf("seeder: organization %q created", org.Name)
	return org, nil
}

// SeedDepartments creates the default departments under org and returns
// them by name, including ones that were already present.
func SeedDepartments(ctx context.Context, deptRepo repository.DepartmentRepository, org *models.Organization) (map[string]*models.Department, error) {
	out := make(map[string]*models.Department, len(defaultDepartments))
	created := 0
	for _, name := range defaultDepartments {
		existing, err := deptRepo.FindDepartmentByName(ctx, &org.ID, name)
		if err == nil {
			out[name] = existing
			continue
		}
		if err != repository.ErrNotFound {
			return nil, err
		}

		dept := &models.Department{Name: name, OrganizationID: &org.ID}
		if err := deptRepo.CreateDepartment(ctx, dept); err != nil {
			return nil, err
		}
		out[name] = dept
		created++
	}
	log.Printf("seeder: %d department(s) created, %d already present", created, len(defaultDepartments)-created)
	return out, nil
}
