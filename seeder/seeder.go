// Package seeder creates the records a fresh database needs before anyone
// can sign in.
package seeder

import (
	"context"
	"fmt"
	"log"
	"time"

	"hrms-backend/repository"
)

type Repos struct {
	Orgs        repository.OrganizationRepository
	Departments repository.DepartmentRepository
	Users       repository.UserRepository
	Counters    repository.CounterRepository
}

// Run seeds the default organization, its departments and the admin
// account. Existing records are left untouched.
func Run(ctx context.Context, repos Repos) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	log.Println("seeder: starting")
	org, err := SeedOrganization(ctx, repos.Orgs)
	if err != nil {
		return fmt.Errorf("seed organization: %w", err)
	}
	depts, err := SeedDepartments(ctx, repos.Departments, org)
	if err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}
	if _, err := SeedAdmin(ctx, repos.Users, repos.Counters, org, depts["Management"]); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Println("seeder: done")
	return nil
}
