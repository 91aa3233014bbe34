package seeder

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	"hrms-backend/pkg/password"
	"hrms-backend/repository"
)

type memOrgs struct {
	repository.OrganizationRepository
	orgs []*models.Organization
}

func (m *memOrgs) FindOrganizationByName(_ context.Context, name string) (*models.Organization, error) {
	for _, o := range m.orgs {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrgs) CreateOrganization(_ context.Context, org *models.Organization) error {
	org.ID = primitive.NewObjectID()
	m.orgs = append(m.orgs, org)
	return nil
}

type memDepartments struct {
	repository.DepartmentRepository
	depts []*models.Department
}

func (m *memDepartments) FindDepartmentByName(_ context.Context, orgID *primitive.ObjectID, name string) (*models.Department, error) {
	for _, d := range m.depts {
		if d.Name == name && *d.OrganizationID == *orgID {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memDepartments) CreateDepartment(_ context.Context, dept *models.Department) error {
	dept.ID = primitive.NewObjectID()
	m.depts = append(m.depts, dept)
	return nil
}

type memUsers struct {
	repository.UserRepository
	users []*models.User
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	m.users = append(m.users, user)
	return nil
}

type memCounters struct {
	repository.CounterRepository
	seq int64
}

func (m *memCounters) NextSequence(context.Context, string) (int64, error) {
	m.seq++
	return m.seq, nil
}

func TestRunIsIdempotent(t *testing.T) {
	repos := Repos{
		Orgs:        &memOrgs{},
		Departments: &memDepartments{},
		Users:       &memUsers{},
		Counters:    &memCounters{},
	}

	for i := 0; i < 2; i++ {
		if err := Run(context.Background(), repos); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	orgs := repos.Orgs.(*memOrgs).orgs
	if len(orgs) != 1 || orgs[0].KioskSecret == "" {
		t.Fatalf("organizations = %+v, want one with a kiosk secret", orgs)
	}
	if got := len(repos.Departments.(*memDepartments).depts); got != len(defaultDepartments) {
		t.Errorf("departments = %d, want %d", got, len(defaultDepartments))
	}

	users := repos.Users.(*memUsers).users
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	admin := users[0]
	if admin.EmployeeID != "EMP0001" || admin.Role != models.RoleAdmin || !admin.IsFirstLogin {
		t.Errorf("admin = %s %s first_login=%v", admin.EmployeeID, admin.Role, admin.IsFirstLogin)
	}
	if admin.DepartmentID == nil {
		t.Error("admin has no department")
	}
	if !password.CheckPasswordHash(defaultAdminPassword, admin.Password) {
		t.Error("stored hash does not match the default password")
	}
}
