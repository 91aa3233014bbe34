package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"

	UserStatusActive   = "active"
	UserStatusOnNotice = "on_notice"
	UserStatusExited   = "exited"
)

type BankDetails struct {
	BankName      string `json:"bank_name" bson:"bank_name,omitempty"`
	AccountNumber string `json:"account_number" bson:"account_number,omitempty"`
	IFSC          string `json:"ifsc" bson:"ifsc,omitempty"`
	AccountHolder string `json:"account_holder" bson:"account_holder,omitempty"`
}

type User struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID     string              `json:"employee_id" bson:"employee_id,omitempty"`
	Name           string              `json:"name" bson:"name,omitempty"`
	Email          string              `json:"email" bson:"email,omitempty"`
	Password       string              `json:"-" bson:"password,omitempty"`
	Phone          string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Role           string              `json:"role" bson:"role,omitempty"`
	Designation    string              `json:"designation" bson:"designation,omitempty"`
	DepartmentID   *primitive.ObjectID `json:"department_id,omitempty" bson:"department_id,omitempty"`
	OrganizationID *primitive.ObjectID `json:"organization_id,omitempty" bson:"organization_id,omitempty"`
	ManagerID      *primitive.ObjectID `json:"manager_id,omitempty" bson:"manager_id,omitempty"`
	DateOfJoining  time.Time           `json:"date_of_joining" bson:"date_of_joining,omitempty"`
	DateOfExit     *time.Time          `json:"date_of_exit,omitempty" bson:"date_of_exit,omitempty"`
	Status         string              `json:"status" bson:"status,omitempty"`
	Salary         float64             `json:"salary" bson:"salary"`
	PLIPercent     float64             `json:"pli_percent" bson:"pli_percent"`
	BankDetails    *BankDetails        `json:"bank_details,omitempty" bson:"bank_details,omitempty"`
	LeaveBalance   float64             `json:"leave_balance" bson:"leave_balance"`
	Address        string              `json:"address,omitempty" bson:"address,omitempty"`
	IsFirstLogin   bool                `json:"is_first_login" bson:"is_first_login"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at,omitempty"`
}

func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive || u.Status == UserStatusOnNotice
}

type UserRegisterPayload struct {
	Name           string  `json:"name" validate:"required,min=3,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8,max=50,hasuppercase"`
	Phone          string  `json:"phone" validate:"omitempty,min=7,max=20"`
	Role           string  `json:"role" validate:"required,oneof=admin hr manager employee"`
	Designation    string  `json:"designation"`
	DepartmentID   string  `json:"department_id" validate:"omitempty,objectid"`
	OrganizationID string  `json:"organization_id" validate:"omitempty,objectid"`
	ManagerID      string  `json:"manager_id" validate:"omitempty,objectid"`
	DateOfJoining  string  `json:"date_of_joining" validate:"omitempty,datetime=2006-01-02"`
	Salary         float64 `json:"salary" validate:"min=0"`
	PLIPercent     float64 `json:"pli_percent" validate:"min=0,max=100"`
	LeaveBalance   float64 `json:"leave_balance" validate:"min=0"`
	Address        string  `json:"address" validate:"omitempty,min=5,max=255"`
}

type UserLoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdatePayload struct {
	Name         string   `json:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Email        string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string   `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	Role         string   `json:"role,omitempty" validate:"omitempty,oneof=admin hr manager employee"`
	Designation  string   `json:"designation,omitempty"`
	DepartmentID string   `json:"department_id,omitempty" validate:"omitempty,objectid"`
	ManagerID    string   `json:"manager_id,omitempty" validate:"omitempty,objectid"`
	Status       string   `json:"status,omitempty" validate:"omitempty,oneof=active on_notice exited"`
	Salary       *float64 `json:"salary,omitempty" validate:"omitempty,min=0"`
	PLIPercent   *float64 `json:"pli_percent,omitempty" validate:"omitempty,min=0,max=100"`
	LeaveBalance *float64 `json:"leave_balance,omitempty" validate:"omitempty,min=0"`
	Address      string   `json:"address,omitempty" validate:"omitempty,min=5,max=255"`
}

type BankDetailsPayload struct {
	BankName      string `json:"bank_name" validate:"required,min=2,max=100"`
	AccountNumber string `json:"account_number" validate:"required,numeric,min=6,max=20"`
	IFSC          string `json:"ifsc" validate:"required,alphanum,len=11"`
	AccountHolder string `json:"account_holder" validate:"required,min=3,max=100"`
}

type ChangePasswordPayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=50,hasuppercase"`
}

type ForgotPasswordPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordPayload struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=50,hasuppercase"`
}

type Claims struct {
	UserID       primitive.ObjectID `json:"user_id"`
	Email        string             `json:"email"`
	Role         string             `json:"role"`
	IsFirstLogin bool               `json:"is_first_login"`
}

// HasRole reports whether the claims carry any of the given roles.
func (c *Claims) HasRole(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

type DepartmentCount struct {
	Department string `bson:"department" json:"department"`
	Count      int64  `bson:"count" json:"count"`
}

type DashboardStats struct {
	TotalEmployees         int64             `json:"total_employees"`
	ActiveEmployees        int64             `json:"active_employees"`
	OnNoticeEmployees      int64             `json:"on_notice_employees"`
	PresentToday           int64             `json:"present_today"`
	PendingLeaveRequests   int64             `json:"pending_leave_requests"`
	NewJoinersLast30Days   int64             `json:"new_joiners_last_30_days"`
	TotalDepartments       int64             `json:"total_departments"`
	OpenCandidates         int64             `json:"open_candidates"`
	DepartmentDistribution []DepartmentCount `json:"department_distribution"`
}
