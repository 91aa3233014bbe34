package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Department struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	HeadID         *primitive.ObjectID `bson:"head_id,omitempty" json:"head_id,omitempty"`
	ParentID       *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

type DepartmentPayload struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Description    string `json:"description" validate:"omitempty,max=255"`
	OrganizationID string `json:"organization_id" validate:"omitempty,objectid"`
	HeadID         string `json:"head_id" validate:"omitempty,objectid"`
	ParentID       string `json:"parent_id" validate:"omitempty,objectid"`
}

// EmployeeRef is the slim view of a user used inside hierarchy trees.
type EmployeeRef struct {
	ID          primitive.ObjectID `json:"id"`
	EmployeeID  string             `json:"employee_id"`
	Name        string             `json:"name"`
	Designation string             `json:"designation"`
	Role        string             `json:"role"`
}

func RefOf(u User) EmployeeRef {
	return EmployeeRef{ID: u.ID, EmployeeID: u.EmployeeID, Name: u.Name, Designation: u.Designation, Role: u.Role}
}

type DepartmentNode struct {
	Department Department       `json:"department"`
	Employees  []EmployeeRef    `json:"employees"`
	Children   []DepartmentNode `json:"children"`
}
