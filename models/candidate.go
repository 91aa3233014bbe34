package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CandidateApplied   = "applied"
	CandidateScreening = "screening"
	CandidateInterview = "interview"
	CandidateOffered   = "offered"
	CandidateHired     = "hired"
	CandidateRejected  = "rejected"
)

var candidateNext = map[string]string{
	CandidateApplied:   CandidateScreening,
	CandidateScreening: CandidateInterview,
	CandidateInterview: CandidateOffered,
	CandidateOffered:   CandidateHired,
}

// CanTransition reports whether a candidate may move from one status to another.
// The pipeline only moves forward one step; rejection is allowed from any open status.
func CanTransition(from, to string) bool {
	if from == CandidateHired || from == CandidateRejected {
		return false
	}
	if to == CandidateRejected {
		return true
	}
	return candidateNext[from] == to
}

type Interview struct {
	Round       int       `json:"round" bson:"round"`
	ScheduledAt time.Time `json:"scheduled_at" bson:"scheduled_at"`
	Interviewer string    `json:"interviewer" bson:"interviewer"`
	Feedback    string    `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Rating      int       `json:"rating,omitempty" bson:"rating,omitempty"`
}

type Candidate struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Reference       string              `json:"reference" bson:"reference"`
	Name            string              `json:"name" bson:"name"`
	Email           string              `json:"email" bson:"email"`
	Phone           string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Position        string              `json:"position" bson:"position"`
	DepartmentID    *primitive.ObjectID `json:"department_id,omitempty" bson:"department_id,omitempty"`
	ExperienceYears float64             `json:"experience_years" bson:"experience_years"`
	ExpectedSalary  float64             `json:"expected_salary" bson:"expected_salary"`
	Status          string              `json:"status" bson:"status"`
	Interviews      []Interview         `json:"interviews" bson:"interviews"`
	Notes           string              `json:"notes,omitempty" bson:"notes,omitempty"`
	HiredUserID     *primitive.ObjectID `json:"hired_user_id,omitempty" bson:"hired_user_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" bson:"updated_at"`
}

type CandidatePayload struct {
	Name            string  `json:"name" validate:"required,min=3,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"omitempty,min=7,max=20"`
	Position        string  `json:"position" validate:"required,min=2,max=100"`
	DepartmentID    string  `json:"department_id" validate:"omitempty,objectid"`
	ExperienceYears float64 `json:"experience_years" validate:"min=0,max=60"`
	ExpectedSalary  float64 `json:"expected_salary" validate:"min=0"`
	Notes           string  `json:"notes" validate:"omitempty,max=2000"`
}

type CandidateStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=screening interview offered hired rejected"`
}

type InterviewPayload struct {
	ScheduledAt string `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04"`
	Interviewer string `json:"interviewer" validate:"required,min=2,max=100"`
	Feedback    string `json:"feedback" validate:"omitempty,max=2000"`
	Rating      int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

type HirePayload struct {
	Role           string  `json:"role" validate:"omitempty,oneof=hr manager employee"`
	Designation    string  `json:"designation" validate:"required,min=2,max=100"`
	DepartmentID   string  `json:"department_id" validate:"omitempty,objectid"`
	OrganizationID string  `json:"organization_id" validate:"omitempty,objectid"`
	ManagerID      string  `json:"manager_id" validate:"omitempty,objectid"`
	DateOfJoining  string  `json:"date_of_joining" validate:"required,datetime=2006-01-02"`
	Salary         float64 `json:"salary" validate:"required,gt=0"`
}
