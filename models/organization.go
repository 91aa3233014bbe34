package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrgSettings struct {
	StandardHours      float64 `json:"standard_hours" bson:"standard_hours"`
	HalfDayHours       float64 `json:"half_day_hours" bson:"half_day_hours"`
	GraceMinutes       int     `json:"grace_minutes" bson:"grace_minutes"`
	ShiftStart         string  `json:"shift_start" bson:"shift_start"`
	ShiftEnd           string  `json:"shift_end" bson:"shift_end"`
	WorkingDaysPerWeek int     `json:"working_days_per_week" bson:"working_days_per_week"`
}

func DefaultOrgSettings() OrgSettings {
	return OrgSettings{
		StandardHours:      8,
		HalfDayHours:       4,
		GraceMinutes:       15,
		ShiftStart:         "09:30",
		ShiftEnd:           "18:30",
		WorkingDaysPerWeek: 5,
	}
}

type Organization struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	Industry    string             `json:"industry,omitempty" bson:"industry,omitempty"`
	KioskSecret string             `json:"-" bson:"kiosk_secret,omitempty"`
	Settings    OrgSettings        `json:"settings" bson:"settings"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

type OrganizationPayload struct {
	Name     string       `json:"name" validate:"required,min=2,max=120"`
	Address  string       `json:"address" validate:"omitempty,max=255"`
	Industry string       `json:"industry" validate:"omitempty,max=80"`
	Settings *OrgSettings `json:"settings,omitempty"`
}

type OrgSettingsPayload struct {
	StandardHours      float64 `json:"standard_hours" validate:"required,gt=0,lte=24"`
	HalfDayHours       float64 `json:"half_day_hours" validate:"required,gt=0,ltefield=StandardHours"`
	GraceMinutes       int     `json:"grace_minutes" validate:"min=0,max=240"`
	ShiftStart         string  `json:"shift_start" validate:"required,datetime=15:04"`
	ShiftEnd           string  `json:"shift_end" validate:"required,datetime=15:04"`
	WorkingDaysPerWeek int     `json:"working_days_per_week" validate:"required,min=1,max=7"`
}
