package assignment

import (
	"github.com/go-playground/validator/v10"

	"github.com/guicardoso0404/sigeas/core"
)

type Assignment struct {
	ID               int       `json:"id" db:"id"`
	ClassID          int       `json:"classId" db:"class_id"`
	Title            string    `json:"title" db:"title"`
	DistributionDate core.Date `json:"distributionDate" db:"distribution_date"`
	MaxPoints        float64   `json:"maxPoints" db:"max_points"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	ClassID          int       `json:"classId" validate:"required,gt=0"`
	Title            string    `json:"title" validate:"required,notblank,max=200"`
	DistributionDate core.Date `json:"distributionDate"`
	MaxPoints        float64   `json:"maxPoints" validate:"gt=0"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	if err := validate.Struct(na); err != nil {
		return err
	}
	if na.DistributionDate.IsZero() {
		na.DistributionDate = core.Today()
	}
	return nil
}

type UpdateAssignment struct {
	Title            string    `json:"title" validate:"omitempty,max=200"`
	DistributionDate core.Date `json:"distributionDate"`
	MaxPoints        float64   `json:"maxPoints" validate:"gte=0"`
}

func (ua *UpdateAssignment) Validate(orig Assignment, validate *validator.Validate) error {
	if title := core.CleanString(ua.Title); title != "" {
		ua.Title = title
	} else {
		ua.Title = orig.Title
	}
	if err := validate.Struct(ua); err != nil {
		return err
	}
	if ua.MaxPoints == 0 {
		ua.MaxPoints = orig.MaxPoints
	}
	if ua.DistributionDate.IsZero() {
		ua.DistributionDate = orig.DistributionDate
	}
	return nil
}
