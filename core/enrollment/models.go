package enrollment

import (
	"github.com/go-playground/validator/v10"

	"github.com/guicardoso0404/sigeas/core"
)

// Statuses
const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusPending     = "pending"
	StatusTransferred = "transferred"
	StatusGraduated   = "graduated"
)

var AllStatuses = []string{StatusActive, StatusInactive, StatusPending, StatusTransferred, StatusGraduated}

type Enrollment struct {
	ID             int       `json:"id" db:"id"`
	StudentID      int       `json:"studentId" db:"student_id"`
	ClassID        int       `json:"classId" db:"class_id"`
	EnrollmentDate core.Date `json:"enrollmentDate" db:"enrollment_date"`
	Status         string    `json:"status" db:"status"`
}

// NewEnrollment contains information needed to enroll a student in a class.
type NewEnrollment struct {
	StudentID      int       `json:"studentId" validate:"required,gt=0"`
	ClassID        int       `json:"classId" validate:"required,gt=0"`
	EnrollmentDate core.Date `json:"enrollmentDate"`
	Status         string    `json:"status" validate:"omitempty,oneof=active inactive pending transferred graduated"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.Status = core.CleanString(ne.Status, true /* lower */)
	if err := validate.Struct(ne); err != nil {
		return err
	}
	if ne.Status == "" {
		ne.Status = StatusActive
	}
	if ne.EnrollmentDate.IsZero() {
		ne.EnrollmentDate = core.Today()
	}
	return nil
}

type UpdateEnrollment struct {
	EnrollmentDate core.Date `json:"enrollmentDate"`
	Status         string    `json:"status" validate:"omitempty,oneof=active inactive pending transferred graduated"`
}

func (ue *UpdateEnrollment) Validate(orig Enrollment, validate *validator.Validate) error {
	ue.Status = core.CleanString(ue.Status, true /* lower */)
	if err := validate.Struct(ue); err != nil {
		return err
	}
	if ue.Status == "" {
		ue.Status = orig.Status
	}
	if ue.EnrollmentDate.IsZero() {
		ue.EnrollmentDate = orig.EnrollmentDate
	}
	return nil
}

type QueryFilter struct {
	StudentID int    `query:"studentId"`
	ClassID   int    `query:"classId"`
	Status    string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
