package classroom

import (
	"github.com/go-playground/validator/v10"

	"github.com/guicardoso0404/sigeas/core"
)

type ClassRoom struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	TeacherID int    `json:"teacherId" db:"teacher_id"`
	Subject   string `json:"subject" db:"subject"`
}

// NewClassRoom contains information needed to create a new ClassRoom.
type NewClassRoom struct {
	Name      string `json:"name" validate:"required,notblank,max=120"`
	TeacherID int    `json:"teacherId" validate:"required,gt=0"`
	Subject   string `json:"subject" validate:"required,notblank,max=120"`
}

func (nc *NewClassRoom) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Subject = core.CleanString(nc.Subject)
	return validate.Struct(nc)
}

// UpdateClassRoom holds the replacement values of a PUT; empty fields keep their current value.
type UpdateClassRoom struct {
	Name      string `json:"name" validate:"omitempty,max=120"`
	TeacherID int    `json:"teacherId" validate:"omitempty,gt=0"`
	Subject   string `json:"subject" validate:"omitempty,max=120"`
}

func (uc *UpdateClassRoom) Validate(orig ClassRoom, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if subj := core.CleanString(uc.Subject); subj != "" {
		uc.Subject = subj
	} else {
		uc.Subject = orig.Subject
	}
	if uc.TeacherID == 0 {
		uc.TeacherID = orig.TeacherID
	}
	return validate.Struct(uc)
}

type QueryFilter struct {
	TeacherID int    `query:"teacherId"`
	Subject   string `query:"subject"`
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject)
}
