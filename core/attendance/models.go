package attendance

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

var AllStatuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Record struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"studentId" db:"student_id"`
	ClassID   int       `json:"classId" db:"class_id"`
	Date      core.Date `json:"date" db:"date"`
	Status    string    `json:"status" db:"status"`
}

// Entry is one line of a submitted roll.
type Entry struct {
	StudentID int    `json:"studentId"`
	Status    string `json:"status"`
}

// NewRoll replaces the attendance of a class on one date.
type NewRoll struct {
	ClassID int       `json:"classId" validate:"required,gt=0"`
	Date    core.Date `json:"date"`
	Records []Entry   `json:"records"`
}

var errDateRequired = errors.New("date is required, expected YYYY-MM-DD")

func (nr *NewRoll) Validate(validate *validator.Validate) error {
	if err := validate.Struct(nr); err != nil {
		return err
	}
	if nr.Date.IsZero() {
		return core.NewValidationError(errDateRequired, core.FieldError{Field: "date", Error: errDateRequired.Error()})
	}
	return nil
}

// Valid drops entries without a student or with an unknown status.
// A student listed twice keeps the last status, at the position of the first.
func (nr *NewRoll) Valid() []Entry {
	res := make([]Entry, 0, len(nr.Records))
	seen := make(map[int]int, len(nr.Records))
	for _, e := range nr.Records {
		e.Status = core.CleanString(e.Status, true /* lower */)
		if e.StudentID <= 0 || !IsValidStatus(e.Status) {
			continue
		}
		if idx, ok := seen[e.StudentID]; ok {
			res[idx].Status = e.Status
			continue
		}
		seen[e.StudentID] = len(res)
		res = append(res, e)
	}
	return res
}

type UpdateRecord struct {
	Status string `json:"status" validate:"required,oneof=present absent late excused"`
}

func (ur *UpdateRecord) Validate(validate *validator.Validate) error {
	ur.Status = core.CleanString(ur.Status, true /* lower */)
	return validate.Struct(ur)
}

// QueryFilter applies AND operation on non-zero fields.
type QueryFilter struct {
	ClassID   int
	StudentID int
	Date      core.Date
}

// Summary counts a student's records per status.
type Summary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
}

func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		case StatusLate:
			s.Late++
		case StatusExcused:
			s.Excused++
		}
		s.Total++
	}
	return s
}
