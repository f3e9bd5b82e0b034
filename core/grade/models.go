package grade

import (
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/guicardoso0404/sigeas/core"
)

const (
	MinScore = 0
	MaxScore = 10
)

type Grade struct {
	ID             int       `json:"id" db:"id"`
	StudentID      int       `json:"studentId" db:"student_id"`
	ClassID        int       `json:"classId" db:"class_id"`
	Subject        string    `json:"subject" db:"subject"`
	Score          float64   `json:"score" db:"score"`
	AssessmentDate core.Date `json:"assessmentDate" db:"assessment_date"`
	FinalAverage   float64   `json:"finalAverage" db:"final_average"`
}

func (g Grade) Group() GroupKey {
	return GroupKey{StudentID: g.StudentID, ClassID: g.ClassID, Subject: g.Subject}
}

// GroupKey identifies the grades sharing one final average.
type GroupKey struct {
	StudentID int
	ClassID   int
	Subject   string
}

// Average returns the mean of scores rounded half-up to one decimal.
// An empty slice averages to 0.
func Average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))
	// settle float noise (7.05 stored as 7.0499999...) before rounding the tenths
	scaled := math.Round(mean*1e6) / 1e5
	return math.Round(scaled) / 10
}

// NewGrade contains information needed to record a new Grade.
type NewGrade struct {
	StudentID      int       `json:"studentId" validate:"required,gt=0"`
	ClassID        int       `json:"classId" validate:"required,gt=0"`
	Subject        string    `json:"subject" validate:"required,notblank,max=120"`
	Score          *float64  `json:"score" validate:"required,gte=0,lte=10"`
	AssessmentDate core.Date `json:"assessmentDate"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.Subject = core.CleanString(ng.Subject)
	if err := validate.Struct(ng); err != nil {
		return err
	}
	if ng.AssessmentDate.IsZero() {
		ng.AssessmentDate = core.Today()
	}
	return nil
}

// UpdateGrade holds the replacement values of a PUT; missing fields keep their current value.
type UpdateGrade struct {
	StudentID      int       `json:"studentId" validate:"omitempty,gt=0"`
	ClassID        int       `json:"classId" validate:"omitempty,gt=0"`
	Subject        string    `json:"subject" validate:"omitempty,max=120"`
	Score          *float64  `json:"score" validate:"omitempty,gte=0,lte=10"`
	AssessmentDate core.Date `json:"assessmentDate"`
}

func (ug *UpdateGrade) Validate(orig Grade, validate *validator.Validate) error {
	if subj := core.CleanString(ug.Subject); subj != "" {
		ug.Subject = subj
	} else {
		ug.Subject = orig.Subject
	}
	if err := validate.Struct(ug); err != nil {
		return err
	}
	if ug.StudentID == 0 {
		ug.StudentID = orig.StudentID
	}
	if ug.ClassID == 0 {
		ug.ClassID = orig.ClassID
	}
	if ug.Score == nil {
		score := orig.Score
		ug.Score = &score
	}
	if ug.AssessmentDate.IsZero() {
		ug.AssessmentDate = orig.AssessmentDate
	}
	return nil
}

type QueryFilter struct {
	StudentID int    `query:"studentId"`
	ClassID   int    `query:"classId"`
	Subject   string `query:"subject"`
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject)
}
