package enrollment

import (
	"context"

	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/user"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("enrollment")
	ErrStudentNotFound = core.NewNotFoundError("student")
	ErrAlreadyEnrolled = core.NewConflictError("student is already enrolled in this class")
	ErrNotAStudent     = errors.New("user is not a student")
)

type (
	Repository interface {
		// CreateEnrollment returns ErrAlreadyEnrolled when (student, class) already exists.
		CreateEnrollment(ctx context.Context, enr Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) ([]Enrollment, error)
		GetEnrollment(ctx context.Context, id int, exec ...core.DBExecutor) (Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		DeleteEnrollment(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	UserGetter interface {
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	ClassGetter interface {
		GetByID(ctx context.Context, id int) (classroom.ClassRoom, error)
	}

	Service interface {
		Create(ctx context.Context, ne NewEnrollment) (Enrollment, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Enrollment, error)
		GetByID(ctx context.Context, id int) (Enrollment, error)
		Update(ctx context.Context, enr Enrollment, ue UpdateEnrollment) (Enrollment, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		repo    Repository
		users   UserGetter
		classes ClassGetter
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, users UserGetter, classes ClassGetter) Service {
	return &service{repo: repo, users: users, classes: classes}
}

func (svc *service) Create(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	student, err := svc.users.GetByID(ctx, ne.StudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Enrollment{}, ErrStudentNotFound
		}
		return Enrollment{}, errors.Wrap(err, "finding student")
	}
	if !student.IsStudent() {
		return Enrollment{}, core.NewValidationError(ErrNotAStudent, core.FieldError{Field: "studentId", Error: ErrNotAStudent.Error()})
	}
	if _, err = svc.classes.GetByID(ctx, ne.ClassID); err != nil {
		return Enrollment{}, err
	}

	return svc.repo.CreateEnrollment(ctx, Enrollment{
		StudentID:      ne.StudentID,
		ClassID:        ne.ClassID,
		EnrollmentDate: ne.EnrollmentDate,
		Status:         ne.Status,
	})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Enrollment, error) {
	if id <= 0 {
		return Enrollment{}, ErrNotFound
	}
	return svc.repo.GetEnrollment(ctx, id)
}

func (svc *service) Update(ctx context.Context, enr Enrollment, ue UpdateEnrollment) (Enrollment, error) {
	enr.Status = ue.Status
	enr.EnrollmentDate = ue.EnrollmentDate
	return svc.repo.UpdateEnrollment(ctx, enr)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if _, err := svc.GetByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteEnrollment(ctx, id)
}
