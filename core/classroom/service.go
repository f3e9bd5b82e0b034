package classroom

import (
	"context"

	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/user"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("class")
	ErrTeacherNotFound = core.NewNotFoundError("teacher")
	ErrNotATeacher     = errors.New("user is not a teacher")
)

type (
	Repository interface {
		CreateClassRoom(ctx context.Context, class ClassRoom, exec ...core.DBExecutor) (ClassRoom, error)
		QueryClassRooms(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) ([]ClassRoom, error)
		GetClassRoom(ctx context.Context, id int, exec ...core.DBExecutor) (ClassRoom, error)
		UpdateClassRoom(ctx context.Context, class ClassRoom, exec ...core.DBExecutor) (ClassRoom, error)
		// DeleteClassRoom removes the class together with its enrollments, grades, attendance and assignments.
		DeleteClassRoom(ctx context.Context, id int, exec ...core.DBExecutor) error
		// QueryStudents lists the users enrolled in the class.
		QueryStudents(ctx context.Context, classID int, exec ...core.DBExecutor) ([]user.User, error)
	}

	// UserGetter resolves users referenced by classes.
	UserGetter interface {
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	Service interface {
		Create(ctx context.Context, nc NewClassRoom) (ClassRoom, error)
		Query(ctx context.Context, filter *QueryFilter) ([]ClassRoom, error)
		GetByID(ctx context.Context, id int) (ClassRoom, error)
		Update(ctx context.Context, class ClassRoom, uc UpdateClassRoom) (ClassRoom, error)
		Delete(ctx context.Context, id int) error
		Students(ctx context.Context, classID int) ([]user.User, error)
	}

	service struct {
		tx    core.TxRunner
		repo  Repository
		users UserGetter
	}
)

var _ Service = (*service)(nil)

func NewService(tx core.TxRunner, repo Repository, users UserGetter) Service {
	return &service{tx: tx, repo: repo, users: users}
}

func (svc *service) checkTeacher(ctx context.Context, teacherID int) error {
	teacher, err := svc.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return ErrTeacherNotFound
		}
		return errors.Wrap(err, "finding teacher")
	}
	if !teacher.IsTeacher() {
		return core.NewValidationError(ErrNotATeacher, core.FieldError{Field: "teacherId", Error: ErrNotATeacher.Error()})
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewClassRoom) (ClassRoom, error) {
	if err := svc.checkTeacher(ctx, nc.TeacherID); err != nil {
		return ClassRoom{}, err
	}
	return svc.repo.CreateClassRoom(ctx, ClassRoom{
		Name:      nc.Name,
		TeacherID: nc.TeacherID,
		Subject:   nc.Subject,
	})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]ClassRoom, error) {
	return svc.repo.QueryClassRooms(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (ClassRoom, error) {
	if id <= 0 {
		return ClassRoom{}, ErrNotFound
	}
	return svc.repo.GetClassRoom(ctx, id)
}

func (svc *service) Update(ctx context.Context, class ClassRoom, uc UpdateClassRoom) (ClassRoom, error) {
	if uc.TeacherID != class.TeacherID {
		if err := svc.checkTeacher(ctx, uc.TeacherID); err != nil {
			return ClassRoom{}, err
		}
	}
	class.Name = uc.Name
	class.Subject = uc.Subject
	class.TeacherID = uc.TeacherID
	return svc.repo.UpdateClassRoom(ctx, class)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	return svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		if _, err := svc.repo.GetClassRoom(ctx, id, exec); err != nil {
			return err
		}
		return svc.repo.DeleteClassRoom(ctx, id, exec)
	})
}

func (svc *service) Students(ctx context.Context, classID int) ([]user.User, error) {
	if _, err := svc.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudents(ctx, classID)
}
