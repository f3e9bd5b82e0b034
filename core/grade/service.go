package grade

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/user"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("grade")
	ErrStudentNotFound = core.NewNotFoundError("student")
	ErrNotAStudent     = errors.New("user is not a student")
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		// QueryGrades orders rows by assessment date then id.
		QueryGrades(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) ([]Grade, error)
		GetGrade(ctx context.Context, id int, exec ...core.DBExecutor) (Grade, error)
		UpdateGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		DeleteGrade(ctx context.Context, id int, exec ...core.DBExecutor) error
		// LockGroup returns the scores of every row in the group, holding a write lock on them
		// until the surrounding transaction ends.
		LockGroup(ctx context.Context, key GroupKey, exec ...core.DBExecutor) ([]float64, error)
		SetFinalAverage(ctx context.Context, key GroupKey, avg float64, exec ...core.DBExecutor) error
		// LockStudent holds a write lock on the student until the surrounding transaction ends.
		// Every grade mutation takes it first, so writers of one student never interleave.
		LockStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error
	}

	UserGetter interface {
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	ClassGetter interface {
		GetByID(ctx context.Context, id int) (classroom.ClassRoom, error)
	}

	// Service keeps FinalAverage consistent across a group. Its mutations rely on
	// core.TxRunner both to serialise writers and to undo partial writes on failure;
	// the in-memory runner only does the former.
	Service interface {
		Create(ctx context.Context, ng NewGrade) (Grade, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Grade, error)
		GetByID(ctx context.Context, id int) (Grade, error)
		Update(ctx context.Context, g Grade, ug UpdateGrade) (Grade, error)
		Delete(ctx context.Context, id int) error
	}

	service struct {
		tx      core.TxRunner
		repo    Repository
		users   UserGetter
		classes ClassGetter
	}
)

var _ Service = (*service)(nil)

func NewService(tx core.TxRunner, repo Repository, users UserGetter, classes ClassGetter) Service {
	return &service{tx: tx, repo: repo, users: users, classes: classes}
}

func (svc *service) checkRefs(ctx context.Context, studentID, classID int) error {
	student, err := svc.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return ErrStudentNotFound
		}
		return errors.Wrap(err, "finding student")
	}
	if !student.IsStudent() {
		return core.NewValidationError(ErrNotAStudent, core.FieldError{Field: "studentId", Error: ErrNotAStudent.Error()})
	}
	_, err = svc.classes.GetByID(ctx, classID)
	return err
}

// lockStudents locks each distinct student in ascending id order.
func (svc *service) lockStudents(ctx context.Context, exec core.DBExecutor, ids ...int) error {
	sort.Ints(ids)
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		if err := svc.repo.LockStudent(ctx, id, exec); err != nil {
			return errors.Wrap(err, "locking student")
		}
	}
	return nil
}

// recalculate rewrites the final average of every row in the group.
// Must run inside a transaction; an empty group is left alone.
func (svc *service) recalculate(ctx context.Context, key GroupKey, exec core.DBExecutor) error {
	scores, err := svc.repo.LockGroup(ctx, key, exec)
	if err != nil {
		return errors.Wrap(err, "locking grade group")
	}
	if len(scores) == 0 {
		return nil
	}
	return errors.Wrap(svc.repo.SetFinalAverage(ctx, key, Average(scores), exec), "setting final average")
}

func (svc *service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	if err := svc.checkRefs(ctx, ng.StudentID, ng.ClassID); err != nil {
		return Grade{}, err
	}

	var created Grade
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.lockStudents(ctx, exec, ng.StudentID); err != nil {
			return err
		}
		g, err := svc.repo.CreateGrade(ctx, Grade{
			StudentID:      ng.StudentID,
			ClassID:        ng.ClassID,
			Subject:        ng.Subject,
			Score:          *ng.Score,
			AssessmentDate: ng.AssessmentDate,
		}, exec)
		if err != nil {
			return err
		}
		if err = svc.recalculate(ctx, g.Group(), exec); err != nil {
			return err
		}
		created, err = svc.repo.GetGrade(ctx, g.ID, exec)
		return err
	})
	return created, err
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Grade, error) {
	if id <= 0 {
		return Grade{}, ErrNotFound
	}
	return svc.repo.GetGrade(ctx, id)
}

func (svc *service) Update(ctx context.Context, g Grade, ug UpdateGrade) (Grade, error) {
	if ug.StudentID != g.StudentID || ug.ClassID != g.ClassID {
		if err := svc.checkRefs(ctx, ug.StudentID, ug.ClassID); err != nil {
			return Grade{}, err
		}
	}

	oldKey := g.Group()
	oldStudent := g.StudentID
	g.StudentID = ug.StudentID
	g.ClassID = ug.ClassID
	g.Subject = ug.Subject
	g.Score = *ug.Score
	g.AssessmentDate = ug.AssessmentDate

	var updated Grade
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.lockStudents(ctx, exec, oldStudent, g.StudentID); err != nil {
			return err
		}
		if _, err := svc.repo.UpdateGrade(ctx, g, exec); err != nil {
			return err
		}
		if newKey := g.Group(); newKey != oldKey {
			if err := svc.recalculate(ctx, oldKey, exec); err != nil {
				return err
			}
		}
		if err := svc.recalculate(ctx, g.Group(), exec); err != nil {
			return err
		}
		var err error
		updated, err = svc.repo.GetGrade(ctx, g.ID, exec)
		return err
	})
	return updated, err
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrNotFound
	}
	return svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		g, err := svc.repo.GetGrade(ctx, id, exec)
		if err != nil {
			return err
		}
		if err = svc.lockStudents(ctx, exec, g.StudentID); err != nil {
			return err
		}
		// re-read under the lock: the grade may have moved to another group meanwhile
		if g, err = svc.repo.GetGrade(ctx, id, exec); err != nil {
			return err
		}
		if err = svc.repo.DeleteGrade(ctx, id, exec); err != nil {
			return err
		}
		return svc.recalculate(ctx, g.Group(), exec)
	})
}
