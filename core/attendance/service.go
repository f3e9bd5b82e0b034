package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("attendance record")
)

type (
	Repository interface {
		// DeleteRoll removes every record of the class on date.
		DeleteRoll(ctx context.Context, classID int, date core.Date, exec ...core.DBExecutor) error
		// InsertRecords bulk-inserts recs and returns the number of rows written.
		InsertRecords(ctx context.Context, recs []Record, exec ...core.DBExecutor) (int, error)
		// QueryRecords orders rows by date, then student id.
		QueryRecords(ctx context.Context, filter *QueryFilter, exec ...core.DBExecutor) ([]Record, error)
		GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (Record, error)
		UpdateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	UserGetter interface {
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	ClassGetter interface {
		GetByID(ctx context.Context, id int) (classroom.ClassRoom, error)
	}

	Service interface {
		// Record replaces the roll of the class on date and returns the count of rows inserted.
		Record(ctx context.Context, nr NewRoll) (int, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Record, error)
		GetByID(ctx context.Context, id int) (Record, error)
		Update(ctx context.Context, rec Record, ur UpdateRecord) (Record, error)
		Delete(ctx context.Context, id int) error
		Summary(ctx context.Context, studentID, classID int) (Summary, error)
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

func (svc *service) Record(ctx context.Context, nr NewRoll) (int, error) {
	if _, err := svc.classes.GetByID(ctx, nr.ClassID); err != nil {
		return 0, err
	}

	entries := nr.Valid()
	recs := make([]Record, 0, len(entries))
	for _, e := range entries {
		ok, err := svc.isStudent(ctx, e.StudentID)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		recs = append(recs, Record{
			StudentID: e.StudentID,
			ClassID:   nr.ClassID,
			Date:      nr.Date,
			Status:    e.Status,
		})
	}

	var inserted int
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteRoll(ctx, nr.ClassID, nr.Date, exec); err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		var err error
		inserted, err = svc.repo.InsertRecords(ctx, recs, exec)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// isStudent reports whether id names an existing student. Entries for anyone
// else are skipped like malformed ones.
func (svc *service) isStudent(ctx context.Context, id int) (bool, error) {
	usr, err := svc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "finding student")
	}
	return usr.IsStudent(), nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id int) (Record, error) {
	if id <= 0 {
		return Record{}, ErrNotFound
	}
	return svc.repo.GetRecord(ctx, id)
}

func (svc *service) Update(ctx context.Context, rec Record, ur UpdateRecord) (Record, error) {
	rec.Status = ur.Status
	return svc.repo.UpdateRecord(ctx, rec)
}

func (svc *service) Delete(ctx context.Context, id int) error {
	if _, err := svc.GetByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteRecord(ctx, id)
}

func (svc *service) Summary(ctx context.Context, studentID, classID int) (Summary, error) {
	recs, err := svc.repo.QueryRecords(ctx, &QueryFilter{StudentID: studentID, ClassID: classID})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(recs), nil
}
