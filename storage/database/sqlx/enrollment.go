package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/enrollment"
)

const enrollmentColumns = "id, student_id, class_id, enrollment_date, status"

type enrollmentRepository struct {
	repo
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(exec core.DBExecutor) *enrollmentRepository {
	return &enrollmentRepository{repo{exec: exec}}
}

func (r enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment, exec ...core.DBExecutor) (enrollment.Enrollment, error) {
	res, err := r.getExec(exec).ExecContext(ctx,
		"INSERT INTO enrollments (student_id, class_id, enrollment_date, status) VALUES (?, ?, ?, ?)",
		enr.StudentID, enr.ClassID, enr.EnrollmentDate, enr.Status,
	)
	if err != nil {
		return enrollment.Enrollment{}, trapDupErr(err, enrollment.ErrAlreadyEnrolled, "inserting enrollment")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "reading enrollment id")
	}
	enr.ID = int(id)
	return enr, nil
}

func (r enrollmentRepository) QueryEnrollments(ctx context.Context, filter *enrollment.QueryFilter, exec ...core.DBExecutor) ([]enrollment.Enrollment, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.StudentID > 0 {
			conds = append(conds, "student_id = ?")
			args = append(args, filter.StudentID)
		}
		if filter.ClassID > 0 {
			conds = append(conds, "class_id = ?")
			args = append(args, filter.ClassID)
		}
		if filter.Status != "" {
			conds = append(conds, "status = ?")
			args = append(args, filter.Status)
		}
	}

	q := "SELECT " + enrollmentColumns + " FROM enrollments" + where(conds) + " ORDER BY id ASC"
	enrs := make([]enrollment.Enrollment, 0)
	if err := sqlx.SelectContext(ctx, r.getExec(exec), &enrs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return enrs, nil
}

func (r enrollmentRepository) GetEnrollment(ctx context.Context, id int, exec ...core.DBExecutor) (enrollment.Enrollment, error) {
	var enr enrollment.Enrollment
	err := sqlx.GetContext(ctx, r.getExec(exec), &enr, "SELECT "+enrollmentColumns+" FROM enrollments WHERE id = ?", id)
	if err != nil {
		return enrollment.Enrollment{}, trapNoRowsErr(err, enrollment.ErrNotFound, "getting enrollment")
	}
	return enr, nil
}

func (r enrollmentRepository) UpdateEnrollment(ctx context.Context, enr enrollment.Enrollment, exec ...core.DBExecutor) (enrollment.Enrollment, error) {
	_, err := r.getExec(exec).ExecContext(ctx,
		"UPDATE enrollments SET enrollment_date = ?, status = ? WHERE id = ?",
		enr.EnrollmentDate, enr.Status, enr.ID,
	)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	return enr, nil
}

func (r enrollmentRepository) DeleteEnrollment(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := r.getExec(exec).ExecContext(ctx, "DELETE FROM enrollments WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	return checkAffected(res, enrollment.ErrNotFound)
}
