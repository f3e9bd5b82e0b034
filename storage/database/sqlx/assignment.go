package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/assignment"
)

const assignmentColumns = "id, class_id, title, distribution_date, max_points"

type assignmentRepository struct {
	repo
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) *assignmentRepository {
	return &assignmentRepository{repo{exec: exec}}
}

func (r assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	res, err := r.getExec(exec).ExecContext(ctx,
		"INSERT INTO assignments (class_id, title, distribution_date, max_points) VALUES (?, ?, ?, ?)",
		a.ClassID, a.Title, a.DistributionDate, a.MaxPoints,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "reading assignment id")
	}
	a.ID = int(id)
	return a, nil
}

func (r assignmentRepository) QueryAssignments(ctx context.Context, classID int, exec ...core.DBExecutor) ([]assignment.Assignment, error) {
	var (
		conds []string
		args  []interface{}
	)
	if classID > 0 {
		conds = append(conds, "class_id = ?")
		args = append(args, classID)
	}

	q := "SELECT " + assignmentColumns + " FROM assignments" + where(conds) + " ORDER BY distribution_date ASC, id ASC"
	as := make([]assignment.Assignment, 0)
	if err := sqlx.SelectContext(ctx, r.getExec(exec), &as, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return as, nil
}

func (r assignmentRepository) GetAssignment(ctx context.Context, id int, exec ...core.DBExecutor) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := sqlx.GetContext(ctx, r.getExec(exec), &a, "SELECT "+assignmentColumns+" FROM assignments WHERE id = ?", id)
	if err != nil {
		return assignment.Assignment{}, trapNoRowsErr(err, assignment.ErrNotFound, "getting assignment")
	}
	return a, nil
}

func (r assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment, exec ...core.DBExecutor) (assignment.Assignment, error) {
	_, err := r.getExec(exec).ExecContext(ctx,
		"UPDATE assignments SET title = ?, distribution_date = ?, max_points = ? WHERE id = ?",
		a.Title, a.DistributionDate, a.MaxPoints, a.ID,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return a, nil
}

func (r assignmentRepository) DeleteAssignment(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := r.getExec(exec).ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return checkAffected(res, assignment.ErrNotFound)
}
