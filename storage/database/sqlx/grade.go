package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/grade"
)

const gradeColumns = "id, student_id, class_id, subject, score, assessment_date, final_average"

type gradeRepository struct {
	repo
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(exec core.DBExecutor) *gradeRepository {
	return &gradeRepository{repo{exec: exec}}
}

func (r gradeRepository) CreateGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	res, err := r.getExec(exec).ExecContext(ctx,
		"INSERT INTO grades (student_id, class_id, subject, score, assessment_date, final_average) VALUES (?, ?, ?, ?, ?, ?)",
		g.StudentID, g.ClassID, g.Subject, g.Score, g.AssessmentDate, g.FinalAverage,
	)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "reading grade id")
	}
	g.ID = int(id)
	return g, nil
}

func (r gradeRepository) QueryGrades(ctx context.Context, filter *grade.QueryFilter, exec ...core.DBExecutor) ([]grade.Grade, error) {
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
		if filter.Subject != "" {
			conds = append(conds, "subject = ?")
			args = append(args, filter.Subject)
		}
	}

	q := "SELECT " + gradeColumns + " FROM grades" + where(conds) + " ORDER BY assessment_date ASC, id ASC"
	grades := make([]grade.Grade, 0)
	if err := sqlx.SelectContext(ctx, r.getExec(exec), &grades, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	return grades, nil
}

func (r gradeRepository) GetGrade(ctx context.Context, id int, exec ...core.DBExecutor) (grade.Grade, error) {
	var g grade.Grade
	err := sqlx.GetContext(ctx, r.getExec(exec), &g, "SELECT "+gradeColumns+" FROM grades WHERE id = ?", id)
	if err != nil {
		return grade.Grade{}, trapNoRowsErr(err, grade.ErrNotFound, "getting grade")
	}
	return g, nil
}

func (r gradeRepository) UpdateGrade(ctx context.Context, g grade.Grade, exec ...core.DBExecutor) (grade.Grade, error) {
	_, err := r.getExec(exec).ExecContext(ctx,
		"UPDATE grades SET student_id = ?, class_id = ?, subject = ?, score = ?, assessment_date = ? WHERE id = ?",
		g.StudentID, g.ClassID, g.Subject, g.Score, g.AssessmentDate, g.ID,
	)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "updating grade")
	}
	return g, nil
}

func (r gradeRepository) DeleteGrade(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := r.getExec(exec).ExecContext(ctx, "DELETE FROM grades WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return checkAffected(res, grade.ErrNotFound)
}

func (r gradeRepository) LockGroup(ctx context.Context, key grade.GroupKey, exec ...core.DBExecutor) ([]float64, error) {
	scores := make([]float64, 0)
	err := sqlx.SelectContext(ctx, r.getExec(exec), &scores,
		"SELECT score FROM grades WHERE student_id = ? AND class_id = ? AND subject = ? ORDER BY id FOR UPDATE",
		key.StudentID, key.ClassID, key.Subject,
	)
	if err != nil {
		return nil, errors.Wrap(err, "locking grade group")
	}
	return scores, nil
}

func (r gradeRepository) SetFinalAverage(ctx context.Context, key grade.GroupKey, avg float64, exec ...core.DBExecutor) error {
	_, err := r.getExec(exec).ExecContext(ctx,
		"UPDATE grades SET final_average = ? WHERE student_id = ? AND class_id = ? AND subject = ?",
		avg, key.StudentID, key.ClassID, key.Subject,
	)
	return errors.Wrap(err, "updating final average")
}

func (r gradeRepository) LockStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error {
	var id int
	err := sqlx.GetContext(ctx, r.getExec(exec), &id, "SELECT id FROM users WHERE id = ? FOR UPDATE", studentID)
	if err != nil {
		return trapNoRowsErr(err, grade.ErrStudentNotFound, "locking student")
	}
	return nil
}
