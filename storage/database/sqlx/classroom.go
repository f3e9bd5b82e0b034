package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/user"
)

const classColumns = "id, name, teacher_id, subject"

type classRoomRepository struct {
	repo
}

var _ classroom.Repository = (*classRoomRepository)(nil) // interface compliance check

func NewClassRoomRepository(exec core.DBExecutor) *classRoomRepository {
	return &classRoomRepository{repo{exec: exec}}
}

func (r classRoomRepository) CreateClassRoom(ctx context.Context, class classroom.ClassRoom, exec ...core.DBExecutor) (classroom.ClassRoom, error) {
	res, err := r.getExec(exec).ExecContext(ctx,
		"INSERT INTO classes (name, teacher_id, subject) VALUES (?, ?, ?)",
		class.Name, class.TeacherID, class.Subject,
	)
	if err != nil {
		return classroom.ClassRoom{}, errors.Wrap(err, "inserting class")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classroom.ClassRoom{}, errors.Wrap(err, "reading class id")
	}
	class.ID = int(id)
	return class, nil
}

func (r classRoomRepository) QueryClassRooms(ctx context.Context, filter *classroom.QueryFilter, exec ...core.DBExecutor) ([]classroom.ClassRoom, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.TeacherID > 0 {
			conds = append(conds, "teacher_id = ?")
			args = append(args, filter.TeacherID)
		}
		if filter.Subject != "" {
			conds = append(conds, "subject = ?")
			args = append(args, filter.Subject)
		}
	}

	q := "SELECT " + classColumns + " FROM classes" + where(conds) + " ORDER BY id ASC"
	classes := make([]classroom.ClassRoom, 0)
	if err := sqlx.SelectContext(ctx, r.getExec(exec), &classes, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (r classRoomRepository) GetClassRoom(ctx context.Context, id int, exec ...core.DBExecutor) (classroom.ClassRoom, error) {
	var class classroom.ClassRoom
	err := sqlx.GetContext(ctx, r.getExec(exec), &class, "SELECT "+classColumns+" FROM classes WHERE id = ?", id)
	if err != nil {
		return classroom.ClassRoom{}, trapNoRowsErr(err, classroom.ErrNotFound, "getting class")
	}
	return class, nil
}

func (r classRoomRepository) UpdateClassRoom(ctx context.Context, class classroom.ClassRoom, exec ...core.DBExecutor) (classroom.ClassRoom, error) {
	_, err := r.getExec(exec).ExecContext(ctx,
		"UPDATE classes SET name = ?, teacher_id = ?, subject = ? WHERE id = ?",
		class.Name, class.TeacherID, class.Subject, class.ID,
	)
	if err != nil {
		return classroom.ClassRoom{}, errors.Wrap(err, "updating class")
	}
	return class, nil
}

// DeleteClassRoom must be handed a transaction for the cascade to be atomic.
func (r classRoomRepository) DeleteClassRoom(ctx context.Context, id int, exec ...core.DBExecutor) error {
	db := r.getExec(exec)
	for _, table := range []string{"enrollments", "grades", "attendance", "assignments"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE class_id = ?", id); err != nil {
			return errors.Wrapf(err, "deleting class %s", table)
		}
	}
	res, err := db.ExecContext(ctx, "DELETE FROM classes WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return checkAffected(res, classroom.ErrNotFound)
}

func (r classRoomRepository) QueryStudents(ctx context.Context, classID int, exec ...core.DBExecutor) ([]user.User, error) {
	q := `SELECT u.id, u.name, u.email, u.password_hash, u.role, u.age, u.created_at, u.updated_at
		FROM users u JOIN enrollments e ON e.student_id = u.id
		WHERE e.class_id = ? ORDER BY u.name ASC`
	users := make([]user.User, 0)
	if err := sqlx.SelectContext(ctx, r.getExec(exec), &users, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	return users, nil
}
