package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/attendance"
)

const attendanceColumns = "id, student_id, class_id, date, status"

var errDuplicateAttendance = core.NewConflictError("attendance already recorded for this student on this date")

type attendanceRepository struct {
	repo
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{repo{exec: exec}}
}

func (r attendanceRepository) DeleteRoll(ctx context.Context, classID int, date core.Date, exec ...core.DBExecutor) error {
	_, err := r.getExec(exec).ExecContext(ctx, "DELETE FROM attendance WHERE class_id = ? AND date = ?", classID, date)
	return errors.Wrap(err, "deleting attendance roll")
}

func (r attendanceRepository) InsertRecords(ctx context.Context, recs []attendance.Record, exec ...core.DBExecutor) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	placeholders := make([]string, 0, len(recs))
	args := make([]interface{}, 0, len(recs)*4)
	for _, rec := range recs {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, rec.StudentID, rec.ClassID, rec.Date, rec.Status)
	}

	q := "INSERT INTO attendance (student_id, class_id, date, status) VALUES " + strings.Join(placeholders, ", ")
	res, err := r.getExec(exec).ExecContext(ctx, q, args...)
	if err != nil {
		return 0, trapDupErr(err, errDuplicateAttendance, "inserting attendance")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}
	return int(n), nil
}

func (r attendanceRepository) QueryRecords(ctx context.Context, filter *attendance.QueryFilter, exec ...core.DBExecutor) ([]attendance.Record, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.ClassID > 0 {
			conds = append(conds, "class_id = ?")
			args = append(args, filter.ClassID)
		}
		if filter.StudentID > 0 {
			conds = append(conds, "student_id = ?")
			args = append(args, filter.StudentID)
		}
		if !filter.Date.IsZero() {
			conds = append(conds, "date = ?")
			args = append(args, filter.Date)
		}
	}

	q := "SELECT " + attendanceColumns + " FROM attendance" + where(conds) + " ORDER BY date ASC, student_id ASC"
	recs := make([]attendance.Record, 0)
	if err := sqlx.SelectContext(ctx, r.getExec(exec), &recs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return recs, nil
}

func (r attendanceRepository) GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (attendance.Record, error) {
	var rec attendance.Record
	err := sqlx.GetContext(ctx, r.getExec(exec), &rec, "SELECT "+attendanceColumns+" FROM attendance WHERE id = ?", id)
	if err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrNotFound, "getting attendance record")
	}
	return rec, nil
}

func (r attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	_, err := r.getExec(exec).ExecContext(ctx, "UPDATE attendance SET status = ? WHERE id = ?", rec.Status, rec.ID)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	return rec, nil
}

func (r attendanceRepository) DeleteRecord(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := r.getExec(exec).ExecContext(ctx, "DELETE FROM attendance WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	return checkAffected(res, attendance.ErrNotFound)
}
