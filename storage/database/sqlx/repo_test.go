package sqlxrepos

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/attendance"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/enrollment"
	"github.com/guicardoso0404/sigeas/core/grade"
	"github.com/guicardoso0404/sigeas/core/user"
	"github.com/guicardoso0404/sigeas/storage/database"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

type classGetter struct {
	class classroom.ClassRoom
	err   error
}

func (g classGetter) GetByID(_ context.Context, _ int) (classroom.ClassRoom, error) {
	return g.class, g.err
}

type userGetter struct {
	users map[int]user.User
}

func (g userGetter) GetByID(_ context.Context, id int) (user.User, error) {
	if usr, ok := g.users[id]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func TestUserRepository_GetUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "age", "created_at", "updated_at"})
	mock.ExpectQuery(q("SELECT " + userColumns + " FROM users WHERE email = ?")).
		WithArgs("ana@school.br").
		WillReturnRows(rows)

	_, err := repo.GetUser(ctx, user.GetFilter{Email: "ana@school.br"})
	assert.Equal(t, user.ErrNotFound, err)

	_, err = repo.GetUser(ctx, user.GetFilter{})
	assert.Equal(t, user.ErrNotFound, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CheckEmailUniqueness(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(q("SELECT COUNT(*) FROM users WHERE email = ? AND id NOT IN (?)")).
		WithArgs("ana@school.br", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM users WHERE email = ?")).
		WithArgs("ana@school.br").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	assert.NoError(t, repo.CheckEmailUniqueness(ctx, "ana@school.br", []user.User{{ID: 3}}))
	assert.Equal(t, user.ErrEmailExists, repo.CheckEmailUniqueness(ctx, "ana@school.br", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_QueryUsers(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(q("SELECT "+userColumns+" FROM users WHERE (LOWER(name) LIKE ? OR LOWER(email) LIKE ?) AND role = ? ORDER BY created_at DESC")).
		WithArgs("%ana%", "%ana%", user.RoleStudent).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).AddRow(1, "Ana", "ana@school.br", "student"))

	users, err := repo.QueryUsers(
		context.Background(),
		&user.QueryFilter{Search: "Ana", Role: user.RoleStudent},
		[]core.DBOrdering{{Field: "created_at"}},
	)
	require.NoError(t, err)
	if assert.Len(t, users, 1) {
		assert.Equal(t, "Ana", users[0].Name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(q("INSERT INTO enrollments (student_id, class_id, enrollment_date, status) VALUES (?, ?, ?, ?)")).
		WithArgs(4, 1, "2024-02-01", enrollment.StatusActive).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '4-1'"})

	_, err := repo.CreateEnrollment(context.Background(), enrollment.Enrollment{
		StudentID:      4,
		ClassID:        1,
		EnrollmentDate: core.NewDate(2024, 2, 1),
		Status:         enrollment.StatusActive,
	})
	assert.Equal(t, enrollment.ErrAlreadyEnrolled, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeService_AddRecalculatesInTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewGradeRepository(db)
	key := grade.GroupKey{StudentID: 4, ClassID: 1, Subject: "Math"}

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO grades")).
		WithArgs(4, 1, "Math", 6.0, "2024-03-10", 0.0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(q("SELECT score FROM grades WHERE student_id = ? AND class_id = ? AND subject = ? ORDER BY id FOR UPDATE")).
		WithArgs(key.StudentID, key.ClassID, key.Subject).
		WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(8.0).AddRow(6.0))
	mock.ExpectExec(q("UPDATE grades SET final_average = ? WHERE student_id = ? AND class_id = ? AND subject = ?")).
		WithArgs(7.0, key.StudentID, key.ClassID, key.Subject).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	txr := database.NewTxRunner(db)
	err := txr.RunInTx(context.Background(), func(exec core.DBExecutor) error {
		g, err := repo.CreateGrade(context.Background(), grade.Grade{
			StudentID:      4,
			ClassID:        1,
			Subject:        "Math",
			Score:          6,
			AssessmentDate: core.NewDate(2024, 3, 10),
		}, exec)
		if err != nil {
			return err
		}
		assert.Equal(t, 2, g.ID)
		scores, err := repo.LockGroup(context.Background(), g.Group(), exec)
		if err != nil {
			return err
		}
		return repo.SetFinalAverage(context.Background(), g.Group(), grade.Average(scores), exec)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func gradeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "class_id", "subject", "score", "assessment_date", "final_average"})
}

func TestGradeService_CreateLocksStudentFirst(t *testing.T) {
	db, mock := newMock(t)
	svc := grade.NewService(
		database.NewTxRunner(db),
		NewGradeRepository(db),
		userGetter{users: map[int]user.User{4: {ID: 4, Role: user.RoleStudent}}},
		classGetter{class: classroom.ClassRoom{ID: 1}},
	)
	score := 6.0

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT id FROM users WHERE id = ? FOR UPDATE")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectExec(q("INSERT INTO grades")).
		WithArgs(4, 1, "Math", 6.0, "2024-03-10", 0.0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(q("SELECT score FROM grades WHERE student_id = ? AND class_id = ? AND subject = ? ORDER BY id FOR UPDATE")).
		WithArgs(4, 1, "Math").
		WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(8.0).AddRow(6.0))
	mock.ExpectExec(q("UPDATE grades SET final_average = ?")).
		WithArgs(7.0, 4, 1, "Math").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(q("SELECT " + gradeColumns + " FROM grades WHERE id = ?")).
		WithArgs(2).
		WillReturnRows(gradeRows().AddRow(2, 4, 1, "Math", 6.0, "2024-03-10", 7.0))
	mock.ExpectCommit()

	g, err := svc.Create(context.Background(), grade.NewGrade{
		StudentID:      4,
		ClassID:        1,
		Subject:        "Math",
		Score:          &score,
		AssessmentDate: core.NewDate(2024, 3, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, g.FinalAverage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeService_UpdateLocksBothStudentsInOrder(t *testing.T) {
	db, mock := newMock(t)
	svc := grade.NewService(
		database.NewTxRunner(db),
		NewGradeRepository(db),
		userGetter{users: map[int]user.User{4: {ID: 4, Role: user.RoleStudent}, 5: {ID: 5, Role: user.RoleStudent}}},
		classGetter{class: classroom.ClassRoom{ID: 1}},
	)
	score := 6.0
	orig := grade.Grade{ID: 2, StudentID: 5, ClassID: 1, Subject: "Math", Score: 6, AssessmentDate: core.NewDate(2024, 3, 10), FinalAverage: 6}

	mock.ExpectBegin()
	for _, id := range []int{4, 5} {
		mock.ExpectQuery(q("SELECT id FROM users WHERE id = ? FOR UPDATE")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
	}
	mock.ExpectExec(q("UPDATE grades SET student_id = ?")).
		WithArgs(4, 1, "Math", 6.0, "2024-03-10", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("SELECT score FROM grades")).
		WithArgs(5, 1, "Math").
		WillReturnRows(sqlmock.NewRows([]string{"score"}))
	mock.ExpectQuery(q("SELECT score FROM grades")).
		WithArgs(4, 1, "Math").
		WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(8.0).AddRow(6.0))
	mock.ExpectExec(q("UPDATE grades SET final_average = ?")).
		WithArgs(7.0, 4, 1, "Math").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(q("SELECT " + gradeColumns + " FROM grades WHERE id = ?")).
		WithArgs(2).
		WillReturnRows(gradeRows().AddRow(2, 4, 1, "Math", 6.0, "2024-03-10", 7.0))
	mock.ExpectCommit()

	g, err := svc.Update(context.Background(), orig, grade.UpdateGrade{
		StudentID:      4,
		ClassID:        1,
		Subject:        "Math",
		Score:          &score,
		AssessmentDate: orig.AssessmentDate,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, g.StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeService_DeleteUnknownStudentRollsBack(t *testing.T) {
	db, mock := newMock(t)
	svc := grade.NewService(database.NewTxRunner(db), NewGradeRepository(db), userGetter{}, classGetter{})

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT " + gradeColumns + " FROM grades WHERE id = ?")).
		WithArgs(2).
		WillReturnRows(gradeRows().AddRow(2, 4, 1, "Math", 6.0, "2024-03-10", 6.0))
	mock.ExpectQuery(q("SELECT id FROM users WHERE id = ? FOR UPDATE")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), 2)
	assert.Equal(t, grade.ErrStudentNotFound, errors.Cause(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceService_RecordReplacesRoll(t *testing.T) {
	db, mock := newMock(t)
	svc := attendance.NewService(
		database.NewTxRunner(db),
		NewAttendanceRepository(db),
		userGetter{users: map[int]user.User{
			4: {ID: 4, Role: user.RoleStudent},
			5: {ID: 5, Role: user.RoleStudent},
			8: {ID: 8, Role: user.RoleTeacher},
		}},
		classGetter{class: classroom.ClassRoom{ID: 1}},
	)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM attendance WHERE class_id = ? AND date = ?")).
		WithArgs(1, "2024-01-01").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q("INSERT INTO attendance (student_id, class_id, date, status) VALUES (?, ?, ?, ?), (?, ?, ?, ?)")).
		WithArgs(4, 1, "2024-01-01", "present", 5, 1, "2024-01-01", "absent").
		WillReturnResult(sqlmock.NewResult(10, 2))
	mock.ExpectCommit()

	n, err := svc.Record(context.Background(), attendance.NewRoll{
		ClassID: 1,
		Date:    core.NewDate(2024, 1, 1),
		Records: []attendance.Entry{
			{StudentID: 4, Status: "present"},
			{StudentID: 0, Status: "present"},
			{StudentID: 5, Status: "absent"},
			{StudentID: 6, Status: "sleeping"},
			{StudentID: 7, Status: "present"},
			{StudentID: 8, Status: "late"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceService_RecordRollsBack(t *testing.T) {
	db, mock := newMock(t)
	svc := attendance.NewService(
		database.NewTxRunner(db),
		NewAttendanceRepository(db),
		userGetter{users: map[int]user.User{4: {ID: 4, Role: user.RoleStudent}}},
		classGetter{class: classroom.ClassRoom{ID: 1}},
	)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM attendance WHERE class_id = ? AND date = ?")).
		WithArgs(1, "2024-01-01").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q("INSERT INTO attendance")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Record(context.Background(), attendance.NewRoll{
		ClassID: 1,
		Date:    core.NewDate(2024, 1, 1),
		Records: []attendance.Entry{{StudentID: 4, Status: "late"}},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceService_RecordUnknownClass(t *testing.T) {
	db, mock := newMock(t)
	svc := attendance.NewService(
		database.NewTxRunner(db),
		NewAttendanceRepository(db),
		userGetter{},
		classGetter{err: classroom.ErrNotFound},
	)

	_, err := svc.Record(context.Background(), attendance.NewRoll{ClassID: 9, Date: core.NewDate(2024, 1, 1)})
	assert.Equal(t, classroom.ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRoomRepository_DeleteCascades(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClassRoomRepository(db)

	for _, table := range []string{"enrollments", "grades", "attendance", "assignments"} {
		mock.ExpectExec(q("DELETE FROM " + table + " WHERE class_id = ?")).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(q("DELETE FROM classes WHERE id = ?")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Equal(t, classroom.ErrNotFound, repo.DeleteClassRoom(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
