package enrollment_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/enrollment"
	"github.com/guicardoso0404/sigeas/core/user"
	"github.com/guicardoso0404/sigeas/storage/database/inmem"
	"github.com/guicardoso0404/sigeas/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	validate := validator.New()

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	classSvc := classroom.NewService(db, inmemdb.NewClassRoomRepository(db), usrSvc)
	svc := enrollment.NewService(inmemdb.NewEnrollmentRepository(db), usrSvc, classSvc)

	teacher := testutil.CreateUser(t, usrRepo, "Carla", "carla@sigeas.test", "", user.RoleTeacher)
	bruno := testutil.CreateUser(t, usrRepo, "Bruno", "bruno@sigeas.test", "", user.RoleStudent)
	ana := testutil.CreateUser(t, usrRepo, "Ana", "ana@sigeas.test", "", user.RoleStudent)
	class, err := classSvc.Create(ctx, classroom.NewClassRoom{Name: "7A", TeacherID: teacher.ID, Subject: "Math"})
	require.NoError(t, err)

	ne := enrollment.NewEnrollment{StudentID: bruno.ID, ClassID: class.ID}
	require.NoError(t, ne.Validate(validate))
	enr, err := svc.Create(ctx, ne)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusActive, enr.Status)
	assert.False(t, enr.EnrollmentDate.IsZero())

	t.Run("duplicate", func(t *testing.T) {
		_, err := svc.Create(ctx, ne)
		assert.Equal(t, enrollment.ErrAlreadyEnrolled, errors.Cause(err))
	})

	t.Run("references", func(t *testing.T) {
		_, err := svc.Create(ctx, enrollment.NewEnrollment{StudentID: 999, ClassID: class.ID})
		assert.Equal(t, enrollment.ErrStudentNotFound, err)

		_, err = svc.Create(ctx, enrollment.NewEnrollment{StudentID: teacher.ID, ClassID: class.ID})
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "studentId", verr.Fields[0].Field)

		_, err = svc.Create(ctx, enrollment.NewEnrollment{StudentID: ana.ID, ClassID: 999})
		assert.Equal(t, classroom.ErrNotFound, errors.Cause(err))
	})

	t.Run("invalid status", func(t *testing.T) {
		bad := enrollment.NewEnrollment{StudentID: ana.ID, ClassID: class.ID, Status: "expelled"}
		assert.Error(t, bad.Validate(validate))
	})

	t.Run("update keeps missing fields", func(t *testing.T) {
		ue := enrollment.UpdateEnrollment{Status: " Graduated "}
		require.NoError(t, ue.Validate(enr, validate))
		updated, err := svc.Update(ctx, enr, ue)
		require.NoError(t, err)
		assert.Equal(t, enrollment.StatusGraduated, updated.Status)
		assert.True(t, enr.EnrollmentDate.Equal(updated.EnrollmentDate))
	})

	t.Run("query and delete", func(t *testing.T) {
		_, err := svc.Create(ctx, enrollment.NewEnrollment{StudentID: ana.ID, ClassID: class.ID, Status: enrollment.StatusActive})
		require.NoError(t, err)

		all, err := svc.Query(ctx, &enrollment.QueryFilter{ClassID: class.ID})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		students, err := classSvc.Students(ctx, class.ID)
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, "Ana", students[0].Name)

		require.NoError(t, svc.Delete(ctx, enr.ID))
		assert.Equal(t, enrollment.ErrNotFound, errors.Cause(svc.Delete(ctx, enr.ID)))

		left, err := svc.Query(ctx, &enrollment.QueryFilter{StudentID: bruno.ID})
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
