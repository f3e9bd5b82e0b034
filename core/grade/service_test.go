package grade_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/grade"
	"github.com/guicardoso0404/sigeas/core/user"
	"github.com/guicardoso0404/sigeas/storage/database/inmem"
	"github.com/guicardoso0404/sigeas/tests"
)

type fixture struct {
	svc     grade.Service
	student user.User
	teacher user.User
	class   classroom.ClassRoom
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	classSvc := classroom.NewService(db, inmemdb.NewClassRoomRepository(db), usrSvc)

	teacher := testutil.CreateUser(t, usrRepo, "Carla", "carla@sigeas.test", "", user.RoleTeacher)
	student := testutil.CreateUser(t, usrRepo, "Bruno", "bruno@sigeas.test", "", user.RoleStudent)
	class, err := classSvc.Create(ctx, classroom.NewClassRoom{Name: "7A", TeacherID: teacher.ID, Subject: "Math"})
	require.NoError(t, err)

	return fixture{
		svc:     grade.NewService(db, inmemdb.NewGradeRepository(db), usrSvc, classSvc),
		student: student,
		teacher: teacher,
		class:   class,
	}
}

func score(f float64) *float64 { return &f }

func (f fixture) newGrade(subject string, s float64) grade.NewGrade {
	return grade.NewGrade{
		StudentID:      f.student.ID,
		ClassID:        f.class.ID,
		Subject:        subject,
		Score:          score(s),
		AssessmentDate: core.NewDate(2024, 3, 1),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	g1, err := f.svc.Create(ctx, f.newGrade("Algebra", 8))
	require.NoError(t, err)
	assert.Equal(t, 8.0, g1.FinalAverage)

	g2, err := f.svc.Create(ctx, f.newGrade("Algebra", 6.5))
	require.NoError(t, err)
	assert.Equal(t, 7.3, g2.FinalAverage)

	refreshed, err := f.svc.GetByID(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.3, refreshed.FinalAverage, "every row of the group carries the average")

	other, err := f.svc.Create(ctx, f.newGrade("Geometry", 4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, other.FinalAverage)

	t.Run("unknown student", func(t *testing.T) {
		ng := f.newGrade("Algebra", 5)
		ng.StudentID = 999
		_, err := f.svc.Create(ctx, ng)
		assert.Equal(t, grade.ErrStudentNotFound, err)
	})

	t.Run("not a student", func(t *testing.T) {
		ng := f.newGrade("Algebra", 5)
		ng.StudentID = f.teacher.ID
		_, err := f.svc.Create(ctx, ng)
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, grade.ErrNotAStudent, verr.Err)
	})

	t.Run("unknown class", func(t *testing.T) {
		ng := f.newGrade("Algebra", 5)
		ng.ClassID = 999
		_, err := f.svc.Create(ctx, ng)
		assert.Equal(t, classroom.ErrNotFound, errors.Cause(err))
	})
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	g1, err := f.svc.Create(ctx, f.newGrade("Algebra", 8))
	require.NoError(t, err)
	g2, err := f.svc.Create(ctx, f.newGrade("Algebra", 6))
	require.NoError(t, err)

	// moving a grade to another subject recalculates both groups
	ug := grade.UpdateGrade{Subject: "Geometry"}
	require.NoError(t, ug.Validate(g2, validator.New()))
	moved, err := f.svc.Update(ctx, g2, ug)
	require.NoError(t, err)
	assert.Equal(t, 6.0, moved.FinalAverage)
	assert.Equal(t, 6.0, moved.Score)

	left, err := f.svc.GetByID(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, left.FinalAverage)

	require.NoError(t, f.svc.Delete(ctx, g1.ID))
	_, err = f.svc.GetByID(ctx, g1.ID)
	assert.Equal(t, grade.ErrNotFound, errors.Cause(err))
	assert.Equal(t, grade.ErrNotFound, errors.Cause(f.svc.Delete(ctx, g1.ID)))
	assert.Equal(t, grade.ErrNotFound, f.svc.Delete(ctx, 0))

	grades, err := f.svc.Query(ctx, &grade.QueryFilter{StudentID: f.student.ID})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "Geometry", grades[0].Subject)
}

func TestNewGrade_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	tests := []struct {
		name    string
		ng      grade.NewGrade
		wantErr bool
	}{
		{name: "zero score is allowed", ng: grade.NewGrade{StudentID: 1, ClassID: 1, Subject: "Art", Score: score(0)}},
		{name: "max score", ng: grade.NewGrade{StudentID: 1, ClassID: 1, Subject: "Art", Score: score(10)}},
		{name: "missing score", ng: grade.NewGrade{StudentID: 1, ClassID: 1, Subject: "Art"}, wantErr: true},
		{name: "negative score", ng: grade.NewGrade{StudentID: 1, ClassID: 1, Subject: "Art", Score: score(-0.1)}, wantErr: true},
		{name: "score above max", ng: grade.NewGrade{StudentID: 1, ClassID: 1, Subject: "Art", Score: score(10.5)}, wantErr: true},
		{name: "blank subject", ng: grade.NewGrade{StudentID: 1, ClassID: 1, Subject: "  ", Score: score(5)}, wantErr: true},
		{name: "missing student", ng: grade.NewGrade{ClassID: 1, Subject: "Art", Score: score(5)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ng.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, tt.ng.AssessmentDate.IsZero(), "assessment date defaults to today")
		})
	}
}
