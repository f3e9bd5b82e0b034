package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core/assignment"
	"github.com/guicardoso0404/sigeas/core/attendance"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/grade"
	"github.com/guicardoso0404/sigeas/core/user"
	reportsvc "github.com/guicardoso0404/sigeas/services/report"
)

var errClassNotFoundInCtx = errors.New("class object not found in echo.Context")

type classApi struct {
	svc         classroom.Service
	assignments assignment.Service
	attendance  attendance.Service
	grades      grade.Service
	validate    *validator.Validate
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := classApi{
		svc:         deps.ClassSvc,
		assignments: deps.AssignmentSvc,
		attendance:  deps.AttendanceSvc,
		grades:      deps.GradeSvc,
		validate:    deps.Validate,
	}

	cg := g.Group("/classes", jwt)
	cg.GET("", api.query, allow("classes.list"))
	cg.POST("", api.create, allow("classes.create"))

	// detail endpoints
	cg.GET("/:id", api.retrieve, allow("classes.read"), api.object)
	cg.PUT("/:id", api.update, allow("classes.update"), api.object)
	cg.DELETE("/:id", api.destroy, allow("classes.delete"), api.object)
	cg.GET("/:id/students", api.students, allow("classes.students"), api.object)
	cg.GET("/:id/assignments", api.queryAssignments, allow("assignments.list"), api.object)
	cg.GET("/:id/attendance/export", api.exportAttendance, allow("attendance.export"), api.object)
	cg.GET("/:id/grades/export", api.exportGrades, allow("grades.export"), api.object)
}

// object loads the ClassRoom named by the :id param into the context.
func (api *classApi) object(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := paramID(ctx, "id")
		if err != nil {
			return err
		}
		class, err := api.svc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			return errors.Wrap(err, "finding class by ID")
		}
		ctx.Set("object", class)
		return next(ctx)
	}
}

func ctxClass(ctx echo.Context) (classroom.ClassRoom, error) {
	class, found := ctx.Get("object").(classroom.ClassRoom)
	if !found {
		return classroom.ClassRoom{}, errors.Wrap(errClassNotFoundInCtx, "retrieving object from context")
	}
	return class, nil
}

// Handlers

func (api *classApi) create(ctx echo.Context) error {
	var data classroom.NewClassRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassRoom")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	class, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ok(ctx, http.StatusCreated, "class created", class)
}

func (api *classApi) query(ctx echo.Context) error {
	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	classes, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []classroom.ClassRoom{}
	}
	return ok(ctx, http.StatusOK, "classes", classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	class, err := ctxClass(ctx)
	if err != nil {
		return err
	}
	return ok(ctx, http.StatusOK, "class", class)
}

func (api *classApi) update(ctx echo.Context) error {
	class, err := ctxClass(ctx)
	if err != nil {
		return err
	}

	var data classroom.UpdateClassRoom
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClassRoom")
	}
	if err = data.Validate(class, api.validate); err != nil {
		return err
	}

	class, err = api.svc.Update(ctx.Request().Context(), class, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ok(ctx, http.StatusOK, "class updated", class)
}

func (api *classApi) destroy(ctx echo.Context) error {
	class, err := ctxClass(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), class.ID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ok(ctx, http.StatusOK, "class deleted", nil)
}

func (api *classApi) students(ctx echo.Context) error {
	class, err := ctxClass(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.Students(ctx.Request().Context(), class.ID)
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	if students == nil {
		students = []user.User{}
	}
	return ok(ctx, http.StatusOK, "students", students)
}

func (api *classApi) queryAssignments(ctx echo.Context) error {
	class, err := ctxClass(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.assignments.Query(ctx.Request().Context(), class.ID)
	if err != nil {
		return errors.Wrap(err, "querying class assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ok(ctx, http.StatusOK, "assignments", assignments)
}

// studentNames maps the ids of the students enrolled in class to their names.
func (api *classApi) studentNames(ctx echo.Context, class classroom.ClassRoom) (map[int]string, error) {
	students, err := api.svc.Students(ctx.Request().Context(), class.ID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	names := make(map[int]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}
	return names, nil
}

func (api *classApi) exportAttendance(ctx echo.Context) error {
	class, err := ctxClass(ctx)
	if err != nil {
		return err
	}
	date, err := queryDate(ctx, "date")
	if err != nil {
		return err
	}

	recs, err := api.attendance.Query(ctx.Request().Context(), &attendance.QueryFilter{ClassID: class.ID, Date: date})
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	names, err := api.studentNames(ctx, class)
	if err != nil {
		return err
	}
	buf, err := reportsvc.AttendanceWorkbook(class, recs, names)
	if err != nil {
		return errors.Wrap(err, "rendering attendance workbook")
	}
	return attachment(ctx, reportsvc.Filename(class, "attendance"), buf.Bytes())
}

func (api *classApi) exportGrades(ctx echo.Context) error {
	class, err := ctxClass(ctx)
	if err != nil {
		return err
	}

	grades, err := api.grades.Query(ctx.Request().Context(), &grade.QueryFilter{ClassID: class.ID})
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	names, err := api.studentNames(ctx, class)
	if err != nil {
		return err
	}
	buf, err := reportsvc.GradesWorkbook(class, grades, names)
	if err != nil {
		return errors.Wrap(err, "rendering grades workbook")
	}
	return attachment(ctx, reportsvc.Filename(class, "grades"), buf.Bytes())
}

func attachment(ctx echo.Context, name string, body []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(name))
	return ctx.Blob(http.StatusOK, reportsvc.ContentType, body)
}
