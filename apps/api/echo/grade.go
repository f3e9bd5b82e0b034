package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core/grade"
)

type gradeApi struct {
	svc      grade.Service
	validate *validator.Validate
}

func registerGradeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc grade.Service, validate *validator.Validate) {
	api := gradeApi{svc: svc, validate: validate}

	gg := g.Group("/grades", jwt)
	gg.GET("", api.query, allow("grades.list"))
	gg.POST("", api.create, allow("grades.create"))
	gg.PUT("/:id", api.update, allow("grades.update"))
	gg.DELETE("/:id", api.destroy, allow("grades.delete"))

	g.GET("/students/:studentId/grades", api.queryStudent, jwt, allow("grades.student"))
}

func (api *gradeApi) create(ctx echo.Context) error {
	var data grade.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	created, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	gradeScoreHistogram.WithLabelValues(strconv.Itoa(created.ClassID)).Observe(created.Score)
	return ok(ctx, http.StatusCreated, "grade created", created)
}

func (api *gradeApi) query(ctx echo.Context) error {
	filter := new(grade.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()
	return api.list(ctx, filter)
}

func (api *gradeApi) queryStudent(ctx echo.Context) error {
	studentID, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	classID, err := queryInt(ctx, "classId")
	if err != nil {
		return err
	}
	return api.list(ctx, &grade.QueryFilter{StudentID: studentID, ClassID: classID})
}

func (api *gradeApi) list(ctx echo.Context, filter *grade.QueryFilter) error {
	grades, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grade.Grade{}
	}
	return ok(ctx, http.StatusOK, "grades", grades)
}

func (api *gradeApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	g, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding grade by ID")
	}

	var data grade.UpdateGrade
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGrade")
	}
	if err = data.Validate(g, api.validate); err != nil {
		return err
	}

	g, err = api.svc.Update(ctx.Request().Context(), g, data)
	if err != nil {
		return errors.Wrap(err, "updating grade")
	}
	return ok(ctx, http.StatusOK, "grade updated", g)
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ok(ctx, http.StatusOK, "grade deleted", nil)
}
