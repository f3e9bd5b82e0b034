package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core/attendance"
)

type attendanceApi struct {
	svc      attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.query, allow("attendance.list"))
	ag.POST("", api.record, allow("attendance.record"))
	ag.PUT("/:id", api.update, allow("attendance.update"))
	ag.DELETE("/:id", api.destroy, allow("attendance.delete"))

	g.GET("/students/:studentId/attendance", api.queryStudent, jwt, allow("attendance.student"))
}

type (
	RecordResponse struct {
		Inserted int `json:"inserted"`
	}

	StudentAttendanceResponse struct {
		Records []attendance.Record `json:"records"`
		Summary attendance.Summary  `json:"summary"`
	}
)

func (api *attendanceApi) record(ctx echo.Context) error {
	var data attendance.NewRoll
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoll")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	inserted, err := api.svc.Record(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	attendanceRowsTotal.WithLabelValues(strconv.Itoa(data.ClassID)).Add(float64(inserted))
	return ok(ctx, http.StatusCreated, "attendance recorded", RecordResponse{Inserted: inserted})
}

func (api *attendanceApi) query(ctx echo.Context) error {
	classID, err := queryInt(ctx, "classId")
	if err != nil {
		return err
	}
	studentID, err := queryInt(ctx, "studentId")
	if err != nil {
		return err
	}
	date, err := queryDate(ctx, "date")
	if err != nil {
		return err
	}

	recs, err := api.svc.Query(ctx.Request().Context(), &attendance.QueryFilter{ClassID: classID, StudentID: studentID, Date: date})
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ok(ctx, http.StatusOK, "attendance", recs)
}

func (api *attendanceApi) queryStudent(ctx echo.Context) error {
	studentID, err := paramID(ctx, "studentId")
	if err != nil {
		return err
	}
	classID, err := queryInt(ctx, "classId")
	if err != nil {
		return err
	}

	recs, err := api.svc.Query(ctx.Request().Context(), &attendance.QueryFilter{StudentID: studentID, ClassID: classID})
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	summary, err := api.svc.Summary(ctx.Request().Context(), studentID, classID)
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ok(ctx, http.StatusOK, "attendance", StudentAttendanceResponse{Records: recs, Summary: summary})
}

func (api *attendanceApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	rec, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding attendance record by ID")
	}

	var data attendance.UpdateRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rec, err = api.svc.Update(ctx.Request().Context(), rec, data)
	if err != nil {
		return errors.Wrap(err, "updating attendance record")
	}
	return ok(ctx, http.StatusOK, "attendance record updated", rec)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	return ok(ctx, http.StatusOK, "attendance record deleted", nil)
}
