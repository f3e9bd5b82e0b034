// Package reportsvc renders class reports as XLSX workbooks.
package reportsvc

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/guicardoso0404/sigeas/core/attendance"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/grade"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	AttendanceSheet = "Attendance"
	GradesSheet     = "Grades"
)

var (
	attendanceHeader = []interface{}{"Date", "Student ID", "Student", "Status"}
	gradesHeader     = []interface{}{"Student ID", "Student", "Subject", "Score", "Assessment Date", "Final Average"}
)

// Filename returns the download name of a class report, e.g. "class-3-attendance.xlsx".
func Filename(class classroom.ClassRoom, kind string) string {
	return fmt.Sprintf("class-%d-%s.xlsx", class.ID, kind)
}

// AttendanceWorkbook lists recs in the given order; names maps student ids to display names.
func AttendanceWorkbook(class classroom.ClassRoom, recs []attendance.Record, names map[int]string) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []interface{}{r.Date.String(), r.StudentID, names[r.StudentID], r.Status})
	}
	return render(AttendanceSheet, class, attendanceHeader, rows)
}

// GradesWorkbook lists grades in the given order; names maps student ids to display names.
func GradesWorkbook(class classroom.ClassRoom, grades []grade.Grade, names map[int]string) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, []interface{}{g.StudentID, names[g.StudentID], g.Subject, g.Score, g.AssessmentDate.String(), g.FinalAverage})
	}
	return render(GradesSheet, class, gradesHeader, rows)
}

// render writes a title line, a header row and rows onto a single sheet.
func render(sheet string, class classroom.ClassRoom, header []interface{}, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}
	title := []interface{}{class.Name, class.Subject}
	if err := f.SetSheetRow(sheet, "A1", &title); err != nil {
		return nil, errors.Wrap(err, "writing title")
	}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, errors.Wrap(err, "computing cell name")
		}
		row := row
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "writing row %d", i+1)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}
