package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/assignment"
	"github.com/guicardoso0404/sigeas/core/attendance"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/enrollment"
	"github.com/guicardoso0404/sigeas/core/grade"
	"github.com/guicardoso0404/sigeas/core/user"
	logsvc "github.com/guicardoso0404/sigeas/services/logger"
	"github.com/guicardoso0404/sigeas/storage/database/inmem"
	"github.com/guicardoso0404/sigeas/tests"
)

const testPassword = "Tr0ub4dor&3"

var bgCtx = context.Background()

type testApp struct {
	*Server
	db      *inmemdb.DB
	usrRepo user.Repository
	classes classroom.Service
}

func setup(t *testing.T) testApp {
	t.Helper()

	conf := &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "SIGEAS",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			Addr:               ":0",
			JWTExpirationDelta: time.Hour,
			DisableReqLogs:     true,
		},
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	classSvc := classroom.NewService(db, inmemdb.NewClassRoomRepository(db), usrSvc)

	server := NewServer(&Deps{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		UserSvc:       usrSvc,
		ClassSvc:      classSvc,
		EnrollmentSvc: enrollment.NewService(inmemdb.NewEnrollmentRepository(db), usrSvc, classSvc),
		GradeSvc:      grade.NewService(db, inmemdb.NewGradeRepository(db), usrSvc, classSvc),
		AttendanceSvc: attendance.NewService(db, inmemdb.NewAttendanceRepository(db), usrSvc, classSvc),
		AssignmentSvc: assignment.NewService(inmemdb.NewAssignmentRepository(db), classSvc),
	})
	return testApp{Server: server, db: db, usrRepo: usrRepo, classes: classSvc}
}

func (app testApp) createUser(t *testing.T, name, email, role string) user.User {
	return testutil.CreateUser(t, app.usrRepo, name, email, testPassword, role)
}

func (app testApp) createClass(t *testing.T, name string, teacher user.User) classroom.ClassRoom {
	t.Helper()
	class, err := app.classes.Create(bgCtx, classroom.NewClassRoom{Name: name, TeacherID: teacher.ID, Subject: "Math"})
	require.NoError(t, err)
	return class
}

func (app testApp) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := app.auth.generateToken(usr)
	require.NoError(t, err)
	return token
}

// do serves one request and returns the recorded response.
func (app testApp) do(method, path, token string, body ...interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if len(body) > 0 {
		switch b := body[0].(type) {
		case []byte:
			buf.Write(b)
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
	wantMsg  string
}

func (app testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.body != nil {
				rec = app.do(tt.method, tt.path, tt.token, tt.body)
			} else {
				rec = app.do(tt.method, tt.path, tt.token)
			}
			checkCodeAndMessage(t, tt, rec)
		})
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data ...interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data[0]), string(env.Data))
	}
	return env
}

func checkCodeAndMessage(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	env := decode(t, rec)
	assert.Equal(t, tt.wantCode < http.StatusBadRequest, env.Success)
	if tt.wantMsg != "" {
		assert.Equal(t, tt.wantMsg, env.Message)
	}
}
