package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/assignment"
	"github.com/guicardoso0404/sigeas/core/attendance"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/enrollment"
	"github.com/guicardoso0404/sigeas/core/grade"
	"github.com/guicardoso0404/sigeas/core/user"
	sessionsvc "github.com/guicardoso0404/sigeas/services/session"
)

// Deps holds everything the API needs to serve requests.
type Deps struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Sessions   sessionsvc.Store // defaults to an in-memory store

	UserSvc       user.Service
	ClassSvc      classroom.Service
	EnrollmentSvc enrollment.Service
	GradeSvc      grade.Service
	AttendanceSvc attendance.Service
	AssignmentSvc assignment.Service
}

type Server struct {
	conf     *core.Config
	logger   core.Logger
	app      *echo.Echo
	auth     *authenticator
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps *Deps) *Server {
	if deps.Sessions == nil {
		deps.Sessions = sessionsvc.NewMemoryStore()
	}

	s := &Server{
		conf:     deps.Conf,
		logger:   deps.Logger,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf, deps.Sessions),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	s.setup(deps)
	return s
}

func (s *Server) setup(deps *Deps) {
	debug := s.conf.Debug

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", s.home)
	s.app.GET("/health", health)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	root := s.app.Group("")
	jwt := s.auth.middleware()

	registerAuthAPI(root, jwt, s.auth, deps.UserSvc, deps.Validate)
	registerUserAPI(root, jwt, deps.UserSvc, deps.Validate)
	registerClassAPI(root, jwt, deps)
	registerEnrollmentAPI(root, jwt, deps.EnrollmentSvc, deps.Validate)
	registerGradeAPI(root, jwt, deps.GradeSvc, deps.Validate)
	registerAttendanceAPI(root, jwt, deps.AttendanceSvc, deps.Validate)
	registerAssignmentAPI(root, jwt, deps.AssignmentSvc, deps.Validate)
}

// Start blocks serving requests; a failure is reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ok(ctx, http.StatusOK, "Welcome to "+s.conf.AppName+" API!", nil)
}

func health(ctx echo.Context) error {
	return ok(ctx, http.StatusOK, "ok", echo.Map{"status": "up"})
}
