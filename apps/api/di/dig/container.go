package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	echoapi "github.com/guicardoso0404/sigeas/apps/api/echo"
	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/assignment"
	"github.com/guicardoso0404/sigeas/core/attendance"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/enrollment"
	"github.com/guicardoso0404/sigeas/core/grade"
	"github.com/guicardoso0404/sigeas/core/user"
	logsvc "github.com/guicardoso0404/sigeas/services/logger"
	sessionsvc "github.com/guicardoso0404/sigeas/services/session"
	"github.com/guicardoso0404/sigeas/storage/database"
	sqlxrepos "github.com/guicardoso0404/sigeas/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if conf.Database.MigrateOnBoot {
			if err = database.Migrate(db); err != nil {
				return nil, err
			}
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

// newSessionStore keeps revoked sessions in Redis when it is configured, in memory otherwise.
func newSessionStore(conf *core.Config, logger core.Logger) sessionsvc.Store {
	if conf.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR not set: revoked sessions are kept in memory")
		return sessionsvc.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
	}
	return sessionsvc.NewRedisStore(client)
}

type serverParams struct {
	dig.In

	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	Sessions      sessionsvc.Store
	UserSvc       user.Service
	ClassSvc      classroom.Service
	EnrollmentSvc enrollment.Service
	GradeSvc      grade.Service
	AttendanceSvc attendance.Service
	AssignmentSvc assignment.Service
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Deps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		Sessions:      p.Sessions,
		UserSvc:       p.UserSvc,
		ClassSvc:      p.ClassSvc,
		EnrollmentSvc: p.EnrollmentSvc,
		GradeSvc:      p.GradeSvc,
		AttendanceSvc: p.AttendanceSvc,
		AssignmentSvc: p.AssignmentSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(database.NewTxRunner, dig.As(new(core.TxRunner))))
	must(c.Provide(newSessionStore))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))

	// repositories
	must(c.Provide(sqlxrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(sqlxrepos.NewClassRoomRepository, dig.As(new(classroom.Repository))))
	must(c.Provide(sqlxrepos.NewEnrollmentRepository, dig.As(new(enrollment.Repository))))
	must(c.Provide(sqlxrepos.NewGradeRepository, dig.As(new(grade.Repository))))
	must(c.Provide(sqlxrepos.NewAttendanceRepository, dig.As(new(attendance.Repository))))
	must(c.Provide(sqlxrepos.NewAssignmentRepository, dig.As(new(assignment.Repository))))

	// services
	must(c.Provide(user.NewService, dig.As(
		new(user.Service),
		new(classroom.UserGetter),
		new(enrollment.UserGetter),
		new(grade.UserGetter),
		new(attendance.UserGetter),
	)))
	must(c.Provide(classroom.NewService, dig.As(
		new(classroom.Service),
		new(enrollment.ClassGetter),
		new(grade.ClassGetter),
		new(attendance.ClassGetter),
		new(assignment.ClassGetter),
	)))
	must(c.Provide(enrollment.NewService))
	must(c.Provide(grade.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(assignment.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
