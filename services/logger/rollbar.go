package logsvc

import (
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/user"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// Enable toggles reporting to Rollbar; stdout logging is always on.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close waits for queued reports to be sent.
func (l RollbarLogger) Close() {
	rollbar.Wait()
}

// expected fmt: msg | error, map[string]interface{}, user.User
// The User identifies the caller and is never printed.
func (l RollbarLogger) prepare(msg string, args []interface{}) (report []interface{}, local []interface{}) {
	var usrSet bool
	report = make([]interface{}, 0, len(args)+1)
	report = append(report, msg)
	local = make([]interface{}, 0, len(args))
	for _, arg := range args {
		// set logged in User
		if usr, ok := arg.(user.User); ok {
			if !usrSet { // only set one User
				rollbar.SetPerson(strconv.Itoa(usr.ID), usr.Name, usr.Email)
				usrSet = true
			}
			continue
		}
		report = append(report, arg)
		local = append(local, arg)
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return report, local
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	report, local := l.prepare(msg, args)
	rollbar.Debug(report...)
	l.print(msg, local)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	report, local := l.prepare(msg, args)
	rollbar.Info(report...)
	l.print(msg, local)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	report, local := l.prepare(msg, args)
	rollbar.Warning(report...)
	l.print(msg, local)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	report, local := l.prepare(msg, args)
	rollbar.Error(report...)
	l.print(msg, local)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	report, local := l.prepare(msg, args)
	rollbar.Critical(report...)
	l.print(msg, local)
	rollbar.Wait()
	l.std.Fatal(msg)
}
