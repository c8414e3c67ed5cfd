package logsvc

import (
	"log"

	gommonlog "github.com/labstack/gommon/log"
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
)

// RollbarLogger reports to rollbar and prints to std every message at or above its level.
type RollbarLogger struct {
	std   *log.Logger
	level gommonlog.Lvl
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.TestMode)

	level := gommonlog.INFO
	if conf.Debug || conf.TestMode {
		level = gommonlog.DEBUG
	}
	return &RollbarLogger{std: std, level: level}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// prepare turns the context args into rollbar data.
// Accepted args: error, map[string]interface{}, user.User, setup.Progress, setup.Stage.
// The first User becomes the rollbar person; its tenant, the setup state and every map
// are merged into a single custom data map sent last.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	custom := make(map[string]interface{})
	newArgs := make([]interface{}, 0, len(args)+2)
	newArgs = append(newArgs, msg)

	for _, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if !usrSet {
				rollbar.SetPerson(a.ID, a.Username, a.Email)
				custom["tenant_id"] = a.TenantID
				usrSet = true
			}
		case setup.Progress:
			custom["setup_stage"] = a.Stage.String()
			if a.CampusID != "" {
				custom["campus_id"] = a.CampusID
			}
			if a.ClassID != "" {
				custom["class_id"] = a.ClassID
			}
		case setup.Stage:
			custom["setup_stage"] = a.String()
		case map[string]interface{}:
			for k, v := range a {
				custom[k] = v
			}
		default:
			newArgs = append(newArgs, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	if len(custom) > 0 {
		newArgs = append(newArgs, custom)
	}
	return newArgs
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		switch arg.(type) {
		case user.User:
			// personal data stays out of the local log
		default:
			l.std.Printf("%+v\n", arg)
		}
	}
}

func (l RollbarLogger) enabled(lvl gommonlog.Lvl) bool { return lvl >= l.level }

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.enabled(gommonlog.DEBUG) {
		return
	}
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	if !l.enabled(gommonlog.INFO) {
		return
	}
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	l.std.Fatal(msg)
}
