package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/masomo-setup/apps/api/echo"
	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/school"
	"github.com/trezcool/masomo-setup/core/user"
	emailsvc "github.com/trezcool/masomo-setup/services/email"
	logsvc "github.com/trezcool/masomo-setup/services/logger"
	inmemdb "github.com/trezcool/masomo-setup/storage/database/inmem"
	inmemstore "github.com/trezcool/masomo-setup/storage/progress/inmem"
	"github.com/trezcool/masomo-setup/tests"
)

const testPassword = "Qw3rty!uiop"

type testEnv struct {
	app   *app
	store *inmemstore.Store
	out   *bytes.Buffer
	mail  *emailsvc.ConsoleServiceMock
}

// newTestEnv runs the API in process and points a wizard with an in-memory store at it.
// The backend knows one admin: janeadmin.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conf := &core.Config{
		Env:             "TEST",
		TestMode:        true,
		AppName:         "Masomo",
		SecretKey:       "test-secret",
		FrontendBaseURL: "http://school.test",
		Server:          core.ServerConfig{JWTExpirationDelta: time.Hour},
		API: core.APIConfig{
			Timeout:      5 * time.Second,
			DashboardURL: "http://school.test/dashboard",
			SignInURL:    "http://school.test/signin",
		},
		Setup: core.SetupConfig{FallbackCampusName: "Your Campus", FallbackClassName: "Your Class"},
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	core.ParseEmailTemplates(logger, true)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.RegisterValidators(validate, translator)

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	testutil.CreateUser(t, usrRepo, "Jane", "janeadmin", "jane@school.test", testPassword, []string{user.RoleAdminOwner}, true)
	mail := emailsvc.NewConsoleServiceMock(conf, logger)

	srv := httptest.NewServer(echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        user.NewService(usrRepo),
		SchoolSvc:      school.NewService(inmemdb.NewSchoolRepository(db), mail, logger),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	}))
	t.Cleanup(srv.Close)
	conf.API.BaseURL = srv.URL + "/v1"

	var out bytes.Buffer
	store := inmemstore.New()
	a := newApp(conf, logger, strings.NewReader(""), &out)
	a.store = store

	readPasswordFunc = func(int) ([]byte, error) { return []byte(testPassword), nil }
	return &testEnv{app: a, store: store, out: &out, mail: mail}
}

// exec runs one wizard command with input on stdin and returns what it printed.
func (e *testEnv) exec(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	e.out.Reset()
	e.app.in = bufio.NewReader(strings.NewReader(input))
	root := newRootCmd(e.app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return e.out.String(), err
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	_, err := e.exec(t, "", "login", "-u", "janeadmin")
	require.NoError(t, err)
}
