package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/trezcool/masomo-setup/apps/api/echo"
	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/school"
	"github.com/trezcool/masomo-setup/core/user"
	emailsvc "github.com/trezcool/masomo-setup/services/email"
	logsvc "github.com/trezcool/masomo-setup/services/logger"
	inmemdb "github.com/trezcool/masomo-setup/storage/database/inmem"
)

const testPassword = "Qw3rty!uiop"

type env struct {
	conf    *core.Config
	server  *Server
	db      *inmemdb.DB
	usrRepo user.Repository
	mail    *emailsvc.ConsoleServiceMock
}

// newEnv serves the API on in-memory repositories; configure may adjust the server options.
func newEnv(t *testing.T, configure ...func(e *env, opts *Options)) *env {
	t.Helper()
	conf := &core.Config{
		Env:             "TEST",
		TestMode:        true,
		AppName:         "Masomo",
		SecretKey:       "test-secret",
		FrontendBaseURL: "http://school.test",
		Server:          core.ServerConfig{JWTExpirationDelta: time.Hour},
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	core.ParseEmailTemplates(logger, true)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.RegisterValidators(validate, translator)

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	mail := emailsvc.NewConsoleServiceMock(conf, logger)

	e := &env{conf: conf, db: db, usrRepo: usrRepo, mail: mail}
	opts := &Options{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        user.NewService(usrRepo),
		SchoolSvc:      school.NewService(inmemdb.NewSchoolRepository(db), mail, logger),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	}
	for _, fn := range configure {
		fn(e, opts)
	}
	e.server = NewServer(opts)
	return e
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *env) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(e.conf, GetUserClaims(e.conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// do serves the request and decodes the response envelope; data is decoded into out when given.
func (e *env) do(t *testing.T, method, path, token string, body interface{}, out ...interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	if rec.Code != resp.Status {
		t.Errorf("envelope status = %d; want %d", resp.Status, rec.Code)
	}
	if len(out) > 0 && out[0] != nil {
		require.NoError(t, json.Unmarshal(resp.Data, out[0]), string(resp.Data))
	}
	return rec.Code, resp
}

func fieldMap(t *testing.T, resp envelope) map[string]string {
	t.Helper()
	var flds []core.FieldError
	require.NoError(t, json.Unmarshal(resp.Data, &flds), string(resp.Data))
	m := make(map[string]string, len(flds))
	for _, f := range flds {
		m[f.Field] = f.Error
	}
	return m
}

var _ http.Handler = (*Server)(nil)
