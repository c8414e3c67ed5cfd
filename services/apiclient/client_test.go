package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
	"github.com/trezcool/masomo-setup/services/apiclient"
	inmemstore "github.com/trezcool/masomo-setup/storage/progress/inmem"
)

type recorded struct {
	method, path, auth string
	body               map[string]interface{}
}

// stubAPI answers every request with code and the JSON body.
func stubAPI(t *testing.T, code int, body string, rec *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method, rec.path, rec.auth = r.Method, r.URL.Path, r.Header.Get("Authorization")
			if data, _ := io.ReadAll(r.Body); len(data) > 0 {
				_ = json.Unmarshal(data, &rec.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string, token string) *apiclient.Client {
	t.Helper()
	session := setup.StoreSession{Store: inmemstore.New()}
	if token != "" {
		require.NoError(t, session.SignIn(context.Background(), token, setup.UserInfo{Name: "Jane"}))
	}
	return apiclient.New(core.APIConfig{BaseURL: baseURL + "/v1/", Timeout: 5 * time.Second}, session)
}

func TestClient_requests(t *testing.T) {
	ctx := context.Background()

	t.Run("setup status", func(t *testing.T) {
		var rec recorded
		srv := stubAPI(t, http.StatusOK, `{"status":200,"message":"OK","data":true}`, &rec)
		complete, err := newClient(t, srv.URL, "tkn").SetupStatus(ctx)
		require.NoError(t, err)
		assert.True(t, complete)
		assert.Equal(t, recorded{method: http.MethodGet, path: "/v1/setup-status", auth: "Bearer tkn"}, rec)
	})

	t.Run("setup progress", func(t *testing.T) {
		srv := stubAPI(t, http.StatusOK, `{"status":200,"message":"OK","data":{"currentStage":2,"campusId":"c1","classId":"k1","className":"Grade 1"}}`, nil)
		report, err := newClient(t, srv.URL, "tkn").SetupProgress(ctx)
		require.NoError(t, err)
		assert.Equal(t, setup.ProgressReport{CurrentStage: setup.StageArm, CampusID: "c1", ClassID: "k1", ClassName: "Grade 1"}, report)
	})

	t.Run("invalid stage", func(t *testing.T) {
		srv := stubAPI(t, http.StatusOK, `{"status":200,"message":"OK","data":{"currentStage":7}}`, nil)
		_, err := newClient(t, srv.URL, "tkn").SetupProgress(ctx)
		assert.Equal(t, setup.ErrInvalidStage, errors.Cause(err))
	})

	t.Run("create arm", func(t *testing.T) {
		var rec recorded
		srv := stubAPI(t, http.StatusCreated, `{"status":201,"message":"Arm created","data":{"entityId":"a1","entityName":"A"}}`, &rec)
		ent, err := newClient(t, srv.URL, "tkn").CreateArm(ctx, setup.NewArm{ArmName: "A", ClassID: "k1"})
		require.NoError(t, err)
		assert.Equal(t, setup.CreatedEntity{EntityID: "a1", EntityName: "A"}, ent)
		assert.Equal(t, "/v1/setup/arm", rec.path)
		assert.Equal(t, "A", rec.body["armName"])
		assert.Equal(t, "k1", rec.body["classId"])
	})

	t.Run("login is not authenticated", func(t *testing.T) {
		var rec recorded
		srv := stubAPI(t, http.StatusOK, `{"status":200,"message":"OK","data":{"token":"t1","user":{"name":"Jane","email":"jane@school.test","schoolName":"Green Hills"}}}`, &rec)
		res, err := newClient(t, srv.URL, "").Login(ctx, user.LoginCredentials{Username: "jane", Password: "pwd"})
		require.NoError(t, err)
		assert.Equal(t, "t1", res.Token)
		assert.Equal(t, "Green Hills", res.User.SchoolName)
		assert.Empty(t, rec.auth)
		assert.Equal(t, "jane", rec.body["username"])
	})
}

func TestClient_errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		srv := stubAPI(t, http.StatusOK, `{}`, nil)
		_, err := newClient(t, srv.URL, "").SetupStatus(ctx)
		assert.Equal(t, setup.ErrNoSession, errors.Cause(err))
		assert.True(t, setup.IsAuthFailure(err))
	})

	t.Run("unauthorized", func(t *testing.T) {
		srv := stubAPI(t, http.StatusUnauthorized, `{"status":401,"message":"invalid or expired jwt","data":null}`, nil)
		_, err := newClient(t, srv.URL, "tkn").SetupProgress(ctx)
		assert.Equal(t, &setup.ServerError{Status: 401, Message: "invalid or expired jwt"}, err)
		assert.True(t, setup.IsAuthFailure(err))
	})

	t.Run("validation error", func(t *testing.T) {
		srv := stubAPI(t, http.StatusBadRequest, `{"status":400,"message":"a campus with this name already exists","data":[{"field":"name","error":"a campus with this name already exists"}]}`, nil)
		_, err := newClient(t, srv.URL, "tkn").CreateCampus(ctx, setup.NewCampus{Name: "Main"})
		assert.Equal(t, &setup.ServerError{
			Status:  400,
			Message: "a campus with this name already exists",
			Fields:  map[string]string{"name": "a campus with this name already exists"},
		}, err)
	})

	t.Run("envelope status wins over http status", func(t *testing.T) {
		srv := stubAPI(t, http.StatusOK, `{"status":400,"message":"Name already exists","data":null}`, nil)
		ent, err := newClient(t, srv.URL, "tkn").CreateCampus(ctx, setup.NewCampus{Name: "Main"})
		assert.Equal(t, &setup.ServerError{Status: 400, Message: "Name already exists"}, err)
		assert.Equal(t, setup.CreatedEntity{}, ent)
	})

	t.Run("envelope status 401 is an auth failure", func(t *testing.T) {
		srv := stubAPI(t, http.StatusOK, `{"status":401,"message":"invalid or expired jwt","data":null}`, nil)
		_, err := newClient(t, srv.URL, "tkn").SetupStatus(ctx)
		assert.True(t, setup.IsAuthFailure(err))
	})

	t.Run("not an envelope", func(t *testing.T) {
		srv := stubAPI(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)
		_, err := newClient(t, srv.URL, "tkn").CreateClass(ctx, setup.NewClass{Name: "Grade 1", CampusID: "c1"})
		assert.Equal(t, &setup.ServerError{Status: 502}, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := stubAPI(t, http.StatusOK, `{}`, nil)
		srv.Close()
		_, err := newClient(t, srv.URL, "tkn").SetupStatus(ctx)
		require.Error(t, err)
		assert.False(t, setup.IsAuthFailure(err))
	})
}
