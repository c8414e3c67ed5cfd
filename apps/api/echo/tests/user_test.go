package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
	"github.com/trezcool/masomo-setup/tests"
)

func Test_userApi_login(t *testing.T) {
	e := newEnv(t)
	testutil.CreateUser(t, e.usrRepo, "Jane", "janeadmin", "jane@school.test", testPassword, []string{user.RoleAdminOwner}, true)
	testutil.CreateUser(t, e.usrRepo, "Gone", "goneadmin", "gone@school.test", testPassword, []string{user.RoleAdminOwner}, false)

	tests := []struct {
		name        string
		body        interface{}
		wantCode    int
		wantMessage string
		wantFields  map[string]string
	}{
		{
			name:        "missing credentials",
			body:        map[string]string{},
			wantCode:    http.StatusBadRequest,
			wantMessage: "invalid input",
			wantFields:  map[string]string{"username": "this field is required", "password": "this field is required"},
		},
		{
			name:        "wrong password",
			body:        user.LoginCredentials{Username: "janeadmin", Password: "nope"},
			wantCode:    http.StatusBadRequest,
			wantMessage: "authentication failed",
		},
		{
			name:        "unknown user",
			body:        user.LoginCredentials{Username: "nobody", Password: testPassword},
			wantCode:    http.StatusBadRequest,
			wantMessage: "authentication failed",
		},
		{
			name:        "inactive user",
			body:        user.LoginCredentials{Username: "goneadmin", Password: testPassword},
			wantCode:    http.StatusBadRequest,
			wantMessage: "authentication failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := e.do(t, http.MethodPost, "/v1/users/login", "", tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMessage, env.Message)
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, fieldMap(t, env))
			}
		})
	}

	t.Run("by username or email", func(t *testing.T) {
		for _, uname := range []string{"janeadmin", " Jane@School.test "} {
			var res struct {
				Token string         `json:"token"`
				User  setup.UserInfo `json:"user"`
			}
			code, _ := e.do(t, http.MethodPost, "/v1/users/login", "", user.LoginCredentials{Username: uname, Password: testPassword}, &res)
			assert.Equal(t, http.StatusOK, code)
			assert.NotEmpty(t, res.Token)
			assert.Equal(t, setup.UserInfo{Name: "Jane", Email: "jane@school.test", SchoolName: "Jane's School"}, res.User)

			// the token opens the protected endpoints
			code, _ = e.do(t, http.MethodGet, "/v1/setup-status", res.Token, nil)
			assert.Equal(t, http.StatusOK, code)
		}
	})
}

func Test_home(t *testing.T) {
	e := newEnv(t)
	code, env := e.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Welcome to Masomo API!", env.Message)
}
