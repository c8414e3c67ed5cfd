package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
)

type (
	userApi struct {
		conf       *core.Config
		svc        *user.Service
		validate   *validator.Validate
		translator ut.Translator
	}

	loginResult struct {
		Token string         `json:"token"`
		User  setup.UserInfo `json:"user"`
	}
)

func registerUserAPI(
	g *echo.Group,
	conf *core.Config,
	svc *user.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := userApi{
		conf:       conf,
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ug := g.Group("/users")
	ug.POST("/login", api.login)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var creds user.LoginCredentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to LoginCredentials")
	}
	if err := creds.Validate(api.validate, api.translator); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), creds)
	if err != nil {
		if err == user.ErrInvalidCredentials {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating user")
	}

	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return respond(ctx, http.StatusOK, "", loginResult{
		Token: token,
		User:  setup.UserInfo{Name: usr.Name, Email: usr.Email, SchoolName: usr.SchoolName},
	})
}
