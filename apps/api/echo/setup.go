package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core/school"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
)

type setupApi struct {
	usrSvc     *user.Service
	svc        *school.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerSetupAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	usrSvc *user.Service,
	svc *school.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := setupApi{
		usrSvc:     usrSvc,
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("", jwt, adminMiddleware())
	ag.GET("/setup-status", api.status)

	sg := ag.Group("/setup")
	sg.GET("/progress", api.progress)
	sg.POST("/campus", api.createCampus)
	sg.POST("/class", api.createClass)
	sg.POST("/arm", api.createArm)
}

// Handlers

func (api *setupApi) status(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	complete, err := api.svc.Status(ctx.Request().Context(), claims.TenantID)
	if err != nil {
		return errors.Wrap(err, "getting setup status")
	}
	return respond(ctx, http.StatusOK, "", complete)
}

func (api *setupApi) progress(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	report, err := api.svc.Progress(ctx.Request().Context(), claims.TenantID)
	if err != nil {
		return errors.Wrap(err, "getting setup progress")
	}
	return respond(ctx, http.StatusOK, "", report)
}

func (api *setupApi) createCampus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data setup.NewCampus
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCampus")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}
	ent, err := api.svc.CreateCampus(ctx.Request().Context(), claims.TenantID, data)
	if err != nil {
		return errors.Wrap(err, "creating campus")
	}
	return respond(ctx, http.StatusCreated, "Campus created", ent)
}

func (api *setupApi) createClass(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data setup.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}
	ent, err := api.svc.CreateClass(ctx.Request().Context(), claims.TenantID, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return respond(ctx, http.StatusCreated, "Class created", ent)
}

func (api *setupApi) createArm(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	var data setup.NewArm
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewArm")
	}
	if err = data.Validate(api.validate, api.translator); err != nil {
		return err
	}
	ent, err := api.svc.CreateArm(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating arm")
	}
	return respond(ctx, http.StatusCreated, "Arm created", ent)
}
