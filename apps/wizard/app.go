package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/services/apiclient"
)

// app holds what every wizard command needs. The store and the client are opened before the command runs.
type app struct {
	conf       *core.Config
	logger     core.Logger
	store      setup.ProgressStore
	closer     io.Closer
	client     *apiclient.Client
	validate   *validator.Validate
	translator ut.Translator

	in  *bufio.Reader
	out *color.Color
}

func newApp(conf *core.Config, logger core.Logger, in io.Reader, out io.Writer) *app {
	translator := core.NewTranslator()
	return &app{
		conf:       conf,
		logger:     logger,
		validate:   core.NewValidator(translator),
		translator: translator,
		in:         bufio.NewReader(in),
		out:        newConsole(out),
	}
}

// open connects the progress store and the API client unless already done.
func (a *app) open(ctx context.Context) error {
	if a.store == nil {
		store, closer, err := openStore(ctx, a.conf)
		if err != nil {
			return err
		}
		a.store, a.closer = store, closer
	}
	if a.client == nil {
		a.client = apiclient.New(a.conf.API, a.session())
	}
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.logger.Warn("closing progress store", err)
		}
		a.closer = nil
	}
}

func (a *app) session() setup.StoreSession {
	return setup.StoreSession{Store: a.store}
}

func (a *app) notifier() consoleNotifier {
	return consoleNotifier{c: a.out}
}

func (a *app) newResolver() *setup.Resolver {
	return setup.NewResolver(setup.Deps{
		Store:              a.store,
		Remote:             a.client,
		Session:            a.session(),
		Notifier:           a.notifier(),
		Navigator:          consoleNavigator{c: a.out, conf: a.conf.API},
		Logger:             a.logger,
		FallbackCampusName: a.conf.Setup.FallbackCampusName,
		FallbackClassName:  a.conf.Setup.FallbackClassName,
	})
}

func (a *app) viewDeps(r *setup.Resolver) setup.ViewDeps {
	return setup.ViewDeps{
		Resolver:   r,
		Remote:     a.client,
		Notifier:   a.notifier(),
		Validate:   a.validate,
		Translator: a.translator,
	}
}

// resolve runs the on-load resolution and returns the resolver holding its result.
func (a *app) resolve(ctx context.Context) (*setup.Resolver, setup.Resolution, error) {
	r := a.newResolver()
	res, err := r.ResolveOnLoad(ctx)
	if err != nil {
		return nil, res, errNotSignedIn
	}
	return r, res, nil
}

// expect fails unless the resolved wizard is at stage.
func expect(res setup.Resolution, stage setup.Stage) error {
	if res.Redirect == setup.DestDashboard {
		return errSetupComplete
	}
	if res.Stage != stage {
		return errors.Wrapf(setup.ErrWrongStage, "the current step is %s", res.Stage)
	}
	return nil
}

// printProgress summarizes p and the next thing to do.
func (a *app) printProgress(p setup.Progress) {
	c := a.out
	c.Printf("%s %s\n", c.Bold("Setup step:"), p.Stage)
	if p.CampusID != "" {
		c.Printf("  Campus: %s (%s)\n", p.CampusName, p.CampusID)
	}
	if p.ClassID != "" {
		c.Printf("  Class:  %s (%s)\n", p.ClassName, p.ClassID)
	}
	switch p.Stage {
	case setup.StageCampus:
		c.Println("Next: create your first campus with `wizard campus`.")
	case setup.StageClass:
		c.Printf("Next: add a class to %s with `wizard class`.\n", p.CampusName)
	case setup.StageArm:
		c.Printf("Next: add an arm to %s with `wizard arm`.\n", p.ClassName)
	case setup.StageComplete:
		c.Println("Next: run `wizard finish` to open your dashboard.")
	}
}

// prompt reads one line; io.EOF is returned once the input is exhausted.
func (a *app) prompt(label string) (string, error) {
	a.out.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		if err == io.EOF {
			a.out.Println()
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) promptf(format string, args ...interface{}) (string, error) {
	return a.prompt(fmt.Sprintf(format, args...))
}
