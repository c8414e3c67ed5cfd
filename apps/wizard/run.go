package main

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core/setup"
)

// backCommand typed instead of a class or arm name returns to the previous step.
const backCommand = ":back"

// run resolves the wizard once, then prompts for each remaining step until the setup is complete.
// It stops quietly when the input ends.
func (a *app) run(ctx context.Context) error {
	r, res, err := a.resolve(ctx)
	if err != nil {
		return err
	}
	if res.Redirect == setup.DestDashboard {
		return nil
	}

	deps := a.viewDeps(r)
	for {
		p := r.Current()
		a.out.Println()
		a.out.Printf("%s %s\n", a.out.Bold("Step:"), p.Stage)

		switch p.Stage {
		case setup.StageCampus:
			err = a.campusStep(ctx, setup.NewCampusView(deps))
		case setup.StageClass:
			err = a.classStep(ctx, setup.NewClassView(deps, p.CampusID, p.CampusName))
		case setup.StageArm:
			err = a.armStep(ctx, setup.NewArmView(deps, p.ClassID, p.ClassName))
		case setup.StageComplete:
			a.out.Println("Your school is ready!")
			if _, err = a.prompt("Press enter to open your dashboard..."); err != nil {
				return quitOnEOF(err)
			}
			return setup.NewCompletionView(r).Proceed(ctx)
		}

		switch {
		case errors.Cause(err) == io.EOF:
			return nil
		case err != nil:
			// the step is shown again
			a.logger.Debug("setup step failed", err, r.Current())
		}
	}
}

func quitOnEOF(err error) error {
	if errors.Cause(err) == io.EOF {
		return nil
	}
	return err
}

func (a *app) campusStep(ctx context.Context, view *setup.CampusView) error {
	var (
		form setup.NewCampus
		err  error
	)
	fields := []struct {
		label string
		dst   *string
	}{
		{"Campus name: ", &form.Name},
		{"Address: ", &form.Address},
		{"City: ", &form.City},
		{"State: ", &form.State},
		{"Country: ", &form.Country},
		{"Phone number: ", &form.PhoneNumber},
	}
	for _, fld := range fields {
		if *fld.dst, err = a.prompt(fld.label); err != nil {
			return err
		}
	}
	capacity, err := a.prompt("Capacity: ")
	if err != nil {
		return err
	}
	// an unparsable capacity is left at 0 and reported by the form validation
	form.Capacity, _ = strconv.Atoi(strings.TrimSpace(capacity))
	if form.Description, err = a.prompt("Description (optional): "); err != nil {
		return err
	}
	if form.Email, err = a.prompt("Email (optional): "); err != nil {
		return err
	}
	return view.Submit(ctx, form)
}

func (a *app) classStep(ctx context.Context, view *setup.ClassView) error {
	name, err := a.promptf("Class name for %s (%s to change the campus): ", view.CampusName, backCommand)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == backCommand {
		return view.Back(ctx)
	}
	form := setup.NewClass{Name: name}
	if form.Description, err = a.prompt("Description (optional): "); err != nil {
		return err
	}
	return view.Submit(ctx, form)
}

func (a *app) armStep(ctx context.Context, view *setup.ArmView) error {
	name, err := a.promptf("Arm name for %s (%s to change the class): ", view.ClassName, backCommand)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == backCommand {
		return view.Back(ctx)
	}
	form := setup.NewArm{ArmName: name}
	if form.ArmDescription, err = a.prompt("Description (optional): "); err != nil {
		return err
	}
	return view.Submit(ctx, form)
}
