package main

import (
	"context"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errNotSignedIn   = errors.New("not signed in")
	errSetupComplete = errors.New("the school setup is already complete")
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "wizard",
		Short:         "Set up your school: campus, class and arm",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newCampusCmd(a),
		newClassCmd(a),
		newArmCmd(a),
		newFinishCmd(a),
		newRunCmd(a),
	)
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var uname string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the school admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.login(cmd.Context(), uname)
		},
	}
	cmd.Flags().StringVarP(&uname, "username", "u", "", "Username or email (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session().SignOut(cmd.Context()); err != nil {
				return errors.Wrap(err, "signing out")
			}
			a.out.Println("Signed out.")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current setup step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, res, err := a.resolve(cmd.Context())
			if err != nil {
				return err
			}
			if res.Redirect == setup.DestDashboard {
				a.out.Println("Your school setup is complete.")
				return nil
			}
			a.printProgress(res.Progress)
			return nil
		},
	}
}

func newCampusCmd(a *app) *cobra.Command {
	var form setup.NewCampus
	cmd := &cobra.Command{
		Use:   "campus",
		Short: "Create the first campus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, res, err := a.resolve(ctx)
			if err != nil {
				return err
			}
			if err = expect(res, setup.StageCampus); err != nil {
				return err
			}
			if err = setup.NewCampusView(a.viewDeps(r)).Submit(ctx, form); err != nil {
				return err
			}
			a.printProgress(r.Current())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "Campus name")
	f.StringVar(&form.Address, "address", "", "Street address")
	f.StringVar(&form.City, "city", "", "City")
	f.StringVar(&form.State, "state", "", "State or region")
	f.StringVar(&form.Country, "country", "", "Country")
	f.StringVar(&form.PhoneNumber, "phone", "", "Phone number")
	f.IntVar(&form.Capacity, "capacity", 0, "Number of students the campus can hold")
	f.StringVar(&form.Description, "description", "", "Description (optional)")
	f.StringVar(&form.Email, "email", "", "Contact email (optional)")
	return cmd
}

func newClassCmd(a *app) *cobra.Command {
	var form setup.NewClass
	cmd := &cobra.Command{
		Use:   "class",
		Short: "Add a class to the campus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, res, err := a.resolve(ctx)
			if err != nil {
				return err
			}
			if err = expect(res, setup.StageClass); err != nil {
				return err
			}
			p := res.Progress
			if err = setup.NewClassView(a.viewDeps(r), p.CampusID, p.CampusName).Submit(ctx, form); err != nil {
				return err
			}
			a.printProgress(r.Current())
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "Class name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description (optional)")
	return cmd
}

func newArmCmd(a *app) *cobra.Command {
	var form setup.NewArm
	cmd := &cobra.Command{
		Use:   "arm",
		Short: "Add an arm (section) to the class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, res, err := a.resolve(ctx)
			if err != nil {
				return err
			}
			if err = expect(res, setup.StageArm); err != nil {
				return err
			}
			p := res.Progress
			if err = setup.NewArmView(a.viewDeps(r), p.ClassID, p.ClassName).Submit(ctx, form); err != nil {
				return err
			}
			a.printProgress(r.Current())
			return nil
		},
	}
	cmd.Flags().StringVar(&form.ArmName, "name", "", "Arm name")
	cmd.Flags().StringVar(&form.ArmDescription, "description", "", "Description (optional)")
	return cmd
}

func newFinishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "finish",
		Short: "Leave the completed setup for the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, res, err := a.resolve(ctx)
			if err != nil {
				return err
			}
			if res.Redirect == setup.DestDashboard {
				return nil
			}
			if res.Stage != setup.StageComplete {
				return errors.Wrapf(setup.ErrWrongStage, "the current step is %s", res.Stage)
			}
			return setup.NewCompletionView(r).Proceed(ctx)
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Walk through the remaining setup steps interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context())
		},
	}
}

func (a *app) login(ctx context.Context, uname string) error {
	var err error
	if uname == "" {
		if uname, err = a.prompt("Username or email: "); err != nil {
			return errors.Wrap(err, "reading username")
		}
	}
	a.out.Print("Password: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	a.out.Println()
	if err != nil {
		return errors.Wrap(err, "reading password")
	}

	res, err := a.client.Login(ctx, user.LoginCredentials{Username: uname, Password: string(pwd)})
	if err != nil {
		if sErr, ok := errors.Cause(err).(*setup.ServerError); ok {
			msg := sErr.Message
			if msg == "" {
				msg = setup.GenericFailureMessage
			}
			a.notifier().Error(msg, sErr.Fields)
		}
		return errors.Wrap(err, "signing in")
	}
	if err = a.session().SignIn(ctx, res.Token, res.User); err != nil {
		return err
	}
	a.notifier().Info("Signed in as " + res.User.Name)

	_, resolution, err := a.resolve(ctx)
	if err != nil {
		return err
	}
	if resolution.Redirect != setup.DestDashboard {
		a.printProgress(resolution.Progress)
	}
	return nil
}
