package main

import (
	"io"
	"sort"

	"github.com/labstack/gommon/color"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
)

// consoleNotifier prints notifications; colors are only used on a terminal.
type consoleNotifier struct {
	c *color.Color
}

var _ setup.Notifier = (*consoleNotifier)(nil)

func newConsole(out io.Writer) *color.Color {
	c := color.New()
	c.SetOutput(out)
	return c
}

func (n consoleNotifier) Info(msg string) {
	n.c.Println(n.c.Green("✔ "+msg))
}

func (n consoleNotifier) Warn(msg string) {
	n.c.Println(n.c.Yellow("! " + msg))
}

func (n consoleNotifier) Error(msg string, fields ...map[string]string) {
	n.c.Println(n.c.Red("✘ "+msg, color.B))
	for _, flds := range fields {
		names := make([]string, 0, len(flds))
		for name := range flds {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			n.c.Printf("  %s: %s\n", n.c.Bold(name), flds[name])
		}
	}
}

// consoleNavigator prints where the admin goes next.
type consoleNavigator struct {
	c    *color.Color
	conf core.APIConfig
}

var _ setup.Navigator = (*consoleNavigator)(nil)

func (n consoleNavigator) Navigate(dest setup.Destination) {
	switch dest {
	case setup.DestDashboard:
		n.c.Printf("→ Continue to your dashboard: %s\n", n.c.Cyan(n.conf.DashboardURL, color.U))
	case setup.DestSignIn:
		n.c.Printf("→ Please sign in first: %s (or run `wizard login`)\n", n.c.Cyan(n.conf.SignInURL, color.U))
	}
}
