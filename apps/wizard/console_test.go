package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
)

func TestConsoleNotifier(t *testing.T) {
	var out bytes.Buffer
	n := consoleNotifier{c: newConsole(&out)}

	n.Info("Campus saved")
	n.Warn("Could not check the setup status")
	n.Error("Please correct the highlighted fields.", map[string]string{"phoneNumber": "enter a valid phone number", "name": "this field is required"})

	assert.Equal(t, "✔ Campus saved\n"+
		"! Could not check the setup status\n"+
		"✘ Please correct the highlighted fields.\n"+
		"  name: this field is required\n"+
		"  phoneNumber: enter a valid phone number\n", out.String())
}

func TestConsoleNavigator(t *testing.T) {
	var out bytes.Buffer
	n := consoleNavigator{c: newConsole(&out), conf: core.APIConfig{DashboardURL: "http://school.test/dashboard", SignInURL: "http://school.test/signin"}}

	n.Navigate(setup.DestNone)
	assert.Empty(t, out.String())

	n.Navigate(setup.DestDashboard)
	assert.Equal(t, "→ Continue to your dashboard: http://school.test/dashboard\n", out.String())
}
