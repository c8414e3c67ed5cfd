package setup

// Destination is a screen outside of the wizard.
type Destination string

const (
	DestNone      Destination = ""
	DestSignIn    Destination = "signin"
	DestDashboard Destination = "dashboard"
)

// Notifier shows non-blocking messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string, fields ...map[string]string)
}

// Navigator leaves the wizard.
type Navigator interface {
	Navigate(dest Destination)
}
