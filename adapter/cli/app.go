package cli

import (
	"github.com/bja1701/life-os/internal/app"
	"github.com/google/uuid"
)

// App is the subset of the container every CLI command reaches through.
type App struct {
	Container     *app.Container
	CurrentUserID uuid.UUID
}

var current *App

// SetApp sets the global CLI application instance. Called once from
// main after the container is built.
func SetApp(a *App) {
	current = a
}

// GetApp returns the global CLI application instance, or nil if it was
// never set (e.g. a command run without a live container, in which case
// callers should print guidance rather than panic).
func GetApp() *App {
	return current
}
