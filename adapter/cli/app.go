package cli

import (
	"github.com/postpulse/postpulse/internal/automations/application"
	"github.com/postpulse/postpulse/internal/automations/engine"
)

// App holds the CLI application dependencies.
type App struct {
	AutomationService *application.Service
	Engine            *engine.Engine
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
