package router

import (
	"github.com/gofiber/fiber/v2"
)

// Router installs one slice of the route surface.
type Router interface {
	InstallRouter(app *fiber.App)
}

// InstallRouter wires up every route group. The HttpRouter goes first: it
// initializes the session store and the global user-context middleware the
// API routes depend on.
func InstallRouter(app *fiber.App) {
	setup(app, NewHttpRouter(), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
