package router

import (
	"github.com/gofiber/fiber/v2"
)

// Router is one installable route bundle.
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App) {
	// Install HttpRouter first to initialize the session store and the
	// global WalletContext middleware. Then register API routes which
	// depend on that middleware (e.g., the wallet guard).
	setup(app, NewHttpRouter(), NewApiRouter())
}
func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
