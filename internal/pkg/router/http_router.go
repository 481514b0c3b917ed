package router

import (
	"github.com/ManuelReschke/WalletFox/internal/pkg/middleware"
	"github.com/ManuelReschke/WalletFox/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply WalletContext middleware globally as first middleware
	app.Use(middleware.WalletContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
