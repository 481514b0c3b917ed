package router

import (
	"strings"
	"time"

	"github.com/ManuelReschke/WalletFox/app/controllers"
	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
	"github.com/ManuelReschke/WalletFox/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", controllers.HandleStart)

	// Wallet connection
	group.Get("/wallet", controllers.HandleWalletPage)
	group.Post("/wallet/connect", controllers.HandleWalletConnect)
	group.Get("/wallet/balance", middleware.RequireWallet, controllers.HandleWalletBalance)

	// Gasless transfer
	group.Get("/transfer", middleware.RequireWallet, controllers.HandleTransferPage)
	group.Post("/transfer", middleware.RequireWallet, controllers.HandleTransferSubmit)

	// Subscription mandates
	group.Get("/subscription", middleware.RequireWallet, controllers.HandleSubscriptionPage)
	group.Post("/subscription/:plan/subscribe", middleware.RequireWallet, controllers.HandleSubscriptionSubscribe)
	group.Post("/subscription/:plan/execute", middleware.RequireWallet, controllers.HandleSubscriptionExecute)
}
