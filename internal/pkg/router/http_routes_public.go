package router

import (
	"github.com/ManuelReschke/WalletFox/app/controllers"
	"github.com/ManuelReschke/WalletFox/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Tutorials
	app.Get("/tutorials", controllers.HandleTutorialIndex)
	app.Get("/tutorials/:slug", controllers.HandleTutorialShow)

	// Portal ceremony callbacks. The connect callback must stay reachable
	// without a wallet; the other two act on the connected session.
	app.Get("/wallet/callback", controllers.HandleWalletCallback)
	app.Get("/transfer/callback", middleware.RequireWallet, controllers.HandleTransferCallback)
	app.Get("/subscription/callback", middleware.RequireWallet, controllers.HandleSubscriptionCallback)
}
