package main

import (
	"fmt"
	"log"

	"github.com/gofiber/contrib/swagger"

	"github.com/ManuelReschke/WalletFox/app/repository"
	"github.com/ManuelReschke/WalletFox/internal/pkg/cache"
	"github.com/ManuelReschke/WalletFox/internal/pkg/constants"
	"github.com/ManuelReschke/WalletFox/internal/pkg/database"
	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
	"github.com/ManuelReschke/WalletFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/WalletFox/internal/pkg/router"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	solana.Setup()
	repository.InitializeFactory(database.GetDB())

	// background confirmation workers + counter flush
	jobqueue.GetManager().Start()

	engine := html.New("./"+constants.ViewsPath, ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(recover.New(), logger.New())
	app.Get(constants.MetricsRoute, monitor.New())
	app.Static(constants.PublicRoute, "./"+constants.AssetsPath)

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsAPIRoute,
		FilePath: "./" + constants.OpenAPISpecPath,
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
