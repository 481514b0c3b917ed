package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/ManuelReschke/WalletFox/app/repository"
	"github.com/ManuelReschke/WalletFox/internal/pkg/cache"
	"github.com/ManuelReschke/WalletFox/internal/pkg/constants"
	"github.com/ManuelReschke/WalletFox/internal/pkg/database"
	"github.com/ManuelReschke/WalletFox/internal/pkg/env"
	"github.com/ManuelReschke/WalletFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/WalletFox/internal/pkg/router"
	"github.com/ManuelReschke/WalletFox/internal/pkg/solana"
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

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/walletfox to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + constants.ViewsPath); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views: html.New(basePath+constants.ViewsPath, ".html"),
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + constants.FaviconPath,
		URL:          constants.FaviconRoute,
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get(constants.MetricsRoute, basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// static files
	app.Static(constants.PublicRoute, basePath+constants.AssetsPath, fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsAPIRoute,
		FilePath: basePath + constants.OpenAPISpecPath,
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}
