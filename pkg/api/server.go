package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/api/routes"
)

const requestIDLocal = "requestid"

func NewApp(services Services, config Config) *fiber.App {
	webApp := fiber.New(fiber.Config{
		AppName:      "Road Safety Guard",
		ErrorHandler: ErrorHandler,
	})

	webApp.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDLocal,
	}))
	webApp.Use(NewLogger())
	webApp.Use(recover.New())

	corsConfig := cors.Config{}
	if len(config.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = strings.Join(config.AllowedOrigins, ",")
		corsConfig.AllowCredentials = true
	}
	webApp.Use(cors.New(corsConfig))

	webApp.Get("/", routes.Root)

	group := webApp.Group("/api")

	group.Get("version", routes.APIVersion)

	requireToken := EnsureValidToken(services.Auth)

	routes.AuthRouter(group.Group("/auth"), services.Auth, requireToken)
	routes.AccidentsRouter(group.Group("/accidents", requireToken), services.Reports)
	routes.AdminRouter(group.Group("/admin", requireToken), services.Admin)
	routes.AnalyticsRouter(group.Group("/analytics", requireToken), services.Analytics)

	return webApp
}

func SetupServer(listen string, services Services, config Config) error {
	return NewApp(services, config).Listen(listen)
}
