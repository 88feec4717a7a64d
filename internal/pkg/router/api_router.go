package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/lumapanel/lumapanel/app/controllers"
	"github.com/lumapanel/lumapanel/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "LumaPanel API",
		})
	})

	// API v1 routes are authenticated via user API keys.
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())

	v1.Get("/account", controllers.HandleGetAccount)
	v1.Get("/packages", controllers.HandleListMyPackages)
	v1.Get("/packages/:id/usage", controllers.HandleGetPackageUsage)
	v1.Post("/packages/:id/consume", controllers.HandleConsumeRequest)
	v1.Get("/products", controllers.HandleListMyProducts)
	v1.Get("/products/:uuid", controllers.HandleGetProduct)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
