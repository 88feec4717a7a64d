package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumapanel/lumapanel/app/controllers"
	"github.com/lumapanel/lumapanel/internal/pkg/middleware"
	"github.com/lumapanel/lumapanel/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerUserRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Post("/auth/register", controllers.HandleRegister)
	app.Post("/auth/login", controllers.HandleLogin)
	app.Post("/auth/logout", controllers.HandleLogout)

	app.Get("/plans", controllers.HandleListPlans)
	app.Get("/plans/:id", controllers.HandleGetPlan)

	// Gateway callback; the reference code is the shared secret.
	app.Post("/payments/:refCode/finalize", controllers.HandleFinalizePayment)
}

func (h HttpRouter) registerUserRoutes(app *fiber.App) {
	user := app.Group("/user", middleware.RequireAuth)

	user.Get("/account", controllers.HandleGetAccount)
	user.Post("/api-key", controllers.HandleIssueAPIKey)
	user.Delete("/api-key", controllers.HandleRevokeAPIKey)

	user.Get("/packages", controllers.HandleListMyPackages)
	user.Get("/packages/:id/usage", controllers.HandleGetPackageUsage)

	user.Post("/coupons/validate", controllers.HandleValidateCoupon)

	user.Post("/payments", controllers.HandleCreatePayment)
	user.Get("/payments", controllers.HandleListMyPayments)

	user.Get("/notifications", controllers.HandleListMyNotifications)
	user.Post("/notifications/:id/read", controllers.HandleMarkNotificationRead)

	user.Post("/products", controllers.HandleCreateProduct)
	user.Get("/products", controllers.HandleListMyProducts)
	user.Get("/products/:uuid", controllers.HandleGetProduct)
	user.Patch("/products/:uuid", controllers.HandleUpdateProduct)
	user.Put("/products/:uuid/entries", controllers.HandleReplaceProductEntries)
	user.Delete("/products/:uuid", controllers.HandleDeleteProduct)
	user.Post("/products/:uuid/images", controllers.HandleUploadProductImage)
}

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.RequireAdmin)

	admin.Get("/stats", controllers.HandleAdminDashboardStats)

	admin.Get("/users", controllers.HandleAdminListUsers)
	admin.Get("/users/:id", controllers.HandleAdminGetUser)
	admin.Patch("/users/:id", controllers.HandleAdminUpdateUser)
	admin.Delete("/users/:id", controllers.HandleAdminDeleteUser)

	admin.Post("/plans", controllers.HandleAdminCreatePlan)
	admin.Patch("/plans/:id", controllers.HandleAdminUpdatePlan)
	admin.Delete("/plans/:id", controllers.HandleAdminDeletePlan)

	admin.Post("/packages", controllers.HandleAdminIssuePackage)
	admin.Get("/packages", controllers.HandleAdminListPackages)
	admin.Post("/packages/:id/extend", controllers.HandleAdminExtendPackage)
	admin.Post("/packages/:id/limits", controllers.HandleAdminUpdatePackageLimits)
	admin.Post("/packages/:id/suspend", controllers.HandleAdminSuspendPackage)
	admin.Post("/packages/:id/resume", controllers.HandleAdminResumePackage)

	admin.Post("/coupons", controllers.HandleAdminCreateCoupon)
	admin.Get("/coupons", controllers.HandleAdminListCoupons)
	admin.Patch("/coupons/:id", controllers.HandleAdminUpdateCoupon)
	admin.Delete("/coupons/:id", controllers.HandleAdminDeleteCoupon)

	admin.Get("/payments", controllers.HandleAdminListPayments)

	admin.Post("/notifications", controllers.HandleAdminCreateNotification)
	admin.Get("/notifications", controllers.HandleAdminListNotifications)
	admin.Get("/notifications/stats", controllers.HandleAdminNotificationStats)
}
