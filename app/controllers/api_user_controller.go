package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/usercontext"
)

// HandleGetAccount returns account information for the authenticated user
// (API key or session).
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "User not found")
		}
		return errInternal(c, "Failed to load user")
	}

	active, err := repos.Package.GetActiveByUserID(user.ID)
	if err != nil {
		return errInternal(c, "Failed to load packages")
	}

	packages := make([]fiber.Map, 0, len(active))
	for i := range active {
		packages = append(packages, packageResponse(&active[i], prefersRTL(c)))
	}

	return c.JSON(fiber.Map{
		"id":                   user.ID,
		"name":                 user.Name,
		"email":                user.Email,
		"phone":                user.Phone,
		"status":               user.Status,
		"is_admin":             user.IsAdmin(),
		"prefer_rtl":           user.PreferRTL,
		"has_api_key":          user.HasValidAPIKey(),
		"api_key_last_used_at": formatTimePtr(user.APIKeyLastUsedAt),
		"last_login_at":        formatTimePtr(user.LastLoginAt),
		"created_at":           user.CreatedAt.UTC().Format(time.RFC3339),
		"active_packages":      packages,
	})
}

// HandleAdminListUsers returns users with aggregated package, payment and
// product counts plus succeeded revenue.
func HandleAdminListUsers(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)

	repos := repository.GetGlobalRepositories()

	if query := c.Query("q"); query != "" {
		users, err := repos.User.Search(query)
		if err != nil {
			return errInternal(c, "Search failed")
		}
		return c.JSON(fiber.Map{"users": users, "total": len(users)})
	}

	rows, err := repos.User.GetWithStats(offset, limit)
	if err != nil {
		return errInternal(c, "Failed to load users")
	}
	total, err := repos.User.Count()
	if err != nil {
		return errInternal(c, "Failed to count users")
	}

	users := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		users = append(users, fiber.Map{
			"id":             row.User.ID,
			"name":           row.User.Name,
			"email":          row.User.Email,
			"phone":          row.User.Phone,
			"role":           row.User.Role,
			"status":         row.User.Status,
			"package_count":  row.PackageCount,
			"payment_count":  row.PaymentCount,
			"product_count":  row.ProductCount,
			"revenue_amount": row.RevenueAmount,
			"last_login_at":  formatTimePtr(row.User.LastLoginAt),
		})
	}

	return c.JSON(fiber.Map{"users": users, "total": total, "offset": offset, "limit": limit})
}

// HandleAdminGetUser returns one user with their packages and payments.
func HandleAdminGetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid user id")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "User not found")
		}
		return errInternal(c, "Failed to load user")
	}

	packages, err := repos.Package.GetByUserID(id, 0, defaultPageSize)
	if err != nil {
		return errInternal(c, "Failed to load packages")
	}
	payments, err := repos.Payment.GetByUserID(id, 0, defaultPageSize)
	if err != nil {
		return errInternal(c, "Failed to load payments")
	}

	rtl := prefersRTL(c)
	pkgOut := make([]fiber.Map, 0, len(packages))
	for i := range packages {
		pkgOut = append(pkgOut, packageResponse(&packages[i], rtl))
	}
	payOut := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		payOut = append(payOut, paymentResponse(&payments[i]))
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"packages": pkgOut,
		"payments": payOut,
	})
}

type adminUpdateUserRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	Status    *string `json:"status"`
	PreferRTL *bool   `json:"prefer_rtl"`
}

// HandleAdminUpdateUser updates mutable user fields.
func HandleAdminUpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid user id")
	}

	var req adminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "User not found")
		}
		return errInternal(c, "Failed to load user")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.PreferRTL != nil {
		user.PreferRTL = *req.PreferRTL
	}

	if err := user.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}
	if err := repo.Update(user); err != nil {
		log.Printf("failed to update user %d: %v", user.ID, err)
		return errInternal(c, "Failed to update user")
	}

	return c.JSON(user)
}

// HandleAdminDeleteUser soft-deletes a user. Admins cannot delete themselves.
func HandleAdminDeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid user id")
	}

	userCtx := usercontext.GetUserContext(c)
	if userCtx.UserID == id {
		return errBadRequest(c, "You cannot delete your own account")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "User not found")
		}
		return errInternal(c, "Failed to load user")
	}

	if err := repo.Delete(id); err != nil {
		return errInternal(c, "Failed to delete user")
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}
