package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/quota"
	"github.com/lumapanel/lumapanel/internal/pkg/usercontext"
)

const (
	maxExtendDays  = 365
	maxAddRequests = 1000000
)

type issuePackageRequest struct {
	UserID   uint   `json:"user_id"`
	PlanID   uint   `json:"plan_id"`
	Platform string `json:"platform"`
}

// HandleAdminIssuePackage issues a package from a plan to a user. The plan's
// request limit is copied onto the package at issue time; later plan edits
// never touch already issued packages.
func HandleAdminIssuePackage(c *fiber.Ctx) error {
	var req issuePackageRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}
	if req.UserID == 0 || req.PlanID == 0 {
		return errBadRequest(c, "user_id and plan_id are required")
	}

	repos := repository.GetGlobalRepositories()

	if _, err := repos.User.GetByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "User not found")
		}
		return errInternal(c, "Failed to load user")
	}

	plan, err := repos.Plan.GetByID(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Plan not found")
		}
		return errInternal(c, "Failed to load plan")
	}

	pkg := models.NewPackageFromPlan(req.UserID, plan, req.Platform, time.Now())
	if err := repos.Package.Create(pkg); err != nil {
		return errInternal(c, "Failed to issue package")
	}

	return c.Status(fiber.StatusCreated).JSON(packageResponse(pkg, prefersRTL(c)))
}

// HandleAdminListPackages lists packages, optionally filtered by status.
func HandleAdminListPackages(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetPackageRepository()

	var (
		packages []models.Package
		err      error
	)
	if status := c.Query("status"); status != "" {
		packages, err = repo.ListByStatus(status, offset, limit)
	} else {
		packages, err = repo.List(offset, limit)
	}
	if err != nil {
		return errInternal(c, "Failed to load packages")
	}

	total, err := repo.Count()
	if err != nil {
		return errInternal(c, "Failed to count packages")
	}

	rtl := prefersRTL(c)
	out := make([]fiber.Map, 0, len(packages))
	for i := range packages {
		out = append(out, packageResponse(&packages[i], rtl))
	}

	return c.JSON(fiber.Map{"packages": out, "total": total, "offset": offset, "limit": limit})
}

// HandleListMyPackages lists the authenticated user's packages.
func HandleListMyPackages(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetPackageRepository()
	packages, err := repo.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return errInternal(c, "Failed to load packages")
	}

	out := make([]fiber.Map, 0, len(packages))
	for i := range packages {
		out = append(out, packageResponse(&packages[i], prefersRTL(c)))
	}

	return c.JSON(fiber.Map{"packages": out})
}

// HandleGetPackageUsage returns the usage view of one package. Owners and
// admins only.
func HandleGetPackageUsage(c *fiber.Ctx) error {
	pkg, err := loadOwnedPackage(c)
	if err != nil {
		return err
	}
	return c.JSON(packageResponse(pkg, prefersRTL(c)))
}

type extendPackageRequest struct {
	Days int `json:"days"`
}

// HandleAdminExtendPackage pushes the package end date out by 1..365 days.
func HandleAdminExtendPackage(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid package id")
	}

	var req extendPackageRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}
	if req.Days < 1 || req.Days > maxExtendDays {
		return errBadRequest(c, "days must be between 1 and 365")
	}

	repo := repository.GetGlobalFactory().GetPackageRepository()
	pkg, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Package not found")
		}
		return errInternal(c, "Failed to load package")
	}

	pkg.EndDate = pkg.EndDate.AddDate(0, 0, req.Days)
	// Extending an expired package past now brings it back to active.
	if pkg.Status == models.PackageStatusExpired && !pkg.IsExpired(time.Now()) {
		pkg.Status = models.PackageStatusActive
	}
	if err := repo.Update(pkg); err != nil {
		return errInternal(c, "Failed to extend package")
	}

	return c.JSON(packageResponse(pkg, prefersRTL(c)))
}

type updateLimitsRequest struct {
	AddRequests int `json:"add_requests"`
	AddDays     int `json:"add_days"`
}

// HandleAdminUpdatePackageLimits tops up a package with extra requests
// and/or extra days. At least one of the two must be given. Top-ups on an
// unlimited package leave the limit untouched.
func HandleAdminUpdatePackageLimits(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid package id")
	}

	var req updateLimitsRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}
	if req.AddRequests == 0 && req.AddDays == 0 {
		return errBadRequest(c, "at least one of add_requests or add_days is required")
	}
	if req.AddRequests != 0 && (req.AddRequests < 1 || req.AddRequests > maxAddRequests) {
		return errBadRequest(c, "add_requests must be between 1 and 1000000")
	}
	if req.AddDays != 0 && (req.AddDays < 1 || req.AddDays > maxExtendDays) {
		return errBadRequest(c, "add_days must be between 1 and 365")
	}

	repo := repository.GetGlobalFactory().GetPackageRepository()
	pkg, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Package not found")
		}
		return errInternal(c, "Failed to load package")
	}

	if req.AddRequests > 0 && !pkg.IsUnlimited() {
		pkg.RequestTotal += req.AddRequests
		pkg.RequestRemaining += req.AddRequests
	}
	if req.AddDays > 0 {
		pkg.EndDate = pkg.EndDate.AddDate(0, 0, req.AddDays)
		if pkg.Status == models.PackageStatusExpired && !pkg.IsExpired(time.Now()) {
			pkg.Status = models.PackageStatusActive
		}
	}

	if err := repo.Update(pkg); err != nil {
		return errInternal(c, "Failed to update package limits")
	}

	return c.JSON(packageResponse(pkg, prefersRTL(c)))
}

// HandleAdminSuspendPackage suspends an active package.
func HandleAdminSuspendPackage(c *fiber.Ctx) error {
	return setPackageStatus(c, models.PackageStatusActive, models.PackageStatusSuspended)
}

// HandleAdminResumePackage resumes a suspended package.
func HandleAdminResumePackage(c *fiber.Ctx) error {
	return setPackageStatus(c, models.PackageStatusSuspended, models.PackageStatusActive)
}

func setPackageStatus(c *fiber.Ctx, from, to string) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid package id")
	}

	repo := repository.GetGlobalFactory().GetPackageRepository()
	pkg, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Package not found")
		}
		return errInternal(c, "Failed to load package")
	}

	if pkg.Status != from {
		return errConflict(c, "Package is "+pkg.Status)
	}

	pkg.Status = to
	if err := repo.Update(pkg); err != nil {
		return errInternal(c, "Failed to update package status")
	}

	return c.JSON(packageResponse(pkg, prefersRTL(c)))
}

// HandleConsumeRequest decrements one request from the package quota. Called
// by API clients on every billable request. Unlimited packages always pass
// without decrementing.
func HandleConsumeRequest(c *fiber.Ctx) error {
	pkg, err := loadOwnedPackage(c)
	if err != nil {
		return err
	}

	if pkg.Status != models.PackageStatusActive {
		return errForbidden(c, "Package is "+pkg.Status)
	}
	if pkg.IsExpired(time.Now()) {
		return errForbidden(c, "Package is expired")
	}

	repo := repository.GetGlobalFactory().GetPackageRepository()
	updated, err := repo.ConsumeRequest(pkg.ID)
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExhausted) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "quota_exhausted", "message": "Request quota exhausted"})
		}
		return errInternal(c, "Failed to consume request")
	}

	return c.JSON(packageResponse(updated, prefersRTL(c)))
}

func loadOwnedPackage(c *fiber.Ctx) (*models.Package, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, errBadRequest(c, "Invalid package id")
	}

	repo := repository.GetGlobalFactory().GetPackageRepository()
	pkg, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound(c, "Package not found")
		}
		return nil, errInternal(c, "Failed to load package")
	}

	userCtx := usercontext.GetUserContext(c)
	if pkg.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return nil, errForbidden(c, "Not your package")
	}

	return pkg, nil
}

// packageResponse renders a package with its usage view. The displayed limit
// uses the locale-aware formatter and unlimited packages carry no progress
// value at all.
func packageResponse(pkg *models.Package, rtl bool) fiber.Map {
	limit := pkg.RequestLimit()

	out := fiber.Map{
		"id":                pkg.ID,
		"user_id":           pkg.UserID,
		"plan_id":           pkg.PlanID,
		"status":            pkg.Status,
		"start_date":        pkg.StartDate.UTC().Format(time.RFC3339),
		"end_date":          pkg.EndDate.UTC().Format(time.RFC3339),
		"purchase_platform": pkg.PurchasePlatform,
		"request_total":     pkg.RequestTotal,
		"request_remaining": pkg.RequestRemaining,
		"total_display":     quota.FormatLimitValue(limit.Total, rtl),
		"remaining_display": quota.FormatLimitValue(limit.Remaining, rtl),
		"is_unlimited":      limit.IsUnlimited(),
	}
	if limit.ShowProgress() {
		out["usage_percent"] = limit.UsagePercent()
	}
	return out
}
