package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

// HandleListPlans returns active plans, optionally filtered by platform tag.
func HandleListPlans(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetPlanRepository()

	var (
		plans []models.Plan
		err   error
	)
	if platform := c.Query("platform"); platform != "" {
		plans, err = repo.GetActiveForPlatform(platform)
	} else {
		plans, err = repo.GetActive()
	}
	if err != nil {
		return errInternal(c, "Failed to load plans")
	}

	rtl := prefersRTL(c)
	out := make([]fiber.Map, 0, len(plans))
	for i := range plans {
		out = append(out, planResponse(&plans[i], rtl))
	}

	return c.JSON(fiber.Map{"plans": out})
}

// HandleGetPlan returns a single plan.
func HandleGetPlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid plan id")
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Plan not found")
		}
		return errInternal(c, "Failed to load plan")
	}

	return c.JSON(planResponse(plan, prefersRTL(c)))
}

type planRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationDays    int     `json:"duration_days"`
	RequestTotal    int     `json:"request_total"`
	TargetPlatforms string  `json:"target_platforms"`
	Active          *bool   `json:"active"`
}

type planUpdateRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price"`
	DurationDays    *int     `json:"duration_days"`
	RequestTotal    *int     `json:"request_total"`
	TargetPlatforms *string  `json:"target_platforms"`
	Active          *bool    `json:"active"`
}

// HandleAdminCreatePlan creates a new plan.
func HandleAdminCreatePlan(c *fiber.Ctx) error {
	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	plan := &models.Plan{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationDays:    req.DurationDays,
		RequestTotal:    req.RequestTotal,
		TargetPlatforms: req.TargetPlatforms,
		Active:          true,
	}
	if plan.TargetPlatforms == "" {
		plan.TargetPlatforms = models.PlatformAll
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := plan.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	if err := repo.Create(plan); err != nil {
		return errInternal(c, "Failed to create plan")
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

// HandleAdminUpdatePlan updates an existing plan.
func HandleAdminUpdatePlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid plan id")
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	plan, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Plan not found")
		}
		return errInternal(c, "Failed to load plan")
	}

	var req planUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.RequestTotal != nil {
		plan.RequestTotal = *req.RequestTotal
	}
	if req.TargetPlatforms != nil {
		plan.TargetPlatforms = *req.TargetPlatforms
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := plan.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}
	if err := repo.Update(plan); err != nil {
		return errInternal(c, "Failed to update plan")
	}

	return c.JSON(plan)
}

// HandleAdminDeletePlan soft-deletes a plan. Already issued packages keep
// their copied limits and are unaffected.
func HandleAdminDeletePlan(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid plan id")
	}

	repo := repository.GetGlobalFactory().GetPlanRepository()
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Plan not found")
		}
		return errInternal(c, "Failed to load plan")
	}

	if err := repo.Delete(id); err != nil {
		return errInternal(c, "Failed to delete plan")
	}

	return c.JSON(fiber.Map{"message": "Plan deleted"})
}

func planResponse(plan *models.Plan, rtl bool) fiber.Map {
	return fiber.Map{
		"id":               plan.ID,
		"name":             plan.Name,
		"description":      plan.Description,
		"price":            plan.Price,
		"duration_days":    plan.DurationDays,
		"request_total":    plan.RequestTotal,
		"request_display":  quota.FormatLimitValue(plan.RequestTotal, rtl),
		"is_unlimited":     plan.IsUnlimited(),
		"target_platforms": plan.Platforms(),
		"active":           plan.Active,
	}
}
