package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/discount"
	"github.com/lumapanel/lumapanel/internal/pkg/usercontext"
)

type couponRequest struct {
	Code            string  `json:"code"`
	Percent         float64 `json:"percent"`
	MaxAmount       float64 `json:"max_amount"`
	MaxUsage        int     `json:"max_usage"`
	MaxUsagePerUser *int    `json:"max_usage_per_user"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	ForPlans        string  `json:"for_plans"`
	ForUsers        string  `json:"for_users"`
	Active          *bool   `json:"active"`
}

// HandleAdminCreateCoupon creates a coupon. Date ordering is checked before
// anything is persisted: a coupon whose end date is not after its start date
// never reaches the database.
func HandleAdminCreateCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	coupon, err := couponFromRequest(&req)
	if err != nil {
		return errBadRequest(c, err.Error())
	}

	repo := repository.GetGlobalFactory().GetCouponRepository()
	switch status, msg := persistNewCoupon(repo, coupon); status {
	case 0:
	case fiber.StatusConflict:
		return errConflict(c, msg)
	case fiber.StatusInternalServerError:
		return errInternal(c, msg)
	default:
		return errBadRequest(c, msg)
	}

	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// persistNewCoupon validates a new coupon and stores it, returning a zero
// status on success. The repository is never touched unless validation
// passes.
func persistNewCoupon(repo repository.CouponRepository, coupon *models.Coupon) (int, string) {
	if err := coupon.Validate(); err != nil {
		return fiber.StatusBadRequest, err.Error()
	}
	if existing, err := repo.GetByCode(coupon.Code); err == nil && existing != nil {
		return fiber.StatusConflict, "Coupon code already exists"
	}
	if err := repo.Create(coupon); err != nil {
		return fiber.StatusInternalServerError, "Failed to create coupon"
	}
	return 0, ""
}

// HandleAdminListCoupons lists coupons.
func HandleAdminListCoupons(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetCouponRepository()
	coupons, err := repo.List(offset, limit)
	if err != nil {
		return errInternal(c, "Failed to load coupons")
	}
	total, err := repo.Count()
	if err != nil {
		return errInternal(c, "Failed to count coupons")
	}

	return c.JSON(fiber.Map{"coupons": coupons, "total": total, "offset": offset, "limit": limit})
}

// HandleAdminUpdateCoupon updates a coupon. The same date ordering rule
// applies to edits.
func HandleAdminUpdateCoupon(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid coupon id")
	}

	repo := repository.GetGlobalFactory().GetCouponRepository()
	coupon, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Coupon not found")
		}
		return errInternal(c, "Failed to load coupon")
	}

	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	if req.Code != "" {
		coupon.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	}
	if req.Percent > 0 {
		coupon.Percent = req.Percent
	}
	if req.MaxAmount >= 0 {
		coupon.MaxAmount = req.MaxAmount
	}
	if req.MaxUsage >= 0 {
		coupon.MaxUsage = req.MaxUsage
	}
	if req.MaxUsagePerUser != nil {
		coupon.MaxUsagePerUser = *req.MaxUsagePerUser
	}
	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return errBadRequest(c, "start_date: invalid RFC3339 timestamp")
		}
		coupon.StartDate = start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return errBadRequest(c, "end_date: invalid RFC3339 timestamp")
		}
		coupon.EndDate = end
	}
	coupon.ForPlans = req.ForPlans
	coupon.ForUsers = req.ForUsers
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := coupon.Validate(); err != nil {
		return errBadRequest(c, err.Error())
	}
	if err := repo.Update(coupon); err != nil {
		return errInternal(c, "Failed to update coupon")
	}

	return c.JSON(coupon)
}

// HandleAdminDeleteCoupon soft-deletes a coupon.
func HandleAdminDeleteCoupon(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errBadRequest(c, "Invalid coupon id")
	}

	repo := repository.GetGlobalFactory().GetCouponRepository()
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Coupon not found")
		}
		return errInternal(c, "Failed to load coupon")
	}

	if err := repo.Delete(id); err != nil {
		return errInternal(c, "Failed to delete coupon")
	}

	return c.JSON(fiber.Map{"message": "Coupon deleted"})
}

type validateCouponRequest struct {
	Code   string `json:"code"`
	PlanID uint   `json:"plan_id"`
}

// HandleValidateCoupon checks a coupon code against a plan for the
// authenticated user and returns the computed discount. The response mirrors
// exactly what a later payment with this coupon will charge.
func HandleValidateCoupon(c *fiber.Ctx) error {
	var req validateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}
	if req.Code == "" || req.PlanID == 0 {
		return errBadRequest(c, "code and plan_id are required")
	}

	repos := repository.GetGlobalRepositories()
	plan, err := repos.Plan.GetByID(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Plan not found")
		}
		return errInternal(c, "Failed to load plan")
	}

	userCtx := usercontext.GetUserContext(c)
	svc := discount.NewService(repos.Coupon)
	result, err := svc.Validate(c.Context(), req.Code, userCtx.UserID, plan.ID, plan.Price)
	if err != nil {
		return errInternal(c, "Coupon validation failed")
	}

	return c.JSON(result)
}

func couponFromRequest(req *couponRequest) (*models.Coupon, error) {
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, errors.New("start_date: invalid RFC3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, errors.New("end_date: invalid RFC3339 timestamp")
	}

	perUser := 1
	if req.MaxUsagePerUser != nil {
		perUser = *req.MaxUsagePerUser
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &models.Coupon{
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Percent:         req.Percent,
		MaxAmount:       req.MaxAmount,
		MaxUsage:        req.MaxUsage,
		MaxUsagePerUser: perUser,
		StartDate:       start,
		EndDate:         end,
		ForPlans:        req.ForPlans,
		ForUsers:        req.ForUsers,
		Active:          active,
	}, nil
}
