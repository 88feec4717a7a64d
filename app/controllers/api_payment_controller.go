package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/app/repository"
	"github.com/lumapanel/lumapanel/internal/pkg/discount"
	"github.com/lumapanel/lumapanel/internal/pkg/usercontext"
)

type createPaymentRequest struct {
	PlanID     uint   `json:"plan_id"`
	CouponCode string `json:"coupon_code"`
	Platform   string `json:"platform"`
}

// HandleCreatePayment opens a pending payment for a plan. When a coupon code
// is given it is validated server-side and the payable amount mirrors the
// validation result; the original plan price is only kept on record when a
// discount actually applied.
func HandleCreatePayment(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}
	if req.PlanID == 0 {
		return errBadRequest(c, "plan_id is required")
	}

	repos := repository.GetGlobalRepositories()
	plan, err := repos.Plan.GetByID(req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Plan not found")
		}
		return errInternal(c, "Failed to load plan")
	}
	if !plan.Active {
		return errBadRequest(c, "Plan is not available")
	}

	payment := &models.Payment{
		UserID:   userCtx.UserID,
		PlanID:   plan.ID,
		Amount:   plan.Price,
		Status:   models.PaymentStatusPending,
		RefCode:  uuid.New().String(),
		Platform: req.Platform,
	}
	if payment.Platform == "" {
		payment.Platform = "web"
	}

	var validation discount.ValidationResult
	if req.CouponCode != "" {
		svc := discount.NewService(repos.Coupon)
		validation, err = svc.Validate(c.Context(), req.CouponCode, userCtx.UserID, plan.ID, plan.Price)
		if err != nil {
			return errInternal(c, "Coupon validation failed")
		}
		if !validation.Valid {
			return errBadRequest(c, "Coupon rejected: "+validation.Reason)
		}

		applied := discount.ApplyCoupon(plan.Price, validation)
		payment.Amount = applied.FinalPrice
		if applied.Discount > 0 {
			original := plan.Price
			payment.OriginalAmount = &original
		}

		couponID := validation.CouponID
		payment.CouponID = &couponID
	}

	if err := repos.Payment.Create(payment); err != nil {
		return errInternal(c, "Failed to create payment")
	}

	return c.Status(fiber.StatusCreated).JSON(paymentResponse(payment))
}

type finalizePaymentRequest struct {
	Status string `json:"status"`
}

// HandleFinalizePayment moves a pending payment into a terminal state. This
// is the gateway callback: success issues the package and records the coupon
// redemption; terminal payments are immutable.
func HandleFinalizePayment(c *fiber.Ctx) error {
	refCode := c.Params("refCode")
	if refCode == "" {
		return errBadRequest(c, "Missing reference code")
	}

	var req finalizePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return errBadRequest(c, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	payment, err := repos.Payment.GetByRefCode(refCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound(c, "Payment not found")
		}
		return errInternal(c, "Failed to load payment")
	}

	if !payment.CanTransitionTo(req.Status) {
		if payment.IsTerminal() {
			return errConflict(c, "Payment already finalized")
		}
		return errBadRequest(c, "Invalid target status")
	}

	payment.Status = req.Status
	if req.Status == models.PaymentStatusSuccess {
		now := time.Now()
		payment.PaidAt = &now

		plan, err := repos.Plan.GetByID(payment.PlanID)
		if err != nil {
			return errInternal(c, "Failed to load plan")
		}

		pkg := models.NewPackageFromPlan(payment.UserID, plan, payment.Platform, now)
		if err := repos.Package.Create(pkg); err != nil {
			return errInternal(c, "Failed to issue package")
		}
		payment.PackageID = &pkg.ID

		if payment.CouponID != nil {
			if err := repos.Coupon.RecordRedemption(*payment.CouponID, payment.UserID, payment.ID); err != nil {
				// Coupon bookkeeping must not lose the paid package.
				log.Printf("failed to record redemption of coupon %d for payment %d: %v", *payment.CouponID, payment.ID, err)
			}
		}

		userID := payment.UserID
		notification := &models.Notification{
			Title:   "Payment received",
			Message: "Your payment was received and your package is active.",
			Type:    models.NotificationTypePayment,
			UserID:  &userID,
		}
		if err := repos.Notification.Create(notification); err != nil {
			log.Printf("failed to create payment notification for user %d: %v", payment.UserID, err)
		}
	}

	if err := repos.Payment.Update(payment); err != nil {
		return errInternal(c, "Failed to update payment")
	}

	return c.JSON(paymentResponse(payment))
}

// HandleListMyPayments lists the authenticated user's payments.
func HandleListMyPayments(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetPaymentRepository()
	payments, err := repo.GetByUserID(userCtx.UserID, offset, limit)
	if err != nil {
		return errInternal(c, "Failed to load payments")
	}

	out := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		out = append(out, paymentResponse(&payments[i]))
	}

	return c.JSON(fiber.Map{"payments": out})
}

// HandleAdminListPayments lists payments, optionally filtered by status.
func HandleAdminListPayments(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)

	repo := repository.GetGlobalFactory().GetPaymentRepository()

	var (
		payments []models.Payment
		err      error
	)
	if status := c.Query("status"); status != "" {
		payments, err = repo.ListByStatus(status, offset, limit)
	} else {
		payments, err = repo.List(offset, limit)
	}
	if err != nil {
		return errInternal(c, "Failed to load payments")
	}

	total, err := repo.Count()
	if err != nil {
		return errInternal(c, "Failed to count payments")
	}

	out := make([]fiber.Map, 0, len(payments))
	for i := range payments {
		out = append(out, paymentResponse(&payments[i]))
	}

	return c.JSON(fiber.Map{"payments": out, "total": total, "offset": offset, "limit": limit})
}

// paymentResponse renders a payment. The original amount is only exposed
// when it should be shown struck through next to the paid amount.
func paymentResponse(p *models.Payment) fiber.Map {
	out := fiber.Map{
		"id":         p.ID,
		"user_id":    p.UserID,
		"plan_id":    p.PlanID,
		"amount":     p.Amount,
		"status":     p.Status,
		"ref_code":   p.RefCode,
		"platform":   p.Platform,
		"paid_at":    formatTimePtr(p.PaidAt),
		"created_at": p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.PackageID != nil {
		out["package_id"] = *p.PackageID
	}
	if p.CouponID != nil {
		out["coupon_id"] = *p.CouponID
	}
	if discount.ShowOriginalPrice(p.OriginalAmount, p.Amount) {
		out["original_amount"] = *p.OriginalAmount
		out["discount"] = p.Discount()
	}
	return out
}
