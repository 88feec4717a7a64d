package discount

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

// Validation failure reasons surfaced inline to the caller. They are
// non-fatal: an invalid coupon never aborts the surrounding flow.
const (
	ReasonNotFound        = "not_found"
	ReasonInactive        = "inactive"
	ReasonNotStarted      = "not_started"
	ReasonExpired         = "expired"
	ReasonPlanNotEligible = "plan_not_eligible"
	ReasonUserNotEligible = "user_not_eligible"
	ReasonExhausted       = "exhausted"
	ReasonPerUserLimit    = "per_user_limit_reached"
)

// CouponStore is the storage surface the validation service needs.
type CouponStore interface {
	GetByCode(code string) (*models.Coupon, error)
	CountRedemptionsByUser(couponID, userID uint) (int64, error)
}

// Service validates coupon codes and computes the authoritative discount.
type Service struct {
	store CouponStore
	now   func() time.Time
}

// NewService creates a discount service from an injected coupon store.
func NewService(store CouponStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Validate checks a coupon code against a plan, a user and the plan price,
// and computes the discounted price. Any rule violation comes back as an
// invalid result with a reason; only storage failures return an error.
func (s *Service) Validate(ctx context.Context, code string, userID, planID uint, planPrice float64) (ValidationResult, error) {
	_ = ctx
	coupon, err := s.store.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid(ReasonNotFound), nil
		}
		return ValidationResult{}, err
	}

	now := s.now()
	switch {
	case !coupon.Active:
		return invalid(ReasonInactive), nil
	case now.Before(coupon.StartDate):
		return invalid(ReasonNotStarted), nil
	case now.After(coupon.EndDate):
		return invalid(ReasonExpired), nil
	case !coupon.AppliesToPlan(planID):
		return invalid(ReasonPlanNotEligible), nil
	case !coupon.AppliesToUser(userID):
		return invalid(ReasonUserNotEligible), nil
	case coupon.IsExhausted():
		return invalid(ReasonExhausted), nil
	}

	if !coupon.HasUnlimitedPerUser() {
		used, err := s.store.CountRedemptionsByUser(coupon.ID, userID)
		if err != nil {
			return ValidationResult{}, err
		}
		if used >= int64(coupon.MaxUsagePerUser) {
			return invalid(ReasonPerUserLimit), nil
		}
	}

	amount := Compute(planPrice, coupon.Percent, coupon.MaxAmount)
	final := round2(planPrice - amount)
	return ValidationResult{Valid: true, CouponID: coupon.ID, DiscountAmount: &amount, FinalPrice: &final}, nil
}

// Compute is the percent-of-price discount capped by maxAmount. A cap of
// zero or below means uncapped. The result never exceeds the price.
func Compute(price, percent, maxAmount float64) float64 {
	amount := price * percent / 100
	if maxAmount > 0 && amount > maxAmount {
		amount = maxAmount
	}
	if amount > price {
		amount = price
	}
	if amount < 0 {
		amount = 0
	}
	return round2(amount)
}

func invalid(reason string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
