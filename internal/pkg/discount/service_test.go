package discount

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

type fakeCouponStore struct {
	coupon          *models.Coupon
	userRedemptions int64
	countCalls      int
}

func (f *fakeCouponStore) GetByCode(code string) (*models.Coupon, error) {
	if f.coupon == nil || f.coupon.Code != code {
		return nil, gorm.ErrRecordNotFound
	}
	return f.coupon, nil
}

func (f *fakeCouponStore) CountRedemptionsByUser(couponID, userID uint) (int64, error) {
	f.countCalls++
	return f.userRedemptions, nil
}

func newTestService(store *fakeCouponStore, now time.Time) *Service {
	s := NewService(store)
	s.now = func() time.Time { return now }
	return s
}

func validCoupon() *models.Coupon {
	return &models.Coupon{
		ID:              7,
		Code:            "SPRING20",
		Percent:         20,
		MaxAmount:       0,
		MaxUsage:        0,
		MaxUsagePerUser: 1,
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Active:          true,
	}
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestValidateHappyPath(t *testing.T) {
	store := &fakeCouponStore{coupon: validCoupon()}
	s := newTestService(store, testNow)

	res, err := s.Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.Equal(t, uint(7), res.CouponID, "a valid result carries the coupon id so callers need no second lookup")
	assert.Equal(t, 200.0, *res.DiscountAmount)
	assert.Equal(t, 800.0, *res.FinalPrice)

	applied := ApplyCoupon(1000, res)
	assert.Equal(t, Applied{FinalPrice: 800, Discount: 200, Applied: true}, applied)
}

func TestValidateUnknownCode(t *testing.T) {
	s := newTestService(&fakeCouponStore{}, testNow)

	res, err := s.Validate(context.Background(), "NOPE", 1, 2, 1000)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, ReasonNotFound, res.Reason)
}

func TestValidateWindow(t *testing.T) {
	coupon := validCoupon()
	store := &fakeCouponStore{coupon: coupon}

	res, err := newTestService(store, coupon.StartDate.Add(-time.Hour)).Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, ReasonNotStarted, res.Reason)

	res, err = newTestService(store, coupon.EndDate.Add(time.Hour)).Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, ReasonExpired, res.Reason)
}

func TestValidateInactive(t *testing.T) {
	coupon := validCoupon()
	coupon.Active = false
	s := newTestService(&fakeCouponStore{coupon: coupon}, testNow)

	res, err := s.Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, ReasonInactive, res.Reason)
}

func TestValidateScoping(t *testing.T) {
	coupon := validCoupon()
	coupon.ForPlans = "2,5"
	coupon.ForUsers = "9"
	store := &fakeCouponStore{coupon: coupon}
	s := newTestService(store, testNow)

	res, err := s.Validate(context.Background(), "SPRING20", 9, 3, 1000)
	require.NoError(t, err)
	assert.Equal(t, ReasonPlanNotEligible, res.Reason)

	res, err = s.Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, ReasonUserNotEligible, res.Reason)

	res, err = s.Validate(context.Background(), "SPRING20", 9, 2, 1000)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateGlobalExhaustion(t *testing.T) {
	coupon := validCoupon()
	coupon.MaxUsage = 10
	coupon.UsedCount = 10
	s := newTestService(&fakeCouponStore{coupon: coupon}, testNow)

	res, err := s.Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, ReasonExhausted, res.Reason)
}

func TestValidatePerUserCap(t *testing.T) {
	coupon := validCoupon()
	store := &fakeCouponStore{coupon: coupon, userRedemptions: 1}
	s := newTestService(store, testNow)

	res, err := s.Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, ReasonPerUserLimit, res.Reason)
	assert.Equal(t, 1, store.countCalls)
}

func TestValidateUnlimitedPerUserSkipsCount(t *testing.T) {
	coupon := validCoupon()
	coupon.MaxUsagePerUser = -1
	store := &fakeCouponStore{coupon: coupon, userRedemptions: 500}
	s := newTestService(store, testNow)

	res, err := s.Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 0, store.countCalls, "per-user count must not be queried for unlimited coupons")
}

func TestValidateCapsByMaxAmount(t *testing.T) {
	coupon := validCoupon()
	coupon.MaxAmount = 120
	s := newTestService(&fakeCouponStore{coupon: coupon}, testNow)

	res, err := s.Validate(context.Background(), "SPRING20", 1, 2, 1000)
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.Equal(t, 120.0, *res.DiscountAmount)
	assert.Equal(t, 880.0, *res.FinalPrice)
}
