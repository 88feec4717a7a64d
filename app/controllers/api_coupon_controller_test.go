package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumapanel/lumapanel/app/models"
)

type countingCouponRepo struct {
	createCalls    int
	getByCodeCalls int
}

func (r *countingCouponRepo) Create(coupon *models.Coupon) error {
	r.createCalls++
	coupon.ID = 1
	return nil
}

func (r *countingCouponRepo) GetByCode(code string) (*models.Coupon, error) {
	r.getByCodeCalls++
	return nil, gorm.ErrRecordNotFound
}

func (r *countingCouponRepo) GetByID(id uint) (*models.Coupon, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *countingCouponRepo) List(offset, limit int) ([]models.Coupon, error) { return nil, nil }
func (r *countingCouponRepo) Update(coupon *models.Coupon) error              { return nil }
func (r *countingCouponRepo) Delete(id uint) error                            { return nil }
func (r *countingCouponRepo) Count() (int64, error)                           { return 0, nil }
func (r *countingCouponRepo) CountRedemptionsByUser(couponID, userID uint) (int64, error) {
	return 0, nil
}
func (r *countingCouponRepo) RecordRedemption(couponID, userID, paymentID uint) error { return nil }

func TestCouponFromRequestParsesAndNormalizes(t *testing.T) {
	req := &couponRequest{
		Code:      " summer25 ",
		Percent:   25,
		MaxAmount: 40,
		StartDate: "2026-06-01T00:00:00Z",
		EndDate:   "2026-09-01T00:00:00Z",
	}

	coupon, err := couponFromRequest(req)
	require.NoError(t, err)

	assert.Equal(t, "SUMMER25", coupon.Code)
	assert.Equal(t, 1, coupon.MaxUsagePerUser)
	assert.True(t, coupon.Active)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), coupon.StartDate)
	require.NoError(t, coupon.Validate())
}

func TestCouponFromRequestRejectsBadTimestamps(t *testing.T) {
	req := &couponRequest{
		Code:      "BROKEN",
		Percent:   10,
		StartDate: "01.06.2026",
		EndDate:   "2026-09-01T00:00:00Z",
	}

	_, err := couponFromRequest(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
}

// A coupon whose end date is not after its start date must fail validation
// before any repository call is made.
func TestCouponDateOrderingRejectedBeforePersistence(t *testing.T) {
	req := &couponRequest{
		Code:      "BACKWARDS",
		Percent:   10,
		StartDate: "2026-09-01T00:00:00Z",
		EndDate:   "2026-06-01T00:00:00Z",
	}

	coupon, err := couponFromRequest(req)
	require.NoError(t, err)

	repo := &countingCouponRepo{}
	status, msg := persistNewCoupon(repo, coupon)
	assert.Equal(t, 400, status)
	assert.Contains(t, msg, "end_date")
	assert.Zero(t, repo.getByCodeCalls, "invalid coupon must not hit the repository")
	assert.Zero(t, repo.createCalls, "invalid coupon must never be persisted")
}

func TestPersistNewCouponStoresValidCoupon(t *testing.T) {
	req := &couponRequest{
		Code:      "FORWARD10",
		Percent:   10,
		StartDate: "2026-06-01T00:00:00Z",
		EndDate:   "2026-09-01T00:00:00Z",
	}

	coupon, err := couponFromRequest(req)
	require.NoError(t, err)

	repo := &countingCouponRepo{}
	status, msg := persistNewCoupon(repo, coupon)
	assert.Zero(t, status)
	assert.Empty(t, msg)
	assert.Equal(t, 1, repo.createCalls)
}
