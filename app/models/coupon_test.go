package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testCoupon() Coupon {
	return Coupon{
		Code:            "WELCOME10",
		Percent:         10,
		MaxUsagePerUser: 1,
		StartDate:       time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Active:          true,
	}
}

func TestCouponValidateDateOrdering(t *testing.T) {
	c := testCoupon()
	assert.NoError(t, c.Validate())

	// swapped window must be rejected before anything touches storage
	c.StartDate = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	c.EndDate = time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	err := c.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")

	c.EndDate = c.StartDate
	assert.Error(t, c.Validate())
}

func TestCouponValidateFields(t *testing.T) {
	c := testCoupon()
	c.Percent = 0
	assert.Error(t, c.Validate())

	c = testCoupon()
	c.Percent = 101
	assert.Error(t, c.Validate())

	c = testCoupon()
	c.MaxUsagePerUser = -2
	assert.Error(t, c.Validate())

	c = testCoupon()
	c.MaxUsagePerUser = -1
	assert.NoError(t, c.Validate())
}

func TestCouponWindow(t *testing.T) {
	c := testCoupon()
	assert.False(t, c.IsWithinWindow(c.StartDate.Add(-time.Minute)))
	assert.True(t, c.IsWithinWindow(c.StartDate))
	assert.True(t, c.IsWithinWindow(c.StartDate.AddDate(0, 0, 2)))
	assert.True(t, c.IsWithinWindow(c.EndDate))
	assert.False(t, c.IsWithinWindow(c.EndDate.Add(time.Minute)))
}

func TestCouponPerUserSentinel(t *testing.T) {
	c := testCoupon()
	assert.False(t, c.HasUnlimitedPerUser())
	c.MaxUsagePerUser = -1
	assert.True(t, c.HasUnlimitedPerUser())
}

func TestCouponExhaustion(t *testing.T) {
	c := testCoupon()
	c.MaxUsage = 0
	c.UsedCount = 10000
	assert.False(t, c.IsExhausted(), "zero max usage means no global cap")

	c.MaxUsage = 5
	c.UsedCount = 4
	assert.False(t, c.IsExhausted())
	c.UsedCount = 5
	assert.True(t, c.IsExhausted())
}

func TestCouponScopingLists(t *testing.T) {
	c := testCoupon()
	assert.True(t, c.AppliesToPlan(42))
	assert.True(t, c.AppliesToUser(42))

	c.ForPlans = "1, 2,3"
	assert.True(t, c.AppliesToPlan(2))
	assert.False(t, c.AppliesToPlan(4))

	c.ForUsers = "7"
	assert.True(t, c.AppliesToUser(7))
	assert.False(t, c.AppliesToUser(8))

	c.ForPlans = "oops,3"
	assert.True(t, c.AppliesToPlan(3), "malformed entries are skipped")
}
