package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

var issueTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewPackageFromPlan(t *testing.T) {
	plan := &Plan{ID: 3, Name: "Pro", Price: 1000, DurationDays: 30, RequestTotal: 500}
	pkg := NewPackageFromPlan(9, plan, "android", issueTime)

	assert.Equal(t, uint(9), pkg.UserID)
	assert.Equal(t, uint(3), pkg.PlanID)
	assert.Equal(t, 500, pkg.RequestTotal)
	assert.Equal(t, 500, pkg.RequestRemaining)
	assert.Equal(t, PackageStatusActive, pkg.Status)
	assert.Equal(t, issueTime.AddDate(0, 0, 30), pkg.EndDate)
	assert.Equal(t, "android", pkg.PurchasePlatform)

	empty := NewPackageFromPlan(9, plan, "", issueTime)
	assert.Equal(t, "web", empty.PurchasePlatform)
}

func TestPackageUsagePercent(t *testing.T) {
	pkg := &Package{RequestTotal: 1000, RequestRemaining: 150}
	assert.Equal(t, 85, pkg.UsagePercent())
	assert.True(t, pkg.RequestLimit().ShowProgress())

	unlimited := &Package{RequestTotal: quota.Unlimited}
	assert.Equal(t, 0, unlimited.UsagePercent())
	assert.False(t, unlimited.RequestLimit().ShowProgress())
}

func TestPackageConsume(t *testing.T) {
	pkg := &Package{Status: PackageStatusActive, RequestTotal: 2, RequestRemaining: 2}
	assert.True(t, pkg.Consume())
	assert.True(t, pkg.Consume())
	assert.Equal(t, 0, pkg.RequestRemaining)
	assert.False(t, pkg.Consume(), "exhausted package must reject consumption")

	suspended := &Package{Status: PackageStatusSuspended, RequestTotal: 10, RequestRemaining: 10}
	assert.False(t, suspended.Consume())

	unlimited := &Package{Status: PackageStatusActive, RequestTotal: quota.Unlimited}
	for i := 0; i < 100; i++ {
		assert.True(t, unlimited.Consume())
	}
	assert.Equal(t, 0, unlimited.RequestRemaining, "unlimited packages never decrement")
}

func TestPackageIsExpired(t *testing.T) {
	pkg := &Package{EndDate: issueTime}
	assert.False(t, pkg.IsExpired(issueTime))
	assert.False(t, pkg.IsExpired(issueTime.Add(-time.Hour)))
	assert.True(t, pkg.IsExpired(issueTime.Add(time.Second)))
}
