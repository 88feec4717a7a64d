package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

func TestPackageResponseLimitedPackage(t *testing.T) {
	pkg := &models.Package{
		ID:               1,
		UserID:           7,
		PlanID:           3,
		RequestTotal:     1000,
		RequestRemaining: 150,
		Status:           models.PackageStatusActive,
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 1, 0),
		PurchasePlatform: "web",
	}

	out := packageResponse(pkg, false)

	assert.Equal(t, false, out["is_unlimited"])
	assert.Equal(t, "1,000", out["total_display"])
	assert.Equal(t, "150", out["remaining_display"])
	assert.Equal(t, 85, out["usage_percent"])
}

func TestPackageResponseUnlimitedHasNoProgress(t *testing.T) {
	pkg := &models.Package{
		ID:               2,
		RequestTotal:     quota.Unlimited,
		RequestRemaining: quota.Unlimited,
		Status:           models.PackageStatusActive,
		StartDate:        time.Now(),
		EndDate:          time.Now().AddDate(0, 1, 0),
	}

	out := packageResponse(pkg, false)

	assert.Equal(t, true, out["is_unlimited"])
	assert.Equal(t, "Unlimited", out["total_display"])
	_, hasProgress := out["usage_percent"]
	assert.False(t, hasProgress, "unlimited packages must not render a progress value")
}

func TestPackageResponseRTLDisplay(t *testing.T) {
	pkg := &models.Package{
		RequestTotal:     quota.Unlimited,
		RequestRemaining: quota.Unlimited,
	}

	out := packageResponse(pkg, true)
	assert.Equal(t, "نامحدود", out["total_display"])
	assert.Equal(t, "نامحدود", out["remaining_display"])
}
