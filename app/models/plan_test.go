package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumapanel/lumapanel/internal/pkg/quota"
)

func TestPlanValidateRequestTotalSentinel(t *testing.T) {
	plan := Plan{Name: "Pro", Price: 49, DurationDays: 30, RequestTotal: quota.Unlimited}
	require.NoError(t, plan.Validate())
	assert.True(t, plan.IsUnlimited())

	plan.RequestTotal = -2
	assert.Error(t, plan.Validate())
}

func TestPlanPlatformTargeting(t *testing.T) {
	plan := Plan{TargetPlatforms: "web, android"}
	assert.Equal(t, []string{"web", "android"}, plan.Platforms())
	assert.True(t, plan.TargetsPlatform("web"))
	assert.False(t, plan.TargetsPlatform("ios"))

	everywhere := Plan{TargetPlatforms: PlatformAll}
	assert.True(t, everywhere.TargetsPlatform("ios"))
}

func TestPlanRequestLimitStartsFull(t *testing.T) {
	plan := Plan{RequestTotal: 500}
	limit := plan.RequestLimit()
	assert.Equal(t, 500, limit.Total)
	assert.Equal(t, 500, limit.Remaining)
}
