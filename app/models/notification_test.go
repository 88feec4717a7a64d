package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumapanel/lumapanel/internal/pkg/audience"
)

func uintPtr(v uint) *uint { return &v }

func TestNotificationAudience(t *testing.T) {
	broadcast := Notification{}
	assert.Equal(t, audience.KindAll, broadcast.Audience().Kind)

	planTargeted := Notification{PlanID: uintPtr(3)}
	assert.Equal(t, audience.KindPlan, planTargeted.Audience().Kind)

	userTargeted := Notification{UserID: uintPtr(5)}
	assert.Equal(t, audience.KindUser, userTargeted.Audience().Kind)

	// plan targeting wins when both references are present
	both := Notification{UserID: uintPtr(5), PlanID: uintPtr(3)}
	assert.Equal(t, audience.KindPlan, both.Audience().Kind)

	// zero-valued references count as absent
	zeros := Notification{UserID: uintPtr(0), PlanID: uintPtr(0)}
	assert.Equal(t, audience.KindAll, zeros.Audience().Kind)
}
