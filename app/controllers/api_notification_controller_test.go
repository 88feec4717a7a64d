package controllers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumapanel/lumapanel/app/models"
	"github.com/lumapanel/lumapanel/internal/pkg/audience"
)

// The plan target of a notification may arrive as a raw numeric id, a string
// id, or a populated plan object. All three shapes must narrow to the same
// plan id.
func TestCreateNotificationPlanTargetShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want uint
	}{
		{"numeric id", `{"title":"t","message":"m","plan_id":7}`, 7},
		{"string id", `{"title":"t","message":"m","plan_id":"7"}`, 7},
		{"populated object", `{"title":"t","message":"m","plan_id":{"id":7,"name":"Pro"}}`, 7},
		{"absent", `{"title":"t","message":"m"}`, 0},
		{"null", `{"title":"t","message":"m","plan_id":null}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req createNotificationRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))

			got, err := planIDFromRef(req.Plan)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCreateNotificationPlanTargetRejectsBadID(t *testing.T) {
	var req createNotificationRequest
	require.NoError(t, json.Unmarshal([]byte(`{"plan_id":"not-a-number"}`), &req))

	_, err := planIDFromRef(req.Plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan_id")
}

func TestPlanIDFromRefPopulated(t *testing.T) {
	id, err := planIDFromRef(audience.RefValue(models.Plan{ID: 42, Name: "Pro"}))
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}
