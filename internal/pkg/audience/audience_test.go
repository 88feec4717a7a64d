package audience

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		planID string
		want   Kind
	}{
		{name: "neither set", userID: "", planID: "", want: KindAll},
		{name: "plan only", userID: "", planID: "p1", want: KindPlan},
		{name: "user only", userID: "u1", planID: "", want: KindUser},
		{name: "both set resolves to plan", userID: "u1", planID: "p1", want: KindPlan},
	}

	for _, tt := range tests {
		got := Classify(tt.userID, tt.planID)
		if got.Kind != tt.want {
			t.Fatalf("%s: Classify(%q, %q).Kind = %q, want %q", tt.name, tt.userID, tt.planID, got.Kind, tt.want)
		}
		if got.Label == "" {
			t.Fatalf("%s: empty label", tt.name)
		}
	}
}

type refUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestRefUnmarshalID(t *testing.T) {
	var r Ref[refUser]
	assert.NoError(t, json.Unmarshal([]byte(`"u42"`), &r))
	assert.False(t, r.IsZero())
	_, ok := r.Populated()
	assert.False(t, ok)
	assert.Equal(t, "u42", r.ID(func(u refUser) string { return u.ID }))
}

func TestRefUnmarshalPopulated(t *testing.T) {
	var r Ref[refUser]
	assert.NoError(t, json.Unmarshal([]byte(`{"id":"u42","name":"Sara"}`), &r))
	u, ok := r.Populated()
	assert.True(t, ok)
	assert.Equal(t, "Sara", u.Name)
	assert.Equal(t, "u42", r.ID(func(u refUser) string { return u.ID }))
}

func TestRefUnmarshalNumericID(t *testing.T) {
	var r Ref[refUser]
	assert.NoError(t, json.Unmarshal([]byte(`42`), &r))
	assert.False(t, r.IsZero())
	assert.Equal(t, "42", r.ID(func(u refUser) string { return u.ID }))
}

func TestRefUnmarshalNull(t *testing.T) {
	var r Ref[refUser]
	assert.NoError(t, json.Unmarshal([]byte(`null`), &r))
	assert.True(t, r.IsZero())
	assert.Equal(t, "", r.ID(func(u refUser) string { return u.ID }))
}

func TestRefMarshalRoundTrip(t *testing.T) {
	id := RefID[refUser]("u1")
	out, err := json.Marshal(id)
	assert.NoError(t, err)
	assert.JSONEq(t, `"u1"`, string(out))

	populated := RefValue(refUser{ID: "u2", Name: "Omid"})
	out, err = json.Marshal(populated)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"u2","name":"Omid"}`, string(out))

	var empty Ref[refUser]
	out, err = json.Marshal(empty)
	assert.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
