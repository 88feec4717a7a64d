// Package audience derives the recipient category of a notification from the
// presence of its optional user and plan references. The category is never
// stored; list views and stats aggregation both classify through this package
// so their counts agree.
package audience

// Kind is the derived audience category of a notification.
type Kind string

const (
	KindAll  Kind = "all"
	KindPlan Kind = "plan"
	KindUser Kind = "user"
)

// Target is the classification result handed to views and stats.
type Target struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
}

var labels = map[Kind]string{
	KindAll:  "All users",
	KindPlan: "Plan subscribers",
	KindUser: "Selected users",
}

// Classify resolves a notification's audience from its optional user and
// plan ids. The plan id is checked first: a notification that carries both
// ids is always plan-targeted. This precedence is relied upon by the admin
// list and the stats views and must not be reordered.
// TODO: confirm with product whether plan-over-user precedence is intended
// when both ids are set; it is preserved from the original behavior.
func Classify(userID, planID string) Target {
	switch {
	case planID != "":
		return Target{Kind: KindPlan, Label: labels[KindPlan]}
	case userID != "":
		return Target{Kind: KindUser, Label: labels[KindUser]}
	default:
		return Target{Kind: KindAll, Label: labels[KindAll]}
	}
}
