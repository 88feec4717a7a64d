// Package badge maps enumerated string tags coming back from the API
// (purchase platforms, package and payment statuses, product types) to static
// display metadata. Unknown tags resolve to a neutral outline badge so a new
// enum value introduced server-side can never crash a view.
package badge

// Kind selects which lookup table a tag is resolved against.
type Kind string

const (
	KindPlatform      Kind = "platform"
	KindStatus        Kind = "status"
	KindPaymentStatus Kind = "paymentStatus"
	KindProductType   Kind = "productType"
)

// Badge is the display metadata for a classified tag.
type Badge struct {
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	ColorClass string `json:"color_class"`
}

var platformTable = map[string]Badge{
	"all":     {Label: "All platforms", Icon: "globe", ColorClass: "badge-neutral"},
	"web":     {Label: "Web", Icon: "monitor", ColorClass: "badge-info"},
	"android": {Label: "Android", Icon: "smartphone", ColorClass: "badge-success"},
	"ios":     {Label: "iOS", Icon: "apple", ColorClass: "badge-primary"},
}

var statusTable = map[string]Badge{
	"active":    {Label: "Active", Icon: "check-circle", ColorClass: "badge-success"},
	"expired":   {Label: "Expired", Icon: "clock", ColorClass: "badge-warning"},
	"suspended": {Label: "Suspended", Icon: "pause-circle", ColorClass: "badge-error"},
}

var paymentStatusTable = map[string]Badge{
	"pending":  {Label: "Pending", Icon: "hourglass", ColorClass: "badge-warning"},
	"success":  {Label: "Paid", Icon: "check-circle", ColorClass: "badge-success"},
	"failed":   {Label: "Failed", Icon: "x-circle", ColorClass: "badge-error"},
	"canceled": {Label: "Canceled", Icon: "slash", ColorClass: "badge-neutral"},
}

var productTypeTable = map[string]Badge{
	"pattern": {Label: "Pattern catalog", Icon: "grid", ColorClass: "badge-primary"},
	"color":   {Label: "Color catalog", Icon: "droplet", ColorClass: "badge-secondary"},
	"mixed":   {Label: "Mixed catalog", Icon: "layers", ColorClass: "badge-accent"},
}

var tables = map[Kind]map[string]Badge{
	KindPlatform:      platformTable,
	KindStatus:        statusTable,
	KindPaymentStatus: paymentStatusTable,
	KindProductType:   productTypeTable,
}

// Classify resolves a tag against the table for the given kind. Unknown tags
// and unknown kinds fall back to a neutral badge carrying the raw tag text.
func Classify(tag string, kind Kind) Badge {
	if table, ok := tables[kind]; ok {
		if b, ok := table[tag]; ok {
			return b
		}
	}
	return Badge{Label: tag, Icon: "tag", ColorClass: "badge-outline"}
}
