package quota

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Unlimited is the sentinel value used in limit fields to mean "no cap".
// Every display and percentage computation must special-case it.
const Unlimited = -1

var (
	ltrPrinter = message.NewPrinter(language.English)
	rtlPrinter = message.NewPrinter(language.Persian)
)

const (
	unlimitedLabelLTR = "Unlimited"
	unlimitedLabelRTL = "نامحدود"
)

// IsUnlimited reports whether a limit value carries the unlimited sentinel.
func IsUnlimited(v int) bool {
	return v == Unlimited
}

// FormatLimitValue renders a limit value for display. The unlimited sentinel
// maps to a localized label, everything else to the value with locale-aware
// digit grouping. The rtl flag selects the Persian locale.
func FormatLimitValue(v int, rtl bool) string {
	if IsUnlimited(v) {
		if rtl {
			return unlimitedLabelRTL
		}
		return unlimitedLabelLTR
	}
	if rtl {
		return rtlPrinter.Sprintf("%d", v)
	}
	return ltrPrinter.Sprintf("%d", v)
}

// UsagePercent computes the consumed share of a request limit as an integer
// percentage in [0,100]. Unlimited and degenerate totals yield 0 so callers
// never see NaN or a division by zero.
func UsagePercent(total, remaining int) int {
	if IsUnlimited(total) || total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(total-remaining) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// RequestLimit is the (total, remaining) pair carried by plans and packages.
// A Total of Unlimited means no cap; Remaining is then meaningless.
type RequestLimit struct {
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// IsUnlimited reports whether the limit carries the unlimited sentinel.
func (l RequestLimit) IsUnlimited() bool {
	return IsUnlimited(l.Total)
}

// Consumed returns how many requests have been used. Zero for unlimited
// limits.
func (l RequestLimit) Consumed() int {
	if l.IsUnlimited() {
		return 0
	}
	c := l.Total - l.Remaining
	if c < 0 {
		return 0
	}
	return c
}

// UsagePercent computes the consumed percentage for this limit.
func (l RequestLimit) UsagePercent() int {
	return UsagePercent(l.Total, l.Remaining)
}

// ShowProgress reports whether a progress indicator should be rendered for
// this limit. Unlimited limits never show one.
func (l RequestLimit) ShowProgress() bool {
	return !l.IsUnlimited()
}
