package quota

import "testing"

func TestFormatLimitValueUnlimited(t *testing.T) {
	if got := FormatLimitValue(Unlimited, false); got != "Unlimited" {
		t.Fatalf("FormatLimitValue(-1, ltr) = %q, want %q", got, "Unlimited")
	}
	if got := FormatLimitValue(Unlimited, true); got != "نامحدود" {
		t.Fatalf("FormatLimitValue(-1, rtl) = %q, want %q", got, "نامحدود")
	}
}

func TestFormatLimitValueGrouping(t *testing.T) {
	if got := FormatLimitValue(1000000, false); got != "1,000,000" {
		t.Fatalf("FormatLimitValue(1000000, ltr) = %q, want %q", got, "1,000,000")
	}
	if got := FormatLimitValue(0, false); got != "0" {
		t.Fatalf("FormatLimitValue(0, ltr) = %q, want %q", got, "0")
	}
}

func TestUsagePercent(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		remaining int
		want      int
	}{
		{name: "unlimited", total: Unlimited, remaining: 0, want: 0},
		{name: "unlimited ignores remaining", total: Unlimited, remaining: 12345, want: 0},
		{name: "zero total", total: 0, remaining: 0, want: 0},
		{name: "negative total", total: -5, remaining: 0, want: 0},
		{name: "untouched", total: 1000, remaining: 1000, want: 0},
		{name: "dashboard example", total: 1000, remaining: 150, want: 85},
		{name: "exhausted", total: 1000, remaining: 0, want: 100},
		{name: "rounding up", total: 3, remaining: 1, want: 67},
		{name: "rounding down", total: 3, remaining: 2, want: 33},
		{name: "overdraft clamps to 100", total: 100, remaining: -20, want: 100},
		{name: "excess remaining clamps to 0", total: 100, remaining: 150, want: 0},
	}

	for _, tt := range tests {
		if got := UsagePercent(tt.total, tt.remaining); got != tt.want {
			t.Fatalf("%s: UsagePercent(%d, %d) = %d, want %d", tt.name, tt.total, tt.remaining, got, tt.want)
		}
	}
}

func TestUsagePercentRange(t *testing.T) {
	for total := 1; total <= 50; total++ {
		for remaining := 0; remaining <= total; remaining++ {
			got := UsagePercent(total, remaining)
			if got < 0 || got > 100 {
				t.Fatalf("UsagePercent(%d, %d) = %d out of range", total, remaining, got)
			}
		}
	}
}

func TestRequestLimit(t *testing.T) {
	limited := RequestLimit{Total: 1000, Remaining: 150}
	if !limited.ShowProgress() {
		t.Fatal("expected limited quota to show progress")
	}
	if got := limited.Consumed(); got != 850 {
		t.Fatalf("Consumed() = %d, want 850", got)
	}
	if got := limited.UsagePercent(); got != 85 {
		t.Fatalf("UsagePercent() = %d, want 85", got)
	}

	unlimited := RequestLimit{Total: Unlimited}
	if unlimited.ShowProgress() {
		t.Fatal("expected unlimited quota to hide progress")
	}
	if got := unlimited.UsagePercent(); got != 0 {
		t.Fatalf("unlimited UsagePercent() = %d, want 0", got)
	}
	if got := unlimited.Consumed(); got != 0 {
		t.Fatalf("unlimited Consumed() = %d, want 0", got)
	}
}
