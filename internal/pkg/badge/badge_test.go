package badge

import "testing"

func TestClassifyKnownTags(t *testing.T) {
	tests := []struct {
		tag       string
		kind      Kind
		wantLabel string
	}{
		{tag: "web", kind: KindPlatform, wantLabel: "Web"},
		{tag: "active", kind: KindStatus, wantLabel: "Active"},
		{tag: "suspended", kind: KindStatus, wantLabel: "Suspended"},
		{tag: "success", kind: KindPaymentStatus, wantLabel: "Paid"},
		{tag: "pattern", kind: KindProductType, wantLabel: "Pattern catalog"},
	}

	for _, tt := range tests {
		got := Classify(tt.tag, tt.kind)
		if got.Label != tt.wantLabel {
			t.Fatalf("Classify(%q, %q).Label = %q, want %q", tt.tag, tt.kind, got.Label, tt.wantLabel)
		}
		if got.Icon == "" || got.ColorClass == "" {
			t.Fatalf("Classify(%q, %q) missing icon or color class", tt.tag, tt.kind)
		}
	}
}

func TestClassifyUnknownTagFallsBack(t *testing.T) {
	got := Classify("quantum", KindPlatform)
	if got.Label != "quantum" {
		t.Fatalf("fallback label = %q, want raw tag", got.Label)
	}
	if got.ColorClass != "badge-outline" {
		t.Fatalf("fallback color = %q, want badge-outline", got.ColorClass)
	}
}

func TestClassifyUnknownKindFallsBack(t *testing.T) {
	got := Classify("active", Kind("nonsense"))
	if got.ColorClass != "badge-outline" {
		t.Fatalf("unknown kind color = %q, want badge-outline", got.ColorClass)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	first := Classify("active", KindStatus)
	second := Classify("active", KindStatus)
	if first != second {
		t.Fatalf("Classify not idempotent: %+v vs %+v", first, second)
	}
}
