package ids

import "testing"

func TestNewIsValidAndOrdered(t *testing.T) {
	a := New()
	b := New()
	if !Valid(a) || !Valid(b) {
		t.Fatalf("generated ids not valid: %q %q", a, b)
	}
	if a == b {
		t.Fatal("two ids must differ")
	}
	if !(a < b) {
		t.Fatalf("ids must sort by issue order: %q >= %q", a, b)
	}
}

func TestValidRejectsJunk(t *testing.T) {
	for _, bad := range []string{"", "auth", "conf", "not-an-id", "01HZXW3V9XK1P5T8Q2R4M6N7S"} {
		if Valid(bad) {
			t.Fatalf("Valid(%q) = true", bad)
		}
	}
}
