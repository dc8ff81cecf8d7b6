package nmon

import (
	"strings"
	"testing"
)

func TestNormalizePID(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"leadingZeros", "007", "7"},
		{"plain", "1234", "1234"},
		{"zero", "0000", "0"},
		{"padded", " 042 ", "42"},
		{"huge", "000123456789012345678901234567890", "123456789012345678901234567890"},
		{"nonNumeric", "kworker", "kworker"},
		{"mixed", "12ab", "12ab"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := NormalizePID(tc.input); got != tc.expected {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.expected, got)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		line string
		want lineKind
	}{
		{"ZZZZ,T0001,10:00:00,01-JAN-2024", kindTimeIndex},
		{"TOP,+PID,Time,%CPU,%Usr", kindProcessHeader},
		{"TOP,%CPU Utilisation", kindProcessSample},
		{"TOP,1,T0001,%CPU,1.0", kindProcessHeader},
		{"TOP,0042,T0001,1.0,2.0", kindProcessSample},
		{"TOPZZZZ,T0001", kindOther},
		{"AAA,cpus,8", kindCapacity},
		{"AAA,host,box", kindOther},
		{"BBBP,002,lscpu,CPU(s): 16", kindLscpu},
		{"BBBP,002,/etc/release", kindOther},
		{"CPU_ALL,T0001,1,2,3", kindOther},
	}
	for _, tc := range cases {
		if got := classify(strings.Split(tc.line, ",")); got != tc.want {
			t.Fatalf("classify(%q) = %s, want %s", tc.line, got, tc.want)
		}
	}
	if got := classify(nil); got != kindOther {
		t.Fatalf("empty line should be other, got %s", got)
	}
}

func TestParsePercent(t *testing.T) {
	if v, ok := parsePercent("12.5"); !ok || v != 12.5 {
		t.Fatalf("expected 12.5, got %v (%v)", v, ok)
	}
	for _, raw := range []string{"", "abc", "-1", "NaN", "nan", "Inf", "+Inf", "-Inf", "infinity"} {
		if v, ok := parsePercent(raw); ok || v != 0 {
			t.Fatalf("%q should default to 0, got %v (%v)", raw, v, ok)
		}
	}
}
