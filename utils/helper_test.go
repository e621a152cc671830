package utils

import (
	"testing"
	"time"
)

func TestQuarterKey(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-01-15", "2024-Q1"},
		{"2024-03-31", "2024-Q1"},
		{"2024-04-01", "2024-Q2"},
		{"2024-09-30", "2024-Q3"},
		{"2024-12-25", "2024-Q4"},
	}
	for _, c := range cases {
		date, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", c.date, err)
		}
		if got := QuarterKey(date); got != c.want {
			t.Errorf("QuarterKey(%s) = %q, want %q", c.date, got, c.want)
		}
	}
}

func TestWithinDays(t *testing.T) {
	a := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	c := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	if !WithinDays(&a, &b, 7) {
		t.Error("expected 7 days apart inside a 7-day window")
	}
	if !WithinDays(&b, &a, 7) {
		t.Error("expected the window to be symmetric")
	}
	if WithinDays(&a, &c, 7) {
		t.Error("expected 8 days apart outside a 7-day window")
	}
	if !WithinDays(nil, nil, 7) {
		t.Error("expected two undated sides to match")
	}
	if WithinDays(&a, nil, 7) || WithinDays(nil, &a, 7) {
		t.Error("expected a one-sided missing date to not match")
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 42
	if got := DereferencePtr(&v); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := DereferencePtr[int](nil); got != 0 {
		t.Errorf("expected zero value, got %d", got)
	}
	if got := DereferencePtr(nil, 7); got != 7 {
		t.Errorf("expected the default, got %d", got)
	}
}
