package datetime

import (
	"errors"
	"testing"
	"time"
)

func TestParse_DateOnlyAnchorsAtNoonUTC(t *testing.T) {
	got, err := Parse("2023-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParse_ISOWithZ(t *testing.T) {
	got, err := Parse("2022-11-23T10:05:30Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2022, 11, 23, 10, 5, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParse_BasicDateAnchorsAtNoonUTC(t *testing.T) {
	got, err := Parse("20230115")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParse_ArchiveStamp(t *testing.T) {
	got, err := Parse("20221123100530")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2022, 11, 23, 10, 5, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParse_RejectsOtherShapes(t *testing.T) {
	invalid := []string{
		"",
		"2023/01/15",
		"2023-1-5",
		"2023-01-15T10:05:30",       // missing Z
		"2023-01-15T10:05:30+00:00", // offset instead of Z
		"2023-01-15T10:05:30z",      // lowercase z
		"202301151",                 // 9 digits
		"2023011510053",             // 13 digits
		"202301151005300",           // 15 digits
		"2023-01-15 extra",
		"not-a-date",
		"15-01-2023",
	}

	for _, s := range invalid {
		if _, err := Parse(s); !errors.Is(err, ErrInvalidDatetime) {
			t.Errorf("expected ErrInvalidDatetime for %q, got %v", s, err)
		}
	}
}

func TestParse_ImpossibleCalendarFields(t *testing.T) {
	// These match an accepted shape but name no real instant. They must
	// error, never panic.
	for _, s := range []string{"2023-13-01", "2023-02-30", "20231301", "20230115250000"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestFormatArchive(t *testing.T) {
	in := time.Date(2023, 5, 15, 12, 30, 45, 0, time.UTC)
	if got := FormatArchive(in); got != "20230515123045" {
		t.Fatalf("expected 20230515123045, got %s", got)
	}
}

func TestFormatArchive_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2023, 5, 15, 17, 30, 45, 0, loc)
	if got := FormatArchive(in); got != "20230515123045" {
		t.Fatalf("expected 20230515123045, got %s", got)
	}
}

func TestFormatDate_RoundTripsDateOnly(t *testing.T) {
	// Noon anchoring means parse-then-render reproduces the input date for
	// any valid YYYY-MM-DD string.
	for _, s := range []string{"2023-01-15", "1996-12-31", "2000-02-29"} {
		parsed, err := Parse(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if got := FormatDate(parsed); got != s {
			t.Errorf("round trip of %q produced %q", s, got)
		}
	}
}

func TestIsDatetime(t *testing.T) {
	if !IsDatetime("20230101000000") {
		t.Fatal("expected 14-digit stamp to be a datetime")
	}
	if IsDatetime("http://example.com") {
		t.Fatal("expected URL not to be a datetime")
	}
}
