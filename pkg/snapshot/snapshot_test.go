package snapshot

import "testing"

func TestParseList_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		snaps, diags := ParseList(raw)
		if len(snaps) != 0 {
			t.Errorf("expected no snapshots for %q, got %v", raw, snaps)
		}
		if len(diags) != 0 {
			t.Errorf("expected no diagnostics for %q, got %v", raw, diags)
		}
	}
}

func TestParseList_PairsURIWithFollowingDatetime(t *testing.T) {
	snaps, diags := ParseList("http://a.com 20230101000000 http://b.com")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d: %v", len(snaps), snaps)
	}
	if snaps[0].URI != "http://a.com" || snaps[0].Datetime != "20230101000000" {
		t.Fatalf("unexpected first snapshot: %+v", snaps[0])
	}
	if snaps[1].URI != "http://b.com" || snaps[1].Datetime != "" {
		t.Fatalf("unexpected second snapshot: %+v", snaps[1])
	}
}

func TestParseList_SkipsInvalidTokens(t *testing.T) {
	snaps, diags := ParseList("bad-token http://a.com")
	if len(snaps) != 1 || snaps[0].URI != "http://a.com" {
		t.Fatalf("expected only http://a.com, got %v", snaps)
	}
	if len(diags) != 1 || diags[0].Token != "bad-token" || diags[0].Position != 0 {
		t.Fatalf("expected one skip diagnostic for bad-token, got %v", diags)
	}
}

func TestParseList_BareDatetimeIsSkippedAsInvalidURI(t *testing.T) {
	// A datetime with no preceding valid URI does not attach to anything.
	snaps, diags := ParseList("20230101000000 http://a.com")
	if len(snaps) != 1 || snaps[0].URI != "http://a.com" || snaps[0].Datetime != "" {
		t.Fatalf("unexpected snapshots: %v", snaps)
	}
	if len(diags) != 1 || diags[0].Token != "20230101000000" {
		t.Fatalf("expected skip diagnostic for bare datetime, got %v", diags)
	}
}

func TestParseList_DatetimeAfterSkippedTokenDoesNotReattach(t *testing.T) {
	snaps, diags := ParseList("http://a.com bad%%token 20230101000000")
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %v", snaps)
	}
	if snaps[0].Datetime != "" {
		t.Fatalf("datetime must not skip over an invalid token, got %+v", snaps[0])
	}
	// Both the invalid token and the now-orphaned datetime are skipped.
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
}

func TestParseList_AllFourDatetimeEncodings(t *testing.T) {
	raw := "http://a.com 2023-01-15 http://b.com 2023-01-15T10:05:30Z http://c.com 20230115 http://d.com 20230115100530"
	snaps, diags := ParseList(raw)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(snaps) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(snaps))
	}
	wantDatetimes := []string{"2023-01-15", "2023-01-15T10:05:30Z", "20230115", "20230115100530"}
	for i, want := range wantDatetimes {
		if snaps[i].Datetime != want {
			t.Errorf("snapshot %d: expected datetime %q, got %q", i, want, snaps[i].Datetime)
		}
	}
}

func TestFormatList_NormalizesWhitespacePreservesOrder(t *testing.T) {
	raw := "  http://a.com   20230101000000 \t http://b.com\nhttp://c.com 2023-05-01 "
	snaps, _ := ParseList(raw)

	got := FormatList(snaps)
	want := "http://a.com 20230101000000 http://b.com http://c.com 2023-05-01"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	// Reparsing the normalized form yields the same snapshots.
	again, diags := ParseList(got)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics on reparse: %v", diags)
	}
	if len(again) != len(snaps) {
		t.Fatalf("expected %d snapshots on reparse, got %d", len(snaps), len(again))
	}
	for i := range snaps {
		if snaps[i] != again[i] {
			t.Errorf("snapshot %d changed across round trip: %+v vs %+v", i, snaps[i], again[i])
		}
	}
}

func TestFormatList_Empty(t *testing.T) {
	if got := FormatList(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
