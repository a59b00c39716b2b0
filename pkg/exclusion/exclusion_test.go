package exclusion

import "testing"

var testPatterns = []string{
	"https?://web.archive.org/web/[0-9]+",
	"https?://archive.today",
	"https?://wayback.archive-it.org/[0-9]+",
}

func TestCompileAndMatch(t *testing.T) {
	m, err := Compile(testPatterns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 patterns, got %d", m.Len())
	}

	archived := []string{
		"https://web.archive.org/web/20230101000000/http://example.com",
		"http://web.archive.org/web/19961231/http://example.com",
		"https://archive.today/newest/http://example.com",
		"HTTPS://WEB.ARCHIVE.ORG/WEB/20230101000000/http://example.com", // case-insensitive
	}
	for _, u := range archived {
		if !m.IsKnownArchive(u) {
			t.Errorf("expected %q to match", u)
		}
	}

	live := []string{
		"https://example.com",
		"https://web.archive.org/", // no capture path
		"https://notarchive.today/x",
		"https://example.com/https://web.archive.org/web/1/x", // anchored at start
	}
	for _, u := range live {
		if m.IsKnownArchive(u) {
			t.Errorf("expected %q not to match", u)
		}
	}
}

func TestCompile_DotsAreLiteral(t *testing.T) {
	m, err := Compile([]string{"https?://perma.cc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.IsKnownArchive("https://permaXcc/whatever") {
		t.Fatal("dot must not match arbitrary characters")
	}
	if !m.IsKnownArchive("https://perma.cc/ABCD-1234") {
		t.Fatal("expected literal dot to match")
	}
}

func TestCompile_SkipsBlankAndRejectsBadPatterns(t *testing.T) {
	m, err := Compile([]string{"", "   ", "https?://archive.ph"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected blank patterns to be skipped, got %d", m.Len())
	}

	if _, err := Compile([]string{"https?://broken["}); err == nil {
		t.Fatal("expected error for unbalanced character class")
	}
}

func TestIsKnownArchive_PureAndNilSafe(t *testing.T) {
	m, err := Compile(testPatterns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := "https://web.archive.org/web/20230101000000/http://example.com"
	first := m.IsKnownArchive(u)
	for i := 0; i < 10; i++ {
		if m.IsKnownArchive(u) != first {
			t.Fatal("classification must be stable across repeated calls")
		}
	}

	var nilMatcher *Matcher
	if nilMatcher.IsKnownArchive(u) {
		t.Fatal("nil matcher must answer false")
	}
}

func TestAsyncMatcher_FalseBeforeReady(t *testing.T) {
	am := NewAsyncMatcher()

	u := "https://web.archive.org/web/20230101000000/http://example.com"
	if am.IsKnownArchive(u) {
		t.Fatal("expected false before patterns are installed")
	}

	select {
	case <-am.Ready():
		t.Fatal("ready must not be signaled before Set")
	default:
	}

	m, err := Compile(testPatterns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	am.Set(m)

	select {
	case <-am.Ready():
	default:
		t.Fatal("ready must be signaled after Set")
	}

	if !am.IsKnownArchive(u) {
		t.Fatal("expected true after patterns are installed")
	}
}

func TestParsePatternsJSON_ArrayForm(t *testing.T) {
	body := []byte(`["https?://web.archive.org/web/[0-9]+", "https?://archive.today"]`)
	patterns, err := ParsePatternsJSON(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %v", patterns)
	}
}

func TestParsePatternsJSON_ObjectForm(t *testing.T) {
	body := []byte(`{
		"internet_archive": ["https?://web.archive.org/web/[0-9]+", "https?://wayback.archive.org"],
		"archive_today": "https?://archive.today"
	}`)
	patterns, err := ParsePatternsJSON(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patterns) != 3 {
		t.Fatalf("expected 3 patterns, got %v", patterns)
	}
}

func TestParsePatternsJSON_Rejects(t *testing.T) {
	for _, body := range []string{`"just a string"`, `[]`, `123`} {
		if _, err := ParsePatternsJSON([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}
