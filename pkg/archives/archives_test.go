package archives

import (
	"testing"

	"github.com/mementoweb/robustlinks/pkg/exclusion"
	"github.com/mementoweb/robustlinks/pkg/memento"
)

func TestDefault(t *testing.T) {
	if Default().Name != "internetarchive" {
		t.Fatalf("expected internetarchive as default, got %s", Default().Name)
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup("Archive.Today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "archive.today" {
		t.Fatalf("unexpected service: %+v", s)
	}

	if _, err := Lookup("nonexistent"); err == nil {
		t.Fatal("expected error for unknown service")
	}

	s, err = Lookup("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != Default().Name {
		t.Fatal("empty name must resolve to the default service")
	}
}

func TestRegistryTemplatesAreWellFormed(t *testing.T) {
	for _, name := range Names() {
		s, err := Lookup(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := memento.ValidateTemplate(s.Template); err != nil {
			t.Errorf("service %s has a malformed template: %v", name, err)
		}
		if s.TimeGateBase == "" {
			t.Errorf("service %s has no TimeGate base", name)
		}
	}
}

func TestDefaultExclusionPatternsCompile(t *testing.T) {
	m, err := exclusion.Compile(DefaultExclusionPatterns())
	if err != nil {
		t.Fatalf("default patterns must compile: %v", err)
	}

	if !m.IsKnownArchive("https://web.archive.org/web/20230101000000/http://example.com") {
		t.Fatal("expected wayback capture URL to classify as archived")
	}
	if !m.IsKnownArchive("http://archive.is/abc123") {
		t.Fatal("expected archive.is URL to classify as archived")
	}
	if m.IsKnownArchive("https://example.com/article") {
		t.Fatal("expected ordinary URL not to classify as archived")
	}
}
