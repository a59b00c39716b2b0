package storage

import "testing"

func TestNormalizeDocumentURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://Example.COM/posts/", "https://example.com/posts"},
		{"https://example.com/posts#section", "https://example.com/posts"},
		{"https://example.com/", "https://example.com/"},
		{"  https://example.com/a  ", "https://example.com/a"},
		{"not a url", "not a url"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeDocumentURL(tt.in); got != tt.want {
			t.Errorf("NormalizeDocumentURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRootDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"http://sub.foo.example.co.uk/path", "example.co.uk", true},
		{"https://www.example.com", "example.com", true},
		{"example.com/path", "example.com", true},
		{"localhost", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := RootDomain(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("RootDomain(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
