package logger

import "testing"

func TestSanitizedEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"typical address", "alice@example.com", "a****@*******.com"},
		{"single char user", "a@example.com", "a@*******.com"},
		{"multi-part domain", "bob@mail.example.org", "b**@****.*******.org"},
		{"no at sign", "not-an-email", "[invalid-email]"},
		{"two at signs", "a@b@c.com", "[invalid-email]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizedEmail(tt.email); got != tt.want {
				t.Errorf("SanitizedEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestSanitizeQueryString(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     bool
	}{
		{"reset token", "token=abc123", true},
		{"password param", "password=hunter2", true},
		{"uppercase param", "TOKEN=abc123", true},
		{"email param", "email=a%40b.com", true},
		{"pagination only", "page=2&limit=10", false},
		{"empty query", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeQueryString(tt.rawQuery); got != tt.want {
				t.Errorf("SanitizeQueryString(%q) = %v, want %v", tt.rawQuery, got, tt.want)
			}
		})
	}
}
