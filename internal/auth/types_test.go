package auth

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "alice@example.com"},
		{"  Alice@Example.COM  ", "alice@example.com"},
		{"\tBOB@X.IO\n", "bob@x.io"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"simple", "alice@example.com", true},
		{"subdomain", "alice@mail.example.com", true},
		{"plus tag", "alice+tag@example.com", true},
		{"empty", "", false},
		{"no at sign", "alice.example.com", false},
		{"no domain dot", "alice@localhost", false},
		{"internal space", "alice smith@example.com", false},
		{"double at", "alice@@example.com", false},
		{"over max length", strings.Repeat("a", maxEmailLength) + "@x.io", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	if !IsValidRole(RoleUser) {
		t.Error("RoleUser should be valid")
	}
	if !IsValidRole(RoleAdmin) {
		t.Error("RoleAdmin should be valid")
	}
	if IsValidRole(Role("superuser")) {
		t.Error("unknown role should be invalid")
	}
	if IsValidRole(Role("")) {
		t.Error("empty role should be invalid")
	}
}
