package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	claims := Claims{
		UserID:     "usr-1",
		EmployerID: "org-1",
		Role:       RoleEmployer,
	}
	token, err := GenerateToken("secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	parsed, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.UserID != "usr-1" || parsed.EmployerID != "org-1" || parsed.Role != RoleEmployer {
		t.Fatalf("unexpected claims: %+v", parsed)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "usr-1"}, time.Hour)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatalf("expected an error for a wrong secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "usr-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatalf("expected an error for an expired token")
	}
}

func TestCanActFor(t *testing.T) {
	admin := UserContext{Role: RoleAdmin}
	if !admin.CanActFor("org-1") {
		t.Fatalf("expected admins to act for any employer")
	}

	employer := UserContext{Role: RoleEmployer, EmployerID: "org-1"}
	if !employer.CanActFor("org-1") {
		t.Fatalf("expected employers to act for their own organization")
	}
	if employer.CanActFor("org-2") {
		t.Fatalf("expected employers not to act for other organizations")
	}

	talent := UserContext{Role: RoleTalent, EmployeeID: "emp-1"}
	if talent.CanActFor("org-1") {
		t.Fatalf("expected talents not to act for employers")
	}
}
