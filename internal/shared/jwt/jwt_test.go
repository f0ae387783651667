package jwt

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken("u1", "driver@fleet.local", "driver", "Sam Okafor")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if claims.UserID != "u1" || claims.Role != "driver" || claims.Name != "Sam Okafor" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken("u1", "a@b.c", "admin", "A")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret must not parse")
	}
}

func TestTokenExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.GenerateToken("u1", "a@b.c", "driver", "A")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.ParseToken(token); err == nil {
		t.Fatal("expired token must not parse")
	}
}
