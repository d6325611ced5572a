package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("kiosk-1", "device", "attendance-backend", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	claims, err := Parse(pair.AccessToken, "secret", "attendance-backend")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "kiosk-1" || claims.Role != "device" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParse_WrongKey(t *testing.T) {
	pair, err := Issue("kiosk-1", "device", "attendance-backend", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(pair.AccessToken, "other-secret", "attendance-backend"); err == nil {
		t.Error("expected signature error")
	}
}

func TestParse_IssuerMismatch(t *testing.T) {
	pair, err := Issue("kiosk-1", "device", "someone-else", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(pair.AccessToken, "secret", "attendance-backend"); err == nil {
		t.Error("expected issuer mismatch error")
	}
}

func TestParse_Expired(t *testing.T) {
	pair, err := Issue("kiosk-1", "device", "attendance-backend", "secret", -time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(pair.AccessToken, "secret", "attendance-backend"); err == nil {
		t.Error("expected expiry error")
	}
}
