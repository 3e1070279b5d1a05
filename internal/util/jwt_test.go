package util

import (
	"net/http"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(42, "secret", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	uid, err := ParseSessionToken(token, "secret")
	if err != nil {
		t.Fatal(err)
	}
	if uid != 42 {
		t.Fatalf("want user 42, got %d", uid)
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	a, _ := GenerateSessionToken(1, "secret", exp)
	b, _ := GenerateSessionToken(1, "secret", exp)
	if a == b {
		t.Fatal("two sessions for the same user must not share a token")
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	token, _ := GenerateSessionToken(1, "secret", time.Now().Add(time.Hour))
	if _, err := ParseSessionToken(token, "other"); err == nil {
		t.Fatal("a token signed with another secret must not parse")
	}
}

func TestParseSessionToken_Expired(t *testing.T) {
	token, _ := GenerateSessionToken(1, "secret", time.Now().Add(-time.Minute))
	if _, err := ParseSessionToken(token, "secret"); err == nil {
		t.Fatal("an expired token must not parse")
	}
}

func TestExtractToken(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	if got := ExtractToken(r); got != "" {
		t.Fatalf("no credential: want empty, got %q", got)
	}

	r.Header.Set("Authorization", "Bearer abc")
	if got := ExtractToken(r); got != "abc" {
		t.Fatalf("bearer: want abc, got %q", got)
	}

	// the cookie wins over the header
	r.AddCookie(&http.Cookie{Name: "session_token", Value: "xyz"})
	if got := ExtractToken(r); got != "xyz" {
		t.Fatalf("cookie: want xyz, got %q", got)
	}

	r2, _ := http.NewRequest(http.MethodGet, "/", nil)
	r2.Header.Set("Authorization", "Token abc")
	if got := ExtractToken(r2); got != "" {
		t.Fatalf("non-bearer scheme: want empty, got %q", got)
	}
}
