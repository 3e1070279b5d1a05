package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogin_SetsSessionCookie(t *testing.T) {
	engine := newTestRouter(&fakeDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ada@portal.io","department":"admin"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_token" && c.Value == goodToken {
			found = true
		}
	}
	if !found {
		t.Fatal("login should set the session_token cookie")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	engine := newTestRouter(&fakeDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nobody@portal.io","department":"admin"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestSession_UnauthenticatedGetsNullUser(t *testing.T) {
	engine := newTestRouter(&fakeDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("session probe must be 200 even unauthenticated, got %d", rec.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if string(resp["user"]) != "null" {
		t.Fatalf("want user null, got %s", resp["user"])
	}
}

func TestSession_AuthenticatedGetsUser(t *testing.T) {
	engine := newTestRouter(&fakeDispatcher{})

	req := authed(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"Ada"`) {
		t.Fatalf("want the session user's fields, got %s", rec.Body.String())
	}
}

func TestLogout_OK(t *testing.T) {
	engine := newTestRouter(&fakeDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLogs_BadScopeRejected(t *testing.T) {
	engine := newTestRouter(&fakeDispatcher{})

	req := authed(httptest.NewRequest(http.MethodGet, "/api/logs/sms?scope=everyone", nil))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestLogs_RequireSession(t *testing.T) {
	for _, path := range []string{"/api/logs/sms", "/api/logs/email", "/api/logs/webapi"} {
		engine := newTestRouter(&fakeDispatcher{})
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want 401, got %d", path, rec.Code)
		}
	}
}

func TestLogs_OKWithSession(t *testing.T) {
	engine := newTestRouter(&fakeDispatcher{})

	for _, path := range []string{"/api/logs/sms?scope=mine", "/api/logs/email", "/api/logs/webapi?scope=all"} {
		req := authed(httptest.NewRequest(http.MethodGet, path, nil))
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: want 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}
