package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	access, refresh, userID := app.registerUser(t, "flow@example.com", "password123")
	if userID == "" {
		t.Fatal("expected a user ID from registration")
	}

	// Access token works.
	rec := app.request("GET", "/api/v1/profile", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
	}

	// Refresh rotates the pair; the old refresh token stops working.
	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	rotated := parseJSON(t, rec)
	newRefresh := rotated["refresh_token"].(string)

	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 reusing a rotated refresh token, got %d", rec.Code)
	}

	// Logout invalidates the current refresh token.
	newAccess := rotated["access_token"].(string)
	rec = app.request("POST", "/api/v1/auth/logout", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, newRefresh), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestLoginByUsername(t *testing.T) {
	app := setupApp(t)

	body := `{"email":"named@example.com","username":"named","password":"password123","name":"Named"}`
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}

	app.loginUser(t, "named", "password123")
	app.loginUser(t, "named@example.com", "password123")
}

func TestSeededAdminCanLogIn(t *testing.T) {
	app := setupApp(t)

	access, _ := app.loginUser(t, "admin@example.com", "Abcd@1234")
	rec := app.request("GET", "/api/v1/admin/categories", "", access)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin listing failed: %d %s", rec.Code, rec.Body.String())
	}

	result := parseJSON(t, rec)
	categories := result["categories"].([]interface{})
	if len(categories) != 12 {
		t.Errorf("expected 12 seeded categories, got %d", len(categories))
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{
		"/api/v1/profile",
		"/api/v1/transactions",
		"/api/v1/budgets",
		"/api/v1/reports/daily",
		"/api/v1/families/me",
	} {
		rec := app.request("GET", path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, rec.Code)
		}
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app := setupApp(t)

	access, _, _ := app.registerUser(t, "plain@example.com", "password123")
	rec := app.request("GET", "/api/v1/admin/categories", "", access)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a non-admin, got %d", rec.Code)
	}
}
