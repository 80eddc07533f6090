package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestReportsFlow(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "reporter@example.com", "password123")
	food := app.findCategory(t, "Ăn uống")
	transport := app.findCategory(t, "Di chuyển")
	salary := app.findCategory(t, "Lương")

	app.createTransaction(t, token, food.ID, "EXPENSE", "120000")
	app.createTransaction(t, token, food.ID, "EXPENSE", "80000")
	app.createTransaction(t, token, transport.ID, "EXPENSE", "50000")
	app.createTransaction(t, token, salary.ID, "INCOME", "5000000")

	today := time.Now().UTC().Format("2006-01-02")
	rangeQuery := fmt.Sprintf("?from=%s&to=%s", today, today)

	t.Run("daily stats", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/daily"+rangeQuery, "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("daily failed: %d %s", rec.Code, rec.Body.String())
		}
		stats := parseJSON(t, rec)["stats"].([]interface{})
		if len(stats) != 1 {
			t.Fatalf("expected a single day bucket, got %d", len(stats))
		}
		day := stats[0].(map[string]interface{})
		if day["expense"].(float64) != 250000 {
			t.Errorf("expected expense 250000, got %v", day["expense"])
		}
		if day["income"].(float64) != 5000000 {
			t.Errorf("expected income 5000000, got %v", day["income"])
		}
	})

	t.Run("category stats sorted by spend", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/categories"+rangeQuery, "", token)
		stats := parseJSON(t, rec)["stats"].([]interface{})
		if len(stats) != 2 {
			t.Fatalf("expected 2 expense categories, got %d", len(stats))
		}
		first := stats[0].(map[string]interface{})
		if first["name"] != "Ăn uống" || first["value"].(float64) != 200000 {
			t.Errorf("expected Ăn uống at 200000 first, got %v", first)
		}
	})

	t.Run("yearly comparison has twelve months", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/yearly", "", token)
		comparison := parseJSON(t, rec)["comparison"].([]interface{})
		if len(comparison) != 12 {
			t.Fatalf("expected 12 months, got %d", len(comparison))
		}
		if name := comparison[0].(map[string]interface{})["name"]; name != "T1" {
			t.Errorf("expected first month labeled T1, got %v", name)
		}
	})

	t.Run("six month trend", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/trend", "", token)
		trend := parseJSON(t, rec)["trend"].([]interface{})
		if len(trend) != 6 {
			t.Fatalf("expected 6 trend points, got %d", len(trend))
		}
		last := trend[5].(map[string]interface{})
		if last["value"].(float64) != 250000 {
			t.Errorf("expected current month spend 250000, got %v", last["value"])
		}
	})

	t.Run("summary", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/summary"+rangeQuery, "", token)
		summary := parseJSON(t, rec)["summary"].(map[string]interface{})
		if summary["income"].(float64) != 5000000 {
			t.Errorf("expected income 5000000, got %v", summary["income"])
		}
		if summary["expense"].(float64) != 250000 {
			t.Errorf("expected expense 250000, got %v", summary["expense"])
		}
	})

	t.Run("monthly stats", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/reports/monthly", "", token)
		stats := parseJSON(t, rec)["stats"].(map[string]interface{})
		if stats["income"].(float64) != 5000000 {
			t.Errorf("expected income 5000000, got %v", stats["income"])
		}
		if stats["expense"].(float64) != 250000 {
			t.Errorf("expected expense 250000, got %v", stats["expense"])
		}
	})
}

func TestReportsFamilyScope(t *testing.T) {
	app := setupApp(t)

	aliceToken, _, _ := app.registerUser(t, "ra@example.com", "password123")
	bobToken, _, _ := app.registerUser(t, "rb@example.com", "password123")

	rec := app.request("POST", "/api/v1/families", `{"name":"Reporters"}`, aliceToken)
	inviteCode := parseJSON(t, rec)["family"].(map[string]interface{})["invite_code"].(string)
	app.request("POST", "/api/v1/families/join", fmt.Sprintf(`{"invite_code":%q}`, inviteCode), bobToken)

	food := app.findCategory(t, "Ăn uống")
	app.createTransaction(t, aliceToken, food.ID, "EXPENSE", "100000")
	app.createTransaction(t, bobToken, food.ID, "EXPENSE", "150000")

	today := time.Now().UTC().Format("2006-01-02")
	path := fmt.Sprintf("/api/v1/reports/summary?from=%s&to=%s&scope=family", today, today)
	rec = app.request("GET", path, "", aliceToken)
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["expense"].(float64) != 250000 {
		t.Errorf("expected merged family expense 250000, got %v", summary["expense"])
	}
}
