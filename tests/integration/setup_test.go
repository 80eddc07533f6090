package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"chitieu/internal/handlers"
	"chitieu/internal/logger"
	"chitieu/internal/middleware"
	"chitieu/internal/models"
	"chitieu/internal/seed"
	"chitieu/internal/services"
	"chitieu/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	// Keep date range parsing aligned with the UTC-backed services below.
	os.Setenv("REPORT_TIMEZONE", "UTC")
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Family{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite, seeded with the default categories and admin account.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	if err := seed.Run(db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	// Services
	scopeResolver := services.NewScopeResolver(db)
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db, scopeResolver)
	analyticsService := services.NewAnalyticsService(db, scopeResolver, time.UTC)
	budgetService := services.NewBudgetService(db, time.UTC)
	categoryService := services.NewCategoryService(db)
	familyService := services.NewFamilyService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	familyHandler := handlers.NewFamilyHandler(familyService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.GET("/categories", transactionHandler.GetCategories)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.UpsertBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/progress", budgetHandler.GetBudgetProgress)

	families := protected.Group("/families")
	families.POST("", familyHandler.CreateFamily)
	families.POST("/join", familyHandler.JoinFamily)
	families.POST("/leave", familyHandler.LeaveFamily)
	families.GET("/me", familyHandler.GetFamily)
	families.GET("/members", familyHandler.GetFamilyMembers)

	reports := protected.Group("/reports")
	reports.GET("/daily", analyticsHandler.GetDailyStats)
	reports.GET("/categories", analyticsHandler.GetCategoryStats)
	reports.GET("/yearly", analyticsHandler.GetYearlyComparison)
	reports.GET("/trend", analyticsHandler.GetSixMonthTrend)
	reports.GET("/summary", analyticsHandler.GetSummary)
	reports.GET("/monthly", analyticsHandler.GetMonthlyStats)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired(db))
	admin.GET("/categories", categoryHandler.ListSystemCategories)
	admin.POST("/categories", categoryHandler.CreateSystemCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateSystemCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteSystemCategory)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, login, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"login":%q,"password":%q}`, login, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// findCategory returns the seeded category with the given name.
func (app *testApp) findCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	var category models.Category
	if err := app.DB.Where("name = ?", name).First(&category).Error; err != nil {
		t.Fatalf("failed to find category %q: %v", name, err)
	}
	return &category
}

// createTransaction records a transaction through the API and returns its ID.
func (app *testApp) createTransaction(t *testing.T, token, categoryID, txType, amount string) string {
	t.Helper()
	body := fmt.Sprintf(`{"category_id":%q,"type":%q,"amount":%s}`, categoryID, txType, amount)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	tx := result["transaction"].(map[string]interface{})
	return tx["id"].(string)
}
