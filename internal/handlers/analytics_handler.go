package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chitieu/internal/services"
)

// AnalyticsHandler serves the dashboard and report aggregations. Every
// endpoint here is a read that degrades to empty data rather than failing.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetDailyStats returns per-day income and expense buckets.
// @Summary     Daily statistics
// @Description Per-day income/expense totals; every day of the window appears
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       scope query string false "personal or family"
// @Param       from  query string false "Start date (YYYY-MM-DD)"
// @Param       to    query string false "End date, inclusive (YYYY-MM-DD)"
// @Success     200 {object} map[string][]services.DailyStat "Daily buckets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/daily [get]
func (h *AnalyticsHandler) GetDailyStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": h.analyticsService.DailyStats(userID, from, to, parseScope(c))})
}

// GetCategoryStats returns expenses summed by category.
// @Summary     Category statistics
// @Description Expense totals per category over the window, largest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       scope query string false "personal or family"
// @Param       from  query string false "Start date (YYYY-MM-DD)"
// @Param       to    query string false "End date, inclusive (YYYY-MM-DD)"
// @Success     200 {object} map[string][]services.CategoryStat "Category totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/categories [get]
func (h *AnalyticsHandler) GetCategoryStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": h.analyticsService.CategoryStats(userID, from, to, parseScope(c))})
}

// GetYearlyComparison returns the year-over-year expense comparison.
// @Summary     Yearly comparison
// @Description Monthly expense totals for the current and previous year
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       scope query string false "personal or family"
// @Success     200 {object} map[string][]services.YearlyMonth "Twelve month buckets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/yearly [get]
func (h *AnalyticsHandler) GetYearlyComparison(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comparison": h.analyticsService.YearlyComparison(userID, parseScope(c))})
}

// GetSixMonthTrend returns the trailing six-month expense trend.
// @Summary     Six month trend
// @Description Expense totals for the six months ending with the current one
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       scope query string false "personal or family"
// @Success     200 {object} map[string][]services.TrendPoint "Six month buckets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/trend [get]
func (h *AnalyticsHandler) GetSixMonthTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": h.analyticsService.SixMonthTrend(userID, parseScope(c))})
}

// GetSummary returns independent income and expense sums over a window.
// @Summary     Summary
// @Description Income and expense totals over the window
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       scope query string false "personal or family"
// @Param       from  query string false "Start date (YYYY-MM-DD)"
// @Param       to    query string false "End date, inclusive (YYYY-MM-DD)"
// @Success     200 {object} services.Summary "Totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": h.analyticsService.MonthlySummary(userID, from, to, parseScope(c))})
}

// GetMonthlyStats compares the caller's current month with the previous one.
// @Summary     Monthly statistics
// @Description The caller's current month versus the previous one
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.MonthlyStats "Current and previous month totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/monthly [get]
func (h *AnalyticsHandler) GetMonthlyStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": h.analyticsService.MonthlyStats(userID)})
}
