package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chitieu/internal/logger"
	"chitieu/internal/models"
)

// analyticsService computes dashboard and report aggregations. Monetary sums
// accumulate as exact decimals; conversion to float64 happens only when the
// DTOs are built. Day and month boundaries use the configured reporting
// location uniformly.
type analyticsService struct {
	db    *gorm.DB
	scope ScopeResolver
	loc   *time.Location
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB, scope ScopeResolver, loc *time.Location) AnalyticsServicer {
	if loc == nil {
		loc = time.UTC
	}
	return &analyticsService{db: db, scope: scope, loc: loc}
}

// DailyStats returns one bucket per calendar day over the window (default:
// trailing 30 days ending today). Days without transactions appear with zero
// totals; callers can rely on the series being dense.
func (s *analyticsService) DailyStats(userID string, start, end *time.Time, scope Scope) []DailyStat {
	now := time.Now().In(s.loc)

	from := s.dayStart(now.AddDate(0, 0, -30))
	if start != nil {
		from = s.dayStart(start.In(s.loc))
	}
	to := s.dayEnd(now)
	if end != nil {
		to = s.dayEnd(end.In(s.loc))
	}

	rows, err := s.fetch(userID, scope, from, to, nil)
	if err != nil {
		logger.Get().Errorw("failed to fetch daily stats", "error", err)
		return []DailyStat{}
	}

	// Pre-seed every day of the interval so zero days are present.
	type bucket struct{ income, expense decimal.Decimal }
	index := make(map[string]*bucket)
	var order []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = &bucket{}
		order = append(order, key)
	}

	for _, t := range rows {
		key := t.Date.In(s.loc).Format("2006-01-02")
		b, ok := index[key]
		if !ok {
			continue
		}
		if t.Type == models.TransactionTypeIncome {
			b.income = b.income.Add(t.Amount)
		} else {
			b.expense = b.expense.Add(t.Amount)
		}
	}

	stats := make([]DailyStat, 0, len(order))
	for _, key := range order {
		b := index[key]
		stats = append(stats, DailyStat{
			Date:    key,
			Income:  b.income.InexactFloat64(),
			Expense: b.expense.InexactFloat64(),
		})
	}
	return stats
}

// CategoryStats sums expenses by category over the window (default: current
// month to date) and resolves category names, largest first. A category that
// no longer resolves is labelled "Unknown" rather than dropped or errored.
func (s *analyticsService) CategoryStats(userID string, start, end *time.Time, scope Scope) []CategoryStat {
	now := time.Now().In(s.loc)

	from := s.monthStart(now)
	if start != nil {
		from = start.In(s.loc)
	}
	to := now
	if end != nil {
		to = s.dayEnd(end.In(s.loc))
	}

	expense := models.TransactionTypeExpense
	rows, err := s.fetch(userID, scope, from, to, &expense)
	if err != nil {
		logger.Get().Errorw("failed to fetch category stats", "error", err)
		return []CategoryStat{}
	}

	sums := make(map[string]decimal.Decimal)
	for _, t := range rows {
		sums[t.CategoryID] = sums[t.CategoryID].Add(t.Amount)
	}
	if len(sums) == 0 {
		return []CategoryStat{}
	}

	categoryIDs := make([]string, 0, len(sums))
	for id := range sums {
		categoryIDs = append(categoryIDs, id)
	}
	var categories []models.Category
	if err := s.db.Unscoped().Select("id", "name").Find(&categories, "id IN ?", categoryIDs).Error; err != nil {
		logger.Get().Errorw("failed to resolve category names", "error", err)
		return []CategoryStat{}
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	stats := make([]CategoryStat, 0, len(sums))
	for id, sum := range sums {
		name, ok := names[id]
		if !ok {
			name = "Unknown"
		}
		stats = append(stats, CategoryStat{Name: name, Value: sum.InexactFloat64()})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Value > stats[j].Value })
	return stats
}

// YearlyComparison buckets expenses into fixed Jan-Dec months for the current
// and previous calendar year, fetched in one query and split in memory so the
// two series stay aligned for charting.
func (s *analyticsService) YearlyComparison(userID string, scope Scope) []YearlyMonth {
	now := time.Now().In(s.loc)
	currentYear := now.Year()
	lastYear := currentYear - 1

	from := time.Date(lastYear, time.January, 1, 0, 0, 0, 0, s.loc)
	to := time.Date(currentYear, time.December, 31, 23, 59, 59, 999999999, s.loc)

	expense := models.TransactionTypeExpense
	rows, err := s.fetch(userID, scope, from, to, &expense)
	if err != nil {
		logger.Get().Errorw("failed to fetch yearly comparison", "error", err)
		return []YearlyMonth{}
	}

	current := make([]decimal.Decimal, 12)
	previous := make([]decimal.Decimal, 12)
	for _, t := range rows {
		d := t.Date.In(s.loc)
		idx := int(d.Month()) - 1
		switch d.Year() {
		case currentYear:
			current[idx] = current[idx].Add(t.Amount)
		case lastYear:
			previous[idx] = previous[idx].Add(t.Amount)
		}
	}

	months := make([]YearlyMonth, 12)
	for i := 0; i < 12; i++ {
		months[i] = YearlyMonth{
			Month:       i + 1,
			Name:        monthLabel(i + 1),
			CurrentYear: current[i].InexactFloat64(),
			LastYear:    previous[i].InexactFloat64(),
		}
	}
	return months
}

// SixMonthTrend returns exactly six calendar-month expense buckets ending
// with the current (partial) month, keyed MM/yyyy.
func (s *analyticsService) SixMonthTrend(userID string, scope Scope) []TrendPoint {
	now := time.Now().In(s.loc)
	from := s.monthStart(now).AddDate(0, -5, 0)
	to := s.dayEnd(now)

	expense := models.TransactionTypeExpense
	rows, err := s.fetch(userID, scope, from, to, &expense)
	if err != nil {
		logger.Get().Errorw("failed to fetch six month trend", "error", err)
		return []TrendPoint{}
	}

	sums := make(map[string]decimal.Decimal)
	for _, t := range rows {
		sums[t.Date.In(s.loc).Format("01/2006")] = sums[t.Date.In(s.loc).Format("01/2006")].Add(t.Amount)
	}

	points := make([]TrendPoint, 0, 6)
	for m := from; !m.After(now); m = m.AddDate(0, 1, 0) {
		key := m.Format("01/2006")
		points = append(points, TrendPoint{Month: key, Value: sums[key].InexactFloat64()})
	}
	return points
}

// MonthlySummary sums income and expense independently over the window
// (default: first of the current month through now).
func (s *analyticsService) MonthlySummary(userID string, start, end *time.Time, scope Scope) Summary {
	now := time.Now().In(s.loc)

	from := s.monthStart(now)
	if start != nil {
		from = start.In(s.loc)
	}
	to := now
	if end != nil {
		to = s.dayEnd(end.In(s.loc))
	}

	rows, err := s.fetch(userID, scope, from, to, nil)
	if err != nil {
		logger.Get().Errorw("failed to fetch monthly summary", "error", err)
		return Summary{}
	}

	var income, expense decimal.Decimal
	for _, t := range rows {
		if t.Type == models.TransactionTypeIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{Income: income.InexactFloat64(), Expense: expense.InexactFloat64()}
}

// MonthlyStats compares the caller's current month against the previous one.
// This operation is personal-scope only; family visibility does not apply.
func (s *analyticsService) MonthlyStats(userID string) MonthlyStats {
	now := time.Now().In(s.loc)
	currentStart := s.monthStart(now)
	previousStart := currentStart.AddDate(0, -1, 0)
	currentEnd := currentStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	rows, err := s.fetch(userID, ScopePersonal, previousStart, currentEnd, nil)
	if err != nil {
		logger.Get().Errorw("failed to fetch monthly stats", "error", err)
		return MonthlyStats{}
	}

	var income, expense, prevIncome, prevExpense decimal.Decimal
	for _, t := range rows {
		d := t.Date.In(s.loc)
		inCurrent := !d.Before(currentStart)
		switch {
		case t.Type == models.TransactionTypeIncome && inCurrent:
			income = income.Add(t.Amount)
		case t.Type == models.TransactionTypeIncome:
			prevIncome = prevIncome.Add(t.Amount)
		case inCurrent:
			expense = expense.Add(t.Amount)
		default:
			prevExpense = prevExpense.Add(t.Amount)
		}
	}
	return MonthlyStats{
		Income:          income.InexactFloat64(),
		Expense:         expense.InexactFloat64(),
		PreviousIncome:  prevIncome.InexactFloat64(),
		PreviousExpense: prevExpense.InexactFloat64(),
	}
}

// fetch loads the scoped transaction rows for a window. Soft-deleted rows are
// excluded by GORM's default scope.
func (s *analyticsService) fetch(userID string, scope Scope, from, to time.Time, transactionType *models.TransactionType) ([]models.Transaction, error) {
	userIDs, err := s.scope.Resolve(userID, scope, "")
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	q := s.db.Model(&models.Transaction{}).
		Select("amount", "type", "date", "category_id").
		Where("user_id IN ?", userIDs).
		Where("date >= ? AND date <= ?", from, to)
	if transactionType != nil {
		q = q.Where("type = ?", *transactionType)
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *analyticsService) dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *analyticsService) dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, s.loc)
}

func (s *analyticsService) monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, s.loc)
}

// monthLabel renders the chart label for a month, "T1" through "T12".
func monthLabel(month int) string {
	return fmt.Sprintf("T%d", month)
}
