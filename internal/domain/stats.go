package domain

// DashboardStats is the full payload of the dashboard statistics
// aggregate. All sub-results are computed against the same store with no
// cross-field isolation guarantee; each individual aggregate is produced
// by a single query and is internally consistent.
type DashboardStats struct {
	Overview     Overview          `json:"overview"`
	RevenueTrend []TrendPoint      `json:"revenue_trend"`
	TopOperators []OperatorRevenue `json:"top_operators"`
}

// Overview holds the headline counters and period-over-period revenue
// comparison for the injected reporting period.
type Overview struct {
	TotalOperators       int64   `json:"total_operators"`
	ActiveOperators      int64   `json:"active_operators"`
	ProblematicOperators int64   `json:"problematic_operators"`
	HighRiskOperators    int64   `json:"high_risk_operators"`
	CurrentMonthRevenue  float64 `json:"current_month_revenue"`
	PreviousMonthRevenue float64 `json:"previous_month_revenue"`
	RevenueChangePercent float64 `json:"revenue_change_percent"`
	CurrentMonthTax      float64 `json:"current_month_tax"`
	ActiveAnomalies      int64   `json:"active_anomalies"`
	LateSubmissions      int64   `json:"late_submissions"`
}

// TrendPoint is one period of the all-time revenue trend series.
type TrendPoint struct {
	ReportDate   string  `json:"report_date"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalTax     float64 `json:"total_tax"`
	NumOperators int64   `json:"num_operators"`
}

// OperatorRevenue is one row of the top-operators-by-revenue ranking.
type OperatorRevenue struct {
	Name         string  `json:"name"`
	LicenseType  string  `json:"license_type"`
	GrossRevenue float64 `json:"gross_revenue"`
	DeclaredTax  float64 `json:"declared_tax"`
	RiskScore    int     `json:"risk_score"`
}
