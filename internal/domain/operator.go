// Package domain defines the core types and interfaces for revmon.
package domain

// Operator status values as reported by the licensing registry.
const (
	StatusActive      = "Active"
	StatusUnderReview = "Under Review"
	StatusSuspended   = "Suspended"
	StatusInactive    = "Inactive"
)

// License categories issued by the authority.
const (
	LicenseSportsBetting = "Sports Betting"
	LicenseOnlineCasino  = "Online Casino"
	LicenseLottery       = "Lottery"
)

// HighRiskThreshold is the risk score above which an operator counts as
// high risk in the dashboard overview.
const HighRiskThreshold = 70

// Operator is a licensed gaming business under monitoring.
// OperatorID is assigned at licensing time and never changes.
type Operator struct {
	OperatorID       int64  `json:"operator_id"`
	Name             string `json:"name"`
	LicenseType      string `json:"license_type"`
	Status           string `json:"status"`
	RiskScore        int    `json:"risk_score"`
	ContactEmail     string `json:"contact_email"`
	LicenseIssueDate string `json:"license_issue_date"`
	LastReportDate   string `json:"last_report_date"`
}

// OperatorDetail is an operator joined with its most recent revenue
// reports, newest period first.
type OperatorDetail struct {
	Operator
	RecentReports []*RevenueReport `json:"recent_reports"`
}
