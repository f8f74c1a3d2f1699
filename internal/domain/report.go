package domain

// RevenueReport is one operator's self-declared financial summary for one
// reporting period. ReportDate is the first day of the covered month in
// YYYY-MM-DD form. AnomalyType and AnomalyConfidence are set iff
// AnomalyFlag is set; they are pre-labeled by the compliance workflow, not
// computed here.
type RevenueReport struct {
	ReportID             int64    `json:"report_id"`
	OperatorID           int64    `json:"operator_id"`
	ReportDate           string   `json:"report_date"`
	GrossRevenue         float64  `json:"gross_revenue"`
	TotalBets            float64  `json:"total_bets"`
	TotalPayouts         float64  `json:"total_payouts"`
	NumberOfTransactions int64    `json:"number_of_transactions"`
	DeclaredTax          float64  `json:"declared_tax"`
	SubmissionTimestamp  string   `json:"submission_timestamp"`
	IsLate               bool     `json:"is_late"`
	AnomalyFlag          bool     `json:"anomaly_flag"`
	AnomalyType          *string  `json:"anomaly_type"`
	AnomalyConfidence    *float64 `json:"anomaly_confidence"`

	// Joined operator columns, populated by listing queries.
	OperatorName   string `json:"operator_name,omitempty"`
	LicenseType    string `json:"license_type,omitempty"`
	OperatorStatus string `json:"operator_status,omitempty"`
}

// ReportFilter holds the optional predicates for report listings.
// Nil/empty fields impose no constraint; set fields compose with AND.
type ReportFilter struct {
	OperatorID  *int64
	StartDate   string // inclusive lower bound on report_date
	EndDate     string // inclusive upper bound on report_date
	AnomalyOnly bool
}

// AnomalyFilter holds the optional predicates for the anomaly listing,
// which always constrains to flagged reports.
type AnomalyFilter struct {
	AnomalyType   string
	MinConfidence *float64
}

// AnomalyTypeCount is one row of the anomaly-type summary.
type AnomalyTypeCount struct {
	AnomalyType string `json:"anomaly_type"`
	Count       int64  `json:"count"`
}
