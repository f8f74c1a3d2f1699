package repository

import "fmt"

// Schema definitions for the revmon database.
// Compatible with both SQLite and PostgreSQL; the only divergence is the
// auto-assigned primary key syntax, selected per driver.

const schemaOperators = `
CREATE TABLE IF NOT EXISTS operators (
    operator_id BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    license_type TEXT NOT NULL,
    status TEXT NOT NULL,
    risk_score INTEGER NOT NULL DEFAULT 0,
    contact_email TEXT,
    license_issue_date TEXT,
    last_report_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_operators_status ON operators(status);
CREATE INDEX IF NOT EXISTS idx_operators_risk ON operators(risk_score);
`

const schemaRevenueReports = `
CREATE TABLE IF NOT EXISTS revenue_reports (
    report_id %s,
    operator_id BIGINT NOT NULL REFERENCES operators(operator_id),
    report_date TEXT NOT NULL,
    gross_revenue REAL NOT NULL DEFAULT 0,
    total_bets REAL NOT NULL DEFAULT 0,
    total_payouts REAL NOT NULL DEFAULT 0,
    number_of_transactions BIGINT NOT NULL DEFAULT 0,
    declared_tax REAL NOT NULL DEFAULT 0,
    submission_timestamp TEXT,
    is_late INTEGER NOT NULL DEFAULT 0,
    anomaly_flag INTEGER NOT NULL DEFAULT 0,
    anomaly_type TEXT,
    anomaly_confidence REAL
);

CREATE INDEX IF NOT EXISTS idx_reports_operator ON revenue_reports(operator_id);
CREATE INDEX IF NOT EXISTS idx_reports_date ON revenue_reports(report_date);
CREATE INDEX IF NOT EXISTS idx_reports_anomaly ON revenue_reports(anomaly_flag, anomaly_confidence);
`

const schemaTransactions = `
CREATE TABLE IF NOT EXISTS transactions (
    transaction_id %s,
    operator_id BIGINT NOT NULL REFERENCES operators(operator_id),
    transaction_date TEXT NOT NULL,
    transaction_hour INTEGER NOT NULL DEFAULT 0,
    bet_amount REAL NOT NULL DEFAULT 0,
    payout_amount REAL NOT NULL DEFAULT 0,
    game_type TEXT,
    player_id TEXT,
    ip_address TEXT,
    suspicious_flag INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_transactions_operator ON transactions(operator_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(transaction_date, transaction_hour);
CREATE INDEX IF NOT EXISTS idx_transactions_suspicious ON transactions(suspicious_flag);
`

// AllSchemas returns all schema statements in dependency order for the
// given driver.
func AllSchemas(driver string) []string {
	autoPK := "INTEGER PRIMARY KEY"
	if driver == "postgres" {
		autoPK = "BIGSERIAL PRIMARY KEY"
	}

	return []string{
		schemaOperators,
		fmt.Sprintf(schemaRevenueReports, autoPK),
		fmt.Sprintf(schemaTransactions, autoPK),
	}
}
