// Package repository implements the query layer over the revenue
// monitoring store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nla-gaming/revmon/internal/domain"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)

// reportColumns is the base projection for revenue report queries,
// aliased to r.
const reportColumns = `r.report_id, r.operator_id, r.report_date, r.gross_revenue,
	   r.total_bets, r.total_payouts, r.number_of_transactions, r.declared_tax,
	   r.submission_timestamp, r.is_late, r.anomaly_flag, r.anomaly_type, r.anomaly_confidence`

// SQLRepository implements domain.Repository using database/sql.
// Works with both SQLite and PostgreSQL drivers. All reads are pure
// functions of the store contents and their parameters.
type SQLRepository struct {
	db           *sql.DB
	driver       string
	queryTimeout timeoutFunc
}

// New creates a new repository based on configuration.
func New(cfg domain.RepositoryConfig) (domain.Repository, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	repo := &SQLRepository{
		db:           db,
		driver:       cfg.Driver,
		queryTimeout: newTimeoutFunc(cfg.QueryTimeout),
	}

	// Run migrations
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *SQLRepository) migrate() error {
	for _, schema := range AllSchemas(r.driver) {
		if _, err := r.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

// ListOperators returns all operators ordered by descending risk score.
func (r *SQLRepository) ListOperators(ctx context.Context) ([]*domain.Operator, error) {
	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	query := `
		SELECT operator_id, name, license_type, status, risk_score,
			   contact_email, license_issue_date, last_report_date
		FROM operators
		ORDER BY risk_score DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	operators := []*domain.Operator{}
	for rows.Next() {
		var op domain.Operator
		if err := scanOperator(rows, &op); err != nil {
			return nil, err
		}
		operators = append(operators, &op)
	}

	return operators, rows.Err()
}

// GetOperator retrieves an operator together with its six most recent
// reports, newest period first. Returns ErrNotFound for unknown IDs.
func (r *SQLRepository) GetOperator(ctx context.Context, operatorID int64) (*domain.OperatorDetail, error) {
	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	query := `
		SELECT operator_id, name, license_type, status, risk_score,
			   contact_email, license_issue_date, last_report_date
		FROM operators
		WHERE operator_id = ?
	`

	var detail domain.OperatorDetail
	err := scanOperator(r.db.QueryRowContext(ctx, r.rebind(query), operatorID), &detail.Operator)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	reportsQuery := `
		SELECT ` + reportColumns + `
		FROM revenue_reports r
		WHERE r.operator_id = ?
		ORDER BY r.report_date DESC
		LIMIT 6
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(reportsQuery), operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail.RecentReports = []*domain.RevenueReport{}
	for rows.Next() {
		var rep domain.RevenueReport
		if err := scanReport(rows, &rep); err != nil {
			return nil, err
		}
		detail.RecentReports = append(detail.RecentReports, &rep)
	}

	return &detail, rows.Err()
}

// ListReports returns revenue reports joined with their operator's name
// and license, newest period first. Absent filter fields impose no
// constraint; present ones compose with AND.
func (r *SQLRepository) ListReports(ctx context.Context, filter domain.ReportFilter) ([]*domain.RevenueReport, error) {
	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	b := newQueryBuilder(`
		SELECT ` + reportColumns + `, o.name, o.license_type
		FROM revenue_reports r
		JOIN operators o ON r.operator_id = o.operator_id
		WHERE 1=1`)

	if filter.OperatorID != nil {
		b.Where("r.operator_id = ?", *filter.OperatorID)
	}
	if filter.StartDate != "" {
		b.Where("r.report_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		b.Where("r.report_date <= ?", filter.EndDate)
	}
	if filter.AnomalyOnly {
		b.Where("r.anomaly_flag = ?", 1)
	}
	b.OrderBy("r.report_date DESC")

	query, args := b.Query()
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*domain.RevenueReport{}
	for rows.Next() {
		var rep domain.RevenueReport
		if err := scanReport(rows, &rep, &rep.OperatorName, &rep.LicenseType); err != nil {
			return nil, err
		}
		reports = append(reports, &rep)
	}

	return reports, rows.Err()
}

// GetReport retrieves a single report joined with its operator's name and
// license. Returns ErrNotFound for unknown IDs.
func (r *SQLRepository) GetReport(ctx context.Context, reportID int64) (*domain.RevenueReport, error) {
	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + reportColumns + `, o.name, o.license_type
		FROM revenue_reports r
		JOIN operators o ON r.operator_id = o.operator_id
		WHERE r.report_id = ?
	`

	var rep domain.RevenueReport
	err := scanReport(r.db.QueryRowContext(ctx, r.rebind(query), reportID), &rep, &rep.OperatorName, &rep.LicenseType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rep, nil
}

// ListAnomalies returns flagged reports only, joined with operator name,
// license and status, ordered by confidence descending then period
// descending.
func (r *SQLRepository) ListAnomalies(ctx context.Context, filter domain.AnomalyFilter) ([]*domain.RevenueReport, error) {
	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	b := newQueryBuilder(`
		SELECT ` + reportColumns + `, o.name, o.license_type, o.status
		FROM revenue_reports r
		JOIN operators o ON r.operator_id = o.operator_id
		WHERE r.anomaly_flag = 1`)

	if filter.AnomalyType != "" {
		b.Where("r.anomaly_type = ?", filter.AnomalyType)
	}
	if filter.MinConfidence != nil {
		b.Where("r.anomaly_confidence >= ?", *filter.MinConfidence)
	}
	b.OrderBy("r.anomaly_confidence DESC, r.report_date DESC")

	query, args := b.Query()
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	anomalies := []*domain.RevenueReport{}
	for rows.Next() {
		var rep domain.RevenueReport
		if err := scanReport(rows, &rep, &rep.OperatorName, &rep.LicenseType, &rep.OperatorStatus); err != nil {
			return nil, err
		}
		anomalies = append(anomalies, &rep)
	}

	return anomalies, rows.Err()
}

// AnomalyTypeSummary returns the distinct anomaly categories present
// among flagged reports with their occurrence counts, most frequent
// first. Flagged rows without a category are excluded.
func (r *SQLRepository) AnomalyTypeSummary(ctx context.Context) ([]*domain.AnomalyTypeCount, error) {
	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	query := `
		SELECT anomaly_type, COUNT(*) as count
		FROM revenue_reports
		WHERE anomaly_flag = 1 AND anomaly_type IS NOT NULL
		GROUP BY anomaly_type
		ORDER BY count DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []*domain.AnomalyTypeCount{}
	for rows.Next() {
		var tc domain.AnomalyTypeCount
		if err := rows.Scan(&tc.AnomalyType, &tc.Count); err != nil {
			return nil, err
		}
		types = append(types, &tc)
	}

	return types, rows.Err()
}

// ListTransactions returns wagering transactions joined with their
// operator's name, newest first with hour as tiebreaker. A limit is
// always applied; non-positive limits fall back to the default cap.
func (r *SQLRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	b := newQueryBuilder(`
		SELECT t.transaction_id, t.operator_id, t.transaction_date, t.transaction_hour,
			   t.bet_amount, t.payout_amount, t.game_type, t.player_id, t.ip_address,
			   t.suspicious_flag, o.name
		FROM transactions t
		JOIN operators o ON t.operator_id = o.operator_id
		WHERE 1=1`)

	if filter.OperatorID != nil {
		b.Where("t.operator_id = ?", *filter.OperatorID)
	}
	if filter.SuspiciousOnly {
		b.Where("t.suspicious_flag = ?", 1)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultTransactionLimit
	}
	b.OrderBy("t.transaction_date DESC, t.transaction_hour DESC").Limit(limit)

	query, args := b.Query()
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var suspicious int
		if err := rows.Scan(
			&tx.TransactionID, &tx.OperatorID, &tx.TransactionDate, &tx.TransactionHour,
			&tx.BetAmount, &tx.PayoutAmount, &tx.GameType, &tx.PlayerID, &tx.IPAddress,
			&suspicious, &tx.OperatorName,
		); err != nil {
			return nil, err
		}
		tx.SuspiciousFlag = suspicious == 1
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

// SaveOperator stores an operator record. Seed/test path only.
func (r *SQLRepository) SaveOperator(ctx context.Context, op *domain.Operator) error {
	if op.OperatorID <= 0 {
		return fmt.Errorf("%w: operator_id must be positive", ErrInvalidInput)
	}

	query := `
		INSERT INTO operators (
			operator_id, name, license_type, status, risk_score,
			contact_email, license_issue_date, last_report_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, r.rebind(query),
		op.OperatorID, op.Name, op.LicenseType, op.Status, op.RiskScore,
		op.ContactEmail, op.LicenseIssueDate, op.LastReportDate,
	)
	return err
}

// SaveReport stores a revenue report and returns its assigned ID.
// Seed/test path only.
func (r *SQLRepository) SaveReport(ctx context.Context, rep *domain.RevenueReport) (int64, error) {
	if rep.OperatorID <= 0 {
		return 0, fmt.Errorf("%w: operator_id must be positive", ErrInvalidInput)
	}
	if rep.AnomalyFlag && (rep.AnomalyType == nil || rep.AnomalyConfidence == nil) {
		return 0, fmt.Errorf("%w: flagged report requires anomaly_type and anomaly_confidence", ErrInvalidInput)
	}
	if !rep.AnomalyFlag && (rep.AnomalyType != nil || rep.AnomalyConfidence != nil) {
		return 0, fmt.Errorf("%w: unflagged report cannot carry anomaly_type or anomaly_confidence", ErrInvalidInput)
	}

	query := `
		INSERT INTO revenue_reports (
			operator_id, report_date, gross_revenue, total_bets, total_payouts,
			number_of_transactions, declared_tax, submission_timestamp,
			is_late, anomaly_flag, anomaly_type, anomaly_confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return r.insertReturningID(ctx, query, "report_id",
		rep.OperatorID, rep.ReportDate, rep.GrossRevenue, rep.TotalBets, rep.TotalPayouts,
		rep.NumberOfTransactions, rep.DeclaredTax, rep.SubmissionTimestamp,
		boolToInt(rep.IsLate), boolToInt(rep.AnomalyFlag), rep.AnomalyType, rep.AnomalyConfidence,
	)
}

// SaveTransaction stores a wagering transaction and returns its assigned
// ID. Seed/test path only.
func (r *SQLRepository) SaveTransaction(ctx context.Context, tx *domain.Transaction) (int64, error) {
	if tx.OperatorID <= 0 {
		return 0, fmt.Errorf("%w: operator_id must be positive", ErrInvalidInput)
	}

	query := `
		INSERT INTO transactions (
			operator_id, transaction_date, transaction_hour, bet_amount,
			payout_amount, game_type, player_id, ip_address, suspicious_flag
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return r.insertReturningID(ctx, query, "transaction_id",
		tx.OperatorID, tx.TransactionDate, tx.TransactionHour, tx.BetAmount,
		tx.PayoutAmount, tx.GameType, tx.PlayerID, tx.IPAddress, boolToInt(tx.SuspiciousFlag),
	)
}

// Ping checks database connectivity.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// insertReturningID runs an INSERT and reports the auto-assigned key.
// PostgreSQL has no LastInsertId, so it gets a RETURNING clause instead.
func (r *SQLRepository) insertReturningID(ctx context.Context, query, idColumn string, args ...any) (int64, error) {
	if r.driver == "postgres" {
		var id int64
		err := r.db.QueryRowContext(ctx, r.rebind(query+" RETURNING "+idColumn), args...).Scan(&id)
		return id, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperator(row rowScanner, op *domain.Operator) error {
	return row.Scan(
		&op.OperatorID, &op.Name, &op.LicenseType, &op.Status, &op.RiskScore,
		&op.ContactEmail, &op.LicenseIssueDate, &op.LastReportDate,
	)
}

// scanReport scans the reportColumns projection into rep, followed by any
// joined columns the caller appended to the SELECT list.
func scanReport(row rowScanner, rep *domain.RevenueReport, joined ...any) error {
	var isLate, anomaly int
	var anomalyType sql.NullString
	var anomalyConfidence sql.NullFloat64

	dest := []any{
		&rep.ReportID, &rep.OperatorID, &rep.ReportDate, &rep.GrossRevenue,
		&rep.TotalBets, &rep.TotalPayouts, &rep.NumberOfTransactions, &rep.DeclaredTax,
		&rep.SubmissionTimestamp, &isLate, &anomaly, &anomalyType, &anomalyConfidence,
	}
	dest = append(dest, joined...)

	if err := row.Scan(dest...); err != nil {
		return err
	}

	rep.IsLate = isLate == 1
	rep.AnomalyFlag = anomaly == 1
	if anomalyType.Valid {
		rep.AnomalyType = &anomalyType.String
	}
	if anomalyConfidence.Valid {
		rep.AnomalyConfidence = &anomalyConfidence.Float64
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL.
func (r *SQLRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}

	// Convert ? to $1, $2, etc.
	var result []byte
	n := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result = append(result, '$')
			result = append(result, fmt.Sprintf("%d", n)...)
			n++
		} else {
			result = append(result, query[i])
		}
	}
	return string(result)
}
