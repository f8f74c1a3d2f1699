package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/nla-gaming/revmon/internal/domain"
)

// DashboardStats computes the dashboard overview for the given reporting
// period. The period is injected by the caller; the previous period is
// derived from it. Sub-aggregates run as separate queries against the
// same store with no cross-query isolation; each one is internally
// consistent on its own.
func (r *SQLRepository) DashboardStats(ctx context.Context, period string) (*domain.DashboardStats, error) {
	if !domain.ValidDate(period) {
		return nil, fmt.Errorf("%w: period must be a YYYY-MM-DD date, got %q", ErrInvalidInput, period)
	}
	previous, err := domain.PreviousPeriod(period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx, cancel := r.queryTimeout(ctx)
	defer cancel()

	stats := &domain.DashboardStats{}
	ov := &stats.Overview

	if ov.TotalOperators, err = r.countRow(ctx, `SELECT COUNT(*) FROM operators`); err != nil {
		return nil, err
	}
	if ov.ActiveOperators, err = r.countRow(ctx,
		`SELECT COUNT(*) FROM operators WHERE status = ?`, domain.StatusActive); err != nil {
		return nil, err
	}
	if ov.ProblematicOperators, err = r.countRow(ctx,
		`SELECT COUNT(*) FROM operators WHERE status IN (?, ?)`,
		domain.StatusUnderReview, domain.StatusSuspended); err != nil {
		return nil, err
	}
	if ov.HighRiskOperators, err = r.countRow(ctx,
		`SELECT COUNT(*) FROM operators WHERE risk_score > ?`, domain.HighRiskThreshold); err != nil {
		return nil, err
	}

	if ov.CurrentMonthRevenue, err = r.sumRow(ctx,
		`SELECT COALESCE(SUM(gross_revenue), 0) FROM revenue_reports WHERE report_date = ?`, period); err != nil {
		return nil, err
	}
	if ov.PreviousMonthRevenue, err = r.sumRow(ctx,
		`SELECT COALESCE(SUM(gross_revenue), 0) FROM revenue_reports WHERE report_date = ?`, previous); err != nil {
		return nil, err
	}
	if ov.CurrentMonthTax, err = r.sumRow(ctx,
		`SELECT COALESCE(SUM(declared_tax), 0) FROM revenue_reports WHERE report_date = ?`, period); err != nil {
		return nil, err
	}

	if ov.ActiveAnomalies, err = r.countRow(ctx,
		`SELECT COUNT(*) FROM revenue_reports WHERE anomaly_flag = 1 AND report_date = ?`, period); err != nil {
		return nil, err
	}
	if ov.LateSubmissions, err = r.countRow(ctx,
		`SELECT COUNT(*) FROM revenue_reports WHERE is_late = 1 AND report_date = ?`, period); err != nil {
		return nil, err
	}

	ov.RevenueChangePercent = revenueChangePercent(ov.CurrentMonthRevenue, ov.PreviousMonthRevenue)

	if stats.RevenueTrend, err = r.revenueTrend(ctx); err != nil {
		return nil, err
	}
	if stats.TopOperators, err = r.topOperators(ctx, period); err != nil {
		return nil, err
	}

	return stats, nil
}

// revenueChangePercent computes the period-over-period change, rounded to
// two decimal places. A zero or absent previous total yields exactly 0
// rather than an undefined ratio; this mirrors how the figure has always
// been reported, it is not a mathematical necessity.
func revenueChangePercent(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return math.Round((current-previous)/previous*100*100) / 100
}

// revenueTrend sums revenue, tax and report counts per distinct period
// across all operators and all time, chronologically.
func (r *SQLRepository) revenueTrend(ctx context.Context) ([]domain.TrendPoint, error) {
	query := `
		SELECT report_date,
			   SUM(gross_revenue) as total_revenue,
			   SUM(declared_tax) as total_tax,
			   COUNT(*) as num_operators
		FROM revenue_reports
		GROUP BY report_date
		ORDER BY report_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := []domain.TrendPoint{}
	for rows.Next() {
		var p domain.TrendPoint
		if err := rows.Scan(&p.ReportDate, &p.TotalRevenue, &p.TotalTax, &p.NumOperators); err != nil {
			return nil, err
		}
		trend = append(trend, p)
	}

	return trend, rows.Err()
}

// topOperators ranks every report in the period by gross revenue,
// descending, joined with the operator's name, license and risk score.
// No limit: the dashboard shows all operators reporting in the period.
func (r *SQLRepository) topOperators(ctx context.Context, period string) ([]domain.OperatorRevenue, error) {
	query := `
		SELECT o.name, o.license_type, r.gross_revenue, r.declared_tax, o.risk_score
		FROM revenue_reports r
		JOIN operators o ON r.operator_id = o.operator_id
		WHERE r.report_date = ?
		ORDER BY r.gross_revenue DESC
	`

	rows, err := r.db.QueryContext(ctx, r.rebind(query), period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	top := []domain.OperatorRevenue{}
	for rows.Next() {
		var or domain.OperatorRevenue
		if err := rows.Scan(&or.Name, &or.LicenseType, &or.GrossRevenue, &or.DeclaredTax, &or.RiskScore); err != nil {
			return nil, err
		}
		top = append(top, or)
	}

	return top, rows.Err()
}

func (r *SQLRepository) countRow(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, r.rebind(query), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SQLRepository) sumRow(ctx context.Context, query string, args ...any) (float64, error) {
	var total float64
	if err := r.db.QueryRowContext(ctx, r.rebind(query), args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
