package domain

import (
	"context"
	"time"
)

// Repository defines the query layer over the revenue monitoring store.
// All listing operations return an empty slice, never an error, when no
// rows match; lookups return the repository's not-found sentinel for
// missing entities, distinct from store faults.
type Repository interface {
	// Operator reads
	ListOperators(ctx context.Context) ([]*Operator, error)
	GetOperator(ctx context.Context, operatorID int64) (*OperatorDetail, error)

	// Report reads
	ListReports(ctx context.Context, filter ReportFilter) ([]*RevenueReport, error)
	GetReport(ctx context.Context, reportID int64) (*RevenueReport, error)
	ListAnomalies(ctx context.Context, filter AnomalyFilter) ([]*RevenueReport, error)
	AnomalyTypeSummary(ctx context.Context) ([]*AnomalyTypeCount, error)

	// Transaction reads
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)

	// DashboardStats aggregates the dashboard overview for the given
	// reporting period (first-of-month date).
	DashboardStats(ctx context.Context, period string) (*DashboardStats, error)

	// Write operations, used by seeding and tests only. Each is a single
	// atomic statement; the serving path never mutates the store.
	SaveOperator(ctx context.Context, op *Operator) error
	SaveReport(ctx context.Context, report *RevenueReport) (int64, error)
	SaveTransaction(ctx context.Context, tx *Transaction) (int64, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string

	// SQLite specific
	SQLitePath string

	// PostgreSQL specific
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// QueryTimeout bounds each individual query. Zero disables the
	// bound; expiry surfaces as an infrastructure error.
	QueryTimeout time.Duration
}
