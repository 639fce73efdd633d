package report

import (
	"context"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
)

// ReportService defines the interface for report generation
type ReportService interface {
	Stats(ctx context.Context, caller user.Caller) (StatsResponse, error)
	MonthlyMatrix(ctx context.Context, caller user.Caller, req PeriodRequest) (MonthlyReportResponse, error)
	LeaveUtilization(ctx context.Context, caller user.Caller) ([]LeaveUtilizationRow, error)
	ProjectPerformance(ctx context.Context, caller user.Caller) ([]ProjectPerformanceRow, error)
	EODCompliance(ctx context.Context, caller user.Caller, req PeriodRequest) (EODComplianceResponse, error)
}
