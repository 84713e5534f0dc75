package repository

import (
	"context"

	"visitsync-service/internal/domain/entity"
)

// VisitSourceRepository defines the read-only interface over the HIS database
type VisitSourceRepository interface {
	// VisitSummaries returns the joined visit rows whose date falls in
	// [startDate, endDate], ordered by visit number ascending
	VisitSummaries(ctx context.Context, startDate, endDate string) ([]entity.SourceVisit, error)
	// FinancialTotals returns the per-visit amount buckets, zero when absent
	FinancialTotals(ctx context.Context, vn string) (entity.FinancialTotals, error)
	// LatestDepartment returns the department with the most recent out-time
	// for the visit, or nil when the visit has none
	LatestDepartment(ctx context.Context, vn string) (*string, error)
}
