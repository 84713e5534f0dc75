package repository

import (
	"context"

	"visitsync-service/internal/domain/entity"
)

// VisitRecordRepository defines the interface over the local reporting store
type VisitRecordRepository interface {
	// Upsert inserts or fully overwrites a record keyed by visit number
	Upsert(ctx context.Context, record *entity.VisitRecord) error
	// ListByDateRange returns records in [startDate, endDate], ordered by
	// visit date descending then visit number ascending
	ListByDateRange(ctx context.Context, startDate, endDate string) ([]entity.VisitRecord, error)
	// FindUnreconciled returns records on the given date that have a
	// national ID but no claim code yet
	FindUnreconciled(ctx context.Context, date string) ([]entity.VisitRecord, error)
	// SetClaimCode stores the resolved claim code for a visit
	SetClaimCode(ctx context.Context, vn, claimCode string) error
	// WithinTransaction runs fn against a transactional copy of the
	// repository; fn returning an error rolls back every write
	WithinTransaction(ctx context.Context, fn func(txRepo VisitRecordRepository) error) error
}
