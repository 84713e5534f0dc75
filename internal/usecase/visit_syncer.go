package usecase

import (
	"context"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"
	"visitsync-service/pkg/logger"
	"visitsync-service/pkg/metrics"
	"visitsync-service/pkg/utils"
)

// VisitSyncer mirrors HIS visit records into the local reporting store
type VisitSyncer struct {
	sourceRepo repository.VisitSourceRepository
	recordRepo repository.VisitRecordRepository
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewVisitSyncer creates a new visit syncer
func NewVisitSyncer(
	sourceRepo repository.VisitSourceRepository,
	recordRepo repository.VisitRecordRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *VisitSyncer {
	return &VisitSyncer{
		sourceRepo: sourceRepo,
		recordRepo: recordRepo,
		metrics:    metrics,
		logger:     logger,
	}
}

// SyncRange upserts one local record per HIS visit dated within
// [startDate, endDate]. The whole batch commits as a single transaction;
// any failure discards every pending write and surfaces the error.
func (s *VisitSyncer) SyncRange(ctx context.Context, startDate, endDate string) (int, error) {
	begin := time.Now()
	s.logger.Info("Starting visit sync", "startDate", startDate, "endDate", endDate)

	rows, err := s.sourceRepo.VisitSummaries(ctx, startDate, endDate)
	if err != nil {
		s.countError("sync")
		return 0, err
	}

	count := 0
	err = s.recordRepo.WithinTransaction(ctx, func(tx repository.VisitRecordRepository) error {
		for _, row := range rows {
			totals, err := s.sourceRepo.FinancialTotals(ctx, row.VisitNumber)
			if err != nil {
				return err
			}
			dept, err := s.sourceRepo.LatestDepartment(ctx, row.VisitNumber)
			if err != nil {
				return err
			}

			record := buildVisitRecord(row, totals, dept)
			if err := tx.Upsert(ctx, &record); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		s.countError("sync")
		s.logger.Error("Visit sync failed", "startDate", startDate, "endDate", endDate, "error", err)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.VisitsSynced.Add(float64(count))
		s.metrics.SyncDuration.Observe(time.Since(begin).Seconds())
	}
	s.logger.Info("Visit sync finished", "count", count, "duration", time.Since(begin))
	return count, nil
}

func (s *VisitSyncer) countError(operation string) {
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}

// buildVisitRecord maps one HIS row plus its lookups onto the local record
// shape; the claim code is left nil, it belongs to reconciliation
func buildVisitRecord(row entity.SourceVisit, totals entity.FinancialTotals, dept *string) entity.VisitRecord {
	return entity.VisitRecord{
		VisitNumber:       row.VisitNumber,
		VisitDate:         row.VisitDate,
		HN:                row.HN,
		PatientName:       row.PatientName,
		NationalID:        row.NationalID,
		ClosedFlag:        row.ClosedFlag,
		PaymentTypeCode:   row.PaymentTypeCode,
		PaymentTypeName:   row.PaymentTypeName,
		Department:        row.Department,
		AuthCode:          row.AuthCode,
		CloseSeq:          row.CloseSeq,
		CloseStaffName:    row.CloseStaffName,
		Income:            row.Income,
		UniversalCoverage: totals.UniversalCoverage,
		PaidAmount:        totals.Paid,
		Outstanding:       totals.Outstanding,
		OutDepartment:     dept,
		VisitTime:         row.VisitTime,
		VisitStatus:       row.VisitStatus,
		ThaiDateCode:      utils.ThaiDateCodeOrNil(row.VisitDate),
	}
}
