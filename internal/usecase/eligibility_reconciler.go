package usecase

import (
	"context"
	"fmt"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"
	"visitsync-service/pkg/logger"
	"visitsync-service/pkg/metrics"
)

// maxReportedErrors caps the error strings returned to the caller; the full
// list still goes to the log and the run history
const maxReportedErrors = 5

// EligibilityReconciler resolves claim codes for synced visits by polling
// the NHSO API, one record at a time
type EligibilityReconciler struct {
	recordRepo      repository.VisitRecordRepository
	eligibilityRepo repository.EligibilityRepository
	metrics         *metrics.Metrics
	logger          logger.Logger
}

// NewEligibilityReconciler creates a new eligibility reconciler
func NewEligibilityReconciler(
	recordRepo repository.VisitRecordRepository,
	eligibilityRepo repository.EligibilityRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *EligibilityReconciler {
	return &EligibilityReconciler{
		recordRepo:      recordRepo,
		eligibilityRepo: eligibilityRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// Reconcile checks every record on checkDate that has a national ID and no
// claim code yet. Records are processed strictly in sequence; a failed check
// skips that record and the pass continues. All resolved codes commit in a
// single transaction at the end.
func (r *EligibilityReconciler) Reconcile(ctx context.Context, checkDate string) (*entity.ReconcileReport, error) {
	visits, err := r.recordRepo.FindUnreconciled(ctx, checkDate)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Starting eligibility reconciliation", "checkDate", checkDate, "candidates", len(visits))

	type resolved struct {
		vn        string
		claimCode string
	}
	var updates []resolved
	errors := []string{} // stays non-nil so the response serializes as []

	for i, visit := range visits {
		if visit.NationalID == nil {
			continue
		}
		cid := *visit.NationalID

		outcome := r.eligibilityRepo.CheckCoverage(ctx, cid, checkDate)
		r.countOutcome(outcome.Status)

		switch outcome.Status {
		case entity.EligibilityFound:
			r.logger.Info("Claim code resolved",
				"progress", fmt.Sprintf("%d/%d", i+1, len(visits)),
				"vn", visit.VisitNumber, "claimCode", outcome.ClaimCode)
			updates = append(updates, resolved{vn: visit.VisitNumber, claimCode: outcome.ClaimCode})
		case entity.EligibilityNoHistory:
			r.logger.Debug("No service history", "vn", visit.VisitNumber)
		case entity.EligibilityNoCode:
			r.logger.Debug("Service history without claim code", "vn", visit.VisitNumber)
		case entity.EligibilityHTTPError, entity.EligibilityNetworkError:
			r.logger.Warn("Eligibility check failed", "vn", visit.VisitNumber, "detail", outcome.Err)
			errors = append(errors, fmt.Sprintf("Err: %s", outcome.Err))
		}
	}

	if len(updates) > 0 {
		err = r.recordRepo.WithinTransaction(ctx, func(tx repository.VisitRecordRepository) error {
			for _, u := range updates {
				if err := tx.SetClaimCode(ctx, u.vn, u.claimCode); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if r.metrics != nil {
				r.metrics.ErrorsCount.WithLabelValues("reconcile").Inc()
			}
			return nil, err
		}
	}

	reported := errors
	if len(reported) > maxReportedErrors {
		reported = reported[:maxReportedErrors]
	}
	r.logger.Info("Eligibility reconciliation finished",
		"checkDate", checkDate,
		"totalChecked", len(visits),
		"updated", len(updates),
		"errors", len(errors))

	return &entity.ReconcileReport{
		TotalChecked: len(visits),
		UpdatedCount: len(updates),
		Errors:       reported,
	}, nil
}

func (r *EligibilityReconciler) countOutcome(status entity.EligibilityStatus) {
	if r.metrics != nil {
		r.metrics.EligibilityChecks.WithLabelValues(string(status)).Inc()
	}
}
