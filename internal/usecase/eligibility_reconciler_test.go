package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEligibilityRepo returns a scripted outcome per national ID
type stubEligibilityRepo struct {
	outcomes map[string]entity.EligibilityOutcome
	calls    []string
}

func (s *stubEligibilityRepo) CheckCoverage(ctx context.Context, nationalID, serviceDate string) entity.EligibilityOutcome {
	s.calls = append(s.calls, nationalID)
	if outcome, ok := s.outcomes[nationalID]; ok {
		return outcome
	}
	return entity.EligibilityOutcome{Status: entity.EligibilityNoHistory}
}

func unreconciledVisit(vn, cid string) entity.VisitRecord {
	return entity.VisitRecord{
		VisitNumber: vn,
		VisitDate:   datePtr(2024, time.June, 15),
		NationalID:  &cid,
	}
}

func TestReconcileResolvesClaimCode(t *testing.T) {
	target := newMemoryRecordRepo()
	target.records["V1"] = unreconciledVisit("V1", "1103700000001")

	client := &stubEligibilityRepo{outcomes: map[string]entity.EligibilityOutcome{
		"1103700000001": {Status: entity.EligibilityFound, ClaimCode: "C123"},
	}}
	reconciler := NewEligibilityReconciler(target, client, nil, logger.NewLogger())

	report, err := reconciler.Reconcile(context.Background(), "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalChecked)
	assert.Equal(t, 1, report.UpdatedCount)
	assert.Empty(t, report.Errors)

	record := target.records["V1"]
	require.NotNil(t, record.ClaimCode)
	assert.Equal(t, "C123", *record.ClaimCode)

	// a resolved record is excluded from the next pass for the same date
	report, err = reconciler.Reconcile(context.Background(), "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalChecked)
}

func TestReconcileEmptyHistoryIsNotAnError(t *testing.T) {
	target := newMemoryRecordRepo()
	target.records["V1"] = unreconciledVisit("V1", "1103700000001")

	client := &stubEligibilityRepo{outcomes: map[string]entity.EligibilityOutcome{
		"1103700000001": {Status: entity.EligibilityNoHistory},
	}}
	reconciler := NewEligibilityReconciler(target, client, nil, logger.NewLogger())

	report, err := reconciler.Reconcile(context.Background(), "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalChecked)
	assert.Equal(t, 0, report.UpdatedCount)
	assert.Empty(t, report.Errors)
	assert.Nil(t, target.records["V1"].ClaimCode)
}

func TestReconcileMissingClaimCodeIsSkipped(t *testing.T) {
	target := newMemoryRecordRepo()
	target.records["V1"] = unreconciledVisit("V1", "1103700000001")

	client := &stubEligibilityRepo{outcomes: map[string]entity.EligibilityOutcome{
		"1103700000001": {Status: entity.EligibilityNoCode},
	}}
	reconciler := NewEligibilityReconciler(target, client, nil, logger.NewLogger())

	report, err := reconciler.Reconcile(context.Background(), "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 0, report.UpdatedCount)
	assert.Empty(t, report.Errors)
	assert.Nil(t, target.records["V1"].ClaimCode)
}

func TestReconcileOneFailureDoesNotStopTheBatch(t *testing.T) {
	target := newMemoryRecordRepo()
	outcomes := make(map[string]entity.EligibilityOutcome)
	for i := 1; i <= 5; i++ {
		vn := fmt.Sprintf("V%d", i)
		cid := fmt.Sprintf("110370000000%d", i)
		target.records[vn] = unreconciledVisit(vn, cid)
		outcomes[cid] = entity.EligibilityOutcome{Status: entity.EligibilityFound, ClaimCode: "C" + vn}
	}
	outcomes["1103700000003"] = entity.EligibilityOutcome{
		Status: entity.EligibilityNetworkError,
		Err:    "context deadline exceeded",
	}

	client := &stubEligibilityRepo{outcomes: outcomes}
	reconciler := NewEligibilityReconciler(target, client, nil, logger.NewLogger())

	report, err := reconciler.Reconcile(context.Background(), "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 5, report.TotalChecked)
	assert.Equal(t, 4, report.UpdatedCount)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "context deadline exceeded")
	assert.Len(t, client.calls, 5)
	assert.Nil(t, target.records["V3"].ClaimCode)
}

func TestReconcileCapsReportedErrors(t *testing.T) {
	target := newMemoryRecordRepo()
	outcomes := make(map[string]entity.EligibilityOutcome)
	for i := 1; i <= 7; i++ {
		vn := fmt.Sprintf("V%d", i)
		cid := fmt.Sprintf("110370000000%d", i)
		target.records[vn] = unreconciledVisit(vn, cid)
		outcomes[cid] = entity.EligibilityOutcome{
			Status:     entity.EligibilityHTTPError,
			HTTPStatus: 503,
			Err:        "HTTP 503",
		}
	}

	client := &stubEligibilityRepo{outcomes: outcomes}
	reconciler := NewEligibilityReconciler(target, client, nil, logger.NewLogger())

	report, err := reconciler.Reconcile(context.Background(), "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 7, report.TotalChecked)
	assert.Len(t, report.Errors, maxReportedErrors)
}
