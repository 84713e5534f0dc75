package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"
	"visitsync-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSourceRepo is a mock implementation of VisitSourceRepository
type MockSourceRepo struct {
	mock.Mock
}

func (m *MockSourceRepo) VisitSummaries(ctx context.Context, startDate, endDate string) ([]entity.SourceVisit, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SourceVisit), args.Error(1)
}

func (m *MockSourceRepo) FinancialTotals(ctx context.Context, vn string) (entity.FinancialTotals, error) {
	args := m.Called(ctx, vn)
	return args.Get(0).(entity.FinancialTotals), args.Error(1)
}

func (m *MockSourceRepo) LatestDepartment(ctx context.Context, vn string) (*string, error) {
	args := m.Called(ctx, vn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

// memoryRecordRepo is an in-memory VisitRecordRepository with the same
// upsert and rollback semantics as the GORM implementation
type memoryRecordRepo struct {
	records map[string]entity.VisitRecord
}

func newMemoryRecordRepo() *memoryRecordRepo {
	return &memoryRecordRepo{records: make(map[string]entity.VisitRecord)}
}

func (m *memoryRecordRepo) Upsert(ctx context.Context, record *entity.VisitRecord) error {
	stored := *record
	// endpoint is owned by reconciliation, an upsert never clears it
	if existing, ok := m.records[record.VisitNumber]; ok && stored.ClaimCode == nil {
		stored.ClaimCode = existing.ClaimCode
	}
	m.records[record.VisitNumber] = stored
	return nil
}

func (m *memoryRecordRepo) ListByDateRange(ctx context.Context, startDate, endDate string) ([]entity.VisitRecord, error) {
	var out []entity.VisitRecord
	for _, r := range m.records {
		if r.VisitDate == nil {
			continue
		}
		d := r.VisitDate.Format("2006-01-02")
		if d >= startDate && d <= endDate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRecordRepo) FindUnreconciled(ctx context.Context, date string) ([]entity.VisitRecord, error) {
	var out []entity.VisitRecord
	for _, r := range m.records {
		if r.VisitDate == nil || r.NationalID == nil || r.ClaimCode != nil {
			continue
		}
		if r.VisitDate.Format("2006-01-02") == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRecordRepo) SetClaimCode(ctx context.Context, vn, claimCode string) error {
	r, ok := m.records[vn]
	if !ok {
		return errors.New("visit not found: " + vn)
	}
	r.ClaimCode = &claimCode
	m.records[vn] = r
	return nil
}

func (m *memoryRecordRepo) WithinTransaction(ctx context.Context, fn func(repository.VisitRecordRepository) error) error {
	snapshot := make(map[string]entity.VisitRecord, len(m.records))
	for k, v := range m.records {
		snapshot[k] = v
	}
	if err := fn(m); err != nil {
		m.records = snapshot
		return err
	}
	return nil
}

func strPtr(s string) *string { return &s }

func datePtr(y int, mo time.Month, d int) *time.Time {
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sourceVisit(vn string) entity.SourceVisit {
	return entity.SourceVisit{
		VisitNumber:     vn,
		VisitDate:       datePtr(2024, time.June, 15),
		HN:              strPtr("000123"),
		PatientName:     strPtr("Somchai  Jaidee"),
		NationalID:      strPtr("1103700000001"),
		ClosedFlag:      strPtr("N"),
		PaymentTypeCode: strPtr("UC"),
		PaymentTypeName: strPtr("UC Scheme"),
		Income:          120,
		VisitTime:       strPtr("09:30:00"),
	}
}

func TestSyncRangeMapsAndUpserts(t *testing.T) {
	source := new(MockSourceRepo)
	target := newMemoryRecordRepo()
	syncer := NewVisitSyncer(source, target, nil, logger.NewLogger())

	source.On("VisitSummaries", mock.Anything, "2024-06-15", "2024-06-15").
		Return([]entity.SourceVisit{sourceVisit("67061500001")}, nil)
	source.On("FinancialTotals", mock.Anything, "67061500001").
		Return(entity.FinancialTotals{UniversalCoverage: 100, Paid: 75, Outstanding: 10}, nil)
	source.On("LatestDepartment", mock.Anything, "67061500001").
		Return(strPtr("ER"), nil)

	count, err := syncer.SyncRange(context.Background(), "2024-06-15", "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	record, ok := target.records["67061500001"]
	require.True(t, ok)
	assert.Equal(t, 120.0, record.Income)
	assert.Equal(t, 100.0, record.UniversalCoverage)
	assert.Equal(t, 75.0, record.PaidAmount)
	assert.Equal(t, 10.0, record.Outstanding)
	require.NotNil(t, record.ThaiDateCode)
	assert.Equal(t, "25670615", *record.ThaiDateCode)
	require.NotNil(t, record.OutDepartment)
	assert.Equal(t, "ER", *record.OutDepartment)
	assert.Nil(t, record.ClaimCode)
}

func TestSyncRangeNoFinancialRowsYieldsZeroes(t *testing.T) {
	source := new(MockSourceRepo)
	target := newMemoryRecordRepo()
	syncer := NewVisitSyncer(source, target, nil, logger.NewLogger())

	source.On("VisitSummaries", mock.Anything, mock.Anything, mock.Anything).
		Return([]entity.SourceVisit{sourceVisit("67061500002")}, nil)
	source.On("FinancialTotals", mock.Anything, "67061500002").
		Return(entity.FinancialTotals{}, nil)
	source.On("LatestDepartment", mock.Anything, "67061500002").
		Return(nil, nil)

	_, err := syncer.SyncRange(context.Background(), "2024-06-15", "2024-06-15")
	require.NoError(t, err)

	record := target.records["67061500002"]
	assert.Equal(t, 120.0, record.Income)
	assert.Equal(t, 0.0, record.UniversalCoverage)
	assert.Equal(t, 0.0, record.PaidAmount)
	assert.Equal(t, 0.0, record.Outstanding)
	assert.Nil(t, record.OutDepartment)
}

func TestSyncRangeIsIdempotent(t *testing.T) {
	source := new(MockSourceRepo)
	target := newMemoryRecordRepo()
	syncer := NewVisitSyncer(source, target, nil, logger.NewLogger())

	source.On("VisitSummaries", mock.Anything, mock.Anything, mock.Anything).
		Return([]entity.SourceVisit{sourceVisit("67061500003")}, nil)
	source.On("FinancialTotals", mock.Anything, mock.Anything).
		Return(entity.FinancialTotals{Paid: 75}, nil)
	source.On("LatestDepartment", mock.Anything, mock.Anything).
		Return(nil, nil)

	_, err := syncer.SyncRange(context.Background(), "2024-06-15", "2024-06-15")
	require.NoError(t, err)
	first := target.records["67061500003"]

	count, err := syncer.SyncRange(context.Background(), "2024-06-15", "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, target.records, 1)
	assert.Equal(t, first, target.records["67061500003"])
}

func TestSyncRangePreservesClaimCode(t *testing.T) {
	source := new(MockSourceRepo)
	target := newMemoryRecordRepo()
	target.records["67061500004"] = entity.VisitRecord{
		VisitNumber: "67061500004",
		ClaimCode:   strPtr("C999"),
	}
	syncer := NewVisitSyncer(source, target, nil, logger.NewLogger())

	source.On("VisitSummaries", mock.Anything, mock.Anything, mock.Anything).
		Return([]entity.SourceVisit{sourceVisit("67061500004")}, nil)
	source.On("FinancialTotals", mock.Anything, mock.Anything).
		Return(entity.FinancialTotals{}, nil)
	source.On("LatestDepartment", mock.Anything, mock.Anything).
		Return(nil, nil)

	_, err := syncer.SyncRange(context.Background(), "2024-06-15", "2024-06-15")
	require.NoError(t, err)

	record := target.records["67061500004"]
	require.NotNil(t, record.ClaimCode)
	assert.Equal(t, "C999", *record.ClaimCode)
	// every other field was overwritten by the fresh sync
	require.NotNil(t, record.HN)
	assert.Equal(t, "000123", *record.HN)
}

func TestSyncRangeSourceFailureAborts(t *testing.T) {
	source := new(MockSourceRepo)
	target := newMemoryRecordRepo()
	syncer := NewVisitSyncer(source, target, nil, logger.NewLogger())

	source.On("VisitSummaries", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("his connection refused"))

	count, err := syncer.SyncRange(context.Background(), "2024-06-15", "2024-06-15")
	assert.Error(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, target.records)
}

func TestSyncRangePartialFailureDiscardsBatch(t *testing.T) {
	source := new(MockSourceRepo)
	target := newMemoryRecordRepo()
	syncer := NewVisitSyncer(source, target, nil, logger.NewLogger())

	first := sourceVisit("67061500005")
	second := sourceVisit("67061500006")
	source.On("VisitSummaries", mock.Anything, mock.Anything, mock.Anything).
		Return([]entity.SourceVisit{first, second}, nil)
	source.On("FinancialTotals", mock.Anything, "67061500005").
		Return(entity.FinancialTotals{Paid: 50}, nil)
	source.On("FinancialTotals", mock.Anything, "67061500006").
		Return(entity.FinancialTotals{}, errors.New("aggregate query failed"))
	source.On("LatestDepartment", mock.Anything, mock.Anything).
		Return(nil, nil)

	count, err := syncer.SyncRange(context.Background(), "2024-06-15", "2024-06-15")
	assert.Error(t, err)
	assert.Equal(t, 0, count)
	// the first row's upsert rolled back with the batch
	assert.Empty(t, target.records)
}
