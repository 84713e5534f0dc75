package repository

import (
	"context"

	"visitsync-service/internal/domain/entity"
)

// EligibilityRepository defines the interface to the NHSO coverage API
type EligibilityRepository interface {
	// CheckCoverage looks up the service history for a national ID on a
	// service date; all failure modes come back as a tagged outcome, never
	// as an error, so one bad record cannot abort a reconciliation batch
	CheckCoverage(ctx context.Context, nationalID, serviceDate string) entity.EligibilityOutcome
}
