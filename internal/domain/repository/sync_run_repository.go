package repository

import (
	"context"

	"visitsync-service/internal/domain/entity"
)

// SyncRunRepository defines the interface for the run-log store
type SyncRunRepository interface {
	Record(ctx context.Context, run *entity.SyncRun) error
	// List returns the most recent runs, newest first; kind filters by run
	// kind when non-empty
	List(ctx context.Context, kind string, limit int64) ([]entity.SyncRun, error)
}
