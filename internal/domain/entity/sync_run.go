package entity

import "time"

// Run kinds recorded in the run log
const (
	RunKindVisits = "visits"
	RunKindNHSO   = "nhso"
)

// Run statuses
const (
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// SyncRun is one recorded execution of a sync or reconciliation pass
type SyncRun struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Kind      string `bson:"kind" json:"kind"`
	StartDate string `bson:"startDate" json:"start_date"`
	EndDate   string `bson:"endDate" json:"end_date"`
	Status    string `bson:"status" json:"status"`

	SyncedCount  int `bson:"syncedCount" json:"synced_count"`
	TotalChecked int `bson:"totalChecked" json:"total_checked"`
	UpdatedCount int `bson:"updatedCount" json:"updated_count"`

	Errors  []string `bson:"errors,omitempty" json:"errors,omitempty"`
	Message string   `bson:"message,omitempty" json:"message,omitempty"`

	StartedAt  time.Time `bson:"startedAt" json:"started_at"`
	FinishedAt time.Time `bson:"finishedAt" json:"finished_at"`
}
