package entity

// EligibilityStatus classifies the outcome of a single NHSO coverage check
type EligibilityStatus string

const (
	// EligibilityFound means the API returned a usable claim code
	EligibilityFound EligibilityStatus = "found"
	// EligibilityNoHistory means a 200 response with an empty service history
	EligibilityNoHistory EligibilityStatus = "no_history"
	// EligibilityNoCode means the first service history entry had no claim code
	EligibilityNoCode EligibilityStatus = "no_code"
	// EligibilityHTTPError means the API answered with a non-200 status
	EligibilityHTTPError EligibilityStatus = "http_error"
	// EligibilityNetworkError means the request never completed
	EligibilityNetworkError EligibilityStatus = "network_error"
)

// EligibilityOutcome is the tagged result of one coverage check. Only
// EligibilityFound carries a claim code; only the two error statuses carry
// detail for the run report.
type EligibilityOutcome struct {
	Status     EligibilityStatus
	ClaimCode  string
	HTTPStatus int
	Err        string
}

// ReconcileReport summarizes one reconciliation pass
type ReconcileReport struct {
	TotalChecked int      `json:"total_checked"`
	UpdatedCount int      `json:"updated_count"`
	Errors       []string `json:"errors"`
}
