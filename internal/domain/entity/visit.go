package entity

import "time"

// VisitRecord is the local reporting copy of one HIS patient encounter,
// keyed by visit number (VN). Field names on the wire follow the HIS
// column names so downstream reports keep working unchanged.
type VisitRecord struct {
	VisitNumber string     `json:"vn"`
	VisitDate   *time.Time `json:"vstdate"`
	HN          *string    `json:"hn"`
	PatientName *string    `json:"name"`
	NationalID  *string    `json:"cid"`

	ClosedFlag      *string `json:"close_visit"`
	PaymentTypeCode *string `json:"pttype"`
	PaymentTypeName *string `json:"pttypename"`
	Department      *string `json:"department"`
	AuthCode        *string `json:"auth_code"`
	CloseSeq        *string `json:"close_seq"`
	CloseStaffName  *string `json:"close_staff"`

	Income            float64 `json:"income"`
	UniversalCoverage float64 `json:"uc_money"`
	PaidAmount        float64 `json:"paid_money"`
	Outstanding       float64 `json:"arrearage"`

	OutDepartment *string `json:"outdepcode"`
	VisitTime     *string `json:"vsttime"`
	VisitStatus   *string `json:"ovstost"`

	// ThaiDateCode is the Buddhist-era date label (year+543, MMDD),
	// recomputed from VisitDate on every sync pass.
	ThaiDateCode *string `json:"date"`

	// ClaimCode is nil until the NHSO eligibility check resolves the visit;
	// once set, the record is excluded from future reconciliation passes.
	ClaimCode *string `json:"endpoint"`
}

// SourceVisit is one row of the joined visit-summary query against the HIS
type SourceVisit struct {
	VisitNumber     string
	VisitDate       *time.Time
	HN              *string
	PatientName     *string
	NationalID      *string
	ClosedFlag      *string
	PaymentTypeCode *string
	PaymentTypeName *string
	Department      *string
	AuthCode        *string
	CloseSeq        *string
	CloseStaffName  *string
	Income          float64
	VisitTime       *string
	VisitStatus     *string
}

// FinancialTotals are the per-visit amount buckets aggregated from the HIS
// billing items; absent rows count as zero, never null.
type FinancialTotals struct {
	UniversalCoverage float64
	Paid              float64
	Outstanding       float64
}
