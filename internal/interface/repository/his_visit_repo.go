package repository

import (
	"context"
	"fmt"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"

	"gorm.io/gorm"
)

// HISVisitRepository implements the VisitSourceRepository interface against
// the hospital's HOSxP-style MySQL schema using raw parameterized queries.
// The schema is owned by the HIS; this repository never writes to it.
type HISVisitRepository struct {
	db *gorm.DB
}

// NewHISVisitRepository creates a new HIS visit repository
func NewHISVisitRepository(db *gorm.DB) repository.VisitSourceRepository {
	return &HISVisitRepository{
		db: db,
	}
}

// hisVisitRow maps the joined visit-summary query
type hisVisitRow struct {
	CloseVisit *string    `gorm:"column:close_visit"`
	VN         string     `gorm:"column:vn"`
	Vstdate    *time.Time `gorm:"column:vstdate"`
	HN         *string    `gorm:"column:hn"`
	Name       *string    `gorm:"column:name"`
	CID        *string    `gorm:"column:cid"`
	Income     *float64   `gorm:"column:income"`
	Pttype     *string    `gorm:"column:pttype"`
	Pttypename *string    `gorm:"column:pttypename"`
	Department *string    `gorm:"column:department"`
	AuthCode   *string    `gorm:"column:auth_code"`
	CloseSeq   *string    `gorm:"column:close_seq"`
	CloseStaff *string    `gorm:"column:close_staff"`
	Vsttime    *string    `gorm:"column:vsttime"`
	Ovstost    *string    `gorm:"column:ovstost"`
}

const visitSummarySQL = `
SELECT
    (SELECT IF(vn IS NOT NULL, 'Y', 'N') FROM nhso_confirm_privilege WHERE vn = v.vn LIMIT 1) AS close_visit,
    v.vn, v.vstdate, v.hn, CONCAT(pt.pname, pt.fname, '  ', pt.lname) AS name, pt.cid,
    v.income, p.pttype, p.name AS pttypename, k.department, vp.auth_code,
    (SELECT nhso_seq FROM nhso_confirm_privilege WHERE vn = v.vn LIMIT 1) AS close_seq,
    (SELECT d.name FROM nhso_confirm_privilege x
     LEFT JOIN doctor d ON d.code = x.confirm_staff
     WHERE x.vn = v.vn LIMIT 1) AS close_staff,
    o.vsttime, o.ovstost
FROM vn_stat as v
LEFT JOIN patient as pt ON pt.cid = v.cid
LEFT JOIN ovst as o ON o.vn = v.vn
LEFT JOIN pttype as p ON p.pttype = v.pttype
LEFT JOIN kskdepartment as k ON k.depcode = o.main_dep
LEFT JOIN visit_pttype as vp ON vp.vn = v.vn
WHERE v.vstdate BETWEEN ? AND ?
ORDER BY v.vn ASC`

// VisitSummaries returns the joined visit rows for the date range
func (r *HISVisitRepository) VisitSummaries(ctx context.Context, startDate, endDate string) ([]entity.SourceVisit, error) {
	var rows []hisVisitRow
	result := r.db.WithContext(ctx).Raw(visitSummarySQL, startDate, endDate).Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("query visit summaries: %w", result.Error)
	}

	visits := make([]entity.SourceVisit, 0, len(rows))
	for _, row := range rows {
		income := 0.0
		if row.Income != nil {
			income = *row.Income
		}
		visits = append(visits, entity.SourceVisit{
			VisitNumber:     row.VN,
			VisitDate:       row.Vstdate,
			HN:              row.HN,
			PatientName:     row.Name,
			NationalID:      row.CID,
			ClosedFlag:      row.CloseVisit,
			PaymentTypeCode: row.Pttype,
			PaymentTypeName: row.Pttypename,
			Department:      row.Department,
			AuthCode:        row.AuthCode,
			CloseSeq:        row.CloseSeq,
			CloseStaffName:  row.CloseStaff,
			Income:          income,
			VisitTime:       row.Vsttime,
			VisitStatus:     row.Ovstost,
		})
	}
	return visits, nil
}

const financialTotalsSQL = `
SELECT
    SUM(IF(paidst = '02', sum_price, NULL)) AS uc_money,
    SUM(IF(paidst IN ('01', '03'), sum_price, NULL)) AS paid_money,
    SUM(IF(paidst = '00', sum_price, NULL)) AS arrearage
FROM opitemrece
WHERE vn = ?`

// FinancialTotals returns the per-visit amount buckets; a visit with no
// billing rows yields zeroes
func (r *HISVisitRepository) FinancialTotals(ctx context.Context, vn string) (entity.FinancialTotals, error) {
	var row struct {
		UCMoney   *float64 `gorm:"column:uc_money"`
		PaidMoney *float64 `gorm:"column:paid_money"`
		Arrearage *float64 `gorm:"column:arrearage"`
	}
	result := r.db.WithContext(ctx).Raw(financialTotalsSQL, vn).Scan(&row)
	if result.Error != nil {
		return entity.FinancialTotals{}, fmt.Errorf("query financial totals for %s: %w", vn, result.Error)
	}

	totals := entity.FinancialTotals{}
	if row.UCMoney != nil {
		totals.UniversalCoverage = *row.UCMoney
	}
	if row.PaidMoney != nil {
		totals.Paid = *row.PaidMoney
	}
	if row.Arrearage != nil {
		totals.Outstanding = *row.Arrearage
	}
	return totals, nil
}

const latestDepartmentSQL = `
SELECT k.department
FROM ptdepart as p
LEFT JOIN kskdepartment as k ON k.depcode = p.outdepcode
WHERE p.vn = ?
ORDER BY p.outtime DESC
LIMIT 1`

// LatestDepartment returns the most recently closed department assignment
func (r *HISVisitRepository) LatestDepartment(ctx context.Context, vn string) (*string, error) {
	var row struct {
		Department *string `gorm:"column:department"`
	}
	result := r.db.WithContext(ctx).Raw(latestDepartmentSQL, vn).Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("query latest department for %s: %w", vn, result.Error)
	}
	return row.Department, nil
}
