package repository

import (
	"context"
	"fmt"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVisitRecordRepository implements the VisitRecordRepository interface
type GormVisitRecordRepository struct {
	db *gorm.DB
}

// NewGormVisitRecordRepository creates a new GORM visit record repository
func NewGormVisitRecordRepository(db *gorm.DB) repository.VisitRecordRepository {
	return &GormVisitRecordRepository{
		db: db,
	}
}

// VisitList GORM model for database mapping; columns mirror the HIS names
type VisitList struct {
	VN         string     `gorm:"column:vn;primaryKey;size:20"`
	Vstdate    *time.Time `gorm:"column:vstdate;type:date;index"`
	HN         *string    `gorm:"column:hn;size:9"`
	Name       *string    `gorm:"column:name;size:255"`
	CID        *string    `gorm:"column:cid;size:13"`
	CloseVisit *string    `gorm:"column:close_visit;size:1"`
	Pttype     *string    `gorm:"column:pttype;size:10"`
	Pttypename *string    `gorm:"column:pttypename;size:100"`
	Department *string    `gorm:"column:department;size:100"`
	AuthCode   *string    `gorm:"column:auth_code;size:50"`
	CloseSeq   *string    `gorm:"column:close_seq;size:50"`
	CloseStaff *string    `gorm:"column:close_staff;size:100"`
	Income     float64    `gorm:"column:income;default:0"`
	UCMoney    float64    `gorm:"column:uc_money;default:0"`
	PaidMoney  float64    `gorm:"column:paid_money;default:0"`
	Arrearage  float64    `gorm:"column:arrearage;default:0"`
	Outdepcode *string    `gorm:"column:outdepcode;size:100"`
	Vsttime    *string    `gorm:"column:vsttime;size:10"`
	Ovstost    *string    `gorm:"column:ovstost;size:10"`
	Date       *string    `gorm:"column:date;size:10"`
	Endpoint   *string    `gorm:"column:endpoint;size:100"`
}

// TableName overrides the default table name
func (VisitList) TableName() string {
	return "visit_list"
}

// Migrate creates the visit_list table when missing
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&VisitList{})
}

// syncedColumns are the columns a sync pass owns; endpoint is deliberately
// absent so a resolved claim code survives later syncs of the same range
var syncedColumns = []string{
	"vstdate", "hn", "name", "cid", "close_visit", "pttype", "pttypename",
	"department", "auth_code", "close_seq", "close_staff", "income",
	"uc_money", "paid_money", "arrearage", "outdepcode", "vsttime",
	"ovstost", "date",
}

// Upsert inserts or fully overwrites a record keyed by visit number
func (r *GormVisitRecordRepository) Upsert(ctx context.Context, record *entity.VisitRecord) error {
	model := toModel(record)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vn"}},
		DoUpdates: clause.AssignmentColumns(syncedColumns),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("upsert visit %s: %w", record.VisitNumber, result.Error)
	}
	return nil
}

// ListByDateRange returns records in the range, date descending then VN ascending
func (r *GormVisitRecordRepository) ListByDateRange(ctx context.Context, startDate, endDate string) ([]entity.VisitRecord, error) {
	var models []VisitList
	result := r.db.WithContext(ctx).
		Where("vstdate >= ? AND vstdate <= ?", startDate, endDate).
		Order("vstdate DESC, vn ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(models), nil
}

// FindUnreconciled returns records on the date with a national ID and no claim code
func (r *GormVisitRecordRepository) FindUnreconciled(ctx context.Context, date string) ([]entity.VisitRecord, error) {
	var models []VisitList
	result := r.db.WithContext(ctx).
		Where("vstdate = ? AND endpoint IS NULL AND cid IS NOT NULL", date).
		Order("vn ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(models), nil
}

// SetClaimCode stores the resolved claim code for a visit
func (r *GormVisitRecordRepository) SetClaimCode(ctx context.Context, vn, claimCode string) error {
	result := r.db.WithContext(ctx).
		Model(&VisitList{}).
		Where("vn = ?", vn).
		Update("endpoint", claimCode)
	return result.Error
}

// WithinTransaction runs fn against a transactional copy of the repository
func (r *GormVisitRecordRepository) WithinTransaction(ctx context.Context, fn func(txRepo repository.VisitRecordRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormVisitRecordRepository{db: tx})
	})
}

func toModel(record *entity.VisitRecord) VisitList {
	return VisitList{
		VN:         record.VisitNumber,
		Vstdate:    record.VisitDate,
		HN:         record.HN,
		Name:       record.PatientName,
		CID:        record.NationalID,
		CloseVisit: record.ClosedFlag,
		Pttype:     record.PaymentTypeCode,
		Pttypename: record.PaymentTypeName,
		Department: record.Department,
		AuthCode:   record.AuthCode,
		CloseSeq:   record.CloseSeq,
		CloseStaff: record.CloseStaffName,
		Income:     record.Income,
		UCMoney:    record.UniversalCoverage,
		PaidMoney:  record.PaidAmount,
		Arrearage:  record.Outstanding,
		Outdepcode: record.OutDepartment,
		Vsttime:    record.VisitTime,
		Ovstost:    record.VisitStatus,
		Date:       record.ThaiDateCode,
		Endpoint:   record.ClaimCode,
	}
}

func toEntity(model VisitList) entity.VisitRecord {
	return entity.VisitRecord{
		VisitNumber:       model.VN,
		VisitDate:         model.Vstdate,
		HN:                model.HN,
		PatientName:       model.Name,
		NationalID:        model.CID,
		ClosedFlag:        model.CloseVisit,
		PaymentTypeCode:   model.Pttype,
		PaymentTypeName:   model.Pttypename,
		Department:        model.Department,
		AuthCode:          model.AuthCode,
		CloseSeq:          model.CloseSeq,
		CloseStaffName:    model.CloseStaff,
		Income:            model.Income,
		UniversalCoverage: model.UCMoney,
		PaidAmount:        model.PaidMoney,
		Outstanding:       model.Arrearage,
		OutDepartment:     model.Outdepcode,
		VisitTime:         model.Vsttime,
		VisitStatus:       model.Ovstost,
		ThaiDateCode:      model.Date,
		ClaimCode:         model.Endpoint,
	}
}

func toEntities(models []VisitList) []entity.VisitRecord {
	records := make([]entity.VisitRecord, 0, len(models))
	for _, model := range models {
		records = append(records, toEntity(model))
	}
	return records
}
