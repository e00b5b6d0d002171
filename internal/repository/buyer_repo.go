package repository

import (
	"context"
	"time"

	"leadhub/internal/dto"
	"leadhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuyerRepository defines the data access contract for buyer leads.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type BuyerRepository interface {
	CreateTx(tx *gorm.DB, b *model.Buyer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error)
	List(ctx context.Context, filter dto.BuyerFilter) ([]model.Buyer, int64, error)
	// FindAll ignores pagination — used by the CSV export path.
	FindAll(ctx context.Context, filter dto.BuyerFilter) ([]model.Buyer, error)
	// UpdateFieldsTx applies a conditional update guarded by the observed
	// UpdatedAt timestamp. Zero rows affected means a concurrent writer won.
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, observed time.Time, fields map[string]interface{}) (int64, error)
	CreateBatchTx(tx *gorm.DB, buyers []*model.Buyer) error
	Count(ctx context.Context) (int64, error)

	// Dashboard aggregates
	GroupCounts(ctx context.Context, column string) (map[string]int64, error)
	BudgetTotals(ctx context.Context) (sumMin, cntMin, sumMax, cntMax int64, err error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type buyerRepo struct{ db *gorm.DB }

func NewBuyerRepository(db *gorm.DB) BuyerRepository { return &buyerRepo{db: db} }

func (r *buyerRepo) CreateTx(tx *gorm.DB, b *model.Buyer) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(b).Error
}

func (r *buyerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error) {
	var b model.Buyer
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}

func applyFilter(q *gorm.DB, filter dto.BuyerFilter) *gorm.DB {
	if filter.Q != "" {
		pat := "%" + filter.Q + "%"
		q = q.Where("full_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", pat, pat, pat)
	}
	if filter.City != "" {
		q = q.Where("city = ?", filter.City)
	}
	if filter.PropertyType != "" {
		q = q.Where("property_type = ?", filter.PropertyType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Timeline != "" {
		q = q.Where("timeline = ?", filter.Timeline)
	}
	return q
}

func (r *buyerRepo) List(ctx context.Context, filter dto.BuyerFilter) ([]model.Buyer, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	q := applyFilter(r.db.WithContext(ctx).Model(&model.Buyer{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var buyers []model.Buyer
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("updated_at DESC").Limit(filter.Limit).Offset(offset).Find(&buyers).Error
	return buyers, total, err
}

func (r *buyerRepo) FindAll(ctx context.Context, filter dto.BuyerFilter) ([]model.Buyer, error) {
	var buyers []model.Buyer
	q := applyFilter(r.db.WithContext(ctx).Model(&model.Buyer{}), filter)
	err := q.Order("updated_at DESC").Find(&buyers).Error
	return buyers, err
}

func (r *buyerRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, observed time.Time, fields map[string]interface{}) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.Model(&model.Buyer{}).
		Where("id = ? AND updated_at = ?", id, observed).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *buyerRepo) CreateBatchTx(tx *gorm.DB, buyers []*model.Buyer) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(buyers).Error
}

func (r *buyerRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Buyer{}).Count(&total).Error
	return total, err
}

// statColumns guards GroupCounts against arbitrary column injection.
var statColumns = map[string]bool{"status": true, "city": true}

func (r *buyerRepo) GroupCounts(ctx context.Context, column string) (map[string]int64, error) {
	if !statColumns[column] {
		return nil, gorm.ErrInvalidField
	}
	type row struct {
		Key   string
		Total int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Buyer{}).
		Select(column + " AS key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Key] = rw.Total
	}
	return counts, nil
}

func (r *buyerRepo) BudgetTotals(ctx context.Context) (int64, int64, int64, int64, error) {
	var totals struct {
		SumMin int64
		CntMin int64
		SumMax int64
		CntMax int64
	}
	err := r.db.WithContext(ctx).Model(&model.Buyer{}).
		Select("COALESCE(SUM(budget_min),0) AS sum_min, COUNT(budget_min) AS cnt_min, " +
			"COALESCE(SUM(budget_max),0) AS sum_max, COUNT(budget_max) AS cnt_max").
		Scan(&totals).Error
	return totals.SumMin, totals.CntMin, totals.SumMax, totals.CntMax, err
}

func (r *buyerRepo) DB() *gorm.DB { return r.db }
