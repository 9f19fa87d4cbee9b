package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type DeviceGormRepository struct {
	db *gorm.DB
}

// DI
func NewDeviceGormRepository(db *gorm.DB) *DeviceGormRepository {
	return &DeviceGormRepository{db: db}
}

// 公開カタログの一覧（is_active=trueのみ）
func (r *DeviceGormRepository) ListPublic(ctx context.Context, q repo.DeviceListQuery) ([]model.Device, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	base := r.db.WithContext(ctx).Model(&model.Device{}).Where("is_active = ?", true)

	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		base = base.Where("name ILIKE ? OR brand ILIKE ?", like, like)
	}
	if q.Brand != "" {
		base = base.Where("brand = ?", q.Brand)
	}
	if q.Grade != "" {
		base = base.Where("grade = ?", q.Grade)
	}
	if q.MinPrice != nil {
		base = base.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		base = base.Where("price <= ?", *q.MaxPrice)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Device{}, 0, err
	}

	switch q.Sort {
	case "price_asc":
		base = base.Order("price asc")
	case "price_desc":
		base = base.Order("price desc")
	default:
		base = base.Order("id desc")
	}

	var items []model.Device
	offset := (q.Page - 1) * q.Limit
	if err := base.Limit(q.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Device{}, 0, err
	}

	return items, total, nil
}

func (r *DeviceGormRepository) FindByID(ctx context.Context, id int64) (model.Device, error) {
	var d model.Device
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Device{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Device{}, err
	}
	return d, nil
}

// エクスポート用（公開中の全件）
func (r *DeviceGormRepository) ListActive(ctx context.Context) ([]model.Device, error) {
	var items []model.Device
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("brand asc, name asc").
		Find(&items).Error
	if err != nil {
		return []model.Device{}, err
	}
	return items, nil
}

func (r *DeviceGormRepository) Create(ctx context.Context, d model.Device) (model.Device, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return model.Device{}, err
	}
	return d, nil
}

func (r *DeviceGormRepository) Update(ctx context.Context, d model.Device) error {
	res := r.db.WithContext(ctx).Model(&model.Device{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"name":      d.Name,
			"brand":     d.Brand,
			"grade":     d.Grade,
			"storage":   d.Storage,
			"price":     d.Price,
			"is_active": d.IsActive,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeviceGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Device{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
