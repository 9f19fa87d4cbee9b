package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

// DI
func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

func (r *WishlistGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistEntry, error) {
	var entries []model.WishlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return []model.WishlistEntry{}, err
	}
	return entries, nil
}

func (r *WishlistGormRepository) ListByGuestToken(ctx context.Context, token string) ([]model.WishlistEntry, error) {
	var entries []model.WishlistEntry
	err := r.db.WithContext(ctx).
		Where("guest_token = ?", token).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return []model.WishlistEntry{}, err
	}
	return entries, nil
}

// ユーザー側へ追加（同じ端末が既にあれば何もしない）
func (r *WishlistGormRepository) AddForUser(ctx context.Context, userID int64, e model.WishlistEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.WishlistEntry{}).
			Where("user_id = ? AND device_id = ?", userID, e.DeviceID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		e.UserID = userID
		e.GuestToken = ""
		return tx.Create(&e).Error
	})
}

// ゲスト側へ追加（同じ端末が既にあれば何もしない）
func (r *WishlistGormRepository) AddForGuest(ctx context.Context, token string, e model.WishlistEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.WishlistEntry{}).
			Where("guest_token = ? AND device_id = ?", token, e.DeviceID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		e.UserID = 0
		e.GuestToken = token
		return tx.Create(&e).Error
	})
}

func (r *WishlistGormRepository) RemoveByUserAndDevice(ctx context.Context, userID int64, deviceID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Delete(&model.WishlistEntry{}).Error
}

func (r *WishlistGormRepository) RemoveByGuestAndDevice(ctx context.Context, token string, deviceID int64) error {
	return r.db.WithContext(ctx).
		Where("guest_token = ? AND device_id = ?", token, deviceID).
		Delete(&model.WishlistEntry{}).Error
}

// ユーザー側を全置換（マージ結果の書き戻し）
func (r *WishlistGormRepository) ReplaceForUser(ctx context.Context, userID int64, entries []model.WishlistEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.WishlistEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		rows := make([]model.WishlistEntry, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, model.WishlistEntry{
				UserID:             userID,
				DeviceID:           e.DeviceID,
				DeviceNameSnapshot: e.DeviceNameSnapshot,
				PriceSnapshot:      e.PriceSnapshot,
			})
		}
		return tx.Create(&rows).Error
	})
}

// ゲスト側を全置換（マージ結果の書き戻し）
func (r *WishlistGormRepository) ReplaceForGuest(ctx context.Context, token string, entries []model.WishlistEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_token = ?", token).Delete(&model.WishlistEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		rows := make([]model.WishlistEntry, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, model.WishlistEntry{
				GuestToken:         token,
				DeviceID:           e.DeviceID,
				DeviceNameSnapshot: e.DeviceNameSnapshot,
				PriceSnapshot:      e.PriceSnapshot,
			})
		}
		return tx.Create(&rows).Error
	})
}
