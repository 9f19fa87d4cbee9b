package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type UserProfileGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserProfileGormRepository(db *gorm.DB) *UserProfileGormRepository {
	return &UserProfileGormRepository{db: db}
}

func (r *UserProfileGormRepository) Create(ctx context.Context, p model.UserProfile) (model.UserProfile, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.UserProfile{}, err
	}
	return p, nil
}

func (r *UserProfileGormRepository) FindByUserID(ctx context.Context, userID int64) (model.UserProfile, error) {
	var p model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserProfile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.UserProfile{}, err
	}
	return p, nil
}

func (r *UserProfileGormRepository) Update(ctx context.Context, p model.UserProfile) error {
	res := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]interface{}{
			"company_name": p.CompanyName,
			"contact_name": p.ContactName,
			"phone":        p.Phone,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 承認状態だけを更新
func (r *UserProfileGormRepository) UpdateApproval(ctx context.Context, userID int64, approval model.ProfileApproval) error {
	res := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("user_id = ?", userID).
		Update("approval", approval)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
