package repository

import (
	"context"

	"app/internal/domain/model"
)

type UserProfileRepository interface {
	Create(ctx context.Context, p model.UserProfile) (model.UserProfile, error)
	FindByUserID(ctx context.Context, userID int64) (model.UserProfile, error)
	Update(ctx context.Context, p model.UserProfile) error
	UpdateApproval(ctx context.Context, userID int64, approval model.ProfileApproval) error
}
