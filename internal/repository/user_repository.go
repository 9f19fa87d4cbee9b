package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// ユーザーが見つからないときの統一エラー
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error

	//ID一括→メール解決（管理画面のバッチ用）。見つからないIDは結果から落ちる。
	ListByIDs(ctx context.Context, userIDs []int64) ([]model.User, error)
}
