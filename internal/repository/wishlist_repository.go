package repository

import (
	"context"

	"app/internal/domain/model"
)

// ウィッシュリストの永続化。
// ユーザー側（remote）とゲスト側（local）を同じテーブルで持ち、
// マージ時はReplaceで双方を上書きする。
type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistEntry, error)
	ListByGuestToken(ctx context.Context, token string) ([]model.WishlistEntry, error)

	AddForUser(ctx context.Context, userID int64, e model.WishlistEntry) error
	AddForGuest(ctx context.Context, token string, e model.WishlistEntry) error

	RemoveByUserAndDevice(ctx context.Context, userID int64, deviceID int64) error
	RemoveByGuestAndDevice(ctx context.Context, token string, deviceID int64) error

	//全置換（delete + bulk insert）
	ReplaceForUser(ctx context.Context, userID int64, entries []model.WishlistEntry) error
	ReplaceForGuest(ctx context.Context, token string, entries []model.WishlistEntry) error
}
