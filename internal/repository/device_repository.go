package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 公開カタログの一覧検索
type DeviceListQuery struct {
	Page     int
	Limit    int
	Q        string
	Brand    string
	Grade    string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// 端末の永続化（保存・取得）だけを約束
type DeviceRepository interface {
	ListPublic(ctx context.Context, q DeviceListQuery) ([]model.Device, int64, error)
	FindByID(ctx context.Context, id int64) (model.Device, error)

	//エクスポート用（公開中の全件）
	ListActive(ctx context.Context) ([]model.Device, error)

	Create(ctx context.Context, d model.Device) (model.Device, error)
	Update(ctx context.Context, d model.Device) error
	SoftDelete(ctx context.Context, id int64) error
}
