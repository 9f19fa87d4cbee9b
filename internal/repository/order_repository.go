package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// ステータス更新の入力。REJECTEDのときだけ理由・コメントを持つ。
type OrderDecision struct {
	Status           model.OrderStatus
	RejectionReason  model.RejectionReason
	RejectionComment string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)

	//特定ユーザー・特定ステータスの注文一覧（予約計算に使う）
	ListByUserAndStatus(ctx context.Context, userID int64, status model.OrderStatus) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateDecision(ctx context.Context, orderID int64, d OrderDecision) error

	//請求書確認メモ（終端後も更新できるメタデータ）
	SetInvoiceNote(ctx context.Context, orderID int64, note string) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
