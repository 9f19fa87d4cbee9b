package model

import "time"

type OrderStatus string

const (
	//管理者の判断待ち。PENDINGだけが在庫を予約する。
	OrderStatusPending OrderStatus = "PENDING"

	//承認済み（在庫は承認時に減算済み）
	OrderStatusApproved OrderStatus = "APPROVED"

	//却下（終端）
	OrderStatusRejected OrderStatus = "REJECTED"

	//完了（終端。APPROVEDからのみ遷移）
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// 却下理由
type RejectionReason string

const (
	RejectionOutOfStock   RejectionReason = "OUT_OF_STOCK"
	RejectionProfileIssue RejectionReason = "PROFILE_ISSUE"
	RejectionPricing      RejectionReason = "PRICING"
	RejectionOther        RejectionReason = "OTHER"
)

func (r RejectionReason) Valid() bool {
	switch r {
	case RejectionOutOfStock, RejectionProfileIssue, RejectionPricing, RejectionOther:
		return true
	}
	return false
}

// 注文。checkoutでPENDINGとして作成され、管理者だけがステータスを進める。
// REJECTED / COMPLETED 後は請求書メモ以外は不変。
type Order struct {
	ID             int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64       `gorm:"not null;index" json:"user_id"`
	AddressID      int64       `gorm:"not null" json:"address_id"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice     int64       `gorm:"not null" json:"total_price"`
	IdempotencyKey string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	//REJECTED時のみ設定
	RejectionReason  RejectionReason `gorm:"type:varchar(30)" json:"rejection_reason,omitempty"`
	RejectionComment string          `gorm:"type:text" json:"rejection_comment,omitempty"`

	//請求書確認メモ（終端後も更新できるメタデータ）
	InvoiceNote string `gorm:"type:text" json:"invoice_note,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
