package model

import "time"

// 注文明細。注文時点の端末名・単価スナップショットを保存する。
type OrderItem struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID            int64     `gorm:"not null;index" json:"order_id"`
	DeviceID           int64     `gorm:"not null;index" json:"device_id"`
	DeviceNameSnapshot string    `gorm:"type:varchar(255);not null" json:"device_name_snapshot"`
	UnitPriceSnapshot  int64     `gorm:"not null" json:"unit_price_snapshot"`
	Quantity           int64     `gorm:"not null" json:"quantity"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
