package model

import (
	"time"

	"gorm.io/gorm"
)

// 端末のグレード（A〜D）
type DeviceGrade string

const (
	DeviceGradeA DeviceGrade = "A"
	DeviceGradeB DeviceGrade = "B"
	DeviceGradeC DeviceGrade = "C"
	DeviceGradeD DeviceGrade = "D"
)

// Gradeが定義済みの値かどうか
func (g DeviceGrade) Valid() bool {
	switch g {
	case DeviceGradeA, DeviceGradeB, DeviceGradeC, DeviceGradeD:
		return true
	}
	return false
}

// 在庫として販売する端末。
// Stockは管理者の在庫設定と注文承認時の減算だけが書き換える。
type Device struct {
	ID      int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string      `gorm:"type:varchar(255);not null" json:"name"`
	Brand   string      `gorm:"type:varchar(100);not null;index" json:"brand"`
	Grade   DeviceGrade `gorm:"type:varchar(1);not null" json:"grade"`
	Storage string      `gorm:"type:varchar(50);not null" json:"storage"`

	//単価（最小通貨単位）
	Price int64 `gorm:"not null" json:"price"`

	//物理在庫数
	Stock int64 `gorm:"not null" json:"stock"`

	IsActive  bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
