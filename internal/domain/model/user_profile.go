package model

import "time"

// 卸会員プロフィールの承認状態。checkoutはAPPROVEDのみ許可。
type ProfileApproval string

const (
	ProfileApprovalPending  ProfileApproval = "PENDING"
	ProfileApprovalApproved ProfileApproval = "APPROVED"
	ProfileApprovalRejected ProfileApproval = "REJECTED"
)

func (p ProfileApproval) Valid() bool {
	switch p {
	case ProfileApprovalPending, ProfileApprovalApproved, ProfileApprovalRejected:
		return true
	}
	return false
}

// 卸会員プロフィール。1ユーザーにつき1件。
type UserProfile struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;uniqueIndex" json:"user_id"`
	CompanyName string          `gorm:"type:varchar(255);not null" json:"company_name"`
	ContactName string          `gorm:"type:varchar(255);not null" json:"contact_name"`
	Phone       string          `gorm:"type:varchar(30)" json:"phone"`
	Approval    ProfileApproval `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"approval"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
