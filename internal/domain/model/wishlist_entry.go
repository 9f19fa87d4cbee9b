package model

import "time"

// ウィッシュリストの1件。端末IDへの参照＋表示用スナップショット。
// ゲスト側（GuestToken）とユーザー側（UserID）のどちらか一方に属する。
// ログイン時に両者をマージして双方へ書き戻す。
type WishlistEntry struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//ログイン済みユーザーの保存分（remote側）。0ならゲスト分。
	UserID int64 `gorm:"index" json:"user_id,omitempty"`

	//ゲスト（ブラウザ単位）の保存分（local側）。空ならユーザー分。
	GuestToken string `gorm:"type:varchar(64);index" json:"-"`

	DeviceID int64 `gorm:"not null;index" json:"device_id"`

	//追加時点のスナップショット（表示用。正は端末テーブル）
	DeviceNameSnapshot string `gorm:"type:varchar(255)" json:"device_name_snapshot"`
	PriceSnapshot      int64  `json:"price_snapshot"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
