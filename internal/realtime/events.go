package realtime

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// 変更が起きたテーブル
const (
	TableInventory    = "inventory"
	TableOrders       = "orders"
	TableUserProfiles = "user_profiles"
)

// 行に対する操作
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Kafkaトピック（テーブルごと）
const (
	TopicInventoryChanged    = "storefront.inventory.changed"
	TopicOrdersChanged       = "storefront.orders.changed"
	TopicUserProfilesChanged = "storefront.user_profiles.changed"
)

// TopicFor はテーブル名から配信先トピックを引く。
func TopicFor(table string) string {
	switch table {
	case TableOrders:
		return TopicOrdersChanged
	case TableUserProfiles:
		return TopicUserProfilesChanged
	default:
		return TopicInventoryChanged
	}
}

// 行レベル変更の通知。差分は運ばず「無効化して取り直せ」のトリガーだけを運ぶ。
type ChangeEvent struct {
	EventID    string    `json:"event_id"`
	Table      string    `json:"table"`
	Op         string    `json:"op"`
	RowID      int64     `json:"row_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Producer   string    `json:"producer"`
}

func NewChangeEvent(producer, table, op string, rowID int64) ChangeEvent {
	return ChangeEvent{
		EventID:    uuid.NewString(),
		Table:      table,
		Op:         op,
		RowID:      rowID,
		OccurredAt: time.Now().UTC(),
		Producer:   producer,
	}
}

// パーティションキー。同じ行の変更は同じパーティションに載せる。
func (e ChangeEvent) Key() []byte {
	return []byte(e.Table + ":" + strconv.FormatInt(e.RowID, 10))
}

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
