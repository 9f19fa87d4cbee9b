package usecase

import "app/internal/domain/model"

// 注文＋明細のスナップショット。予約計算の入力に使う。
type OrderWithItems struct {
	Order model.Order
	Items []model.OrderItem
}

// ReservedInPendingOrders は対象ユーザーのPENDING注文が押さえている数量を合計する。
// PENDING以外は予約を持たない：承認済みは在庫が既に減算済みで、
// 却下・完了は在庫に触れない（または戻し済み）ため、どれも0扱い。
func ReservedInPendingOrders(deviceID int64, userID int64, orders []OrderWithItems) int64 {
	if userID == 0 {
		return 0
	}

	var total int64
	for _, o := range orders {
		if o.Order.UserID != userID {
			continue
		}
		if o.Order.Status != model.OrderStatusPending {
			continue
		}
		for _, it := range o.Items {
			if it.DeviceID != deviceID {
				continue
			}
			if it.Quantity > 0 {
				total += it.Quantity
			}
		}
	}
	return total
}

// QuantityInCart はカート内の対象端末の数量を返す。無ければ0。
// カートは端末IDごとに1行なので、最初に一致した行だけを見る。
func QuantityInCart(deviceID int64, cartItems []model.CartItem) int64 {
	for _, ci := range cartItems {
		if ci.DeviceID == deviceID {
			if ci.Quantity > 0 {
				return ci.Quantity
			}
			return 0
		}
	}
	return 0
}

// AvailableForUser はこのユーザーがまだ注文に追加できる数量を返す。
//   - 匿名（userID==0）: max(0, stock - cart)
//   - ログイン済み: max(0, stock - 自分のPENDING予約 - cart)
//
// 読み取り時にだけ評価される値で、書き込み時の原子性は持たない。
func AvailableForUser(d model.Device, userID int64, orders []OrderWithItems, cartItems []model.CartItem) int64 {
	stock := d.Stock
	if stock < 0 {
		stock = 0
	}

	avail := stock - QuantityInCart(d.ID, cartItems)
	if userID != 0 {
		avail -= ReservedInPendingOrders(d.ID, userID, orders)
	}

	if avail < 0 {
		return 0
	}
	return avail
}
