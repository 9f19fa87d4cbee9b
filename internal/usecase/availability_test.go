package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"app/internal/domain/model"
	"app/internal/usecase"
)

func device(id, stock int64) model.Device {
	return model.Device{ID: id, Name: "iPhone 13", Brand: "Apple", Grade: model.DeviceGradeA, Stock: stock, IsActive: true}
}

func pendingOrder(userID int64, deviceID int64, qty int64) usecase.OrderWithItems {
	return usecase.OrderWithItems{
		Order: model.Order{ID: 1, UserID: userID, Status: model.OrderStatusPending},
		Items: []model.OrderItem{{DeviceID: deviceID, Quantity: qty}},
	}
}

func TestAvailableForUser_NoReservationsNoCart(t *testing.T) {
	got := usecase.AvailableForUser(device(10, 5), 1, nil, nil)
	assert.Equal(t, int64(5), got)
}

func TestAvailableForUser_PendingAndCartSubtract(t *testing.T) {
	// 在庫5、PENDING予約2、カート1 → 2
	orders := []usecase.OrderWithItems{pendingOrder(1, 10, 2)}
	cart := []model.CartItem{{DeviceID: 10, Quantity: 1}}

	got := usecase.AvailableForUser(device(10, 5), 1, orders, cart)
	assert.Equal(t, int64(2), got)
}

func TestAvailableForUser_RejectedOrderDoesNotReserve(t *testing.T) {
	// 却下された注文は予約を持たない → 5-1=4
	orders := []usecase.OrderWithItems{
		{
			Order: model.Order{ID: 2, UserID: 1, Status: model.OrderStatusRejected},
			Items: []model.OrderItem{{DeviceID: 10, Quantity: 3}},
		},
	}
	cart := []model.CartItem{{DeviceID: 10, Quantity: 1}}

	got := usecase.AvailableForUser(device(10, 5), 1, orders, cart)
	assert.Equal(t, int64(4), got)
}

func TestAvailableForUser_ApprovedAndCompletedDoNotReserve(t *testing.T) {
	orders := []usecase.OrderWithItems{
		{
			Order: model.Order{ID: 3, UserID: 1, Status: model.OrderStatusApproved},
			Items: []model.OrderItem{{DeviceID: 10, Quantity: 2}},
		},
		{
			Order: model.Order{ID: 4, UserID: 1, Status: model.OrderStatusCompleted},
			Items: []model.OrderItem{{DeviceID: 10, Quantity: 2}},
		},
	}

	got := usecase.AvailableForUser(device(10, 5), 1, orders, nil)
	assert.Equal(t, int64(5), got)
}

func TestAvailableForUser_OtherUsersOrdersIgnored(t *testing.T) {
	// 他ユーザーのPENDINGは自分のavailableに影響しない
	orders := []usecase.OrderWithItems{pendingOrder(99, 10, 4)}

	got := usecase.AvailableForUser(device(10, 5), 1, orders, nil)
	assert.Equal(t, int64(5), got)
}

func TestAvailableForUser_AnonymousOnlyCartConstrains(t *testing.T) {
	// 匿名（userID=0）は予約を持てない。在庫5、カート3 → 2
	cart := []model.CartItem{{DeviceID: 10, Quantity: 3}}

	got := usecase.AvailableForUser(device(10, 5), 0, nil, cart)
	assert.Equal(t, int64(2), got)
}

func TestAvailableForUser_NeverNegative(t *testing.T) {
	orders := []usecase.OrderWithItems{pendingOrder(1, 10, 10)}
	cart := []model.CartItem{{DeviceID: 10, Quantity: 10}}

	got := usecase.AvailableForUser(device(10, 5), 1, orders, cart)
	assert.Equal(t, int64(0), got)
}

func TestAvailableForUser_NegativeStockTreatedAsZero(t *testing.T) {
	got := usecase.AvailableForUser(device(10, -3), 1, nil, nil)
	assert.Equal(t, int64(0), got)
}

func TestReservedInPendingOrders_SumsAcrossOrders(t *testing.T) {
	orders := []usecase.OrderWithItems{
		pendingOrder(1, 10, 2),
		pendingOrder(1, 10, 3),
		pendingOrder(1, 77, 4), // 別端末
	}

	assert.Equal(t, int64(5), usecase.ReservedInPendingOrders(10, 1, orders))
}

func TestReservedInPendingOrders_NegativeQuantityIgnored(t *testing.T) {
	orders := []usecase.OrderWithItems{pendingOrder(1, 10, -2)}

	assert.Equal(t, int64(0), usecase.ReservedInPendingOrders(10, 1, orders))
}

func TestQuantityInCart_FirstMatchingRowOnly(t *testing.T) {
	// カートは端末IDごとに1行の前提。重複行があっても先頭だけ見る。
	cart := []model.CartItem{
		{DeviceID: 10, Quantity: 2},
		{DeviceID: 10, Quantity: 9},
	}

	assert.Equal(t, int64(2), usecase.QuantityInCart(10, cart))
}

func TestQuantityInCart_Missing(t *testing.T) {
	assert.Equal(t, int64(0), usecase.QuantityInCart(10, nil))
}
