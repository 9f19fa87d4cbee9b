package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
)

type orderFixture struct {
	uc        *usecase.OrderUsecase
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	devices   *DeviceRepoMock
	addresses *AddressRepoMock
	profiles  *ProfileRepoMock
	notifier  *NotifierRecorder
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:    &OrderRepoMock{},
		items:     &OrderItemRepoMock{},
		carts:     &CartRepoMock{},
		cartItems: &CartItemRepoMock{},
		devices:   &DeviceRepoMock{},
		addresses: &AddressRepoMock{},
		profiles:  &ProfileRepoMock{},
		notifier:  &NotifierRecorder{},
	}

	tx := &TxManagerMock{Repos: &TxReposStub{
		OrdersRepo:     f.orders,
		OrderItemsRepo: f.items,
		CartsRepo:      f.carts,
		CartItemsRepo:  f.cartItems,
		DevicesRepo:    f.devices,
	}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	f.uc = usecase.NewOrderUsecase(tx, f.addresses, f.profiles, f.notifier, nil)
	return f
}

func (f *orderFixture) approvedProfile() {
	f.profiles.On("FindByUserID", mock.Anything, int64(1)).
		Return(model.UserProfile{UserID: 1, Approval: model.ProfileApprovalApproved}, nil)
}

func (f *orderFixture) defaultAddress() {
	f.addresses.On("FindDefaultByUserID", mock.Anything, int64(1)).
		Return(model.Address{ID: 30, UserID: 1, IsDefault: true}, nil)
}

func TestPlaceOrder_ProfileNotApproved(t *testing.T) {
	f := newOrderFixture()

	f.profiles.On("FindByUserID", mock.Anything, int64(1)).
		Return(model.UserProfile{UserID: 1, Approval: model.ProfileApprovalPending}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "k1"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestPlaceOrder_MissingProfileIsForbidden(t *testing.T) {
	f := newOrderFixture()

	f.profiles.On("FindByUserID", mock.Anything, int64(1)).
		Return(model.UserProfile{}, repo.ErrNotFound)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "k1"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestPlaceOrder_NoDefaultAddress(t *testing.T) {
	f := newOrderFixture()
	f.approvedProfile()

	f.addresses.On("FindDefaultByUserID", mock.Anything, int64(1)).
		Return(model.Address{}, repo.ErrNotFound)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "k1"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "missing address", he.Message)
}

func TestPlaceOrder_RequiresIdempotencyKey(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestPlaceOrder_IdempotentReplayReturnsExistingOrder(t *testing.T) {
	f := newOrderFixture()
	f.approvedProfile()
	f.defaultAddress()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "k1").
		Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPending, TotalPrice: 1000}, true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(42)).
		Return([]model.OrderItem{{DeviceID: 10, Quantity: 1, UnitPriceSnapshot: 1000}}, nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "k1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)

	//再送では新しい注文もイベントも作られない
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.Calls)
}

func TestPlaceOrder_QuantityExceedsAvailable(t *testing.T) {
	f := newOrderFixture()
	f.approvedProfile()
	f.defaultAddress()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "k1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 1, CartID: 5, DeviceID: 10, Quantity: 4, UnitPriceSnapshot: 1000}}, nil)

	//在庫5のうち2は自分のPENDING注文が予約済みなので上限は3
	f.orders.On("ListByUserAndStatus", mock.Anything, int64(1), model.OrderStatusPending).
		Return([]model.Order{{ID: 40, UserID: 1, Status: model.OrderStatusPending}}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(40)).
		Return([]model.OrderItem{{DeviceID: 10, Quantity: 2}}, nil)
	f.devices.On("FindByID", mock.Anything, int64(10)).
		Return(model.Device{ID: 10, Name: "iPhone 13", Stock: 5, IsActive: true}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "k1"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "out of stock", he.Message)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture()
	f.approvedProfile()
	f.defaultAddress()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "k1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).
		Return([]model.CartItem{}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "k1"})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, "cart empty", he.Message)
}

func TestPlaceOrder_CreatesPendingAndClearsCart(t *testing.T) {
	f := newOrderFixture()
	f.approvedProfile()
	f.defaultAddress()

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "k1").
		Return(model.Order{}, false, nil)
	f.carts.On("FindActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).
		Return([]model.CartItem{
			{ID: 1, CartID: 5, DeviceID: 10, Quantity: 2, UnitPriceSnapshot: 1000},
			{ID: 2, CartID: 5, DeviceID: 11, Quantity: 1, UnitPriceSnapshot: 500},
		}, nil)
	f.orders.On("ListByUserAndStatus", mock.Anything, int64(1), model.OrderStatusPending).
		Return([]model.Order{}, nil)
	f.devices.On("FindByID", mock.Anything, int64(10)).
		Return(model.Device{ID: 10, Name: "iPhone 13", Stock: 5, IsActive: true}, nil)
	f.devices.On("FindByID", mock.Anything, int64(11)).
		Return(model.Device{ID: 11, Name: "Pixel 7", Stock: 3, IsActive: true}, nil)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			o.Status == model.OrderStatusPending &&
			o.TotalPrice == 2500 &&
			o.IdempotencyKey == "k1" &&
			o.AddressID == 30
	})).Return(int64(100), nil)
	f.items.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)
	f.carts.On("UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut).Return(nil)
	f.carts.On("Clear", mock.Anything, int64(5)).Return(nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{IdempotencyKey: "k1"})
	assert.NoError(t, err)

	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, int64(2500), out.TotalPrice)
	assert.Len(t, out.Items, 2)

	f.carts.AssertCalled(t, "UpdateStatus", mock.Anything, int64(5), model.CartStatusCheckedOut)
	f.carts.AssertCalled(t, "Clear", mock.Anything, int64(5))

	assert.Len(t, f.notifier.Calls, 1)
	assert.Equal(t, "orders", f.notifier.Calls[0].Table)
	assert.Equal(t, "INSERT", f.notifier.Calls[0].Op)
	assert.Equal(t, int64(100), f.notifier.Calls[0].RowID)
}

func TestGetMyOrderDetail_OtherUsersOrderIsHidden(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(42)).
		Return(model.Order{ID: 42, UserID: 2}, nil)

	_, err := f.uc.GetMyOrderDetail(context.Background(), 1, 42)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
