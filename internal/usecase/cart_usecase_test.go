package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	"app/internal/usecase"
)

type cartFixture struct {
	uc        *usecase.CartUsecase
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	devices   *DeviceRepoMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		carts:     &CartRepoMock{},
		cartItems: &CartItemRepoMock{},
		devices:   &DeviceRepoMock{},
		orders:    &OrderRepoMock{},
		items:     &OrderItemRepoMock{},
	}
	f.uc = usecase.NewCartUsecase(f.carts, f.cartItems, f.devices, f.orders, f.items)
	return f
}

func (f *cartFixture) activeCart() {
	f.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(1)).
		Return(model.Cart{ID: 5, UserID: 1, Status: model.CartStatusActive}, nil)
}

func (f *cartFixture) noPendingOrders() {
	f.orders.On("ListByUserAndStatus", mock.Anything, int64(1), model.OrderStatusPending).
		Return([]model.Order{}, nil)
}

func TestAddToCart_WithinAvailability(t *testing.T) {
	f := newCartFixture()
	f.activeCart()
	f.noPendingOrders()

	f.devices.On("FindByID", mock.Anything, int64(10)).
		Return(model.Device{ID: 10, Name: "iPhone 13", Price: 1000, Stock: 5, IsActive: true}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).
		Return([]model.CartItem{}, nil).Once()
	f.cartItems.On("UpsertByCartAndDevice", mock.Anything, int64(5), int64(10), int64(3), int64(1000)).
		Return(nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 1, CartID: 5, DeviceID: 10, Quantity: 3, UnitPriceSnapshot: 1000}}, nil)

	out, err := f.uc.AddToCart(context.Background(), 1, usecase.AddCartInput{DeviceID: 10, Quantity: 3})
	assert.NoError(t, err)

	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(3000), out.Total)
}

func TestAddToCart_ReservationReducesLimit(t *testing.T) {
	f := newCartFixture()
	f.activeCart()

	//在庫5、自分のPENDINGが2、カートに1 → 追加できるのは最大2
	f.devices.On("FindByID", mock.Anything, int64(10)).
		Return(model.Device{ID: 10, Price: 1000, Stock: 5, IsActive: true}, nil)
	f.orders.On("ListByUserAndStatus", mock.Anything, int64(1), model.OrderStatusPending).
		Return([]model.Order{{ID: 40, UserID: 1, Status: model.OrderStatusPending}}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(40)).
		Return([]model.OrderItem{{DeviceID: 10, Quantity: 2}}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 1, CartID: 5, DeviceID: 10, Quantity: 1, UnitPriceSnapshot: 1000}}, nil)

	_, err := f.uc.AddToCart(context.Background(), 1, usecase.AddCartInput{DeviceID: 10, Quantity: 3})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "insufficient quantity", he.Message)
	f.cartItems.AssertNotCalled(t, "UpsertByCartAndDevice",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddToCart_InactiveDeviceRejected(t *testing.T) {
	f := newCartFixture()
	f.activeCart()

	f.devices.On("FindByID", mock.Anything, int64(10)).
		Return(model.Device{ID: 10, Stock: 5, IsActive: false}, nil)

	_, err := f.uc.AddToCart(context.Background(), 1, usecase.AddCartInput{DeviceID: 10, Quantity: 1})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestUpdateItemQuantity_NotOwned(t *testing.T) {
	f := newCartFixture()

	f.cartItems.On("IsOwnedByUser", mock.Anything, int64(7), int64(1)).Return(false, nil)

	_, err := f.uc.UpdateItemQuantity(context.Background(), 1, 7, usecase.UpdateCartItemInput{Quantity: 2})

	//他人の明細は存在しない扱い
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestUpdateItemQuantity_ReplaceIgnoresCurrentCartQuantity(t *testing.T) {
	f := newCartFixture()
	f.noPendingOrders()

	f.cartItems.On("IsOwnedByUser", mock.Anything, int64(7), int64(1)).Return(true, nil)
	f.cartItems.On("FindByID", mock.Anything, int64(7)).
		Return(model.CartItem{ID: 7, CartID: 5, DeviceID: 10, Quantity: 1, UnitPriceSnapshot: 1000}, nil)
	f.devices.On("FindByID", mock.Anything, int64(10)).
		Return(model.Device{ID: 10, Name: "iPhone 13", Stock: 5, IsActive: true}, nil)

	//置き換えなので現カート数量に関係なく在庫上限5まで上げられる
	f.cartItems.On("UpdateQuantity", mock.Anything, int64(7), int64(5)).Return(nil)
	f.cartItems.On("ListByCartID", mock.Anything, int64(5)).
		Return([]model.CartItem{{ID: 7, CartID: 5, DeviceID: 10, Quantity: 5, UnitPriceSnapshot: 1000}}, nil)

	out, err := f.uc.UpdateItemQuantity(context.Background(), 1, 7, usecase.UpdateCartItemInput{Quantity: 5})
	assert.NoError(t, err)
	assert.Equal(t, int64(5000), out.Total)
}

func TestRemoveItem_NotOwned(t *testing.T) {
	f := newCartFixture()

	f.cartItems.On("IsOwnedByUser", mock.Anything, int64(7), int64(1)).Return(false, nil)

	_, err := f.uc.RemoveItem(context.Background(), 1, 7)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
