package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposStub struct {
	OrdersRepo     repo.OrderRepository
	OrderItemsRepo repo.OrderItemRepository
	CartsRepo      repo.CartRepository
	CartItemsRepo  repo.CartItemRepository
	InventoryRepo  repo.InventoryRepository
	DevicesRepo    repo.DeviceRepository
}

func (r *TxReposStub) Orders() repo.OrderRepository         { return r.OrdersRepo }
func (r *TxReposStub) OrderItems() repo.OrderItemRepository { return r.OrderItemsRepo }
func (r *TxReposStub) Carts() repo.CartRepository           { return r.CartsRepo }
func (r *TxReposStub) CartItems() repo.CartItemRepository   { return r.CartItemsRepo }
func (r *TxReposStub) Inventory() repo.InventoryRepository  { return r.InventoryRepo }
func (r *TxReposStub) Devices() repo.DeviceRepository       { return r.DevicesRepo }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListByUserAndStatus(ctx context.Context, userID int64, status model.OrderStatus) ([]model.Order, error) {
	args := m.Called(ctx, userID, status)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateDecision(ctx context.Context, orderID int64, d repo.OrderDecision) error {
	args := m.Called(ctx, orderID, d)
	return args.Error(0)
}

func (m *OrderRepoMock) SetInvoiceNote(ctx context.Context, orderID int64, note string) error {
	args := m.Called(ctx, orderID, note)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, deviceID int64, newStock int64) error {
	args := m.Called(ctx, deviceID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, deviceID int64, qty int64) (bool, error) {
	args := m.Called(ctx, deviceID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) DecreaseStockClamped(ctx context.Context, deviceID int64, qty int64) error {
	args := m.Called(ctx, deviceID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type DeviceRepoMock struct{ mock.Mock }

func (m *DeviceRepoMock) ListPublic(ctx context.Context, q repo.DeviceListQuery) ([]model.Device, int64, error) {
	args := m.Called(ctx, q)
	devices, _ := args.Get(0).([]model.Device)
	return devices, args.Get(1).(int64), args.Error(2)
}

func (m *DeviceRepoMock) FindByID(ctx context.Context, id int64) (model.Device, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(model.Device)
	return d, args.Error(1)
}

func (m *DeviceRepoMock) ListActive(ctx context.Context) ([]model.Device, error) {
	args := m.Called(ctx)
	devices, _ := args.Get(0).([]model.Device)
	return devices, args.Error(1)
}

func (m *DeviceRepoMock) Create(ctx context.Context, d model.Device) (model.Device, error) {
	args := m.Called(ctx, d)
	created, _ := args.Get(0).(model.Device)
	return created, args.Error(1)
}

func (m *DeviceRepoMock) Update(ctx context.Context, d model.Device) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *DeviceRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndDevice(ctx context.Context, cartID int64, deviceID int64, addQty int64, unitPriceSnapshot int64) error {
	args := m.Called(ctx, cartID, deviceID, addQty, unitPriceSnapshot)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	ci, _ := args.Get(0).(model.CartItem)
	return ci, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	addrs, _ := args.Get(0).([]model.Address)
	return addrs, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) FindDefaultByUserID(ctx context.Context, userID int64) (model.Address, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, address model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) Create(ctx context.Context, p model.UserProfile) (model.UserProfile, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.UserProfile)
	return created, args.Error(1)
}

func (m *ProfileRepoMock) FindByUserID(ctx context.Context, userID int64) (model.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.UserProfile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) Update(ctx context.Context, p model.UserProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileRepoMock) UpdateApproval(ctx context.Context, userID int64, approval model.ProfileApproval) error {
	args := m.Called(ctx, userID, approval)
	return args.Error(0)
}

type WishlistRepoMock struct{ mock.Mock }

func (m *WishlistRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistEntry, error) {
	args := m.Called(ctx, userID)
	entries, _ := args.Get(0).([]model.WishlistEntry)
	return entries, args.Error(1)
}

func (m *WishlistRepoMock) ListByGuestToken(ctx context.Context, token string) ([]model.WishlistEntry, error) {
	args := m.Called(ctx, token)
	entries, _ := args.Get(0).([]model.WishlistEntry)
	return entries, args.Error(1)
}

func (m *WishlistRepoMock) AddForUser(ctx context.Context, userID int64, e model.WishlistEntry) error {
	args := m.Called(ctx, userID, e)
	return args.Error(0)
}

func (m *WishlistRepoMock) AddForGuest(ctx context.Context, token string, e model.WishlistEntry) error {
	args := m.Called(ctx, token, e)
	return args.Error(0)
}

func (m *WishlistRepoMock) RemoveByUserAndDevice(ctx context.Context, userID int64, deviceID int64) error {
	args := m.Called(ctx, userID, deviceID)
	return args.Error(0)
}

func (m *WishlistRepoMock) RemoveByGuestAndDevice(ctx context.Context, token string, deviceID int64) error {
	args := m.Called(ctx, token, deviceID)
	return args.Error(0)
}

func (m *WishlistRepoMock) ReplaceForUser(ctx context.Context, userID int64, entries []model.WishlistEntry) error {
	args := m.Called(ctx, userID, entries)
	return args.Error(0)
}

func (m *WishlistRepoMock) ReplaceForGuest(ctx context.Context, token string, entries []model.WishlistEntry) error {
	args := m.Called(ctx, token, entries)
	return args.Error(0)
}

// =====================
// 変更フィード通知の記録
// =====================

type notifyCall struct {
	Table string
	Op    string
	RowID int64
}

type NotifierRecorder struct {
	mu    sync.Mutex
	Calls []notifyCall
}

func (n *NotifierRecorder) NotifyChange(table, op string, rowID int64) {
	n.mu.Lock()
	n.Calls = append(n.Calls, notifyCall{Table: table, Op: op, RowID: rowID})
	n.mu.Unlock()
}
