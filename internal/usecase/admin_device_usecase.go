package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/realtime"
	repo "app/internal/repository"
)

// AdminDeviceUsecase は端末マスタの管理（作成・更新・公開停止・在庫設定）。
type AdminDeviceUsecase struct {
	deviceRepo    repo.DeviceRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
	notifier      ChangeNotifier
	cache         ListInvalidator
}

// 端末が変わったらカタログ一覧キャッシュを捨てる
type ListInvalidator interface {
	InvalidateLists(ctx context.Context) error
}

func NewAdminDeviceUsecase(
	deviceRepo repo.DeviceRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
	notifier ChangeNotifier,
	cache ListInvalidator,
) *AdminDeviceUsecase {
	return &AdminDeviceUsecase{
		deviceRepo:    deviceRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		notifier:      notifier,
		cache:         cache,
	}
}

type UpsertDeviceInput struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Grade    string `json:"grade"`
	Storage  string `json:"storage"`
	Price    int64  `json:"price"`
	IsActive bool   `json:"is_active"`
}

func (in UpsertDeviceInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if len(in.Name) > 255 {
		return NewHTTPError(http.StatusBadRequest, "name too long")
	}
	if strings.TrimSpace(in.Brand) == "" {
		return NewHTTPError(http.StatusBadRequest, "brand is required")
	}
	if !model.DeviceGrade(in.Grade).Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid grade")
	}
	if strings.TrimSpace(in.Storage) == "" {
		return NewHTTPError(http.StatusBadRequest, "storage is required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	return nil
}

// Create は端末を登録する。在庫は0で作り、在庫設定は別操作にする。
func (u *AdminDeviceUsecase) Create(ctx context.Context, actorAdminUserID int64, in UpsertDeviceInput) (model.Device, error) {
	if actorAdminUserID <= 0 {
		return model.Device{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Device{}, err
	}

	created, err := u.deviceRepo.Create(ctx, model.Device{
		Name:     strings.TrimSpace(in.Name),
		Brand:    strings.TrimSpace(in.Brand),
		Grade:    model.DeviceGrade(in.Grade),
		Storage:  strings.TrimSpace(in.Storage),
		Price:    in.Price,
		IsActive: in.IsActive,
	})
	if err != nil {
		return model.Device{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.afterDeviceChange(ctx, realtime.OpInsert, created.ID)
	return created, nil
}

func (u *AdminDeviceUsecase) Update(ctx context.Context, actorAdminUserID int64, deviceID int64, in UpsertDeviceInput) (model.Device, error) {
	if actorAdminUserID <= 0 {
		return model.Device{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if deviceID <= 0 {
		return model.Device{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := in.validate(); err != nil {
		return model.Device{}, err
	}

	d, err := u.deviceRepo.FindByID(ctx, deviceID)
	if err == repo.ErrNotFound {
		return model.Device{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Device{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	d.Name = strings.TrimSpace(in.Name)
	d.Brand = strings.TrimSpace(in.Brand)
	d.Grade = model.DeviceGrade(in.Grade)
	d.Storage = strings.TrimSpace(in.Storage)
	d.Price = in.Price
	d.IsActive = in.IsActive
	if err := u.deviceRepo.Update(ctx, d); err != nil {
		return model.Device{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.afterDeviceChange(ctx, realtime.OpUpdate, d.ID)
	return d, nil
}

// Delete は端末をソフトデリートする。既存の注文明細はスナップショットなので影響しない。
func (u *AdminDeviceUsecase) Delete(ctx context.Context, actorAdminUserID int64, deviceID int64) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if deviceID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.deviceRepo.SoftDelete(ctx, deviceID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.afterDeviceChange(ctx, realtime.OpDelete, deviceID)
	return nil
}

type SetStockInput struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

// SetStock は在庫の現在値を設定し、差分を調整履歴と監査ログに残す。
func (u *AdminDeviceUsecase) SetStock(ctx context.Context, actorAdminUserID int64, deviceID int64, in SetStockInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if deviceID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	d, err := u.deviceRepo.FindByID(ctx, deviceID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if d.Stock == in.Stock {
		return nil
	}

	if err := u.inventoryRepo.SetStock(ctx, deviceID, in.Stock); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "manual adjustment"
	}
	if err := u.inventoryRepo.CreateAdjustment(ctx, model.InventoryAdjustment{
		DeviceID:    deviceID,
		AdminUserID: actorAdminUserID,
		Delta:       in.Stock - d.Stock,
		Reason:      reason,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceDevice,
		ResourceID:   deviceID,
		BeforeJSON:   mustStockJSON(d.Stock),
		AfterJSON:    mustStockJSON(in.Stock),
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		_ = u.cache.InvalidateLists(ctx)
	}
	if u.notifier != nil {
		u.notifier.NotifyChange(realtime.TableInventory, realtime.OpUpdate, deviceID)
	}
	return nil
}

// ListAll はエクスポート用の公開中全件。
func (u *AdminDeviceUsecase) ListAll(ctx context.Context) ([]model.Device, error) {
	devices, err := u.deviceRepo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return devices, nil
}

func (u *AdminDeviceUsecase) afterDeviceChange(ctx context.Context, op string, deviceID int64) {
	if u.cache != nil {
		_ = u.cache.InvalidateLists(ctx)
	}
	if u.notifier != nil {
		u.notifier.NotifyChange(realtime.TableInventory, op, deviceID)
	}
}

func mustStockJSON(stock int64) string {
	b, _ := json.Marshal(map[string]int64{"stock": stock})
	return string(b)
}
