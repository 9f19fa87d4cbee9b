package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 一覧キャッシュの約束（Redis実装はinfra/cache）。
// nilでも動く：キャッシュ失敗は読み取りを止めない。
type ListCache interface {
	GetList(ctx context.Context, queryKey string, dest any) (bool, error)
	SetList(ctx context.Context, queryKey string, v any) error
}

// CatalogUsecase は公開カタログ（一覧・詳細）の業務ロジック。
type CatalogUsecase struct {
	deviceRepo    repo.DeviceRepository
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	cache         ListCache
}

func NewCatalogUsecase(
	deviceRepo repo.DeviceRepository,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	cache ListCache,
) *CatalogUsecase {
	return &CatalogUsecase{
		deviceRepo:    deviceRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		cache:         cache,
	}
}

// GET /devicesの入力DTO
type ListDevicesInput struct {
	Page     int
	Limit    int
	Q        string
	Brand    string
	Grade    string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

type DeviceListOutput struct {
	Items []model.Device `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// 詳細＋呼び出しユーザー視点の購入可能数
type DeviceDetailOutput struct {
	Device    model.Device `json:"device"`
	Available int64        `json:"available"`
}

func (u *CatalogUsecase) ListDevices(ctx context.Context, in ListDevicesInput) (DeviceListOutput, error) {
	if in.Page < 1 {
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.Grade != "" && !model.DeviceGrade(in.Grade).Valid() {
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid grade")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return DeviceListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	//キャッシュヒットならDBに行かない（失敗は無視して素通し）
	queryKey := listQueryKey(in)
	if u.cache != nil {
		var cached DeviceListOutput
		if ok, err := u.cache.GetList(ctx, queryKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	items, total, err := u.deviceRepo.ListPublic(ctx, repo.DeviceListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Brand:    in.Brand,
		Grade:    in.Grade,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return DeviceListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := DeviceListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}

	if u.cache != nil {
		_ = u.cache.SetList(ctx, queryKey, out)
	}

	return out, nil
}

// GetDeviceDetail は端末詳細と「このユーザーがあと何台注文できるか」を返す。
// userID==0 は匿名（自分のカート以外の制約なし。カートも無いのでavailable=stock）。
func (u *CatalogUsecase) GetDeviceDetail(ctx context.Context, deviceID int64, userID int64) (DeviceDetailOutput, error) {
	if deviceID <= 0 {
		return DeviceDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid device id")
	}

	d, err := u.deviceRepo.FindByID(ctx, deviceID)
	if err == repo.ErrNotFound {
		return DeviceDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return DeviceDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !d.IsActive {
		return DeviceDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	orders, err := loadPendingOrdersWithItems(ctx, u.orderRepo, u.orderItemRepo, userID)
	if err != nil {
		return DeviceDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	cartItems, err := loadActiveCartItems(ctx, u.cartRepo, u.cartItemRepo, userID)
	if err != nil {
		return DeviceDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return DeviceDetailOutput{
		Device:    d,
		Available: AvailableForUser(d, userID, orders, cartItems),
	}, nil
}

func listQueryKey(in ListDevicesInput) string {
	minP, maxP := int64(-1), int64(-1)
	if in.MinPrice != nil {
		minP = *in.MinPrice
	}
	if in.MaxPrice != nil {
		maxP = *in.MaxPrice
	}
	return fmt.Sprintf("p=%d&l=%d&q=%s&b=%s&g=%s&min=%d&max=%d&s=%s",
		in.Page, in.Limit, strings.TrimSpace(in.Q), in.Brand, in.Grade, minP, maxP, in.Sort)
}
