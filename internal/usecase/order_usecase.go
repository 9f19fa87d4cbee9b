package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/metrics"
	"app/internal/realtime"
	repo "app/internal/repository"
)

// 変更フィードへの通知口（realtime.Notifierが満たす）
type ChangeNotifier interface {
	NotifyChange(table, op string, rowID int64)
}

// OrderUsecase は注文作成と自分の注文参照の業務ロジック。
// checkoutはPENDING注文を作るだけで在庫は減らさない。減算は承認時。
type OrderUsecase struct {
	tx        repo.TransactionManager
	addresses repo.AddressRepository
	profiles  repo.UserProfileRepository
	notifier  ChangeNotifier
	metrics   *metrics.Metrics
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	addresses repo.AddressRepository,
	profiles repo.UserProfileRepository,
	notifier ChangeNotifier,
	m *metrics.Metrics,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		addresses: addresses,
		profiles:  profiles,
		notifier:  notifier,
		metrics:   m,
	}
}

type PlaceOrderInput struct {
	AddressID      int64 //0ならデフォルト住所を使う
	IdempotencyKey string
}

type OrderItemOutput struct {
	DeviceID int64  `json:"device_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

type OrderOutput struct {
	ID               int64             `json:"id"`
	UserID           int64             `json:"user_id"`
	Status           string            `json:"status"`
	TotalPrice       int64             `json:"total_price"`
	RejectionReason  string            `json:"rejection_reason,omitempty"`
	RejectionComment string            `json:"rejection_comment,omitempty"`
	InvoiceNote      string            `json:"invoice_note,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	Items            []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	//プロフィール承認チェック
	profile, err := u.profiles.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "profile not approved")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if profile.Approval != model.ProfileApprovalApproved {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "profile not approved")
	}

	//配送先住所の決定（指定なしはデフォルト住所）
	addressID := in.AddressID
	if addressID == 0 {
		addr, err := u.addresses.FindDefaultByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "missing address")
		}
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		addressID = addr.ID
	} else {
		owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}

	var out OrderOutput
	created := false

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		//ACTIVEカート取得
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//読み取り時点の在庫・予約に対するチェック。
		//ここでは在庫を減らさない（減算は承認時）ため、同時checkoutは
		//合計で実在庫を超えられる。承認画面の警告で拾う。
		pending, err := loadPendingOrdersWithItems(ctx, r.Orders(), r.OrderItems(), userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var total int64 = 0

		for _, ci := range cartItems {
			d, err := r.Devices().FindByID(ctx, ci.DeviceID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !d.IsActive {
				return NewHTTPError(http.StatusBadRequest, "invalid")
			}

			limit := d.Stock - ReservedInPendingOrders(d.ID, userID, pending)
			if limit < 0 {
				limit = 0
			}
			if ci.Quantity > limit {
				return NewHTTPError(http.StatusBadRequest, "out of stock")
			}

			now := time.Now()
			orderItems = append(orderItems, model.OrderItem{
				DeviceID:           ci.DeviceID,
				DeviceNameSnapshot: d.Name,
				UnitPriceSnapshot:  ci.UnitPriceSnapshot,
				Quantity:           ci.Quantity,
				CreatedAt:          now,
			})

			total += ci.UnitPriceSnapshot * ci.Quantity
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:         userID,
			AddressID:      addressID,
			Status:         model.OrderStatusPending,
			TotalPrice:     total,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			//競合（同時に同じキーが入った等）はもう一度検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				out = toOrderOutput(ex2, items2)
				return nil
			}
			return NewHTTPError(http.StatusBadRequest, "idempotency conflict")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをCHECKED_OUTにして明細をクリア（再注文防止）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(model.Order{
			ID:         orderID,
			UserID:     userID,
			AddressID:  addressID,
			Status:     model.OrderStatusPending,
			TotalPrice: total,
			CreatedAt:  now,
		}, orderItems)
		created = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	if created {
		if u.metrics != nil {
			u.metrics.OrdersPlaced.Inc()
		}
		if u.notifier != nil {
			u.notifier.NotifyChange(realtime.TableOrders, realtime.OpInsert, out.ID)
		}
	}

	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			DeviceID: it.DeviceID,
			Name:     it.DeviceNameSnapshot,
			Price:    it.UnitPriceSnapshot,
			Quantity: it.Quantity,
		})
	}

	return OrderOutput{
		ID:               o.ID,
		UserID:           o.UserID,
		Status:           string(o.Status),
		TotalPrice:       o.TotalPrice,
		RejectionReason:  string(o.RejectionReason),
		RejectionComment: o.RejectionComment,
		InvoiceNote:      o.InvoiceNote,
		CreatedAt:        o.CreatedAt,
		Items:            outItems,
	}
}
