package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/metrics"
	"app/internal/realtime"
	repo "app/internal/repository"
)

// AdminOrderUsecase は注文の承認・却下・完了と管理者向け一覧。
type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	notifier  ChangeNotifier
	metrics   *metrics.Metrics
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	auditRepo repo.AuditLogRepository,
	notifier ChangeNotifier,
	m *metrics.Metrics,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo, notifier: notifier, metrics: m}
}

type AdminUpdateOrderStatusInput struct {
	Status string
	//REJECTED時に必須
	RejectionReason  string
	RejectionComment string
	//在庫不足警告を無視して承認する（「それでも承認」）
	Force bool
}

// 在庫不足の内訳。承認前警告として409で返す。
type OverbookDetail struct {
	DeviceID  int64  `json:"device_id"`
	Name      string `json:"name"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// 要求数量が現在庫を超えたときの承認エラー。
// force=trueなら発生せず、在庫は0でクランプして減算される。
type OverbookError struct {
	Details []OverbookDetail
}

func (e *OverbookError) Error() string {
	return "requested quantity exceeds live stock"
}

// 注文一覧（管理者）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
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

// UpdateStatus は注文を進める。
// 許す遷移は PENDING→APPROVED / PENDING→REJECTED / APPROVED→COMPLETED だけ。
// 在庫の減算は承認時にここでだけ行う。却下・完了は在庫に触れない。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	switch newStatus {
	case model.OrderStatusApproved, model.OrderStatusRejected, model.OrderStatusCompleted:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	reason := model.RejectionReason(strings.TrimSpace(in.RejectionReason))
	if newStatus == model.OrderStatusRejected && !reason.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid rejection_reason")
	}

	var (
		beforeStatus   model.OrderStatus
		changed        bool
		touchedStock   []int64
		forcedOversell bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeStatus = o.Status

		//すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}
		//終端ガード
		if o.Status == model.OrderStatusRejected {
			return NewHTTPError(http.StatusBadRequest, "cannot change rejected order")
		}
		if o.Status == model.OrderStatusCompleted {
			return NewHTTPError(http.StatusBadRequest, "cannot change completed order")
		}
		//APPROVEDからはCOMPLETEDのみ
		if o.Status == model.OrderStatusApproved && newStatus != model.OrderStatusCompleted {
			return NewHTTPError(http.StatusBadRequest, "invalid transition")
		}
		//COMPLETEDはAPPROVEDからのみ
		if newStatus == model.OrderStatusCompleted && o.Status != model.OrderStatusApproved {
			return NewHTTPError(http.StatusBadRequest, "invalid transition")
		}

		//承認時だけ在庫を減らす
		if newStatus == model.OrderStatusApproved {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//先に全明細の在庫を見て警告内訳を集める
			var details []OverbookDetail
			for _, it := range items {
				d, err := r.Devices().FindByID(ctx, it.DeviceID)
				if err == repo.ErrNotFound {
					details = append(details, OverbookDetail{
						DeviceID: it.DeviceID, Name: it.DeviceNameSnapshot,
						Requested: it.Quantity, Available: 0,
					})
					continue
				}
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if it.Quantity > d.Stock {
					details = append(details, OverbookDetail{
						DeviceID: it.DeviceID, Name: it.DeviceNameSnapshot,
						Requested: it.Quantity, Available: d.Stock,
					})
				}
			}

			if len(details) > 0 && !in.Force {
				//承認前警告。呼び出し側がforceを付けて再実行するか却下する。
				return &OverbookError{Details: details}
			}

			for _, it := range items {
				if in.Force {
					if err := r.Inventory().DecreaseStockClamped(ctx, it.DeviceID, it.Quantity); err != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
				} else {
					ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.DeviceID, it.Quantity)
					if err != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
					if !ok {
						//チェックと減算の間に他の承認が走った
						return &OverbookError{Details: []OverbookDetail{{
							DeviceID: it.DeviceID, Name: it.DeviceNameSnapshot, Requested: it.Quantity,
						}}}
					}
				}
				touchedStock = append(touchedStock, it.DeviceID)
			}

			forcedOversell = in.Force && len(details) > 0
		}

		decision := repo.OrderDecision{Status: newStatus}
		if newStatus == model.OrderStatusRejected {
			decision.RejectionReason = reason
			decision.RejectionComment = strings.TrimSpace(in.RejectionComment)
		}

		if err := r.Orders().UpdateDecision(ctx, orderID, decision); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ
		beforeJSON := mustStatusJSON(beforeStatus, "", "")
		afterJSON := mustStatusJSON(newStatus, string(decision.RejectionReason), decision.RejectionComment)
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		changed = true
		return nil
	})

	if err != nil {
		return err
	}

	if changed {
		u.countDecision(newStatus, forcedOversell)

		if u.notifier != nil {
			u.notifier.NotifyChange(realtime.TableOrders, realtime.OpUpdate, orderID)
			for _, deviceID := range touchedStock {
				u.notifier.NotifyChange(realtime.TableInventory, realtime.OpUpdate, deviceID)
			}
		}
	}

	return nil
}

// SetInvoiceNote は請求書確認メモを更新する。
// メタデータ扱いなので終端ステータス（REJECTED/COMPLETED）でも許す。
func (u *AdminOrderUsecase) SetInvoiceNote(ctx context.Context, actorAdminUserID int64, orderID int64, note string) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if len(note) > 2000 {
		return NewHTTPError(http.StatusBadRequest, "note too long")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().SetInvoiceNote(ctx, orderID, note); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *AdminOrderUsecase) countDecision(status model.OrderStatus, forced bool) {
	if u.metrics == nil {
		return
	}
	switch status {
	case model.OrderStatusApproved:
		u.metrics.OrdersApproved.Inc()
		if forced {
			u.metrics.OverbookApprovals.Inc()
		}
	case model.OrderStatusRejected:
		u.metrics.OrdersRejected.Inc()
	case model.OrderStatusCompleted:
		u.metrics.OrdersCompleted.Inc()
	}
}

func mustStatusJSON(status model.OrderStatus, reason, comment string) string {
	b, _ := json.Marshal(map[string]string{
		"status":            string(status),
		"rejection_reason":  reason,
		"rejection_comment": comment,
	})
	return string(b)
}
