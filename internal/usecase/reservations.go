package usecase

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ユーザーのPENDING注文を明細付きで読み出す（予約計算の入力）。
func loadPendingOrdersWithItems(
	ctx context.Context,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	userID int64,
) ([]OrderWithItems, error) {
	if userID == 0 {
		return []OrderWithItems{}, nil
	}

	pending, err := orders.ListByUserAndStatus(ctx, userID, model.OrderStatusPending)
	if err != nil {
		return nil, err
	}

	out := make([]OrderWithItems, 0, len(pending))
	for _, o := range pending {
		items, err := orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, OrderWithItems{Order: o, Items: items})
	}
	return out, nil
}

// ユーザーのACTIVEカート明細を読み出す。カートが無ければ空。
func loadActiveCartItems(
	ctx context.Context,
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	userID int64,
) ([]model.CartItem, error) {
	if userID == 0 {
		return []model.CartItem{}, nil
	}

	cart, err := carts.FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return []model.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	return cartItems.ListByCartID(ctx, cart.ID)
}
