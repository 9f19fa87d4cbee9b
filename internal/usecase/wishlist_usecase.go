package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// WishlistUsecase はゲスト（local）とユーザー（remote）のウィッシュリスト操作。
// 参照系は失敗してもローカル分だけで返し、エラーを上に投げない。
type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	deviceRepo   repo.DeviceRepository
}

func NewWishlistUsecase(wishlistRepo repo.WishlistRepository, deviceRepo repo.DeviceRepository) *WishlistUsecase {
	return &WishlistUsecase{wishlistRepo: wishlistRepo, deviceRepo: deviceRepo}
}

type WishlistItemOutput struct {
	DeviceID int64  `json:"device_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	AddedAt  string `json:"added_at"`
}

type WishlistOutput struct {
	Items []WishlistItemOutput `json:"items"`
	//リモート同期に失敗しローカル分のみで動作しているとき true
	LocalOnly bool `json:"local_only"`
}

type MergeWishlistInput struct {
	GuestToken string
}

// MergeOnLogin はログイン時のマージ。和集合（先勝ち）を作り、
// ユーザー側とゲスト側の両方へ書き戻す。すでにマージ済みなら結果は変わらない。
// リモート書き込みに失敗した場合はローカル分だけで続行し、ログインは失敗させない。
func (u *WishlistUsecase) MergeOnLogin(ctx context.Context, userID int64, in MergeWishlistInput) (WishlistOutput, error) {
	if userID <= 0 {
		return WishlistOutput{Items: []WishlistItemOutput{}}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var local []model.WishlistEntry
	if in.GuestToken != "" {
		var err error
		local, err = u.wishlistRepo.ListByGuestToken(ctx, in.GuestToken)
		if err != nil {
			log.Warn().Err(err).Msg("wishlist: guest list failed, treating as empty")
			local = nil
		}
	}

	remote, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		//リモートが読めない。ローカル分のみで返す。
		log.Warn().Err(err).Int64("user_id", userID).Msg("wishlist: remote list failed, local-only fallback")
		return u.buildOutput(ctx, local, true), nil
	}

	merged := MergeWishlists(local, remote)

	if err := u.wishlistRepo.ReplaceForUser(ctx, userID, merged); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("wishlist: remote persist failed, local-only fallback")
		return u.buildOutput(ctx, merged, true), nil
	}
	if in.GuestToken != "" {
		if err := u.wishlistRepo.ReplaceForGuest(ctx, in.GuestToken, merged); err != nil {
			//ゲスト側の書き戻し失敗は致命的ではない。次回ログインで再マージされる。
			log.Warn().Err(err).Msg("wishlist: guest write-back failed")
		}
	}

	return u.buildOutput(ctx, merged, false), nil
}

// GetForUser はユーザーのウィッシュリスト。読み取りはエラーで落とさない。
func (u *WishlistUsecase) GetForUser(ctx context.Context, userID int64) (WishlistOutput, error) {
	if userID <= 0 {
		return WishlistOutput{Items: []WishlistItemOutput{}}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	entries, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("wishlist: list failed, returning empty")
		return WishlistOutput{Items: []WishlistItemOutput{}, LocalOnly: true}, nil
	}
	return u.buildOutput(ctx, entries, false), nil
}

// GetForGuest はゲストのウィッシュリスト。
func (u *WishlistUsecase) GetForGuest(ctx context.Context, guestToken string) (WishlistOutput, error) {
	if guestToken == "" {
		return WishlistOutput{Items: []WishlistItemOutput{}}, nil
	}
	entries, err := u.wishlistRepo.ListByGuestToken(ctx, guestToken)
	if err != nil {
		log.Warn().Err(err).Msg("wishlist: guest list failed, returning empty")
		return WishlistOutput{Items: []WishlistItemOutput{}, LocalOnly: true}, nil
	}
	return u.buildOutput(ctx, entries, false), nil
}

// AddForUser は端末をユーザーのウィッシュリストへ追加する。重複追加は無視（冪等）。
func (u *WishlistUsecase) AddForUser(ctx context.Context, userID int64, deviceID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	e, err := u.newEntry(ctx, deviceID)
	if err != nil {
		return err
	}
	e.UserID = userID
	if err := u.wishlistRepo.AddForUser(ctx, userID, e); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// AddForGuest は端末をゲストのウィッシュリストへ追加する。
func (u *WishlistUsecase) AddForGuest(ctx context.Context, guestToken string, deviceID int64) error {
	if guestToken == "" {
		return NewHTTPError(http.StatusBadRequest, "missing guest token")
	}
	e, err := u.newEntry(ctx, deviceID)
	if err != nil {
		return err
	}
	e.GuestToken = guestToken
	if err := u.wishlistRepo.AddForGuest(ctx, guestToken, e); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WishlistUsecase) RemoveForUser(ctx context.Context, userID int64, deviceID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if deviceID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.wishlistRepo.RemoveByUserAndDevice(ctx, userID, deviceID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WishlistUsecase) RemoveForGuest(ctx context.Context, guestToken string, deviceID int64) error {
	if guestToken == "" {
		return NewHTTPError(http.StatusBadRequest, "missing guest token")
	}
	if deviceID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.wishlistRepo.RemoveByGuestAndDevice(ctx, guestToken, deviceID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WishlistUsecase) newEntry(ctx context.Context, deviceID int64) (model.WishlistEntry, error) {
	if deviceID <= 0 {
		return model.WishlistEntry{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := u.deviceRepo.FindByID(ctx, deviceID)
	if err == repo.ErrNotFound {
		return model.WishlistEntry{}, NewHTTPError(http.StatusNotFound, "device not found")
	}
	if err != nil {
		return model.WishlistEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !d.IsActive {
		return model.WishlistEntry{}, NewHTTPError(http.StatusNotFound, "device not found")
	}
	return model.WishlistEntry{
		DeviceID:           d.ID,
		DeviceNameSnapshot: d.Name,
		PriceSnapshot:      d.Price,
	}, nil
}

// 表示用に整形する。非公開になった端末は除外する（保存分は消さない）。
func (u *WishlistUsecase) buildOutput(ctx context.Context, entries []model.WishlistEntry, localOnly bool) WishlistOutput {
	out := WishlistOutput{Items: make([]WishlistItemOutput, 0, len(entries)), LocalOnly: localOnly}
	for _, e := range entries {
		name := e.DeviceNameSnapshot
		price := e.PriceSnapshot

		d, err := u.deviceRepo.FindByID(ctx, e.DeviceID)
		if err == nil {
			if !d.IsActive {
				continue
			}
			name = d.Name
			price = d.Price
		} else if err != repo.ErrNotFound {
			//端末参照に失敗してもスナップショットで表示は続ける
			log.Debug().Err(err).Int64("device_id", e.DeviceID).Msg("wishlist: device lookup failed, using snapshot")
		} else {
			continue
		}

		out.Items = append(out.Items, WishlistItemOutput{
			DeviceID: e.DeviceID,
			Name:     name,
			Price:    price,
			AddedAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
