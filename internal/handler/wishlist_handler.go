package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /wishlist のHTTP。
// ログイン済みはユーザースコープ、匿名は X-Guest-Token スコープで動く。
type WishlistHandler struct {
	uc *usecase.WishlistUsecase
}

// DI
func NewWishlistHandler(uc *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{uc: uc}
}

type AddWishlistRequest struct {
	DeviceID int64 `json:"device_id"`
}

func (h *WishlistHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/wishlist")
	g.Use(middleware.OptionalAuthJWT(cfg))

	g.GET("", h.get)
	g.POST("/items", h.add)
	g.DELETE("/items/:deviceId", h.remove)

	//マージはログイン必須
	m := e.Group("/wishlist/merge")
	m.Use(middleware.AuthJWT(cfg))
	m.POST("", h.merge)
}

func (h *WishlistHandler) get(c echo.Context) error {
	ctx := c.Request().Context()

	if userID, ok := getUserIDFromContext(c); ok {
		out, err := h.uc.GetForUser(ctx, userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}

	out, err := h.uc.GetForGuest(ctx, getGuestToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WishlistHandler) add(c echo.Context) error {
	var req AddWishlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ctx := c.Request().Context()

	if userID, ok := getUserIDFromContext(c); ok {
		if err := h.uc.AddForUser(ctx, userID, req.DeviceID); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, SuccessResponse{Message: "added"})
	}

	if err := h.uc.AddForGuest(ctx, getGuestToken(c), req.DeviceID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "added"})
}

func (h *WishlistHandler) remove(c echo.Context) error {
	deviceID, err := strconv.ParseInt(c.Param("deviceId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	ctx := c.Request().Context()

	if userID, ok := getUserIDFromContext(c); ok {
		if err := h.uc.RemoveForUser(ctx, userID, deviceID); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, SuccessResponse{Message: "removed"})
	}

	if err := h.uc.RemoveForGuest(ctx, getGuestToken(c), deviceID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "removed"})
}

// POST /wishlist/merge
// ログイン直後にフロントが呼ぶ。ゲスト分とユーザー分を和集合にして双方へ保存する。
func (h *WishlistHandler) merge(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.MergeOnLogin(c.Request().Context(), userID, usecase.MergeWishlistInput{
		GuestToken: getGuestToken(c),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
