package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /devices の公開API
type DeviceHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewDeviceHandler(uc *usecase.CatalogUsecase) *DeviceHandler {
	return &DeviceHandler{uc: uc}
}

// 公開カタログのルートを登録。
// tokenは任意：あれば詳細のavailableが自分の予約分を引いた値になる。
func (h *DeviceHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/devices")
	g.Use(middleware.OptionalAuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *DeviceHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	in := usecase.ListDevicesInput{
		Page:  page,
		Limit: limit,
		Q:     c.QueryParam("q"),
		Brand: c.QueryParam("brand"),
		Grade: c.QueryParam("grade"),
		Sort:  c.QueryParam("sort"),
	}

	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
		}
		in.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
		}
		in.MaxPrice = &p
	}

	out, err := h.uc.ListDevices(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *DeviceHandler) detail(c echo.Context) error {
	deviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	//匿名なら0のまま
	userID, _ := getUserIDFromContext(c)

	out, err := h.uc.GetDeviceDetail(c.Request().Context(), deviceID, userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
