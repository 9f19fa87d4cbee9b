package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/export"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/devices のHTTP（マスタ管理・在庫設定・エクスポート）
type AdminDeviceHandler struct {
	uc *usecase.AdminDeviceUsecase
}

// DI
func NewAdminDeviceHandler(uc *usecase.AdminDeviceUsecase) *AdminDeviceHandler {
	return &AdminDeviceHandler{uc: uc}
}

type UpsertDeviceRequest struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Grade    string `json:"grade"`
	Storage  string `json:"storage"`
	Price    int64  `json:"price"`
	IsActive bool   `json:"is_active"`
}

type SetStockRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (h *AdminDeviceHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/devices")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/stock", h.setStock)
	g.GET("/export", h.export)
}

func (h *AdminDeviceHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpsertDeviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), adminID, toUpsertDeviceInput(req))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminDeviceHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	deviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpsertDeviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), adminID, deviceID, toUpsertDeviceInput(req))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminDeviceHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	deviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), adminID, deviceID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminDeviceHandler) setStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	deviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetStock(c.Request().Context(), adminID, deviceID, usecase.SetStockInput{
		Stock:  req.Stock,
		Reason: req.Reason,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock updated"})
}

// GET /admin/devices/export?format=xlsx|pdf
// 在庫一覧をファイルとしてダウンロードさせる。
func (h *AdminDeviceHandler) export(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "xlsx"
	}

	devices, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	now := time.Now()
	filename := "devices_" + now.Format("20060102_150405")

	switch format {
	case "xlsx":
		c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`.xlsx"`)
		c.Response().WriteHeader(http.StatusOK)
		return export.WriteDevicesExcel(c.Response(), devices, now)
	case "pdf":
		c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`.pdf"`)
		c.Response().WriteHeader(http.StatusOK)
		return export.WriteDevicesPDF(c.Response(), devices, now)
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid format"})
	}
}

func toUpsertDeviceInput(req UpsertDeviceRequest) usecase.UpsertDeviceInput {
	return usecase.UpsertDeviceInput{
		Name:     req.Name,
		Brand:    req.Brand,
		Grade:    req.Grade,
		Storage:  req.Storage,
		Price:    req.Price,
		IsActive: req.IsActive,
	}
}
