package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/users のHTTP（メール一括解決・プロフィール承認）
type AdminUserHandler struct {
	uc *usecase.AdminUserUsecase
}

// DI
func NewAdminUserHandler(uc *usecase.AdminUserUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

type BatchEmailsRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

type BatchEmailsResponse struct {
	Emails map[int64]string `json:"emails"`
}

type UpdateApprovalRequest struct {
	Approval string `json:"approval"`
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/users")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("/emails", h.batchEmails)
	g.POST("/:id/approval", h.updateApproval)
}

func (h *AdminUserHandler) batchEmails(c echo.Context) error {
	var req BatchEmailsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	emails, err := h.uc.ResolveEmails(c.Request().Context(), usecase.BatchEmailsInput{UserIDs: req.UserIDs})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, BatchEmailsResponse{Emails: emails})
}

func (h *AdminUserHandler) updateApproval(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	targetUserID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateApprovalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateProfileApproval(c.Request().Context(), adminID, targetUserID, usecase.UpdateApprovalInput{
		Approval: req.Approval,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "approval updated"})
}
