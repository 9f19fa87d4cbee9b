package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"app/internal/domain/model"
)

// 管理者専用ルートのガード。AuthJWTの後段に置く前提で、
// contextのroleがADMIN以外なら通さない。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			if role == "" {
				//AuthJWTを通っていない
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if model.Role(role) != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
