package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runGuard(t *testing.T, role any) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(CtxUserRoleKey, role)
	}

	h := AdminRoleGuard()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, h(c))
	return rec
}

func TestAdminRoleGuard(t *testing.T) {
	assert.Equal(t, http.StatusOK, runGuard(t, "ADMIN").Code)

	//一般ユーザーは403
	assert.Equal(t, http.StatusForbidden, runGuard(t, "USER").Code)

	//role未設定（AuthJWT未通過）は401
	assert.Equal(t, http.StatusUnauthorized, runGuard(t, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, runGuard(t, "").Code)
}
