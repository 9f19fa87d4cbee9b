package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"app/internal/config"
	"app/internal/handler"
)

// ルート登録に必要なhandler一式
type Deps struct {
	Auth        *handler.AuthHandler
	Device      *handler.DeviceHandler
	Cart        *handler.CartHandler
	Order       *handler.OrderHandler
	Wishlist    *handler.WishlistHandler
	Profile     *handler.ProfileHandler
	Events      *handler.EventsHandler
	AdminOrder  *handler.AdminOrderHandler
	AdminDevice *handler.AdminDeviceHandler
	AdminUser   *handler.AdminUserHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	d.Auth.RegisterRoutes(e)
	d.Device.RegisterRoutes(e, cfg)
	d.Cart.RegisterRoutes(e, cfg)
	d.Order.RegisterRoutes(e, cfg)
	d.Wishlist.RegisterRoutes(e, cfg)
	d.Profile.RegisterRoutes(e, cfg)
	d.Events.RegisterRoutes(e)
	d.AdminOrder.RegisterRoutes(e, cfg)
	d.AdminDevice.RegisterRoutes(e, cfg)
	d.AdminUser.RegisterRoutes(e, cfg)
}
