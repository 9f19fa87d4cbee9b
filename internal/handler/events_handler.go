package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"app/internal/metrics"
	"app/internal/realtime"

	"github.com/labstack/echo/v4"
)

// /events のSSEエンドポイント。
// 在庫・注文・プロフィール承認の変更イベントを購読者へ流す。
// フロントはこれを受けて該当画面を再取得する（イベントは無効化トリガー）。
type EventsHandler struct {
	hub     *realtime.Hub
	metrics *metrics.Metrics
}

// DI
func NewEventsHandler(hub *realtime.Hub, m *metrics.Metrics) *EventsHandler {
	return &EventsHandler{hub: hub, metrics: m}
}

func (h *EventsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/events", h.stream)
}

// keepalive間隔。プロキシの無通信切断より短くする。
const sseKeepAlive = 25 * time.Second

func (h *EventsHandler) stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ch := h.hub.Subscribe(32)
	defer h.hub.Unsubscribe(ch)

	if h.metrics != nil {
		h.metrics.SSESubscribers.Inc()
		defer h.metrics.SSESubscribers.Dec()
	}

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	ctx := c.Request().Context()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keepalive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "id: %s\nevent: change\ndata: %s\n\n", ev.EventID, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
