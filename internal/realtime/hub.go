package realtime

import "sync"

// プロセス内の購読ハブ。
// ミューテーション側がPublishした変更イベントをSSE購読者へファンアウトする。
// 遅い購読者はスキップする（イベントは差分でなく無効化トリガーなので欠落してよい）。
type Hub struct {
	mu   sync.RWMutex
	subs map[chan ChangeEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan ChangeEvent]struct{})}
}

// Subscribe は新しい購読チャネルを返す。
func (h *Hub) Subscribe(buf int) chan ChangeEvent {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan ChangeEvent, buf)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

// Unsubscribe は購読を解除してチャネルを閉じる。
func (h *Hub) Unsubscribe(ch chan ChangeEvent) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish は全購読者へ配る。バッファが詰まった購読者には落とす。
func (h *Hub) Publish(ev ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// 購読者数（テスト・メトリクス用）
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
