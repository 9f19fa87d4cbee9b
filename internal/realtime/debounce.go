package realtime

import (
	"sync"
	"time"
)

// 単発タイマーのデバウンサ。
// Triggerのたびにタイマーを張り直し、入力が途切れてdelay経過したときだけfnを1回呼ぶ。
// 変更イベントのバーストを1回のブロードキャストにまとめるのに使う。
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger は遅延実行を予約する。既に予約済みなら張り直す。
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Stop は未発火の予約を取り消す。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
