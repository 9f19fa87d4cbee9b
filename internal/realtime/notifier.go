package realtime

// Notifier はミューテーション側が使う通知口。
// Kafkaへの配信とプロセス内ハブへのファンアウトをまとめる。
type Notifier struct {
	hub         *Hub
	producer    *Producer
	serviceName string
}

func NewNotifier(hub *Hub, producer *Producer, serviceName string) *Notifier {
	return &Notifier{hub: hub, producer: producer, serviceName: serviceName}
}

// NotifyChange は行レベル変更を購読者へ知らせる。
// 通知は業務処理の成否に影響させない（fire-and-forget）。
func (n *Notifier) NotifyChange(table, op string, rowID int64) {
	if n == nil {
		return
	}

	ev := NewChangeEvent(n.serviceName, table, op, rowID)

	if n.producer != nil {
		n.producer.PublishChange(ev)
	}
	if n.hub != nil {
		n.hub.Publish(ev)
	}
}
