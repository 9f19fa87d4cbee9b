package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Kafkaへの非同期プロデューサ。
// Publishはチャネルに積むだけで、書き込みはループ側が行う。
// inboxは閉じない。停止はdoneの一方通行で伝える（二重closeを作らない）。
type Producer struct {
	w        *kafka.Writer
	inbox    chan kafka.Message
	done     chan struct{}
	stopOnce sync.Once
	closeCh  chan struct{}
	log      zerolog.Logger
}

func NewProducer(brokers []string, buf int, log zerolog.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		inbox:   make(chan kafka.Message, buf),
		done:    make(chan struct{}),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer func() {
			_ = p.w.Close()
			close(p.closeCh)
		}()

		for {
			select {
			case <-ctx.Done():
				p.stop()
				p.drain()
				return
			case <-p.done:
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// 停止時に積み残しをflushする
func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.log.Error().Err(err).Str("topic", m.Topic).Msg("publish failed")
	}
}

// PublishChange は変更イベントをテーブルに対応するトピックへ積む。
// 停止後は捨てる。バッファが詰まったときも捨てる（イベントは差分でなく
// 無効化トリガーなので欠落してよい）。
func (p *Producer) PublishChange(ev ChangeEvent) {
	m := kafka.Message{
		Topic: TopicFor(ev.Table),
		Key:   ev.Key(),
		Value: MustMarshal(ev),
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-table", Value: []byte(ev.Table)},
			{Key: "x-event-op", Value: []byte(ev.Op)},
		},
	}

	select {
	case <-p.done:
	case p.inbox <- m:
	default:
		p.log.Warn().Str("topic", m.Topic).Msg("producer inbox full, event dropped")
	}
}

// 受付を止めてループにflushさせる。何度呼んでも安全。
func (p *Producer) Close() { p.stop() }

func (p *Producer) stop() {
	p.stopOnce.Do(func() { close(p.done) })
}

// ループ終了待ち
func (p *Producer) WaitClosed() { <-p.closeCh }
