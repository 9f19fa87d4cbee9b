package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"app/internal/config"
	"app/internal/infra/cache"
	"app/internal/logging"
	"app/internal/realtime"
)

// feed は在庫変更イベントを購読してカタログ一覧キャッシュを捨てるワーカー。
// APIと別プロセスで動かす：複数APIインスタンスでもキャッシュ破棄は1回で済む。
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.Init("storefront-feed", cfg.IsDev())
	logging.SetLevel(cfg.LogLevel)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	catalogCache := cache.New(rdb)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//承認1件で複数端末の在庫イベントが連発するので、
	//デバウンスでバーストを1回のキャッシュ破棄にまとめる
	invalidate := realtime.NewDebouncer(200*time.Millisecond, func() {
		if err := catalogCache.InvalidateLists(context.Background()); err != nil {
			logger.Error().Err(err).Msg("cache invalidation failed")
			return
		}
		logger.Info().Msg("catalog cache invalidated")
	})
	defer invalidate.Stop()

	handler := func(ctx context.Context, m kafka.Message) error {
		var ev realtime.ChangeEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			//壊れたメッセージはcommitして先へ進む
			logger.Warn().Err(err).Msg("bad event payload, skipping")
			return nil
		}

		//at-least-once配信の重複はevent_idで弾く
		seen, err := catalogCache.SeenEvent(ctx, ev.EventID)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}

		invalidate.Trigger()

		logger.Debug().
			Str("event_id", ev.EventID).
			Str("table", ev.Table).
			Str("op", ev.Op).
			Int64("row_id", ev.RowID).
			Msg("invalidation scheduled")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	//在庫と端末マスタの変更だけ見る
	consumer := realtime.NewConsumer(cfg.KafkaBrokers, "storefront-feed", realtime.TopicInventoryChanged, 4, logger)
	g.Go(func() error {
		return consumer.Start(gctx, handler)
	})

	logger.Info().Strs("brokers", cfg.KafkaBrokers).Msg("feed started")

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("feed stopped")
		os.Exit(1)
	}
	_ = rdb.Close()
}
