package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	//一覧キャッシュ: catalog:list:{queryhash}
	keyCatalogList = "catalog:list:%s"
	//無効化用のキーパターン
	patternCatalogList = "catalog:list:*"
	//consumerのイベント重複排除: dedup:feed:{event_id}
	keyDedup = "dedup:feed:%s"
)

var (
	TTLCatalogList = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

// カタログ一覧のRedisキャッシュ。
// 変更フィードのイベントで丸ごと無効化する（キー単位の精密な無効化はしない）。
type CatalogCache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *CatalogCache {
	return &CatalogCache{rdb: rdb}
}

// GetList はキャッシュされた一覧レスポンスをdestへ復元する。
// ヒットしなければ(false, nil)。
func (c *CatalogCache) GetList(ctx context.Context, queryKey string, dest any) (bool, error) {
	key := fmt.Sprintf(keyCatalogList, hashKey(queryKey))

	raw, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CatalogCache) SetList(ctx context.Context, queryKey string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(keyCatalogList, hashKey(queryKey))
	return c.rdb.Set(ctx, key, b, TTLCatalogList).Err()
}

// InvalidateLists は一覧キャッシュを全部消す。
func (c *CatalogCache) InvalidateLists(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, patternCatalogList, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// SeenEvent はイベントIDを重複排除テーブルへ記録する。既出ならtrue。
func (c *CatalogCache) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(keyDedup, eventID)

	ok, err := c.rdb.SetNX(ctx, key, "1", TTLDedup).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
