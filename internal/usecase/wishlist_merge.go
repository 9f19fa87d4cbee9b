package usecase

import "app/internal/domain/model"

// MergeWishlists はローカル（ゲスト）とリモート（ユーザー）のウィッシュリストを
// 端末IDの和集合にまとめる。重複は先勝ち（localが先）。
// 集合として冪等：マージ結果同士をもう一度マージしても同じ集合になる。
func MergeWishlists(local, remote []model.WishlistEntry) []model.WishlistEntry {
	merged := make([]model.WishlistEntry, 0, len(local)+len(remote))
	seen := make(map[int64]struct{}, len(local)+len(remote))

	for _, e := range local {
		if _, ok := seen[e.DeviceID]; ok {
			continue
		}
		seen[e.DeviceID] = struct{}{}
		merged = append(merged, e)
	}
	for _, e := range remote {
		if _, ok := seen[e.DeviceID]; ok {
			continue
		}
		seen[e.DeviceID] = struct{}{}
		merged = append(merged, e)
	}

	return merged
}

// WishlistDeviceIDs はエントリ列を端末IDの集合に落とす（テスト・比較用）。
func WishlistDeviceIDs(entries []model.WishlistEntry) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		ids[e.DeviceID] = struct{}{}
	}
	return ids
}
