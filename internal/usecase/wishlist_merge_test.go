package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"app/internal/domain/model"
	"app/internal/usecase"
)

func entries(ids ...int64) []model.WishlistEntry {
	out := make([]model.WishlistEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.WishlistEntry{DeviceID: id})
	}
	return out
}

func ids(entries []model.WishlistEntry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.DeviceID)
	}
	return out
}

func TestMergeWishlists_Union(t *testing.T) {
	merged := usecase.MergeWishlists(entries(1, 2), entries(2, 3))
	assert.Equal(t, []int64{1, 2, 3}, ids(merged))
}

func TestMergeWishlists_FirstOccurrenceWins(t *testing.T) {
	local := []model.WishlistEntry{{DeviceID: 1, DeviceNameSnapshot: "local"}}
	remote := []model.WishlistEntry{{DeviceID: 1, DeviceNameSnapshot: "remote"}}

	merged := usecase.MergeWishlists(local, remote)
	assert.Len(t, merged, 1)
	assert.Equal(t, "local", merged[0].DeviceNameSnapshot)
}

func TestMergeWishlists_Idempotent(t *testing.T) {
	// マージ結果をもう一度マージしても集合は変わらない
	once := usecase.MergeWishlists(entries(1, 2), entries(2, 3))
	twice := usecase.MergeWishlists(once, once)

	assert.Equal(t, usecase.WishlistDeviceIDs(once), usecase.WishlistDeviceIDs(twice))
}

func TestMergeWishlists_CommutativeAsSet(t *testing.T) {
	ab := usecase.MergeWishlists(entries(1, 2), entries(3))
	ba := usecase.MergeWishlists(entries(3), entries(1, 2))

	assert.Equal(t, usecase.WishlistDeviceIDs(ab), usecase.WishlistDeviceIDs(ba))
}

func TestMergeWishlists_EmptySides(t *testing.T) {
	assert.Equal(t, []int64{1}, ids(usecase.MergeWishlists(entries(1), nil)))
	assert.Equal(t, []int64{1}, ids(usecase.MergeWishlists(nil, entries(1))))
	assert.Empty(t, usecase.MergeWishlists(nil, nil))
}

func TestMergeWishlists_DuplicatesWithinOneSide(t *testing.T) {
	merged := usecase.MergeWishlists(entries(1, 1, 2), nil)
	assert.Equal(t, []int64{1, 2}, ids(merged))
}
