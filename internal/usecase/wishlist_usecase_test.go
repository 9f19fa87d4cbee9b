package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	"app/internal/usecase"
)

func wishlistEntry(deviceID int64, name string) model.WishlistEntry {
	return model.WishlistEntry{
		DeviceID:           deviceID,
		DeviceNameSnapshot: name,
		PriceSnapshot:      1000,
		CreatedAt:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func stubActiveDevice(devices *DeviceRepoMock, id int64, name string) {
	devices.On("FindByID", mock.Anything, id).
		Return(model.Device{ID: id, Name: name, Price: 1000, IsActive: true}, nil)
}

func TestMergeOnLogin_PersistsUnionToBothSides(t *testing.T) {
	wishlists := &WishlistRepoMock{}
	devices := &DeviceRepoMock{}
	uc := usecase.NewWishlistUsecase(wishlists, devices)

	wishlists.On("ListByGuestToken", mock.Anything, "g-token").
		Return([]model.WishlistEntry{wishlistEntry(1, "A"), wishlistEntry(2, "B")}, nil)
	wishlists.On("ListByUserID", mock.Anything, int64(1)).
		Return([]model.WishlistEntry{wishlistEntry(2, "B"), wishlistEntry(3, "C")}, nil)

	//和集合 {1,2,3} が両方に書き戻される
	match := mock.MatchedBy(func(entries []model.WishlistEntry) bool {
		if len(entries) != 3 {
			return false
		}
		return entries[0].DeviceID == 1 && entries[1].DeviceID == 2 && entries[2].DeviceID == 3
	})
	wishlists.On("ReplaceForUser", mock.Anything, int64(1), match).Return(nil)
	wishlists.On("ReplaceForGuest", mock.Anything, "g-token", match).Return(nil)

	stubActiveDevice(devices, 1, "A")
	stubActiveDevice(devices, 2, "B")
	stubActiveDevice(devices, 3, "C")

	out, err := uc.MergeOnLogin(context.Background(), 1, usecase.MergeWishlistInput{GuestToken: "g-token"})
	assert.NoError(t, err)

	assert.False(t, out.LocalOnly)
	assert.Len(t, out.Items, 3)
	wishlists.AssertCalled(t, "ReplaceForUser", mock.Anything, int64(1), match)
	wishlists.AssertCalled(t, "ReplaceForGuest", mock.Anything, "g-token", match)
}

func TestMergeOnLogin_RemoteListFailureFallsBackToLocal(t *testing.T) {
	wishlists := &WishlistRepoMock{}
	devices := &DeviceRepoMock{}
	uc := usecase.NewWishlistUsecase(wishlists, devices)

	wishlists.On("ListByGuestToken", mock.Anything, "g-token").
		Return([]model.WishlistEntry{wishlistEntry(1, "A")}, nil)
	wishlists.On("ListByUserID", mock.Anything, int64(1)).
		Return([]model.WishlistEntry(nil), errors.New("connection refused"))

	stubActiveDevice(devices, 1, "A")

	out, err := uc.MergeOnLogin(context.Background(), 1, usecase.MergeWishlistInput{GuestToken: "g-token"})

	//ログインを殺さない。ローカル分のみで返す。
	assert.NoError(t, err)
	assert.True(t, out.LocalOnly)
	assert.Len(t, out.Items, 1)
	wishlists.AssertNotCalled(t, "ReplaceForUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestMergeOnLogin_PersistFailureFallsBackToLocal(t *testing.T) {
	wishlists := &WishlistRepoMock{}
	devices := &DeviceRepoMock{}
	uc := usecase.NewWishlistUsecase(wishlists, devices)

	wishlists.On("ListByGuestToken", mock.Anything, "g-token").
		Return([]model.WishlistEntry{wishlistEntry(1, "A")}, nil)
	wishlists.On("ListByUserID", mock.Anything, int64(1)).
		Return([]model.WishlistEntry{}, nil)
	wishlists.On("ReplaceForUser", mock.Anything, int64(1), mock.Anything).
		Return(errors.New("write failed"))

	stubActiveDevice(devices, 1, "A")

	out, err := uc.MergeOnLogin(context.Background(), 1, usecase.MergeWishlistInput{GuestToken: "g-token"})

	assert.NoError(t, err)
	assert.True(t, out.LocalOnly)
	assert.Len(t, out.Items, 1)
	wishlists.AssertNotCalled(t, "ReplaceForGuest", mock.Anything, mock.Anything, mock.Anything)
}

func TestMergeOnLogin_NoGuestTokenMergesNothing(t *testing.T) {
	wishlists := &WishlistRepoMock{}
	devices := &DeviceRepoMock{}
	uc := usecase.NewWishlistUsecase(wishlists, devices)

	wishlists.On("ListByUserID", mock.Anything, int64(1)).
		Return([]model.WishlistEntry{wishlistEntry(3, "C")}, nil)
	wishlists.On("ReplaceForUser", mock.Anything, int64(1), mock.Anything).Return(nil)

	stubActiveDevice(devices, 3, "C")

	out, err := uc.MergeOnLogin(context.Background(), 1, usecase.MergeWishlistInput{})
	assert.NoError(t, err)

	assert.Len(t, out.Items, 1)
	wishlists.AssertNotCalled(t, "ListByGuestToken", mock.Anything, mock.Anything)
	wishlists.AssertNotCalled(t, "ReplaceForGuest", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistOutput_HidesInactiveDevices(t *testing.T) {
	wishlists := &WishlistRepoMock{}
	devices := &DeviceRepoMock{}
	uc := usecase.NewWishlistUsecase(wishlists, devices)

	wishlists.On("ListByUserID", mock.Anything, int64(1)).
		Return([]model.WishlistEntry{wishlistEntry(1, "A"), wishlistEntry(2, "B")}, nil)

	stubActiveDevice(devices, 1, "A")
	devices.On("FindByID", mock.Anything, int64(2)).
		Return(model.Device{ID: 2, Name: "B", IsActive: false}, nil)

	out, err := uc.GetForUser(context.Background(), 1)
	assert.NoError(t, err)

	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.Items[0].DeviceID)
}

func TestWishlistOutput_SnapshotWhenLookupFails(t *testing.T) {
	wishlists := &WishlistRepoMock{}
	devices := &DeviceRepoMock{}
	uc := usecase.NewWishlistUsecase(wishlists, devices)

	wishlists.On("ListByUserID", mock.Anything, int64(1)).
		Return([]model.WishlistEntry{wishlistEntry(1, "Snapshot Name")}, nil)
	devices.On("FindByID", mock.Anything, int64(1)).
		Return(model.Device{}, errors.New("timeout"))

	out, err := uc.GetForUser(context.Background(), 1)
	assert.NoError(t, err)

	//参照失敗は保存済みスナップショットで表示
	assert.Len(t, out.Items, 1)
	assert.Equal(t, "Snapshot Name", out.Items[0].Name)
	assert.Equal(t, int64(1000), out.Items[0].Price)
}

func TestAddForUser_RejectsInactiveDevice(t *testing.T) {
	wishlists := &WishlistRepoMock{}
	devices := &DeviceRepoMock{}
	uc := usecase.NewWishlistUsecase(wishlists, devices)

	devices.On("FindByID", mock.Anything, int64(9)).
		Return(model.Device{ID: 9, IsActive: false}, nil)

	err := uc.AddForUser(context.Background(), 1, 9)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
	wishlists.AssertNotCalled(t, "AddForUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveForGuest_RequiresToken(t *testing.T) {
	uc := usecase.NewWishlistUsecase(&WishlistRepoMock{}, &DeviceRepoMock{})

	err := uc.RemoveForGuest(context.Background(), "", 1)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}
