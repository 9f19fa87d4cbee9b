package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/domain/model"
	"app/internal/repository"
	auth "app/internal/usecase/auth_usecase"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) ListByIDs(ctx context.Context, userIDs []int64) ([]model.User, error) {
	args := m.Called(ctx, userIDs)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// ハッシュの中身は検証しないのでダミーで十分
type hasherStub struct{}

func (hasherStub) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRegisterUsecase(repo *UserRepoMock) *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(repo, hasherStub{}, fixedClock{testNow})
}

func TestRegisterUser_Success(t *testing.T) {
	repo := &UserRepoMock{}
	uc := newRegisterUsecase(repo)

	repo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return((*model.User)(nil), repository.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "taro@example.com" &&
			u.PasswordHash == "hashed:correct-horse-battery" &&
			u.Role == model.RoleUser &&
			u.IsActive
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "  Taro@Example.com ",
		Password: "correct-horse-battery",
	})
	assert.NoError(t, err)

	//emailは小文字化され、hashは外に出ない
	assert.Equal(t, "taro@example.com", out.User.Email)
	assert.Empty(t, out.User.PasswordHash)
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	uc := newRegisterUsecase(&UserRepoMock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "not-an-email",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

func TestRegisterUser_PasswordTooShort(t *testing.T) {
	uc := newRegisterUsecase(&UserRepoMock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "taro@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegisterUser_WeakPassword(t *testing.T) {
	uc := newRegisterUsecase(&UserRepoMock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "taro@example.com",
		Password: "123456789012",
	})
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repo := &UserRepoMock{}
	uc := newRegisterUsecase(repo)

	repo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 1, Email: "taro@example.com"}, nil)

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Email:    "taro@example.com",
		Password: "correct-horse-battery",
	})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

type verifierStub struct{ ok bool }

func (v verifierStub) Verify(plain, hashed string) bool { return v.ok }

type issuerStub struct{}

func (issuerStub) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "token-abc", now.Add(15 * time.Minute), nil
}

func TestLogin_Success(t *testing.T) {
	repo := &UserRepoMock{}
	uc := auth.NewLoginUsecase(repo, verifierStub{ok: true}, issuerStub{}, fixedClock{testNow})

	repo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 1, Email: "taro@example.com", PasswordHash: "h", Role: model.RoleUser, IsActive: true}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.LastLoginAt != nil && u.LastLoginAt.Equal(testNow)
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "taro@example.com", Password: "pw"})
	assert.NoError(t, err)

	assert.Equal(t, "token-abc", out.Token.AccessToken)
	assert.Equal(t, 900, out.Token.ExpiresIn)
	assert.Empty(t, out.User.PasswordHash)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &UserRepoMock{}
	uc := auth.NewLoginUsecase(repo, verifierStub{ok: false}, issuerStub{}, fixedClock{testNow})

	repo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 1, PasswordHash: "h", IsActive: true}, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "taro@example.com", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &UserRepoMock{}
	uc := auth.NewLoginUsecase(repo, verifierStub{ok: true}, issuerStub{}, fixedClock{testNow})

	repo.On("FindByEmail", mock.Anything, "nobody@example.com").
		Return((*model.User)(nil), repository.ErrUserNotFound)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "nobody@example.com", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repo := &UserRepoMock{}
	uc := auth.NewLoginUsecase(repo, verifierStub{ok: true}, issuerStub{}, fixedClock{testNow})

	repo.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 1, IsActive: false}, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "taro@example.com", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}
