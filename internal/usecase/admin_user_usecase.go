package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/realtime"
	repo "app/internal/repository"
)

// AdminUserUsecase は管理画面のユーザー操作。
// メール一括解決とプロフィール承認の更新。
type AdminUserUsecase struct {
	userRepo    repo.UserRepository
	profileRepo repo.UserProfileRepository
	auditRepo   repo.AuditLogRepository
	notifier    ChangeNotifier
}

func NewAdminUserUsecase(
	userRepo repo.UserRepository,
	profileRepo repo.UserProfileRepository,
	auditRepo repo.AuditLogRepository,
	notifier ChangeNotifier,
) *AdminUserUsecase {
	return &AdminUserUsecase{userRepo: userRepo, profileRepo: profileRepo, auditRepo: auditRepo, notifier: notifier}
}

type BatchEmailsInput struct {
	UserIDs []int64 `json:"user_ids"`
}

// ResolveEmails はユーザーIDの集合をメールアドレスへ一括解決する。
// N+1を避けるため1クエリで引く。見つからないIDは結果から落ちる。
func (u *AdminUserUsecase) ResolveEmails(ctx context.Context, in BatchEmailsInput) (map[int64]string, error) {
	if len(in.UserIDs) == 0 {
		return map[int64]string{}, nil
	}
	if len(in.UserIDs) > 500 {
		return nil, NewHTTPError(http.StatusBadRequest, "too many ids")
	}

	users, err := u.userRepo.ListByIDs(ctx, in.UserIDs)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make(map[int64]string, len(users))
	for _, usr := range users {
		out[usr.ID] = usr.Email
	}
	return out, nil
}

type UpdateApprovalInput struct {
	Approval string `json:"approval"`
}

// UpdateProfileApproval は卸会員プロフィールの承認状態を変更する。
// APPROVEDになって初めてそのユーザーはcheckoutできる。
func (u *AdminUserUsecase) UpdateProfileApproval(ctx context.Context, actorAdminUserID int64, targetUserID int64, in UpdateApprovalInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if targetUserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	approval := model.ProfileApproval(in.Approval)
	if !approval.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid approval")
	}

	p, err := u.profileRepo.FindByUserID(ctx, targetUserID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.Approval == approval {
		return nil
	}

	if err := u.profileRepo.UpdateApproval(ctx, targetUserID, approval); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "profile not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionUpdateProfileApproval,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetUserID,
		BeforeJSON:   mustApprovalJSON(p.Approval),
		AfterJSON:    mustApprovalJSON(approval),
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.notifier != nil {
		u.notifier.NotifyChange(realtime.TableUserProfiles, realtime.OpUpdate, targetUserID)
	}
	return nil
}

func mustApprovalJSON(a model.ProfileApproval) string {
	b, _ := json.Marshal(map[string]string{"approval": string(a)})
	return string(b)
}
