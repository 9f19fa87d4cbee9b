package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ProfileUsecase は卸会員プロフィールと配送先住所の管理。
// プロフィールを新規作成・更新すると承認状態はPENDINGに戻る。
type ProfileUsecase struct {
	profileRepo repo.UserProfileRepository
	addressRepo repo.AddressRepository
}

func NewProfileUsecase(profileRepo repo.UserProfileRepository, addressRepo repo.AddressRepository) *ProfileUsecase {
	return &ProfileUsecase{profileRepo: profileRepo, addressRepo: addressRepo}
}

type UpsertProfileInput struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
}

type ProfileOutput struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Approval    string `json:"approval"`
}

// UpsertProfile はプロフィールを作成または更新する。
// 内容が変わるので承認状態は必ずPENDINGへ戻す（再審査）。
func (u *ProfileUsecase) UpsertProfile(ctx context.Context, userID int64, in UpsertProfileInput) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	companyName := strings.TrimSpace(in.CompanyName)
	contactName := strings.TrimSpace(in.ContactName)
	if companyName == "" {
		return ProfileOutput{}, NewHTTPError(http.StatusBadRequest, "company_name is required")
	}
	if len(companyName) > 255 {
		return ProfileOutput{}, NewHTTPError(http.StatusBadRequest, "company_name too long")
	}
	if contactName == "" {
		return ProfileOutput{}, NewHTTPError(http.StatusBadRequest, "contact_name is required")
	}
	if len(contactName) > 255 {
		return ProfileOutput{}, NewHTTPError(http.StatusBadRequest, "contact_name too long")
	}
	phone := strings.TrimSpace(in.Phone)
	if len(phone) > 30 {
		return ProfileOutput{}, NewHTTPError(http.StatusBadRequest, "phone too long")
	}

	existing, err := u.profileRepo.FindByUserID(ctx, userID)
	if err != nil && err != repo.ErrNotFound {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err == repo.ErrNotFound {
		created, err := u.profileRepo.Create(ctx, model.UserProfile{
			UserID:      userID,
			CompanyName: companyName,
			ContactName: contactName,
			Phone:       phone,
			Approval:    model.ProfileApprovalPending,
		})
		if err != nil {
			return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return toProfileOutput(created), nil
	}

	existing.CompanyName = companyName
	existing.ContactName = contactName
	existing.Phone = phone
	existing.Approval = model.ProfileApprovalPending
	if err := u.profileRepo.Update(ctx, existing); err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProfileOutput(existing), nil
}

func (u *ProfileUsecase) GetProfile(ctx context.Context, userID int64) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	p, err := u.profileRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return ProfileOutput{}, NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProfileOutput(p), nil
}

func toProfileOutput(p model.UserProfile) ProfileOutput {
	return ProfileOutput{
		CompanyName: p.CompanyName,
		ContactName: p.ContactName,
		Phone:       p.Phone,
		Approval:    string(p.Approval),
	}
}

type UpsertAddressInput struct {
	PostalCode string `json:"postal_code"`
	Prefecture string `json:"prefecture"`
	City       string `json:"city"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

// CreateAddress は配送先住所を追加する。最初の1件は自動でデフォルトになる。
func (u *ProfileUsecase) CreateAddress(ctx context.Context, userID int64, in UpsertAddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAddressInput(in); err != nil {
		return model.Address{}, err
	}

	created, err := u.addressRepo.Create(ctx, model.Address{
		UserID:     userID,
		PostalCode: strings.TrimSpace(in.PostalCode),
		Prefecture: strings.TrimSpace(in.Prefecture),
		City:       strings.TrimSpace(in.City),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		Name:       strings.TrimSpace(in.Name),
		Phone:      strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault && !created.IsDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, created.ID); err != nil {
			return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created.IsDefault = true
	}
	return created, nil
}

func (u *ProfileUsecase) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	addrs, err := u.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return addrs, nil
}

func (u *ProfileUsecase) UpdateAddress(ctx context.Context, userID int64, addressID int64, in UpsertAddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAddressInput(in); err != nil {
		return model.Address{}, err
	}

	a, err := u.findOwnedAddress(ctx, userID, addressID)
	if err != nil {
		return model.Address{}, err
	}

	a.PostalCode = strings.TrimSpace(in.PostalCode)
	a.Prefecture = strings.TrimSpace(in.Prefecture)
	a.City = strings.TrimSpace(in.City)
	a.Line1 = strings.TrimSpace(in.Line1)
	a.Line2 = strings.TrimSpace(in.Line2)
	a.Name = strings.TrimSpace(in.Name)
	a.Phone = strings.TrimSpace(in.Phone)
	if err := u.addressRepo.Update(ctx, a); err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.IsDefault && !a.IsDefault {
		if err := u.addressRepo.SetDefault(ctx, userID, a.ID); err != nil {
			return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		a.IsDefault = true
	}
	return a, nil
}

func (u *ProfileUsecase) DeleteAddress(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	a, err := u.findOwnedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if a.IsDefault {
		//デフォルト住所はcheckoutに必須。先に別の住所をデフォルトにしてから消す。
		return NewHTTPError(http.StatusBadRequest, "cannot delete default address")
	}
	if err := u.addressRepo.Delete(ctx, addressID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProfileUsecase) SetDefaultAddress(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if _, err := u.findOwnedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	if err := u.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProfileUsecase) findOwnedAddress(ctx context.Context, userID, addressID int64) (model.Address, error) {
	if addressID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := u.addressRepo.FindByID(ctx, addressID)
	if err == repo.ErrNotFound {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の住所は存在しない扱い
	if a.UserID != userID {
		return model.Address{}, NewHTTPError(http.StatusNotFound, "address not found")
	}
	return a, nil
}

func validateAddressInput(in UpsertAddressInput) error {
	if strings.TrimSpace(in.PostalCode) == "" {
		return NewHTTPError(http.StatusBadRequest, "postal_code is required")
	}
	if strings.TrimSpace(in.Prefecture) == "" {
		return NewHTTPError(http.StatusBadRequest, "prefecture is required")
	}
	if strings.TrimSpace(in.City) == "" {
		return NewHTTPError(http.StatusBadRequest, "city is required")
	}
	if strings.TrimSpace(in.Line1) == "" {
		return NewHTTPError(http.StatusBadRequest, "line1 is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}
