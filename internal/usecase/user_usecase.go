package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/repository"
)

// UserUsecase はプロフィール管理と退会。
type UserUsecase struct {
	users repository.UserRepository
}

// DI
func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

type UpdateProfileInput struct {
	Name  string
	Email string
}

// GetProfile は自分のプロフィールを返す。
func (u *UserUsecase) GetProfile(ctx context.Context, userID string) (UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return UserDTO{}, NewHTTPError(http.StatusNotFound, "user not found")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserDTO(user), nil
}

// UpdateProfile は名前とメールを更新する。メール重複は409。
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (UserDTO, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "name and email are required")
	}
	if !isValidEmailFormat(email) {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return UserDTO{}, NewHTTPError(http.StatusNotFound, "user not found")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// メールを変えるときだけ先に重複チェック
	if email != user.Email {
		existing, err := u.users.FindByEmail(ctx, email)
		if err != nil && err != repository.ErrUserNotFound {
			return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if existing != nil {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "email already in use")
		}
	}

	user.Name = name
	user.Email = email

	if err := u.users.Update(ctx, user); err != nil {
		// 同時登録とのレースはuniqueIndex違反で拾う
		if err == repository.ErrEmailTaken {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "email already in use")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// DeleteAccount は退会。ユーザーと紐づくデータをまとめて消す。
func (u *UserUsecase) DeleteAccount(ctx context.Context, userID string) error {
	if err := u.users.DeleteCascade(ctx, userID); err != nil {
		if err == repository.ErrUserNotFound {
			return NewHTTPError(http.StatusNotFound, "user not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
