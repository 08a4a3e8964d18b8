package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// メール重複（uniqueIndex違反）を統一
var ErrEmailTaken = errors.New("email already taken")

// 保存・取得を約束
// DeleteCascadeはユーザーと紐づくデータ（カート・お気に入り・レビュー・チャット）を
// まとめて消す退会用。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	DeleteCascade(ctx context.Context, userID string) error
}
