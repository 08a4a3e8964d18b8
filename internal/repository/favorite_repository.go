package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type FavoriteRepository interface {
	// 無ければ作る（1ユーザー1セット）
	GetOrCreateByUserID(ctx context.Context, userID string) (model.Favorite, error)
	FindByUserID(ctx context.Context, userID string) (model.Favorite, error)

	ListProducts(ctx context.Context, favoriteID int64) ([]model.FavoriteProduct, error)
	// 既に入っていれば何もしない（集合）
	AddProduct(ctx context.Context, favoriteID int64, productID string) error
	// 無いメンバーの削除はエラーにしない（削除したかどうかを返す）
	RemoveProduct(ctx context.Context, favoriteID int64, productID string) (bool, error)
	// メンバー全体を入れ替える
	ReplaceProducts(ctx context.Context, favoriteID int64, productIDs []string) error
}
