package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	// 無ければ作る（1ユーザー1カート）
	GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error)
	FindByUserID(ctx context.Context, userID string) (model.Cart, error)

	// 明細は追加順（id昇順）
	ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品は数量加算
	UpsertItem(ctx context.Context, cartID int64, productID string, addQty int64) error
	// 明細が無ければErrNotFound
	UpdateItemQuantity(ctx context.Context, cartID int64, productID string, qty int64) error
	// 無い明細の削除はエラーにしない（削除したかどうかを返す）
	DeleteItem(ctx context.Context, cartID int64, productID string) (bool, error)
	// 明細を全削除（カート自体は残す）
	Clear(ctx context.Context, cartID int64) error
}
