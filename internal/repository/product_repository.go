package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	// カテゴリは大文字小文字を区別せず一致
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	// populated read用の一括取得（id => 商品）
	FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error
}
