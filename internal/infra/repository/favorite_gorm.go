package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

// DI
func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

// ユーザーのお気に入りを取得し、無ければ作成
func (r *FavoriteGormRepository) GetOrCreateByUserID(ctx context.Context, userID string) (model.Favorite, error) {
	var fav model.Favorite

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Where("user_id = ?", userID).
			First(&fav).Error

		if findErr == nil {
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		now := time.Now()
		newFav := model.Favorite{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newFav).Error; err != nil {
			retryErr := tx.
				Where("user_id = ?", userID).
				First(&fav).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		fav = newFav
		return nil
	})

	if err != nil {
		return model.Favorite{}, err
	}
	return fav, nil
}

// ユーザーのお気に入りを取得
func (r *FavoriteGormRepository) FindByUserID(ctx context.Context, userID string) (model.Favorite, error) {
	var fav model.Favorite

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&fav).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Favorite{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Favorite{}, err
	}
	return fav, nil
}

// メンバーを一覧取得
func (r *FavoriteGormRepository) ListProducts(ctx context.Context, favoriteID int64) ([]model.FavoriteProduct, error) {
	var members []model.FavoriteProduct

	if err := r.db.WithContext(ctx).
		Where("favorite_id = ?", favoriteID).
		Order("id asc").
		Find(&members).Error; err != nil {
		return []model.FavoriteProduct{}, err
	}

	return members, nil
}

// メンバーを追加。既に入っていれば何もしない。
func (r *FavoriteGormRepository) AddProduct(ctx context.Context, favoriteID int64, productID string) error {
	member := model.FavoriteProduct{
		FavoriteID: favoriteID,
		ProductID:  productID,
		CreatedAt:  time.Now(),
	}

	err := r.db.WithContext(ctx).Create(&member).Error
	if err == nil {
		return nil
	}

	// uniqueIndex違反（23505）は重複追加なのでno-op
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// メンバーを削除（無ければfalseを返すだけでエラーにしない）
func (r *FavoriteGormRepository) RemoveProduct(ctx context.Context, favoriteID int64, productID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("favorite_id = ? AND product_id = ?", favoriteID, productID).
		Delete(&model.FavoriteProduct{})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// メンバー全体を入れ替える
func (r *FavoriteGormRepository) ReplaceProducts(ctx context.Context, favoriteID int64, productIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("favorite_id = ?", favoriteID).Delete(&model.FavoriteProduct{}).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, pid := range productIDs {
			member := model.FavoriteProduct{
				FavoriteID: favoriteID,
				ProductID:  pid,
				CreatedAt:  now,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
