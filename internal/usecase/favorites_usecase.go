package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// FavoritesUsecase は /favorites の業務ロジックです。
// 1ユーザー1セット。重複メンバーは作らない（集合）。
type FavoritesUsecase struct {
	favoriteRepo repo.FavoriteRepository
	productRepo  repo.ProductRepository
}

// DI
func NewFavoritesUsecase(
	favoriteRepo repo.FavoriteRepository,
	productRepo repo.ProductRepository,
) *FavoritesUsecase {
	return &FavoritesUsecase{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

type FavoritesOutput struct {
	Products []model.ProductSnapshot `json:"products"`
}

// GetFavorites はお気に入り取得。セットが無ければ空を返す（作らない）。
func (u *FavoritesUsecase) GetFavorites(ctx context.Context, userID string) (FavoritesOutput, error) {
	if userID == "" {
		return FavoritesOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}

	fav, err := u.favoriteRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return FavoritesOutput{Products: []model.ProductSnapshot{}}, nil
	}
	if err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildFavoritesOutput(ctx, fav.ID)
}

// AddProduct はお気に入りに追加。既に入っていればno-op（冪等）。
func (u *FavoritesUsecase) AddProduct(ctx context.Context, userID string, productID string) (FavoritesOutput, error) {
	if userID == "" {
		return FavoritesOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}
	if !isValidProductRef(productID) {
		return FavoritesOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId format")
	}

	fav, err := u.favoriteRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.favoriteRepo.AddProduct(ctx, fav.ID, productID); err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildFavoritesOutput(ctx, fav.ID)
}

// RemoveProduct はお気に入りから削除。
// メンバーが無くてもエラーにしない（冪等）。セット自体が無いときだけ404。
func (u *FavoritesUsecase) RemoveProduct(ctx context.Context, userID string, productID string) (FavoritesOutput, error) {
	if userID == "" {
		return FavoritesOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}
	if !isValidProductRef(productID) {
		return FavoritesOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId format")
	}

	fav, err := u.favoriteRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return FavoritesOutput{}, NewHTTPError(http.StatusNotFound, "favorites not found")
	}
	if err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, err := u.favoriteRepo.RemoveProduct(ctx, fav.ID, productID); err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildFavoritesOutput(ctx, fav.ID)
}

// ReplaceAll はセット全体を入れ替える。
// 形式が不正なproductRefは黙って捨て、有効なものだけで置き換える。
func (u *FavoritesUsecase) ReplaceAll(ctx context.Context, userID string, productIDs []string) (FavoritesOutput, error) {
	if userID == "" {
		return FavoritesOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}

	valid := make([]string, 0, len(productIDs))
	seen := make(map[string]struct{}, len(productIDs))
	for _, pid := range productIDs {
		if !isValidProductRef(pid) {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		valid = append(valid, pid)
	}

	fav, err := u.favoriteRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.favoriteRepo.ReplaceProducts(ctx, fav.ID, valid); err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildFavoritesOutput(ctx, fav.ID)
}

// メンバーをカタログの現在値に展開してFavoritesOutputを作る。
func (u *FavoritesUsecase) buildFavoritesOutput(ctx context.Context, favoriteID int64) (FavoritesOutput, error) {
	members, err := u.favoriteRepo.ListProducts(ctx, favoriteID)
	if err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ProductID)
	}

	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return FavoritesOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	snapshots := make([]model.ProductSnapshot, 0, len(members))
	for _, m := range members {
		p, ok := products[m.ProductID]
		if !ok {
			continue
		}
		snapshots = append(snapshots, p.Snapshot())
	}

	return FavoritesOutput{Products: snapshots}, nil
}
