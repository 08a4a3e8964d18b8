package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
)

// CartUsecase は /cart の業務ロジックです。
// 1ユーザー1カート。同一商品の追加は数量加算、重複明細は作らない。
type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CartEntry は明細1件。商品は読み取り時点のカタログ値に展開して返す。
type CartEntry struct {
	Product  model.ProductSnapshot `json:"product"`
	Quantity int64                 `json:"quantity"`
}

type CartOutput struct {
	Items []CartEntry `json:"items"`
}

type AddCartInput struct {
	ProductID string
	Quantity  int64
}

// GetCart はカート取得。カートが無ければ空を返す（作らない）。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartOutput{Items: []CartEntry{}}, nil
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartOutput(ctx, cart.ID)
}

// AddItem はカートに追加（同一商品は数量加算）。カートが無ければ作る。
func (u *CartUsecase) AddItem(ctx context.Context, userID string, in AddCartInput) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}
	if !isValidProductRef(in.ProductID) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId format")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品がカタログにあるかチェック
	_, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "unknown product")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// カート取得（無ければ作成）
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）
	if err := u.cartRepo.UpsertItem(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartOutput(ctx, cart.ID)
}

// SetQuantity は既存明細の数量を置き換える。
func (u *CartUsecase) SetQuantity(ctx context.Context, userID string, productID string, qty int64) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}
	if !isValidProductRef(productID) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId format")
	}
	if qty < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.cartRepo.UpdateItemQuantity(ctx, cart.ID, productID, qty)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not in cart")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartOutput(ctx, cart.ID)
}

// RemoveItem は明細を削除する。
// 明細が無くてもエラーにしない（冪等）。カート自体が無いときだけ404。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID string, productID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}
	if !isValidProductRef(productID) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId format")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, err := u.cartRepo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartOutput(ctx, cart.ID)
}

// Clear は明細を全削除する。カートの行は残す。
func (u *CartUsecase) Clear(ctx context.Context, userID string) (CartOutput, error) {
	if userID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "missing userId")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartRepo.Clear(ctx, cart.ID); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartOutput{Items: []CartEntry{}}, nil
}

// 明細をカタログの現在値に展開してCartOutputを作る。
// カタログから消えた商品の明細は結果に含めない。
func (u *CartUsecase) buildCartOutput(ctx context.Context, cartID int64) (CartOutput, error) {
	items, err := u.cartRepo.ListItems(ctx, cartID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	entries := make([]CartEntry, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}

		entries = append(entries, CartEntry{
			Product:  p.Snapshot(),
			Quantity: it.Quantity,
		})
	}

	return CartOutput{Items: entries}, nil
}

// productRefの形式チェック（UUID）
func isValidProductRef(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
