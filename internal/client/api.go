package client

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// サーバから返るエラーを4種類に畳む。
// 呼び出し側（UI）はこの種類だけを見てリトライ可否を決める。
var (
	// 識別が無い（ログインしていない）
	ErrAuthRequired = errors.New("auth required")
	// キャッシュ読込中でまだ操作できない
	ErrNotReady = errors.New("session not ready")
	// 400系：入力不正。リトライしても直らない。
	ErrInvalid = errors.New("invalid request")
	// 404：対象が無い
	ErrNotFound = errors.New("not found")
	// 500系・ネットワーク断など。呼び直せば直るかもしれない。
	ErrTransient = errors.New("transient failure")
)

// Cart はサーバが返すpopulated済みカート。
type Cart struct {
	Items []CartEntry `json:"items"`
}

type CartEntry struct {
	Product  model.ProductSnapshot `json:"product"`
	Quantity int64                 `json:"quantity"`
}

// Favorites はサーバが返すpopulated済みお気に入り。
type Favorites struct {
	Products []model.ProductSnapshot `json:"products"`
}

// API はカート/お気に入りのサーバ操作の約束。
// どの変更操作も更新後のコレクション全体を正として返す。
type API interface {
	GetCart(ctx context.Context, userID string) (Cart, error)
	AddCartItem(ctx context.Context, userID string, productID string, quantity int64) (Cart, error)
	SetCartQuantity(ctx context.Context, userID string, productID string, quantity int64) (Cart, error)
	RemoveCartItem(ctx context.Context, userID string, productID string) (Cart, error)
	ClearCart(ctx context.Context, userID string) (Cart, error)

	GetFavorites(ctx context.Context, userID string) (Favorites, error)
	AddFavorite(ctx context.Context, userID string, productID string) (Favorites, error)
	RemoveFavorite(ctx context.Context, userID string, productID string) (Favorites, error)
	ReplaceFavorites(ctx context.Context, userID string, productIDs []string) (Favorites, error)
}
