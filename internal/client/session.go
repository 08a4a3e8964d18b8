package client

import (
	"context"
	"sync"

	"storefront/internal/domain/model"

	"golang.org/x/sync/errgroup"
)

// SessionState はキャッシュの状態。
type SessionState int

const (
	// 識別が無い。キャッシュも空。
	StateUninitialized SessionState = iota
	// スナップショット取得中
	StateLoading
	// キャッシュ有効
	StateReady
)

// Session は1つの識別（ユーザー）に紐づくクライアントキャッシュと同期制御。
// プロセス全体のシングルトンにせず、セッション単位で持つ。
//
// 更新は悲観的：サーバ呼び出しが成功してからキャッシュへ反映する。
// 失敗したらキャッシュは触らず、エラー種別を一度だけ返す（自動リトライしない）。
type Session struct {
	mu  sync.Mutex
	api API

	state  SessionState
	userID string

	// サーバ返却の並びを保持しつつ、所属判定はmapでO(1)にする
	cartItems []CartEntry
	cartIndex map[string]int

	favOrder []string
	favSet   map[string]model.ProductSnapshot
}

// DI
func NewSession(api API) *Session {
	s := &Session{api: api}
	s.resetLocked()
	return s
}

// SetIdentity は識別の確立・切替。
// 前のユーザーのキャッシュは必ず捨ててから新しいスナップショットを取りにいく。
// 空文字はログアウト（Uninitializedへ戻るだけ）。
func (s *Session) SetIdentity(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//まず捨てる（ユーザー跨ぎの混入防止）
	s.resetLocked()

	if userID == "" {
		return nil
	}

	s.userID = userID
	s.state = StateLoading

	//カートとお気に入りを並行で取得
	var cart Cart
	var favs Favorites

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cart, err = s.api.GetCart(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		favs, err = s.api.GetFavorites(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		// 取得に失敗したら識別ごと破棄する
		s.resetLocked()
		return err
	}

	s.applyCartLocked(cart)
	s.applyFavoritesLocked(favs)
	s.state = StateReady
	return nil
}

// State は現在の状態を返す。
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UserID は現在の識別を返す（無ければ空）。
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// CartItems はキャッシュ中のカートのコピーを返す。
func (s *Session) CartItems() []CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CartEntry, len(s.cartItems))
	copy(out, s.cartItems)
	return out
}

// FavoriteProducts はキャッシュ中のお気に入りのコピーを返す。
func (s *Session) FavoriteProducts() []model.ProductSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ProductSnapshot, 0, len(s.favOrder))
	for _, id := range s.favOrder {
		out = append(out, s.favSet[id])
	}
	return out
}

// InCart はキャッシュのスナップショットで所属判定する（サーバは見ない）。
func (s *Session) InCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cartIndex[productID]
	return ok
}

// IsFavorite はキャッシュのスナップショットで所属判定する。
func (s *Session) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favSet[productID]
	return ok
}

// AddToCart はカートへ追加。成功したらサーバ返却の正をキャッシュへ反映。
func (s *Session) AddToCart(ctx context.Context, productID string, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	cart, err := s.api.AddCartItem(ctx, s.userID, productID, quantity)
	if err != nil {
		return err
	}

	s.applyCartLocked(cart)
	return nil
}

// SetQuantity は数量の置き換え。
func (s *Session) SetQuantity(ctx context.Context, productID string, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	cart, err := s.api.SetCartQuantity(ctx, s.userID, productID, quantity)
	if err != nil {
		return err
	}

	s.applyCartLocked(cart)
	return nil
}

// RemoveFromCart はカートから削除。
func (s *Session) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	cart, err := s.api.RemoveCartItem(ctx, s.userID, productID)
	if err != nil {
		return err
	}

	s.applyCartLocked(cart)
	return nil
}

// ClearCart はカートを空にする。
func (s *Session) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	cart, err := s.api.ClearCart(ctx, s.userID)
	if err != nil {
		return err
	}

	s.applyCartLocked(cart)
	return nil
}

// ToggleCart はカート所属のトグル。
// 判定はキャッシュのスナップショット。追加は数量1。
func (s *Session) ToggleCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	var cart Cart
	var err error
	if _, ok := s.cartIndex[productID]; ok {
		cart, err = s.api.RemoveCartItem(ctx, s.userID, productID)
	} else {
		cart, err = s.api.AddCartItem(ctx, s.userID, productID, 1)
	}
	if err != nil {
		return err
	}

	s.applyCartLocked(cart)
	return nil
}

// AddFavorite はお気に入りへ追加（サーバ側で冪等）。
func (s *Session) AddFavorite(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	favs, err := s.api.AddFavorite(ctx, s.userID, productID)
	if err != nil {
		return err
	}

	s.applyFavoritesLocked(favs)
	return nil
}

// RemoveFavorite はお気に入りから削除。
func (s *Session) RemoveFavorite(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	favs, err := s.api.RemoveFavorite(ctx, s.userID, productID)
	if err != nil {
		return err
	}

	s.applyFavoritesLocked(favs)
	return nil
}

// ToggleFavorite はお気に入り所属のトグル。判定はキャッシュのスナップショット。
func (s *Session) ToggleFavorite(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	var favs Favorites
	var err error
	if _, ok := s.favSet[productID]; ok {
		favs, err = s.api.RemoveFavorite(ctx, s.userID, productID)
	} else {
		favs, err = s.api.AddFavorite(ctx, s.userID, productID)
	}
	if err != nil {
		return err
	}

	s.applyFavoritesLocked(favs)
	return nil
}

// ReplaceFavorites はお気に入り全体を入れ替える。
func (s *Session) ReplaceFavorites(ctx context.Context, productIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireReadyLocked(); err != nil {
		return err
	}

	favs, err := s.api.ReplaceFavorites(ctx, s.userID, productIDs)
	if err != nil {
		return err
	}

	s.applyFavoritesLocked(favs)
	return nil
}

// 識別無しは即拒否、読込中は操作不可。
func (s *Session) requireReadyLocked() error {
	if s.userID == "" {
		return ErrAuthRequired
	}
	if s.state != StateReady {
		return ErrNotReady
	}
	return nil
}

// サーバ返却の正でカートキャッシュを置き換える。
func (s *Session) applyCartLocked(cart Cart) {
	s.cartItems = make([]CartEntry, len(cart.Items))
	copy(s.cartItems, cart.Items)

	s.cartIndex = make(map[string]int, len(cart.Items))
	for i, it := range cart.Items {
		s.cartIndex[it.Product.ID] = i
	}
}

// サーバ返却の正でお気に入りキャッシュを置き換える。
func (s *Session) applyFavoritesLocked(favs Favorites) {
	s.favOrder = make([]string, 0, len(favs.Products))
	s.favSet = make(map[string]model.ProductSnapshot, len(favs.Products))
	for _, p := range favs.Products {
		if _, ok := s.favSet[p.ID]; ok {
			continue
		}
		s.favOrder = append(s.favOrder, p.ID)
		s.favSet[p.ID] = p
	}
}

func (s *Session) resetLocked() {
	s.state = StateUninitialized
	s.userID = ""
	s.cartItems = nil
	s.cartIndex = make(map[string]int)
	s.favOrder = nil
	s.favSet = make(map[string]model.ProductSnapshot)
}
