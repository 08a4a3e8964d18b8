package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartRepoMock) UpsertItem(ctx context.Context, cartID int64, productID string, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartRepoMock) UpdateItemQuantity(ctx context.Context, cartID int64, productID string, qty int64) error {
	args := m.Called(ctx, cartID, productID, qty)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteItem(ctx context.Context, cartID int64, productID string) (bool, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	args := m.Called(ctx, category)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).(map[string]model.Product)
	return products, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertHTTPStatus(t *testing.T, err error, wantStatus int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "want HTTPError, got %T", err) {
		assert.Equal(t, wantStatus, he.Status)
	}
}

const (
	testUserID = "3f6f44a3-31f2-4f0a-bf2c-21c3c2a1d111"
	testProdA  = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	testProdB  = "9b2d6c1e-0a84-4f5b-8d3a-6c5e4f3b2a10"
)

// =====================
// GetCart
// =====================

func TestCartUsecase_GetCart_MissingUserID(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock), new(ProductRepoMock))

	_, err := uc.GetCart(context.Background(), "")
	assertErrContains(t, err, "missing userId")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// カートが無ければ空を返す。作らない。
func TestCartUsecase_GetCart_EmptyWhenAbsent(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{}, repo.ErrNotFound)

	out, err := uc.GetCart(ctx, testUserID)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	cRepo.AssertNotCalled(t, "GetOrCreateByUserID", mock.Anything, mock.Anything)
	cRepo.AssertExpectations(t)
}

func TestCartUsecase_GetCart_PopulatedItems(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo)

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7, UserID: testUserID}, nil)
	cRepo.On("ListItems", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: testProdA, Quantity: 2},
	}, nil)
	pRepo.On("FindByIDs", mock.Anything, []string{testProdA}).Return(map[string]model.Product{
		testProdA: {ID: testProdA, Title: "Coffee", Price: 9.5, RatingRate: 4.2, RatingCount: 12},
	}, nil)

	out, err := uc.GetCart(ctx, testUserID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, "Coffee", out.Items[0].Product.Title)
	assert.Equal(t, 4.2, out.Items[0].Product.Rating.Rate)
	assert.Equal(t, int64(2), out.Items[0].Quantity)

	cRepo.AssertExpectations(t)
	pRepo.AssertExpectations(t)
}

// カタログから消えた商品の明細は結果に含めない
func TestCartUsecase_GetCart_SkipsVanishedProducts(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo)

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7}, nil)
	cRepo.On("ListItems", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: testProdA, Quantity: 1},
		{CartID: 7, ProductID: testProdB, Quantity: 3},
	}, nil)
	// testProdBはカタログに居ない
	pRepo.On("FindByIDs", mock.Anything, []string{testProdA, testProdB}).Return(map[string]model.Product{
		testProdA: {ID: testProdA, Title: "Coffee"},
	}, nil)

	out, err := uc.GetCart(ctx, testUserID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, testProdA, out.Items[0].Product.ID)
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_InvalidProductRef(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock), new(ProductRepoMock))

	_, err := uc.AddItem(context.Background(), testUserID, usecase.AddCartInput{ProductID: "not-a-uuid", Quantity: 1})
	assertErrContains(t, err, "invalid productId format")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddItem_InvalidQuantity(t *testing.T) {
	uc := usecase.NewCartUsecase(new(CartRepoMock), new(ProductRepoMock))

	_, err := uc.AddItem(context.Background(), testUserID, usecase.AddCartInput{ProductID: testProdA, Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

func TestCartUsecase_AddItem_UnknownProduct(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo)

	pRepo.On("FindByID", mock.Anything, testProdA).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddItem(ctx, testUserID, usecase.AddCartInput{ProductID: testProdA, Quantity: 1})
	assertErrContains(t, err, "unknown product")
	assertHTTPStatus(t, err, http.StatusBadRequest)

	cRepo.AssertNotCalled(t, "GetOrCreateByUserID", mock.Anything, mock.Anything)
}

// 同一商品の再追加は数量加算（UpsertItemへ加算量を渡す）
func TestCartUsecase_AddItem_AccumulatesQuantity(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo)

	pRepo.On("FindByID", mock.Anything, testProdA).Return(model.Product{ID: testProdA, Title: "Coffee"}, nil)
	cRepo.On("GetOrCreateByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7, UserID: testUserID}, nil)
	cRepo.On("UpsertItem", mock.Anything, int64(7), testProdA, int64(2)).Return(nil).Once()
	cRepo.On("UpsertItem", mock.Anything, int64(7), testProdA, int64(3)).Return(nil).Once()

	cRepo.On("ListItems", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: testProdA, Quantity: 5},
	}, nil)
	pRepo.On("FindByIDs", mock.Anything, []string{testProdA}).Return(map[string]model.Product{
		testProdA: {ID: testProdA, Title: "Coffee"},
	}, nil)

	_, err := uc.AddItem(ctx, testUserID, usecase.AddCartInput{ProductID: testProdA, Quantity: 2})
	assert.NoError(t, err)

	out, err := uc.AddItem(ctx, testUserID, usecase.AddCartInput{ProductID: testProdA, Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(5), out.Items[0].Quantity)

	cRepo.AssertExpectations(t)
	pRepo.AssertExpectations(t)
}

// =====================
// SetQuantity
// =====================

func TestCartUsecase_SetQuantity_CartNotFound(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.SetQuantity(ctx, testUserID, testProdA, 2)
	assertErrContains(t, err, "cart not found")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_SetQuantity_ProductNotInCart(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7}, nil)
	cRepo.On("UpdateItemQuantity", mock.Anything, int64(7), testProdA, int64(2)).Return(repo.ErrNotFound)

	_, err := uc.SetQuantity(ctx, testUserID, testProdA, 2)
	assertErrContains(t, err, "product not in cart")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestCartUsecase_SetQuantity_Success(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo)

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7}, nil)
	cRepo.On("UpdateItemQuantity", mock.Anything, int64(7), testProdA, int64(4)).Return(nil)
	cRepo.On("ListItems", mock.Anything, int64(7)).Return([]model.CartItem{
		{CartID: 7, ProductID: testProdA, Quantity: 4},
	}, nil)
	pRepo.On("FindByIDs", mock.Anything, []string{testProdA}).Return(map[string]model.Product{
		testProdA: {ID: testProdA},
	}, nil)

	out, err := uc.SetQuantity(ctx, testUserID, testProdA, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), out.Items[0].Quantity)

	cRepo.AssertExpectations(t)
}

// =====================
// RemoveItem / Clear
// =====================

// 無い明細の削除はエラーにしない（冪等）
func TestCartUsecase_RemoveItem_AbsentEntryIsNoop(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo)

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7}, nil)
	cRepo.On("DeleteItem", mock.Anything, int64(7), testProdA).Return(false, nil)
	cRepo.On("ListItems", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)
	pRepo.On("FindByIDs", mock.Anything, []string{}).Return(map[string]model.Product{}, nil)

	out, err := uc.RemoveItem(ctx, testUserID, testProdA)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	cRepo.AssertExpectations(t)
}

func TestCartUsecase_RemoveItem_CartNotFound(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{}, repo.ErrNotFound)

	_, err := uc.RemoveItem(ctx, testUserID, testProdA)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// 最後の明細を消してもカートは空のまま残り、空を返す
func TestCartUsecase_RemoveItem_LastItemLeavesEmptyCart(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo)

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7}, nil)
	cRepo.On("DeleteItem", mock.Anything, int64(7), testProdA).Return(true, nil)
	cRepo.On("ListItems", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)
	pRepo.On("FindByIDs", mock.Anything, []string{}).Return(map[string]model.Product{}, nil)

	out, err := uc.RemoveItem(ctx, testUserID, testProdA)
	assert.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
}

func TestCartUsecase_Clear_Success(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7}, nil)
	cRepo.On("Clear", mock.Anything, int64(7)).Return(nil)

	out, err := uc.Clear(ctx, testUserID)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	cRepo.AssertExpectations(t)
}

func TestCartUsecase_Clear_DBError(t *testing.T) {
	ctx := context.Background()

	cRepo := new(CartRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock))

	cRepo.On("FindByUserID", mock.Anything, testUserID).Return(model.Cart{ID: 7}, nil)
	cRepo.On("Clear", mock.Anything, int64(7)).Return(errors.New("db down"))

	_, err := uc.Clear(ctx, testUserID)
	assertErrContains(t, err, "db error")
	assertHTTPStatus(t, err, http.StatusInternalServerError)
}
