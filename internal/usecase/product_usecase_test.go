package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Public: List / Detail
// =====================

func TestProductUsecase_ListByCategory_EmptyIs404(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, FixedIDGen{id: testProdA})

	pRepo.On("ListByCategory", mock.Anything, "jewelery").Return([]model.Product{}, nil)

	_, err := uc.ListByCategory(ctx, "jewelery")
	assertErrContains(t, err, "no products found for this category")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestProductUsecase_ListByCategory_Success(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, FixedIDGen{id: testProdA})

	pRepo.On("ListByCategory", mock.Anything, "electronics").Return([]model.Product{
		{ID: testProdA, Title: "SSD", Category: "electronics", RatingRate: 4.8, RatingCount: 3},
	}, nil)

	out, err := uc.ListByCategory(ctx, "electronics")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, 4.8, out[0].Rating.Rate)
}

func TestProductUsecase_GetProductDetail_InvalidID(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), FixedIDGen{id: testProdA})

	_, err := uc.GetProductDetail(context.Background(), "123")
	assertErrContains(t, err, "invalid product id")
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_GetProductDetail_NotFound(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, FixedIDGen{id: testProdA})

	pRepo.On("FindByID", mock.Anything, testProdA).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(ctx, testProdA)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// Admin: Product CRUD
// =====================

func TestProductUsecase_AdminCreateProduct_Unauthorized(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), FixedIDGen{id: testProdA})

	_, err := uc.AdminCreateProduct(context.Background(), "", usecase.UpsertProductInput{Title: "x", Price: 1, Category: "misc"})
	assertErrContains(t, err, "unauthorized")
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestProductUsecase_AdminCreateProduct_Validation(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), FixedIDGen{id: testProdA})

	_, err := uc.AdminCreateProduct(context.Background(), testUserID, usecase.UpsertProductInput{Title: "  ", Price: 1, Category: "misc"})
	assertErrContains(t, err, "title required")
}

func TestProductUsecase_AdminCreateProduct_Success(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, FixedIDGen{id: testProdA})

	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == testProdA && p.Title == "Coffee" && p.Price == 100 && p.Category == "grocery"
	})).Return(model.Product{ID: testProdA, Title: "Coffee", Price: 100, Category: "grocery"}, nil)

	out, err := uc.AdminCreateProduct(ctx, testUserID, usecase.UpsertProductInput{
		Title:    " Coffee ",
		Price:    100,
		Category: " grocery ",
	})
	assert.NoError(t, err)
	assert.Equal(t, testProdA, out.ID)

	pRepo.AssertExpectations(t)
}

// 更新しても評価は既存値を引き継ぐ
func TestProductUsecase_AdminUpdateProduct_PreservesRating(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, FixedIDGen{id: testProdA})

	pRepo.On("FindByID", mock.Anything, testProdA).Return(model.Product{
		ID: testProdA, Title: "Old", RatingRate: 4.6, RatingCount: 21,
	}, nil)
	pRepo.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == testProdA && p.Title == "New" && p.RatingRate == 4.6 && p.RatingCount == 21
	})).Return(nil)

	err := uc.AdminUpdateProduct(ctx, testUserID, testProdA, usecase.UpsertProductInput{
		Title: "New", Price: 5, Category: "misc",
	})
	assert.NoError(t, err)

	pRepo.AssertExpectations(t)
}

func TestProductUsecase_AdminDeleteProduct_NotFound(t *testing.T) {
	ctx := context.Background()

	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, FixedIDGen{id: testProdA})

	pRepo.On("Delete", mock.Anything, testProdA).Return(repo.ErrNotFound)

	err := uc.AdminDeleteProduct(ctx, testUserID, testProdA)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
