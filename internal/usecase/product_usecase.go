package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	idGen       IDGenerator
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, idGen IDGenerator) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		idGen:       idGen,
	}
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.ProductSnapshot, error) {
	products, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toSnapshots(products), nil
}

// カテゴリで検索。1件も無ければ404。
func (u *ProductUsecase) ListByCategory(ctx context.Context, category string) ([]model.ProductSnapshot, error) {
	if strings.TrimSpace(category) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "category is required")
	}

	products, err := u.productRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(products) == 0 {
		return nil, NewHTTPError(http.StatusNotFound, "no products found for this category")
	}

	return toSnapshots(products), nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (model.ProductSnapshot, error) {
	if !isValidProductRef(productID) {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p.Snapshot(), nil
}

type UpsertProductInput struct {
	Title       string
	Description string
	Price       float64
	Image       string
	Category    string
}

// 管理用：商品の作成
func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID string, in UpsertProductInput) (model.ProductSnapshot, error) {
	if adminUserID == "" {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Title) == "" {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusBadRequest, "title required")
	}
	if in.Price < 0 {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if strings.TrimSpace(in.Category) == "" {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusBadRequest, "category required")
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		ID:          u.idGen.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    strings.TrimSpace(in.Category),
	})
	if err != nil {
		return model.ProductSnapshot{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p.Snapshot(), nil
}

// 管理用：商品の更新
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID string, productID string, in UpsertProductInput) error {
	if adminUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isValidProductRef(productID) {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "title required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	// 評価は既存値を引き継ぐ
	current, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Category:    strings.TrimSpace(in.Category),
		RatingRate:  current.RatingRate,
		RatingCount: current.RatingCount,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 管理用：商品の削除
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID string, productID string) error {
	if adminUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isValidProductRef(productID) {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.Delete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toSnapshots(products []model.Product) []model.ProductSnapshot {
	out := make([]model.ProductSnapshot, 0, len(products))
	for _, p := range products {
		out = append(out, p.Snapshot())
	}
	return out
}
