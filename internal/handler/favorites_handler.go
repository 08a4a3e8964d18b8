package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /favoritesのHTTP
type FavoritesHandler struct {
	uc *usecase.FavoritesUsecase
}

// DI
func NewFavoritesHandler(uc *usecase.FavoritesUsecase) *FavoritesHandler {
	return &FavoritesHandler{uc: uc}
}

type AddFavoriteRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

type ReplaceFavoritesRequest struct {
	UserID     string   `json:"userId"`
	ProductIDs []string `json:"productIds"`
}

type RemoveFavoriteRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

// /favorites を登録
func (h *FavoritesHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/favorites", h.getFavorites)
	e.POST("/favorites", h.addProduct)
	e.PUT("/favorites", h.replaceAll)
	e.DELETE("/favorites", h.removeProduct)
}

func (h *FavoritesHandler) getFavorites(c echo.Context) error {
	userID := c.QueryParam("userId")

	out, err := h.uc.GetFavorites(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *FavoritesHandler) addProduct(c echo.Context) error {
	var req AddFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddProduct(c.Request().Context(), req.UserID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *FavoritesHandler) replaceAll(c echo.Context) error {
	var req ReplaceFavoritesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ReplaceAll(c.Request().Context(), req.UserID, req.ProductIDs)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *FavoritesHandler) removeProduct(c echo.Context) error {
	var req RemoveFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.RemoveProduct(c.Request().Context(), req.UserID, req.ProductID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
