package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /reviewsのHTTP
type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

// DI
func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

type AddReviewRequest struct {
	ProductID string `json:"productId"`
	UserID    string `json:"userId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type UpdateReviewRequest struct {
	ReviewID string `json:"reviewId"`
	UserID   string `json:"userId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type DeleteReviewRequest struct {
	UserID string `json:"userId"`
}

// /reviews を登録
func (h *ReviewHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/reviews", h.list)
	e.POST("/reviews", h.add)
	e.PATCH("/reviews", h.update)
	e.DELETE("/reviews/:id", h.delete)
}

func (h *ReviewHandler) list(c echo.Context) error {
	productID := c.QueryParam("productId")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "product id is required"})
	}

	out, err := h.uc.ListReviews(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) add(c echo.Context) error {
	var req AddReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddReview(c.Request().Context(), usecase.AddReviewInput{
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *ReviewHandler) update(c echo.Context) error {
	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateReview(c.Request().Context(), usecase.UpdateReviewInput{
		ReviewID: req.ReviewID,
		UserID:   req.UserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) delete(c echo.Context) error {
	var req DeleteReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.DeleteReview(c.Request().Context(), c.Param("id"), req.UserID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "review deleted"})
}
