package usecase

import (
	"context"
	"math"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ReviewUsecase は /reviews の業務ロジックです。
// 更新・削除は投稿者本人のみ。
type ReviewUsecase struct {
	reviewRepo repo.ReviewRepository
	userRepo   repo.UserRepository
	idGen      IDGenerator
}

// DI
func NewReviewUsecase(reviewRepo repo.ReviewRepository, userRepo repo.UserRepository, idGen IDGenerator) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		idGen:      idGen,
	}
}

// ReviewOutput は投稿者名をpopulateして返す。
type ReviewOutput struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ReviewListOutput struct {
	Reviews      []ReviewOutput `json:"reviews"`
	AvgRating    float64        `json:"avg_rating"`
	TotalReviews int            `json:"total_reviews"`
}

type AddReviewInput struct {
	ProductID string
	UserID    string
	Rating    int
	Comment   string
}

// AddReview はレビューを追加する。
func (u *ReviewUsecase) AddReview(ctx context.Context, in AddReviewInput) (ReviewOutput, error) {
	if in.UserID == "" {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	if !isValidProductRef(in.ProductID) {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId format")
	}
	if strings.TrimSpace(in.Comment) == "" {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	review := model.Review{
		ID:        u.idGen.NewID(),
		ProductID: in.ProductID,
		UserID:    in.UserID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := u.reviewRepo.Create(ctx, review); err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.populate(ctx, review), nil
}

// ListReviews は商品のレビュー一覧と平均評価を返す。
func (u *ReviewUsecase) ListReviews(ctx context.Context, productID string) (ReviewListOutput, error) {
	if !isValidProductRef(productID) {
		return ReviewListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid productId format")
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ReviewListOutput{
		Reviews:      make([]ReviewOutput, 0, len(reviews)),
		TotalReviews: len(reviews),
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
		out.Reviews = append(out.Reviews, u.populate(ctx, r))
	}
	if len(reviews) > 0 {
		// 小数1桁に丸める
		avg := float64(sum) / float64(len(reviews))
		out.AvgRating = math.Round(avg*10) / 10
	}

	return out, nil
}

type UpdateReviewInput struct {
	ReviewID string
	UserID   string
	Rating   int
	Comment  string
}

// UpdateReview は本人のレビューだけを更新する。
func (u *ReviewUsecase) UpdateReview(ctx context.Context, in UpdateReviewInput) (ReviewOutput, error) {
	if in.ReviewID == "" || in.UserID == "" || strings.TrimSpace(in.Comment) == "" {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	review, err := u.reviewRepo.FindByID(ctx, in.ReviewID)
	if err == repo.ErrNotFound {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, "review not found")
	}
	if err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 他人のレビューは存在を明かさず404
	if review.UserID != in.UserID {
		return ReviewOutput{}, NewHTTPError(http.StatusNotFound, "review not found")
	}

	review.Rating = in.Rating
	review.Comment = strings.TrimSpace(in.Comment)
	if err := u.reviewRepo.Update(ctx, review); err != nil {
		return ReviewOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.populate(ctx, review), nil
}

// DeleteReview は本人のレビューだけを削除する。
func (u *ReviewUsecase) DeleteReview(ctx context.Context, reviewID string, userID string) error {
	if reviewID == "" || userID == "" {
		return NewHTTPError(http.StatusBadRequest, "review id and user id are required")
	}

	review, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "review not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if review.UserID != userID {
		return NewHTTPError(http.StatusNotFound, "review not found")
	}

	if err := u.reviewRepo.Delete(ctx, reviewID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 投稿者名を解決する。消えたユーザーは空のまま。
func (u *ReviewUsecase) populate(ctx context.Context, r model.Review) ReviewOutput {
	out := ReviewOutput{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
	}

	user, err := u.userRepo.FindByID(ctx, r.UserID)
	if err == nil && user != nil {
		out.UserName = user.Name
	}
	return out
}
