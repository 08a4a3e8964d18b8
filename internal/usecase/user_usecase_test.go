package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// GetProfile
// =====================

func TestUserUsecase_GetProfile_NotFound(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("FindByID", mock.Anything, testUserID).Return(nil, repository.ErrUserNotFound)

	_, err := uc.GetProfile(context.Background(), testUserID)
	assertErrContains(t, err, "user not found")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestUserUsecase_GetProfile_Success(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("FindByID", mock.Anything, testUserID).Return(&model.User{
		ID:    testUserID,
		Name:  "Taro",
		Email: "taro@example.com",
		Role:  model.RoleUser,
	}, nil)

	out, err := uc.GetProfile(context.Background(), testUserID)
	assert.NoError(t, err)
	assert.Equal(t, testUserID, out.ID)
	assert.Equal(t, "Taro", out.Name)
	assert.Equal(t, "taro@example.com", out.Email)
}

// =====================
// UpdateProfile
// =====================

func TestUserUsecase_UpdateProfile_MissingFields(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	_, err := uc.UpdateProfile(context.Background(), testUserID, usecase.UpdateProfileInput{Name: "  ", Email: "taro@example.com"})
	assertErrContains(t, err, "name and email are required")
	assertHTTPStatus(t, err, http.StatusBadRequest)
	uRepo.AssertNotCalled(t, "Update")
}

func TestUserUsecase_UpdateProfile_InvalidEmail(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	_, err := uc.UpdateProfile(context.Background(), testUserID, usecase.UpdateProfileInput{Name: "Taro", Email: "not-an-email"})
	assertErrContains(t, err, "invalid email format")
	assertHTTPStatus(t, err, http.StatusBadRequest)
	uRepo.AssertNotCalled(t, "Update")
}

// メール変更先が既に使われていたら409
func TestUserUsecase_UpdateProfile_EmailInUse(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("FindByID", mock.Anything, testUserID).Return(&model.User{
		ID:    testUserID,
		Name:  "Taro",
		Email: "taro@example.com",
	}, nil)
	uRepo.On("FindByEmail", mock.Anything, "hanako@example.com").Return(&model.User{
		ID:    testOtherUser,
		Email: "hanako@example.com",
	}, nil)

	_, err := uc.UpdateProfile(context.Background(), testUserID, usecase.UpdateProfileInput{Name: "Taro", Email: "hanako@example.com"})
	assertErrContains(t, err, "email already in use")
	assertHTTPStatus(t, err, http.StatusConflict)
	uRepo.AssertNotCalled(t, "Update")
}

// メールが変わらないなら重複チェックは走らない
func TestUserUsecase_UpdateProfile_SameEmailSkipsLookup(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("FindByID", mock.Anything, testUserID).Return(&model.User{
		ID:    testUserID,
		Name:  "Taro",
		Email: "taro@example.com",
	}, nil)
	uRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == testUserID && u.Name == "Jiro" && u.Email == "taro@example.com"
	})).Return(nil).Once()

	out, err := uc.UpdateProfile(context.Background(), testUserID, usecase.UpdateProfileInput{Name: " Jiro ", Email: " taro@example.com "})
	assert.NoError(t, err)
	assert.Equal(t, "Jiro", out.Name)
	uRepo.AssertNotCalled(t, "FindByEmail")
	uRepo.AssertExpectations(t)
}

func TestUserUsecase_UpdateProfile_ChangesEmail(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("FindByID", mock.Anything, testUserID).Return(&model.User{
		ID:    testUserID,
		Name:  "Taro",
		Email: "taro@example.com",
	}, nil)
	uRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, repository.ErrUserNotFound)
	uRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "new@example.com"
	})).Return(nil).Once()

	out, err := uc.UpdateProfile(context.Background(), testUserID, usecase.UpdateProfileInput{Name: "Taro", Email: "new@example.com"})
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", out.Email)
	uRepo.AssertExpectations(t)
}

// チェックとUpdateの間に他人が同じメールで登録したケース
func TestUserUsecase_UpdateProfile_UniqueViolationOnSave(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("FindByID", mock.Anything, testUserID).Return(&model.User{
		ID:    testUserID,
		Name:  "Taro",
		Email: "taro@example.com",
	}, nil)
	uRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, repository.ErrUserNotFound)
	uRepo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	_, err := uc.UpdateProfile(context.Background(), testUserID, usecase.UpdateProfileInput{Name: "Taro", Email: "new@example.com"})
	assertErrContains(t, err, "email already in use")
	assertHTTPStatus(t, err, http.StatusConflict)
}

// =====================
// DeleteAccount
// =====================

func TestUserUsecase_DeleteAccount_Success(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("DeleteCascade", mock.Anything, testUserID).Return(nil).Once()

	err := uc.DeleteAccount(context.Background(), testUserID)
	assert.NoError(t, err)
	uRepo.AssertExpectations(t)
}

func TestUserUsecase_DeleteAccount_NotFound(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("DeleteCascade", mock.Anything, testUserID).Return(repository.ErrUserNotFound)

	err := uc.DeleteAccount(context.Background(), testUserID)
	assertErrContains(t, err, "user not found")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestUserUsecase_DeleteAccount_DBError(t *testing.T) {
	uRepo := new(UserRepoMock)
	uc := usecase.NewUserUsecase(uRepo)

	uRepo.On("DeleteCascade", mock.Anything, testUserID).Return(errors.New("boom"))

	err := uc.DeleteAccount(context.Background(), testUserID)
	assertHTTPStatus(t, err, http.StatusInternalServerError)
}
