package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ChatGormRepository struct {
	db *gorm.DB
}

// DI
func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

// ユーザーのチャットを取得し、無ければ作成
func (r *ChatGormRepository) GetOrCreateByUserID(ctx context.Context, userID string) (model.Chat, error) {
	var chat model.Chat

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("user_id = ?", userID).First(&chat).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		now := time.Now()
		newChat := model.Chat{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newChat).Error; err != nil {
			retryErr := tx.Where("user_id = ?", userID).First(&chat).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		chat = newChat
		return nil
	})

	if err != nil {
		return model.Chat{}, err
	}
	return chat, nil
}

// ユーザーのチャットを取得
func (r *ChatGormRepository) FindByUserID(ctx context.Context, userID string) (model.Chat, error) {
	var chat model.Chat

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Chat{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Chat{}, err
	}
	return chat, nil
}

// メッセージを追記。同一(sender, text)は二重登録しない。
func (r *ChatGormRepository) AppendMessages(ctx context.Context, chatID int64, messages []model.ChatMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range messages {
			var count int64
			if err := tx.Model(&model.ChatMessage{}).
				Where("chat_id = ? AND sender = ? AND text = ?", chatID, m.Sender, m.Text).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			msg := model.ChatMessage{
				ChatID:    chatID,
				Sender:    m.Sender,
				Text:      m.Text,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&msg).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// メッセージを古い順に一覧取得
func (r *ChatGormRepository) ListMessages(ctx context.Context, chatID int64) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage

	if err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("id asc").
		Find(&messages).Error; err != nil {
		return []model.ChatMessage{}, err
	}

	return messages, nil
}
