package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type ChatRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID string) (model.Chat, error)
	FindByUserID(ctx context.Context, userID string) (model.Chat, error)
	// 同一(sender, text)のメッセージは二重登録しない
	AppendMessages(ctx context.Context, chatID int64, messages []model.ChatMessage) error
	ListMessages(ctx context.Context, chatID int64) ([]model.ChatMessage, error)
}
