package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ChatUsecase はアシスタントとの会話履歴の保存・取得。
type ChatUsecase struct {
	chatRepo repo.ChatRepository
}

// DI
func NewChatUsecase(chatRepo repo.ChatRepository) *ChatUsecase {
	return &ChatUsecase{chatRepo: chatRepo}
}

type ChatMessageInput struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type ChatMessageOutput struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type ChatOutput struct {
	Messages []ChatMessageOutput `json:"messages"`
}

// SaveMessages は履歴に追記する。履歴が無ければ作る。
// 同一メッセージの二重保存はしない。
func (u *ChatUsecase) SaveMessages(ctx context.Context, userID string, messages []ChatMessageInput) (ChatOutput, error) {
	if userID == "" || len(messages) == 0 {
		return ChatOutput{}, NewHTTPError(http.StatusBadRequest, "valid userId and messages are required")
	}

	toAppend := make([]model.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Text) == "" || strings.TrimSpace(m.Sender) == "" {
			return ChatOutput{}, NewHTTPError(http.StatusBadRequest, "valid userId and messages are required")
		}
		toAppend = append(toAppend, model.ChatMessage{
			Sender: strings.TrimSpace(m.Sender),
			Text:   m.Text,
		})
	}

	chat, err := u.chatRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return ChatOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.chatRepo.AppendMessages(ctx, chat.ID, toAppend); err != nil {
		return ChatOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildChatOutput(ctx, chat.ID)
}

// History はユーザーの履歴を返す。無ければ404。
func (u *ChatUsecase) History(ctx context.Context, userID string) (ChatOutput, error) {
	if userID == "" {
		return ChatOutput{}, NewHTTPError(http.StatusBadRequest, "user id is required")
	}

	chat, err := u.chatRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return ChatOutput{}, NewHTTPError(http.StatusNotFound, "no chat history found")
	}
	if err != nil {
		return ChatOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildChatOutput(ctx, chat.ID)
}

func (u *ChatUsecase) buildChatOutput(ctx context.Context, chatID int64) (ChatOutput, error) {
	messages, err := u.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		return ChatOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ChatOutput{Messages: make([]ChatMessageOutput, 0, len(messages))}
	for _, m := range messages {
		out.Messages = append(out.Messages, ChatMessageOutput{Sender: m.Sender, Text: m.Text})
	}
	return out, nil
}
