package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /chatsのHTTP（アシスタントとの会話履歴）
type ChatHandler struct {
	uc *usecase.ChatUsecase
}

// DI
func NewChatHandler(uc *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

type SaveChatRequest struct {
	UserID   string                     `json:"userId"`
	Messages []usecase.ChatMessageInput `json:"messages"`
}

// /chats を登録
func (h *ChatHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chats", h.save)
	e.GET("/chats/:userId", h.history)
}

func (h *ChatHandler) save(c echo.Context) error {
	var req SaveChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SaveMessages(c.Request().Context(), req.UserID, req.Messages)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) history(c echo.Context) error {
	out, err := h.uc.History(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
