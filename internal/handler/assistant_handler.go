package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /assistantのHTTP（生成APIへのプロキシ）
type AssistantHandler struct {
	uc *usecase.AssistantUsecase
}

// DI
func NewAssistantHandler(uc *usecase.AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

type AskRequest struct {
	Input string `json:"input"`
}

// /assistant を登録
func (h *AssistantHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/assistant", h.ask)
}

func (h *AssistantHandler) ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Ask(c.Request().Context(), req.Input)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
