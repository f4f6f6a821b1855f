package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Relay *service.ChatRelay
}

func NewChatController(relay *service.ChatRelay) *ChatController {
	return &ChatController{Relay: relay}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat godoc
// @Summary AI 助教
// @Description 转发给模型，失败时返回占位回复，状态码仍为 200
// @Tags 聊天
// @Accept  json
// @Produce  json
// @Param   body body ChatRequest true "消息"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} util.Response "消息为空"
// @Router /chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		util.BadRequest(ctx, "message is required")
		return
	}

	ctx.JSON(http.StatusOK, ChatResponse{Reply: c.Relay.Reply(ctx.Request.Context(), req.Message)})
}
