package controller

import (
	"codequest_backend/internal/quest"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// ProgressRequest value 是该科目的已完成总数，stars 是增量
type ProgressRequest struct {
	Email string `json:"email" binding:"required"`
	Quest string `json:"quest" binding:"omitempty,quest"`
	Value int    `json:"value" binding:"gte=0"`
	Stars int    `json:"stars" binding:"gte=0"`
	Badge string `json:"badge" binding:"max=100"`
}

type questURI struct {
	Quest string `uri:"quest" binding:"required,quest"`
}

// GetProfile godoc
// @Summary 获取档案
// @Tags 进度
// @Produce  json
// @Param   email path string true "邮箱"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /profile/{email} [get]
func (c *ProgressController) GetProfile(ctx *gin.Context) {
	profile, err := c.ProgressService.GetProfile(ctx.Param("email"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.SuccessUser(ctx, profile)
}

// SaveProgress godoc
// @Summary 上报进度
// @Description 覆盖科目计数，累加星星，徽章按名称去重
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   body body ProgressRequest true "进度"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response "令牌与邮箱不一致"
// @Failure 404 {object} util.Response
// @Router /progress [post]
func (c *ProgressController) SaveProgress(ctx *gin.Context) {
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 携带令牌时只能写自己的档案
	if claims := util.GetUserFromContext(ctx); claims != nil && !strings.EqualFold(claims.Email, req.Email) {
		util.Forbidden(ctx)
		return
	}

	update := repository.ProgressUpdate{
		Email: req.Email,
		Value: req.Value,
		Stars: req.Stars,
		Badge: strings.TrimSpace(req.Badge),
	}
	if req.Quest != "" {
		subject, err := quest.ParseSubject(req.Quest)
		if err != nil {
			util.BadRequest(ctx, "Invalid quest")
			return
		}
		update.Quest = subject
	}

	profile, err := c.ProgressService.SaveProgress(ctx.Request.Context(), update)
	switch {
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, "User not found")
		return
	case errors.Is(err, util.ErrInvalidQuest):
		util.BadRequest(ctx, "Invalid quest")
		return
	case errors.Is(err, util.ErrInvalidProgress):
		util.BadRequest(ctx, err.Error())
		return
	case err != nil:
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessUser(ctx, profile)
}

// Leaderboard godoc
// @Summary 排行榜
// @Description 按科目已完成数降序，前 10 名
// @Tags 进度
// @Produce  json
// @Param   quest path string true "c / html / python"
// @Success 200 {array} model.LeaderboardEntry
// @Failure 400 {object} util.Response
// @Router /leaderboard/{quest} [get]
func (c *ProgressController) Leaderboard(ctx *gin.Context) {
	var uri questURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, "Invalid quest")
		return
	}
	subject, err := quest.ParseSubject(uri.Quest)
	if err != nil {
		util.BadRequest(ctx, "Invalid quest")
		return
	}

	entries, err := c.ProgressService.Leaderboard(ctx.Request.Context(), subject)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
