package controller

import (
	"codequest_backend/internal/quest"
	"codequest_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	outlines map[quest.Subject]quest.Outline
}

// NewCatalogController 启动时加载全部内置题库，失败直接返回错误
func NewCatalogController() (*CatalogController, error) {
	outlines := make(map[quest.Subject]quest.Outline, len(quest.Subjects()))
	for _, s := range quest.Subjects() {
		state, err := quest.Load(s)
		if err != nil {
			return nil, err
		}
		outlines[s] = state.Outline()
	}
	return &CatalogController{outlines: outlines}, nil
}

// GetCatalog godoc
// @Summary 题库大纲
// @Description 关卡、挑战与徽章，不含答案
// @Tags 题库
// @Produce  json
// @Param   quest path string true "c / html / python"
// @Success 200 {object} quest.Outline
// @Failure 400 {object} util.Response
// @Router /catalog/{quest} [get]
func (c *CatalogController) GetCatalog(ctx *gin.Context) {
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
	ctx.JSON(http.StatusOK, c.outlines[subject])
}
