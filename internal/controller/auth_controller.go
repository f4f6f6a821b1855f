package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary 注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SignupRequest true "注册信息"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "参数错误或邮箱已注册"
// @Router /signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.Signup(req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.BadRequest(ctx, "Account already exists")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, "Signup successful")
}

// Login godoc
// @Summary 登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response "包含 user 与 token"
// @Failure 401 {object} util.Response "密码错误"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, token, err := c.AuthService.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, "User not found")
		return
	case errors.Is(err, util.ErrIncorrectPassword):
		util.Error(ctx, http.StatusUnauthorized, "Incorrect password")
		return
	case err != nil:
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, util.Response{
		Success: true,
		User:    user.Profile(),
		Token:   token,
	})
}
