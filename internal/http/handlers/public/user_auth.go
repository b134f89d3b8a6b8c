package public

import (
	"github.com/mercado-next/internal/http/response"
	"github.com/mercado-next/internal/models"
	"github.com/mercado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	FullName         string `json:"full_name"`
	Role             string `json:"role"`
	StoreName        string `json:"store_name"`
	StoreDescription string `json:"store_description"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UserAuthService.Register(c.Request.Context(), service.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		FullName:         req.FullName,
		Role:             req.Role,
		StoreName:        req.StoreName,
		StoreDescription: req.StoreDescription,
	})
	if err != nil {
		respondRegisterError(c, err)
		return
	}
	response.Success(c, authResultPayload(result))
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		requestLog(c).Infow("user_login_failed", "email", req.Email, "client_ip", c.ClientIP(), "error", err)
		respondLoginError(c, err)
		return
	}
	response.Success(c, authResultPayload(result))
}

// UserLogout 退出登录，使当前用户已签发的 token 失效
func (h *Handler) UserLogout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(c.Request.Context(), uid); err != nil {
		respondAccountError(c, err)
		return
	}
	response.Success(c, gin.H{"signed_out": true})
}

// GetCurrentUser 当前用户资料与角色菜单
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.UserAuthService.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":       userPayload(profile.User),
		"navigation": profile.Navigation,
	})
}

// GetMyStore 卖家查看自己的店铺
func (h *Handler) GetMyStore(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	store, err := h.StoreService.GetByOwner(c.Request.Context(), uid)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	response.Success(c, store)
}

func authResultPayload(result *service.AuthResult) gin.H {
	return gin.H{
		"user":       userPayload(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"navigation": service.NavigationFor(result.User.Role),
	}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"full_name":     user.FullName,
		"role":          user.Role,
		"last_login_at": user.LastLoginAt,
	}
}
