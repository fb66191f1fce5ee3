package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	publicURL   string
}

func NewAuthHandler(authService *service.AuthService, publicURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		publicURL:   strings.TrimRight(publicURL, "/"),
	}
}

// Signup 用户注册
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, "Account created", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Signed in", resp)
}

// GithubLogin 跳转到 GitHub 授权页
// GET /api/v1/auth/github?redirect=/dashboard
func (h *AuthHandler) GithubLogin(c *gin.Context) {
	authURL, err := h.authService.GithubAuthURL(c.Request.Context(), safeRedirectPath(c.Query("redirect")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// GithubCallback GitHub 授权回调。配置了前端地址时带 token 跳回前端，否则返回 JSON
// GET /api/v1/auth/github/callback
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		response.ParamError(c, "GitHub authorization was denied")
		return
	}

	resp, redirect, err := h.authService.GithubCallback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}

	if h.publicURL == "" {
		response.Success(c, resp)
		return
	}
	if redirect == "" {
		redirect = "/"
	}
	target := h.publicURL + redirect
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusFound, target+sep+"token="+url.QueryEscape(resp.Token))
}
