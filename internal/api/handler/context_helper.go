package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sakshinde14/finalsp/internal/api/middleware"
	"github.com/sakshinde14/finalsp/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果会话中间件未注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextRole)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetUsername 从 Gin 上下文中安全提取 username。
func MustGetUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ContextUsername)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// SessionToken 取当前请求携带的会话 Token，未携带时返回空串
func SessionToken(c *gin.Context) string {
	if v, exists := c.Get(middleware.ContextToken); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
