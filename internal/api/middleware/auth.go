package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kandidou391-dotcom/pfe/internal/model"
	"github.com/kandidou391-dotcom/pfe/pkg/jwt"
	"github.com/kandidou391-dotcom/pfe/pkg/redis"
	"github.com/kandidou391-dotcom/pfe/pkg/response"
)

// 上下文键
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// rdb 非 nil 时检查 Token 黑名单；Redis 出错时降级放行
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Unauthorized(c, response.CodeUnauthenticated, "缺少认证头")
			c.Abort()
			return
		}
		if !authenticate(c, jwtMgr, rdb) {
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth 可选认证中间件
// 无认证头时以匿名身份放行；携带认证头时与 JWTAuth 相同，无效 Token 返回 401
func OptionalJWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !authenticate(c, jwtMgr, rdb) {
			return
		}
		c.Next()
	}
}

// authenticate 校验 Token 并注入 user_id / role（规范化角色）；失败时已写入响应
func authenticate(c *gin.Context, jwtMgr *jwt.Manager, rdb *redis.Client) bool {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c, response.CodeUnauthenticated, "认证头格式无效")
		c.Abort()
		return false
	}

	claims, err := jwtMgr.ParseToken(parts[1])
	if err != nil {
		response.Unauthorized(c, response.CodeUnauthenticated, "Token 无效或已过期")
		c.Abort()
		return false
	}

	if claims.TokenType != jwt.TokenTypeAccess {
		response.Unauthorized(c, response.CodeUnauthenticated, "Token 类型无效")
		c.Abort()
		return false
	}

	if rdb != nil && claims.ID != "" {
		if revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
			response.Unauthorized(c, response.CodeUnauthenticated, "Token 已注销")
			c.Abort()
			return false
		}
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, string(model.ParseRole(claims.Role)))
	return true
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一（存储值与英文名等价）
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			response.Unauthorized(c, response.CodeUnauthenticated, "未认证")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if model.ParseRole(userRole) == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, "无权限访问")
		c.Abort()
	}
}
