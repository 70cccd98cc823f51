package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kandidou391-dotcom/pfe/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 仪表盘接口均为 GET：声明了超限 Content-Length 的请求直接拒绝，其余请求体按 maxBytes 截断读取
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBadRequest, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
