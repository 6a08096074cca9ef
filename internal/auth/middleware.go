package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/logging"
)

// extractToken 从请求中取出JWT令牌
// 优先读Authorization头，其次读token查询参数，后者供报表渲染器在页面URL里携带令牌
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", ErrInvalidAuthFormat
		}
		return parts[1], nil
	}

	if token := c.Query("token"); token != "" {
		return token, nil
	}

	return "", ErrNoAuthHeader
}

// JWTAuthMiddleware JWT认证中间件
func JWTAuthMiddleware(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": err.Error(),
			})
			c.Abort()
			return
		}

		// 验证令牌
		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			logging.DefaultLogger.LogSecurityEvent("token_rejected", c.ClientIP(), map[string]interface{}{
				"path":   c.FullPath(),
				"reason": err.Error(),
			}, "failure", "request rejected with invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": err.Error(),
			})
			c.Abort()
			return
		}

		// 将用户信息存储到上下文
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
