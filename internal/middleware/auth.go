package middleware

import (
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func bearerToken(c *gin.Context) string {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if tokenString == "" {
		tokenString = c.Query("token")
	}
	return tokenString
}

// IdentityMiddleware 校验外部身份令牌并把 Subject 放入上下文；secret 为空时不校验
func IdentityMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil || claims.Subject == "" {
			logger.Log.Debug("Rejected identity token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextIdentity, claims.Subject)
		c.Next()
	}
}

// AdminMiddleware 仅允许配置中的管理员身份；未启用身份校验时放行
func AdminMiddleware(secret string, adminSubjects []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(adminSubjects))
	for _, s := range adminSubjects {
		allowed[s] = true
	}

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if !allowed[util.GetIdentity(c)] {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
