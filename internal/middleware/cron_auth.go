package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"fashun-backend/internal/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CronAuth пускает только запросы с Authorization: Bearer <CRON_SECRET>.
// Внешним cron-платформам этого достаточно, пользовательской авторизации тут нет.
func CronAuth(secret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing Authorization header"))
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			log.Warn("cron auth rejected", zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}
		c.Next()
	}
}

// ExtractBearerToken извлекает токен из заголовка Authorization,
// устойчиво к лишним кавычкам по краям
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.TrimSpace(parts[1])
	t = strings.Trim(t, " \"'")
	return t, true
}
