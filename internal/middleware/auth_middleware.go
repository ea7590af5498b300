package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/trivia-rooms/internal/service"
)

// IdentityClaims - клеймы токена внешнего identity-провайдера.
// Провайдер управляет учетными данными; сервис только проверяет подпись
// и лениво заводит локального пользователя по sub.
type IdentityClaims struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	jwt.RegisteredClaims
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	secretKey   []byte
	userService *service.UserService
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(secretKey string, userService *service.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		secretKey:   []byte(secretKey),
		userService: userService,
	}
}

// RequireAuth проверяет Bearer-токен и кладет внутренний user_id в контекст.
// Пользователь создается при первом появлении нового sub.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			c.Abort()
			return
		}

		claims, err := m.parseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		user, err := m.userService.GetOrCreate(claims.Subject, claims.Username, claims.AvatarURL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user", "error_type": "internal_server_error"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("username", user.Username)

		c.Next()
	}
}

// parseToken проверяет подпись HS256 и возвращает клеймы
func (m *AuthMiddleware) parseToken(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}

// extractBearerToken достает токен из заголовка Authorization или, для
// WebSocket-подключений, из query-параметра token (браузерный WebSocket
// API не позволяет выставлять заголовки)
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
