package auth

import (
	"fmt"
	"time"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/golang-jwt/jwt/v4"
)

// Claims - полезная нагрузка сессионного токена
type Claims struct {
	UserID uint
	Email  string
}

// TokenManager подписывает и проверяет сессионные JWT (HS256).
// Секрет и срок жизни приходят из конфигурации, не из окружения
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Issue(userID uint, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Parse валидирует токен (подпись, срок жизни) и достает claims
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized("invalid token claims")
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperr.Unauthorized("invalid token claims")
	}

	email, _ := claims["email"].(string)

	return &Claims{UserID: uint(idFloat), Email: email}, nil
}
