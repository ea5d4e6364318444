package util

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 外部身份提供方签发的令牌，Subject 即外部用户 ID
type Claims struct {
	jwt.RegisteredClaims
}

func GenerateJWT(externalID, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GetIdentity 返回令牌中的外部用户 ID；未启用身份校验时为空
func GetIdentity(c *gin.Context) string {
	v, exists := c.Get(ContextIdentity)
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}

// CheckIdentity 启用身份校验时要求请求中的 userId 与令牌一致
func CheckIdentity(c *gin.Context, userID string) error {
	id := GetIdentity(c)
	if id == "" || id == userID {
		return nil
	}
	return ErrPermissionDenied
}
