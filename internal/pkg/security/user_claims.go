package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTSecret         string = "hitoiki"
	JWTExpirationTime        = time.Hour * 24
)

// UserClaims Token 中携带的身份信息。
// UserID 是身份提供方下发的不透明字符串 ID，本服务不做账号体系。
type UserClaims struct {
	UserID   string   `json:"user_id"`
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}
