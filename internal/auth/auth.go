// server/internal/auth/auth.go
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Role        string `json:"role"`
	WarehouseID string `json:"warehouseId"`
	jwt.RegisteredClaims
}

// JwtSecret được gán từ config lúc khởi động (cmd/api/main.go).
var JwtSecret = []byte("YOUR_SUPER_SECRET_KEY")

// GenerateJWT phát hành token phiên làm việc cho dashboard.
// Kho nguồn của phiên nằm trong claim warehouseId và cố định suốt phiên.
func GenerateJWT(email, fullName, role, warehouseID string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)
	claims := &JWTClaims{
		Email:       email,
		FullName:    fullName,
		Role:        role,
		WarehouseID: warehouseID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtSecret)
}

// ParseToken kiểm tra chữ ký và hạn của token, trả về claims.
func ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
