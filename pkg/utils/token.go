package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ContextKey types the values the JWT middleware stores on the request
// context, so handlers read identity explicitly instead of via globals.
type ContextKey string

func SignToken(userID int, username string) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")

	claims := jwt.MapClaims{
		"uid":  userID,
		"user": username,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", ErrorHandler(err, "failed to sign token")
	}
	return tokenString, nil
}
