package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidRejoinKey = errors.New("invalid rejoin key")

type RejoinClaims struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ReconnectJWT signs keys that let a racer whose connection dropped get back into the
// room's broadcasts.
type ReconnectJWT struct {
	jwtSecret string
	validFor  time.Duration
}

func NewReconnectJWT(jwtSecret string, validFor time.Duration) *ReconnectJWT {
	return &ReconnectJWT{jwtSecret, validFor}
}

func (r ReconnectJWT) GenerateRejoinKey(roomID string, username string) (string, error) {
	claims := RejoinClaims{
		RoomID:   roomID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(r.validFor)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.jwtSecret))
}

func (r ReconnectJWT) ParseRejoinKey(tokenString string) (*RejoinClaims, error) {
	claims := &RejoinClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(r.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRejoinKey, err)
	}
	if claims.RoomID == "" || claims.Username == "" {
		return nil, ErrInvalidRejoinKey
	}
	return claims, nil
}
