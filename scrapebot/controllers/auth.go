package controllers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"scrapebot/config"
)

type AuthController struct {
	cfg config.Config
}

func NewAuthController(cfg config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

// IssueToken signs a 24h client token. There is no user store; any non-empty
// client id gets a token.
func (c *AuthController) IssueToken(clientID string) (string, error) {
	if clientID == "" {
		return "", errors.New("client_id is required")
	}
	claims := jwt.MapClaims{
		"client_id": clientID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
