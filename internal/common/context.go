package common

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prasetyo/storefront/internal/errors"
)

type jwtToken struct{}

func AttachJwtTokenToContext(c context.Context, token *jwt.Token) context.Context {
	return context.WithValue(c, jwtToken{}, token)
}

func JwtTokenFromContext(c context.Context) (*jwt.Token, error) {
	token, ok := c.Value(jwtToken{}).(*jwt.Token)
	if !ok {
		return nil, errors.ErrEmptyAuth
	}
	return token, nil
}
