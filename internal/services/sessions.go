package services

import (
	"Reviv/internal/clock"
	"Reviv/internal/config"
	"Reviv/internal/middlewares"
	"Reviv/utils"
	"context"
	"fmt"

	"github.com/The127/ioc"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

type TokenPair struct {
	Access  string
	Refresh string
}

// SessionService is the sole producer of session credentials. Access tokens
// are stateless and verified by signature alone; nothing is persisted.
type SessionService interface {
	Issue(ctx context.Context, principalId uuid.UUID) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	VerifyAccessToken(tokenString string) (uuid.UUID, error)
}

type sessionService struct {
}

func NewSessionService() SessionService {
	return &sessionService{}
}

func (s *sessionService) Issue(ctx context.Context, principalId uuid.UUID) (TokenPair, error) {
	scope := middlewares.GetScope(ctx)
	clockService := ioc.GetDependency[clock.Service](scope)
	now := clockService.Now()

	access, err := signToken(jwt.MapClaims{
		"sub": principalId.String(),
		"iss": config.C.Jwt.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(config.C.Jwt.AccessTokenLifetime).Unix(),
		"typ": accessTokenType,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("signing access token: %w", err)
	}

	refresh, err := signToken(jwt.MapClaims{
		"sub": principalId.String(),
		"iss": config.C.Jwt.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(config.C.Jwt.RefreshTokenLifetime).Unix(),
		"typ": refreshTokenType,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("signing refresh token: %w", err)
	}

	return TokenPair{
		Access:  access,
		Refresh: refresh,
	}, nil
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	principalId, err := verifyToken(refreshToken, refreshTokenType)
	if err != nil {
		return "", err
	}

	scope := middlewares.GetScope(ctx)
	clockService := ioc.GetDependency[clock.Service](scope)
	now := clockService.Now()

	access, err := signToken(jwt.MapClaims{
		"sub": principalId.String(),
		"iss": config.C.Jwt.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(config.C.Jwt.AccessTokenLifetime).Unix(),
		"typ": accessTokenType,
	})
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}

	return access, nil
}

func (s *sessionService) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	return verifyToken(tokenString, accessTokenType)
}

func signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["typ"] = "at+jwt"
	return token.SignedString([]byte(config.C.Jwt.Secret))
}

func verifyToken(tokenString string, expectedType string) (uuid.UUID, error) {
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			return []byte(config.C.Jwt.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.C.Jwt.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing token: %w: %w", err, utils.ErrInvalidToken)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, utils.ErrInvalidToken
	}

	if typ, _ := claims["typ"].(string); typ != expectedType {
		return uuid.Nil, fmt.Errorf("unexpected token type %q: %w", typ, utils.ErrInvalidToken)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("reading subject: %w: %w", err, utils.ErrInvalidToken)
	}

	principalId, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing subject: %w: %w", err, utils.ErrInvalidToken)
	}

	return principalId, nil
}
