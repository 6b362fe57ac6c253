package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/types"
)

const sessionKeyPrefix = "session:"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// SessionService keeps login sessions in Redis. The client holds a signed
// token naming the session; the server record is the source of truth.
type SessionService struct {
	redis  *redis.Client
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ ISessionService = (*SessionService)(nil)

// NewSessionService creates a new SessionService instance
func NewSessionService(client *redis.Client, secret string, ttl time.Duration) *SessionService {
	return &SessionService{
		redis:  client,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns how long a session lives
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create opens a session bound to email and returns its token
func (s *SessionService) Create(ctx context.Context, email string) (string, error) {
	id := uuid.NewString()
	if err := s.redis.Set(ctx, sessionKeyPrefix+id, email, s.ttl).Err(); err != nil {
		return "", apperr.Internal(fmt.Errorf("store session: %w", err))
	}

	now := s.now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		SessionID: id,
		Email:     email,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("sign session: %w", err))
	}
	return token, nil
}

func (s *SessionService) parse(token string) (*types.SessionClaims, error) {
	claims := &types.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Resolve returns the email of a live session
func (s *SessionService) Resolve(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired session")
	}

	email, err := s.redis.Get(ctx, sessionKeyPrefix+claims.SessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.Unauthorized("Invalid or expired session")
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("load session: %w", err))
	}
	if email != claims.Email {
		return "", apperr.Unauthorized("Invalid or expired session")
	}
	return email, nil
}

// Destroy removes the session named by token
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired session")
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+claims.SessionID).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("delete session: %w", err))
	}
	return nil
}
