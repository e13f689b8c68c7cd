package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/app/user"
	"taskboard/internal/providers/redis"
)

const userCacheTTL = 5 * time.Minute

type Service interface {
	CreateSession(name, email, userAgent string) (*Session, *user.User, error)
	GetSessionByKey(sessionKey string) (*Session, error)
	GetUserBySessionKey(sessionKey string) (*user.User, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
	redisP   *redis.RedisProvider
}

func NewService(repo Repository, userRepo user.Repository, redisP *redis.RedisProvider) Service {
	return &service{repo: repo, userRepo: userRepo, redisP: redisP}
}

func (s *service) CreateSession(name, email, userAgent string) (*Session, *user.User, error) {
	u, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		u = &user.User{
			Name:  name,
			Email: email,
		}
		if err := s.userRepo.CreateUser(u); err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	closedKeys, err := s.repo.CloseUserSessions(u.ID)
	if err == nil {
		s.invalidateUserCache(closedKeys)
	}

	sessionKey, err := generateSessionKey()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	session := &Session{
		SessionKey: sessionKey,
		UserAgent:  &userAgent,
		UserID:     u.ID,
		StartedAt:  time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateSession(session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, u, nil
}

func (s *service) GetSessionByKey(sessionKey string) (*Session, error) {
	return s.repo.GetSessionByKey(sessionKey)
}

func (s *service) GetUserBySessionKey(sessionKey string) (*user.User, error) {
	ctx := context.Background()
	cacheKey := userCacheKey(sessionKey)

	if s.redisP != nil {
		cached, err := s.redisP.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			var u user.User
			if json.Unmarshal([]byte(cached), &u) == nil {
				return &u, nil
			}
		}
	}

	session, err := s.repo.GetSessionByKey(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	u, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, err
	}

	if s.redisP != nil {
		if data, err := json.Marshal(u); err == nil {
			s.redisP.SetEX(ctx, cacheKey, data, userCacheTTL)
		}
	}

	return u, nil
}

func (s *service) invalidateUserCache(sessionKeys []string) {
	if s.redisP == nil || len(sessionKeys) == 0 {
		return
	}
	ctx := context.Background()
	for _, key := range sessionKeys {
		s.redisP.Del(ctx, userCacheKey(key))
	}
}

func userCacheKey(sessionKey string) string {
	return fmt.Sprintf("session:user:%s", sessionKey)
}

func generateSessionKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
