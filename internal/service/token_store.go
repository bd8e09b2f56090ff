package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// TokenStore is the access token allowlist. A signed token is only
// accepted while its id is present, which makes logout effective.
type TokenStore interface {
	Store(ctx context.Context, patientID int64, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, patientID int64, tokenID string) (bool, error)
	Revoke(ctx context.Context, patientID int64, tokenID string) error
	RevokeAll(ctx context.Context, patientID int64) error
}

type redisTokenStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewRedisTokenStore(redisClient *redis.Client, log *logrus.Logger) TokenStore {
	return &redisTokenStore{
		redisClient: redisClient,
		log:         log,
	}
}

func accessTokenKey(patientID int64, tokenID string) string {
	return fmt.Sprintf("access_token:%d:%s", patientID, tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, patientID int64, tokenID string, ttl time.Duration) error {
	if err := s.redisClient.Set(ctx, accessTokenKey(patientID, tokenID), "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store access token in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *redisTokenStore) Exists(ctx context.Context, patientID int64, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, accessTokenKey(patientID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, patientID int64, tokenID string) error {
	if err := s.redisClient.Del(ctx, accessTokenKey(patientID, tokenID)).Err(); err != nil {
		s.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}
	return nil
}

// RevokeAll drops every token of the patient, used when credentials change
func (s *redisTokenStore) RevokeAll(ctx context.Context, patientID int64) error {
	pattern := fmt.Sprintf("access_token:%d:*", patientID)

	iter := s.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warnf("Failed to scan access token keys: %+v", err)
		return err
	}

	if len(keys) > 0 {
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete access tokens: %+v", err)
			return err
		}
	}
	return nil
}
