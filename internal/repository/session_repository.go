package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fyntrix/otpauth/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	sessionKeyPrefix  = "login_session:"
	maxUpdateAttempts = 20
)

var ErrSessionContention = errors.New("login session update contention")

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SessionRepository keeps login sessions in Redis. The key TTL is the time
// left until the session's absolute expiry, so saving never extends it.
type SessionRepository struct {
	client redis.UniversalClient
	logger *logrus.Logger
	now    func() time.Time
}

func NewSessionRepository(client redis.UniversalClient, logger *logrus.Logger) *SessionRepository {
	return &SessionRepository{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *models.LoginSession) error {
	ttl, dataJSON, err := r.encode(session)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), dataJSON, ttl).Err(); err != nil {
		r.logger.WithError(err).Error("Failed to store login session in Redis")
		return fmt.Errorf("failed to store login session: %w", err)
	}

	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.LoginSession, error) {
	return r.load(ctx, r.client, id)
}

// Update runs fn against the stored session inside a WATCH transaction and
// writes the result back only if nobody else changed the key meanwhile.
// fn sees nil when the session does not exist and may run more than once.
// Returning keep=false deletes the session; an error aborts without writing.
func (r *SessionRepository) Update(ctx context.Context, id string, fn func(session *models.LoginSession) (bool, error)) error {
	key := sessionKey(id)

	txf := func(tx *redis.Tx) error {
		session, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}

		keep, err := fn(session)
		if err != nil {
			return err
		}

		if !keep || session == nil {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}

		ttl, dataJSON, err := r.encode(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, dataJSON, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	r.logger.WithField("session_id", id).Warn("Login session update gave up after repeated conflicts")
	return ErrSessionContention
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete login session: %w", err)
	}
	return nil
}

func (r *SessionRepository) load(ctx context.Context, client stringGetter, id string) (*models.LoginSession, error) {
	dataJSON, err := client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to get login session from Redis")
		return nil, fmt.Errorf("failed to get login session: %w", err)
	}

	var session models.LoginSession
	if err := json.Unmarshal([]byte(dataJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login session: %w", err)
	}

	return &session, nil
}

func (r *SessionRepository) encode(session *models.LoginSession) (time.Duration, []byte, error) {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return 0, nil, fmt.Errorf("%w: %s", models.ErrSessionExpired, session.ID)
	}

	dataJSON, err := json.Marshal(session)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal login session: %w", err)
	}
	return ttl, dataJSON, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
