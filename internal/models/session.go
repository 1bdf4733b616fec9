package models

import (
	"errors"
	"time"
)

var ErrSessionExpired = errors.New("login session expired")

// LoginSession is one login attempt as persisted by the reference directory.
// The current code is kept only as a bcrypt hash; an empty hash means the
// last code was spent and no fresh one has been stored yet.
type LoginSession struct {
	ID         string            `json:"id"`
	Subject    string            `json:"subject"`
	History    []ChallengeRecord `json:"history"`
	AnswerHash string            `json:"answer_hash"`
	Public     map[string]string `json:"public"`
	CreatedAt  time.Time         `json:"created_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

func (s *LoginSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
