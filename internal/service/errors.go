package service

import (
	"errors"

	"github.com/fyntrix/otpauth/internal/models"
)

var (
	ErrUnsupportedChallenge = errors.New("unsupported challenge kind")
	ErrInvalidPhoneNumber   = errors.New("invalid phone number")
	ErrUserNotFound         = errors.New("user not found")
	ErrSessionExpired       = models.ErrSessionExpired
	ErrAttemptsExhausted    = errors.New("authentication failed")
)
