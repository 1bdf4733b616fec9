package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fyntrix/otpauth/internal/models"
	"github.com/fyntrix/otpauth/internal/phone"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionStore persists login sessions until they expire. Get returns nil
// without error when the session does not exist. Update applies fn to the
// stored session atomically: fn sees nil for a missing session, keep=false
// deletes it, and an error from fn aborts without writing. fn may run more
// than once when concurrent updates conflict.
type SessionStore interface {
	Save(ctx context.Context, session *models.LoginSession) error
	Get(ctx context.Context, id string) (*models.LoginSession, error)
	Update(ctx context.Context, id string, fn func(session *models.LoginSession) (keep bool, err error)) error
	Delete(ctx context.Context, id string) error
}

// UserStore resolves subject profiles. GetByPhoneNumber returns nil without
// error when the user does not exist.
type UserStore interface {
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error)
	GetOrCreate(ctx context.Context, phoneNumber string) (*models.User, error)
}

type TokenIssuer interface {
	IssueTokens(phoneNumber string) (*models.TokenPair, error)
}

type LoginResult struct {
	SessionID           string
	Decision            models.Decision
	ChallengeParameters map[string]string
	Tokens              *models.TokenPair
	AttemptsRemaining   int
}

type DirectoryConfig struct {
	SessionTTL    time.Duration
	AutoProvision bool
	DefaultRegion string
}

// Directory is the reference identity directory. It owns the login session
// (history and hashed code) and drives the orchestrator, issuer and verifier
// in turn. Every submission consumes an attempt atomically, so concurrent
// submissions never exceed the attempt cap. A wrong answer spends the code;
// when re-issues race, the last stored code wins.
type Directory struct {
	orchestrator *Orchestrator
	issuer       *Issuer
	sessions     SessionStore
	users        UserStore
	tokens       TokenIssuer
	cfg          DirectoryConfig
	logger       *logrus.Logger
	now          func() time.Time
}

func NewDirectory(
	orchestrator *Orchestrator,
	issuer *Issuer,
	sessions SessionStore,
	users UserStore,
	tokens TokenIssuer,
	cfg DirectoryConfig,
	logger *logrus.Logger,
) *Directory {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 3 * time.Minute
	}
	return &Directory{
		orchestrator: orchestrator,
		issuer:       issuer,
		sessions:     sessions,
		users:        users,
		tokens:       tokens,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

func (d *Directory) BeginLogin(ctx context.Context, rawPhone string) (*LoginResult, error) {
	phoneNumber, err := phone.Normalize(rawPhone, d.cfg.DefaultRegion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhoneNumber, err)
	}

	user, err := d.lookupUser(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	if decision := d.orchestrator.Decide(nil); decision != models.DecisionIssueChallenge {
		return &LoginResult{Decision: decision}, ErrAttemptsExhausted
	}

	ch, err := d.issuer.Issue(ctx, models.ChallengeKindCustom, user.Profile())
	if err != nil {
		return nil, err
	}

	hash, err := HashAnswer(ch.Private.Answer)
	if err != nil {
		return nil, err
	}

	now := d.now()
	session := &models.LoginSession{
		ID:         uuid.New().String(),
		Subject:    phoneNumber,
		History:    []models.ChallengeRecord{},
		AnswerHash: hash,
		Public:     ch.PublicParameters,
		CreatedAt:  now,
		ExpiresAt:  now.Add(d.cfg.SessionTTL),
	}

	if err := d.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save login session: %w", err)
	}

	d.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"phone":      phone.Mask(phoneNumber),
	}).Info("Login challenge issued")

	return &LoginResult{
		SessionID:           session.ID,
		Decision:            models.DecisionIssueChallenge,
		ChallengeParameters: ch.PublicParameters,
		AttemptsRemaining:   d.orchestrator.MaxAttempts(),
	}, nil
}

func (d *Directory) SubmitAnswer(ctx context.Context, sessionID, answer string) (*LoginResult, error) {
	failed := &LoginResult{SessionID: sessionID, Decision: models.DecisionFailAuthentication}

	var (
		correct  bool
		decision models.Decision
		attempts int
		subject  string
	)
	now := d.now()
	err := d.sessions.Update(ctx, sessionID, func(session *models.LoginSession) (bool, error) {
		if session == nil || session.Expired(now) {
			return false, ErrSessionExpired
		}

		correct = VerifyAnswerHash(session.AnswerHash, answer)
		session.History = append(session.History, models.NewChallengeRecord(models.ChallengeKindCustom, correct))
		session.AnswerHash = ""

		decision = d.orchestrator.Decide(session.History)
		attempts = len(session.History)
		subject = session.Subject
		return decision == models.DecisionIssueChallenge, nil
	})
	if errors.Is(err, ErrSessionExpired) {
		d.discard(ctx, sessionID)
		return failed, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update login session: %w", err)
	}

	log := d.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"attempt":    attempts,
		"correct":    correct,
		"decision":   decision.String(),
	})

	switch decision {
	case models.DecisionIssueTokens:
		tokens, err := d.tokens.IssueTokens(subject)
		if err != nil {
			return nil, fmt.Errorf("failed to issue tokens: %w", err)
		}
		log.Info("Login succeeded")
		return &LoginResult{SessionID: sessionID, Decision: decision, Tokens: tokens}, nil

	case models.DecisionIssueChallenge:
		result, err := d.reissue(ctx, sessionID, subject, attempts)
		if errors.Is(err, ErrSessionExpired) {
			log.Warn("Login session expired while issuing a new challenge")
			d.discard(ctx, sessionID)
			return failed, ErrSessionExpired
		}
		if err != nil {
			return nil, err
		}
		log.Info("Wrong answer, new challenge issued")
		return result, nil

	default:
		log.Warn("Login failed")
		return failed, ErrAttemptsExhausted
	}
}

// reissue sends a fresh code and stores its hash, provided the session is
// still alive once delivery has finished.
func (d *Directory) reissue(ctx context.Context, sessionID, subject string, attempts int) (*LoginResult, error) {
	profile := models.SubjectProfile{
		Username:    subject,
		PhoneNumber: subject,
	}
	ch, err := d.issuer.Issue(ctx, models.ChallengeKindCustom, profile)
	if err != nil {
		return nil, err
	}

	hash, err := HashAnswer(ch.Private.Answer)
	if err != nil {
		return nil, err
	}

	err = d.sessions.Update(ctx, sessionID, func(session *models.LoginSession) (bool, error) {
		if session == nil || session.Expired(d.now()) {
			return false, ErrSessionExpired
		}
		session.AnswerHash = hash
		session.Public = ch.PublicParameters
		return true, nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save login session: %w", err)
	}

	return &LoginResult{
		SessionID:           sessionID,
		Decision:            models.DecisionIssueChallenge,
		ChallengeParameters: ch.PublicParameters,
		AttemptsRemaining:   d.orchestrator.MaxAttempts() - attempts,
	}, nil
}

func (d *Directory) lookupUser(ctx context.Context, phoneNumber string) (*models.User, error) {
	if d.cfg.AutoProvision {
		return d.users.GetOrCreate(ctx, phoneNumber)
	}

	user, err := d.users.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (d *Directory) discard(ctx context.Context, sessionID string) {
	if err := d.sessions.Delete(ctx, sessionID); err != nil {
		d.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to delete login session")
	}
}
