package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fyntrix/otpauth/internal/models"
	"github.com/fyntrix/otpauth/internal/phone"
	"github.com/sirupsen/logrus"
)

const defaultDeliveryTimeout = 30 * time.Second

// DeliveryGateway sends a message to a destination address.
type DeliveryGateway interface {
	Send(ctx context.Context, destination, message string) error
}

type IssuerConfig struct {
	Brand           string
	CodeLifetime    time.Duration
	DeliveryTimeout time.Duration
	DefaultRegion   string
}

// Issuer mints a fresh challenge per call and makes one delivery attempt.
// Delivery is best effort: its failures are logged and never returned.
type Issuer struct {
	generator CodeGenerator
	gateway   DeliveryGateway
	cfg       IssuerConfig
	logger    *logrus.Logger
}

func NewIssuer(generator CodeGenerator, gateway DeliveryGateway, cfg IssuerConfig, logger *logrus.Logger) *Issuer {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = defaultDeliveryTimeout
	}
	if cfg.Brand == "" {
		cfg.Brand = "Fyntrix"
	}
	return &Issuer{
		generator: generator,
		gateway:   gateway,
		cfg:       cfg,
		logger:    logger,
	}
}

func (i *Issuer) Issue(ctx context.Context, kind models.ChallengeKind, profile models.SubjectProfile) (*models.Challenge, error) {
	if kind != models.ChallengeKindCustom {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChallenge, kind)
	}

	code, err := i.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	destination := i.resolveDestination(profile)
	if destination == "" {
		i.logger.WithField("username", profile.Username).Warn("No phone number on profile, skipping code delivery")
	} else {
		i.deliver(ctx, destination, code)
	}

	return &models.Challenge{
		PublicParameters: map[string]string{"phone": phone.LastFour(destination)},
		Private:          models.PrivateParameters{Answer: code},
		Metadata:         models.OTPChallengeMetadata,
	}, nil
}

// CreateChallenge renders a challenge in the directory's response shape.
func (i *Issuer) CreateChallenge(ctx context.Context, kind models.ChallengeKind, profile models.SubjectProfile) (models.CreateAuthChallengeResponse, error) {
	ch, err := i.Issue(ctx, kind, profile)
	if err != nil {
		return models.CreateAuthChallengeResponse{}, err
	}
	return models.CreateAuthChallengeResponse{
		PublicChallengeParameters:  ch.PublicParameters,
		PrivateChallengeParameters: ch.Private.Map(),
		ChallengeMetadata:          ch.Metadata,
	}, nil
}

func (i *Issuer) resolveDestination(profile models.SubjectProfile) string {
	raw := profile.PhoneNumber
	if raw == "" {
		raw = profile.Attributes["phone_number"]
	}
	if raw == "" {
		return ""
	}

	normalized, err := phone.Normalize(raw, i.cfg.DefaultRegion)
	if err != nil {
		i.logger.WithError(err).WithField("username", profile.Username).Warn("Unusable phone number on profile")
		return ""
	}
	return normalized
}

func (i *Issuer) deliver(ctx context.Context, destination, code string) {
	ctx, cancel := context.WithTimeout(ctx, i.cfg.DeliveryTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			i.logger.WithField("panic", r).Error("Delivery gateway panicked")
		}
	}()

	start := time.Now()
	err := i.gateway.Send(ctx, destination, i.message(code))
	fields := logrus.Fields{
		"phone":       phone.Mask(destination),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		i.logger.WithError(err).WithFields(fields).Error("Failed to deliver verification code")
		return
	}
	i.logger.WithFields(fields).Info("Verification code sent")
}

func (i *Issuer) message(code string) string {
	minutes := int(math.Ceil(i.cfg.CodeLifetime.Minutes()))
	if minutes < 1 {
		minutes = 3
	}
	return fmt.Sprintf("Your %s verification code is: %s. This code will expire in %d minutes.", i.cfg.Brand, code, minutes)
}
