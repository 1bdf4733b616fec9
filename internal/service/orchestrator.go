package service

import (
	"github.com/fyntrix/otpauth/internal/models"
)

const DefaultMaxAttempts = 3

// Orchestrator decides the next step of a login attempt from its challenge
// history alone. It holds no state beyond its configuration.
type Orchestrator struct {
	maxAttempts int
}

func NewOrchestrator(maxAttempts int) *Orchestrator {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Orchestrator{maxAttempts: maxAttempts}
}

func (o *Orchestrator) MaxAttempts() int {
	return o.maxAttempts
}

// Decide issues a fresh challenge after every wrong answer until the history
// reaches the attempt cap. The cap wins over the content of the records, and
// anything it does not recognise fails the login.
func (o *Orchestrator) Decide(history []models.ChallengeRecord) models.Decision {
	if len(history) == 0 {
		return models.DecisionIssueChallenge
	}

	if len(history) >= o.maxAttempts {
		return models.DecisionFailAuthentication
	}

	for _, rec := range history {
		if rec.Kind != models.ChallengeKindCustom {
			return models.DecisionFailAuthentication
		}
	}

	last := history[len(history)-1]
	switch {
	case last.Succeeded == nil:
		return models.DecisionFailAuthentication
	case *last.Succeeded:
		return models.DecisionIssueTokens
	default:
		return models.DecisionIssueChallenge
	}
}

// DefineNextStep renders a decision in the directory's response shape.
func (o *Orchestrator) DefineNextStep(history []models.ChallengeRecord) models.DefineAuthChallengeResponse {
	switch o.Decide(history) {
	case models.DecisionIssueChallenge:
		return models.DefineAuthChallengeResponse{ChallengeName: models.ChallengeKindCustom}
	case models.DecisionIssueTokens:
		return models.DefineAuthChallengeResponse{IssueTokens: true}
	default:
		return models.DefineAuthChallengeResponse{FailAuthentication: true}
	}
}
