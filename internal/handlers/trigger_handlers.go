package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fyntrix/otpauth/internal/models"
	"github.com/fyntrix/otpauth/internal/service"
	"github.com/sirupsen/logrus"
)

// TriggerHandlers serve the three custom-challenge calls an identity
// directory makes during a login. Each takes the directory's event, fills in
// its response section and returns the whole event.
type TriggerHandlers struct {
	orchestrator *service.Orchestrator
	issuer       *service.Issuer
	logger       *logrus.Logger
}

func NewTriggerHandlers(orchestrator *service.Orchestrator, issuer *service.Issuer, logger *logrus.Logger) *TriggerHandlers {
	return &TriggerHandlers{
		orchestrator: orchestrator,
		issuer:       issuer,
		logger:       logger,
	}
}

func (h *TriggerHandlers) DefineAuthChallenge(w http.ResponseWriter, r *http.Request) {
	var event models.DefineAuthChallengeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_EVENT", "Invalid trigger event")
		return
	}

	event.Response = h.orchestrator.DefineNextStep(models.History(event.Request.Session))

	h.logger.WithFields(logrus.Fields{
		"user":                event.UserName,
		"session_length":      len(event.Request.Session),
		"issue_tokens":        event.Response.IssueTokens,
		"fail_authentication": event.Response.FailAuthentication,
	}).Info("Defined next auth step")

	respondWithJSON(w, http.StatusOK, event)
}

func (h *TriggerHandlers) CreateAuthChallenge(w http.ResponseWriter, r *http.Request) {
	var event models.CreateAuthChallengeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_EVENT", "Invalid trigger event")
		return
	}

	kind := event.Request.ChallengeName
	if kind == "" {
		kind = models.ChallengeKindCustom
	}

	profile := models.SubjectProfile{
		Username:    event.UserName,
		PhoneNumber: event.Request.UserAttributes["phone_number"],
		Attributes:  event.Request.UserAttributes,
	}

	resp, err := h.issuer.CreateChallenge(r.Context(), kind, profile)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedChallenge) {
			respondWithError(w, http.StatusBadRequest, "UNSUPPORTED_CHALLENGE", "Unsupported challenge name")
			return
		}
		h.logger.WithError(err).Error("Failed to create auth challenge")
		respondWithError(w, http.StatusInternalServerError, "CHALLENGE_FAILED", "Failed to create challenge")
		return
	}
	event.Response = resp

	h.logger.WithFields(logrus.Fields{
		"user":     event.UserName,
		"metadata": resp.ChallengeMetadata,
	}).Info("Created auth challenge")

	respondWithJSON(w, http.StatusOK, event)
}

func (h *TriggerHandlers) VerifyAuthChallenge(w http.ResponseWriter, r *http.Request) {
	var event models.VerifyAuthChallengeEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_EVENT", "Invalid trigger event")
		return
	}

	expected := models.PrivateParametersFromMap(event.Request.PrivateChallengeParameters)
	event.Response.AnswerCorrect = service.VerifyAnswer(expected.Answer, event.Request.ChallengeAnswer)

	h.logger.WithFields(logrus.Fields{
		"user":           event.UserName,
		"answer_correct": event.Response.AnswerCorrect,
	}).Info("Verified auth challenge answer")

	// The event carries the private parameters; only the response goes back.
	event.Request.PrivateChallengeParameters = nil
	event.Request.ChallengeAnswer = ""
	respondWithJSON(w, http.StatusOK, event)
}
