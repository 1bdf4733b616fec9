package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fyntrix/otpauth/internal/middleware"
	"github.com/fyntrix/otpauth/internal/models"
	"github.com/fyntrix/otpauth/internal/service"
	"github.com/sirupsen/logrus"
)

type AuthHandlers struct {
	directory *service.Directory
	logger    *logrus.Logger
}

func NewAuthHandlers(directory *service.Directory, logger *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{
		directory: directory,
		logger:    logger,
	}
}

// InitiateAuthRequest carries the phone number to log in with, either in
// international form ("+919876543210") or as a national number of the
// configured default region ("9876543210").
type InitiateAuthRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type ChallengeResponse struct {
	Session             string            `json:"session"`
	ChallengeName       string            `json:"challenge_name"`
	ChallengeParameters map[string]string `json:"challenge_parameters"`
	AttemptsRemaining   int               `json:"attempts_remaining"`
}

type RespondToChallengeRequest struct {
	Session string `json:"session"`
	Answer  string `json:"answer"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *AuthHandlers) InitiateAuth(w http.ResponseWriter, r *http.Request) {
	var req InitiateAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.directory.BeginLogin(r.Context(), req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhoneNumber):
			respondWithError(w, http.StatusBadRequest, "INVALID_PHONE", "Invalid phone number format")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		default:
			h.logger.WithError(err).Error("Failed to initiate auth")
			respondWithError(w, http.StatusInternalServerError, "INITIATE_FAILED", "Failed to start authentication")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, challengeResponse(result))
}

func (h *AuthHandlers) RespondToChallenge(w http.ResponseWriter, r *http.Request) {
	var req RespondToChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Session) == "" {
		respondWithError(w, http.StatusBadRequest, "MISSING_SESSION", "Session is required")
		return
	}

	result, err := h.directory.SubmitAnswer(r.Context(), req.Session, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionExpired):
			respondWithError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Authentication session expired")
		case errors.Is(err, service.ErrAttemptsExhausted):
			respondWithError(w, http.StatusUnauthorized, "AUTH_FAILED", "Authentication failed")
		default:
			h.logger.WithError(err).Error("Failed to respond to challenge")
			respondWithError(w, http.StatusInternalServerError, "CHALLENGE_RESPONSE_FAILED", "Failed to process answer")
		}
		return
	}

	if result.Decision == models.DecisionIssueTokens {
		respondWithJSON(w, http.StatusOK, result.Tokens)
		return
	}

	respondWithJSON(w, http.StatusOK, challengeResponse(result))
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"phone": claims.Phone})
}

func challengeResponse(result *service.LoginResult) ChallengeResponse {
	return ChallengeResponse{
		Session:             result.SessionID,
		ChallengeName:       string(models.ChallengeKindCustom),
		ChallengeParameters: result.ChallengeParameters,
		AttemptsRemaining:   result.AttemptsRemaining,
	}
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
