package handlers

import (
	"net/http"

	"github.com/fyntrix/otpauth/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	TriggerKey string
}

func NewRouter(
	authHandlers *AuthHandlers,
	triggerHandlers *TriggerHandlers,
	authMiddleware *middleware.AuthMiddleware,
	cfg RouterConfig,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "OPTIONS")

	api := router.PathPrefix("/api/v1").Subrouter()

	triggers := api.PathPrefix("/triggers").Subrouter()
	triggers.Use(middleware.RequireTriggerKey(cfg.TriggerKey, logger))
	triggers.HandleFunc("/define-auth-challenge", triggerHandlers.DefineAuthChallenge).Methods("POST", "OPTIONS")
	triggers.HandleFunc("/create-auth-challenge", triggerHandlers.CreateAuthChallenge).Methods("POST", "OPTIONS")
	triggers.HandleFunc("/verify-auth-challenge", triggerHandlers.VerifyAuthChallenge).Methods("POST", "OPTIONS")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/initiate", authHandlers.InitiateAuth).Methods("POST", "OPTIONS")
	auth.HandleFunc("/respond", authHandlers.RespondToChallenge).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("/").Subrouter()
	protected.Use(authMiddleware.RequireAuth)
	protected.HandleFunc("/me", authHandlers.Me).Methods("GET", "OPTIONS")

	return router
}
