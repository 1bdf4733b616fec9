package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/fyntrix/otpauth/internal/config"
	"github.com/fyntrix/otpauth/internal/delivery"
	"github.com/fyntrix/otpauth/internal/handlers"
	"github.com/fyntrix/otpauth/internal/middleware"
	"github.com/fyntrix/otpauth/internal/repository"
	"github.com/fyntrix/otpauth/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dynamoClient, err := initDynamoDB(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB")
	}

	redisClient, err := initRedis(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize Redis")
	}
	defer redisClient.Close()

	gateway, err := initGateway(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize SMS delivery")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dynamoClient, cfg.DynamoDB.TableName, logger)
	sessionRepo := repository.NewSessionRepository(redisClient, logger)

	// Initialize services
	jwtService, err := service.NewJWTService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize JWT service")
	}

	orchestrator := service.NewOrchestrator(cfg.Challenge.MaxAttempts)
	issuer := service.NewIssuer(
		service.NewRandomCodeGenerator(),
		gateway,
		service.IssuerConfig{
			Brand:           cfg.Challenge.Brand,
			CodeLifetime:    cfg.Challenge.SessionTTL,
			DeliveryTimeout: cfg.Challenge.DeliveryTimeout,
			DefaultRegion:   cfg.Challenge.DefaultRegion,
		},
		logger,
	)
	directory := service.NewDirectory(
		orchestrator,
		issuer,
		sessionRepo,
		userRepo,
		jwtService,
		service.DirectoryConfig{
			SessionTTL:    cfg.Challenge.SessionTTL,
			AutoProvision: cfg.Challenge.AutoProvision,
			DefaultRegion: cfg.Challenge.DefaultRegion,
		},
		logger,
	)

	router := handlers.NewRouter(
		handlers.NewAuthHandlers(directory, logger),
		handlers.NewTriggerHandlers(orchestrator, issuer, logger),
		middleware.NewAuthMiddleware(jwtService, logger),
		handlers.RouterConfig{TriggerKey: cfg.Triggers.SharedKey},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":         cfg.Server.Port,
			"provider":     cfg.Delivery.Provider,
			"max_attempts": orchestrator.MaxAttempts(),
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func loadAWSConfig(region, endpoint string) (aws.Config, error) {
	if endpoint == "" {
		if region == "" {
			return awsconfig.LoadDefaultConfig(context.TODO())
		}
		return awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	}

	return awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, r string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:           endpoint,
					SigningRegion: region,
				}, nil
			})),
	)
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	awsCfg, err := loadAWSConfig(cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.Info("DynamoDB client initialized")
	return client, nil
}

func initRedis(cfg *config.Config, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Endpoint, err)
	}

	logger.WithField("addr", cfg.Redis.Endpoint).Info("Redis client initialized")
	return client, nil
}

func initGateway(cfg *config.Config, logger *logrus.Logger) (service.DeliveryGateway, error) {
	switch cfg.Delivery.Provider {
	case config.DeliveryProviderSNS:
		awsCfg, err := loadAWSConfig(cfg.Delivery.SNSRegion, cfg.Delivery.SNSEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		logger.Info("SNS SMS delivery enabled")
		return delivery.NewSNSGateway(sns.NewFromConfig(awsCfg), cfg.Delivery.SMSType, cfg.Delivery.SenderID, logger), nil
	case config.DeliveryProviderHTTP:
		logger.Info("HTTP SMS delivery enabled")
		return delivery.NewHTTPGateway(cfg.Delivery.HTTPAPIKey, cfg.Delivery.HTTPBaseURL), nil
	case config.DeliveryProviderLog:
		logger.Warn("SMS delivery disabled, codes are not sent")
		return delivery.NewLogGateway(logger), nil
	default:
		return nil, fmt.Errorf("unknown delivery provider %q", cfg.Delivery.Provider)
	}
}
