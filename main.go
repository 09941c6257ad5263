package main

import (
	"context"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/femakin/CodePullAI/internal"
	"github.com/femakin/CodePullAI/internal/ai"
	"github.com/femakin/CodePullAI/internal/githubapp"
	"github.com/femakin/CodePullAI/internal/publish"
	"github.com/femakin/CodePullAI/internal/web"
	"github.com/femakin/CodePullAI/internal/web/routes"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	logger.Info("starting server")

	_ = godotenv.Load()

	config, err := internal.LoadConfiguration()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	credentials, err := githubapp.NewCredentials(config.GithubAppId, config.GithubAppPrivateKey)
	if err != nil {
		logger.Fatal("failed to load GitHub App credentials", zap.Error(err))
	}

	provider, err := ai.NewProvider(ctx, ai.ProviderConfig{
		Provider:       config.AIProvider,
		BedrockModelId: config.BedrockModelId,
		AWSRegion:      config.AWSRegion,
		OpenAIToken:    config.OpenAIToken,
		OpenAIModel:    config.OpenAIModel,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize AI provider", zap.Error(err))
	}
	logger.Info("AI provider initialized", zap.String("provider", provider.Name()))

	webhook := &routes.WebhookController{
		Secret:    config.WebhookSecret,
		Tokens:    credentials,
		Diffs:     githubapp.NewDiffFetcher(config.DiffSource, logger),
		Reviewer:  ai.NewService(provider, config.MaxReviewRetries, logger),
		Publisher: publish.NewPublisher(logger),
	}

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(web.CreateAppContext(logger))
	e.Pre(middleware.AddTrailingSlash())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), routes.WebhookPath)
		},
		ErrorMessage: "request timeout",
		Timeout:      15 * time.Second,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.String("remoteip", v.RemoteIP),
				zap.String("requestid", v.RequestID),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.RequestID())

	routes.CreateRoutes(e, webhook)
	logger.Info("server started", zap.String("addr", config.ListenAddr))
	err = e.Start(config.ListenAddr)
	if err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
