package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/femakin/CodePullAI/internal/diff"
	"github.com/femakin/CodePullAI/internal/domain"
	"github.com/femakin/CodePullAI/internal/web"
)

// EventHeader is the webhook header naming the event type.
const EventHeader = "X-GitHub-Event"

// reviewedActions are the pull_request actions that trigger a review.
var reviewedActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
	"reopened":    true,
}

// TokenSource exchanges an installation id for a short-lived access token.
type TokenSource interface {
	InstallationToken(ctx context.Context, installationId int64) (string, error)
}

// DiffSource fetches a pull request's unified diff.
type DiffSource interface {
	Fetch(ctx context.Context, target domain.ReviewTarget, token string) (string, error)
}

// Reviewer produces review comments for a set of file changes.
type Reviewer interface {
	ReviewWithRetry(ctx context.Context, files []domain.FileChange, prTitle string) []domain.ReviewComment
}

// CommentPoster posts review comments to a pull request.
type CommentPoster interface {
	Publish(ctx context.Context, comments []domain.ReviewComment, commentsURL, token string) int
}

// WebhookController is the webhook gateway: it authenticates inbound
// deliveries, filters for reviewable pull-request events, and drives the
// token → diff → parse → review → publish pipeline. Downstream failures are
// logged, never surfaced to the webhook sender, so GitHub does not redeliver
// events the pipeline cannot recover by replaying.
type WebhookController struct {
	Secret          string
	Tokens          TokenSource
	Diffs           DiffSource
	Reviewer        Reviewer
	Publisher       CommentPoster
	PipelineTimeout time.Duration
}

func (ct *WebhookController) HandleWebhook(e echo.Context) error {
	logger := web.Logger(e)

	body, err := io.ReadAll(e.Request().Body)
	if err != nil {
		logger.Error("failed to read webhook body", zap.Error(err))
		return e.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read request body"})
	}

	if ct.Secret == "" {
		logger.Error("webhook secret is not configured")
		return e.JSON(http.StatusInternalServerError, map[string]string{"error": "webhook secret not configured"})
	}

	signature := e.Request().Header.Get(SignatureHeader)
	if !VerifySignature(ct.Secret, body, signature) {
		logger.Warn("webhook signature verification failed")
		return e.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
	}

	// Parse JSON only after the signature gate.
	if e.Request().Header.Get(EventHeader) != "pull_request" {
		return e.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	var event domain.PullRequestEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("failed to parse webhook payload", zap.Error(err))
		return e.JSON(http.StatusInternalServerError, map[string]string{"error": "invalid payload"})
	}

	if !reviewedActions[event.Action] || event.Installation == nil {
		logger.Info("ignoring pull_request event",
			zap.String("action", event.Action),
			zap.Bool("has_installation", event.Installation != nil),
		)
		return e.JSON(http.StatusOK, map[string]bool{"success": true})
	}

	ct.processCodeReview(logger, domain.NewReviewTarget(event))

	return e.JSON(http.StatusOK, map[string]bool{"success": true})
}

// processCodeReview runs the review pipeline for one pull request under its
// own bounded context. Every early exit is a valid terminal state; nothing
// escapes to the webhook response.
func (ct *WebhookController) processCodeReview(logger *zap.Logger, target domain.ReviewTarget) {
	timeout := ct.PipelineTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger = logger.With(
		zap.String("repo", target.Repo),
		zap.Int("pr", target.PRNumber),
	)

	token, err := ct.Tokens.InstallationToken(ctx, target.InstallationId)
	if err != nil {
		logger.Error("failed to get installation token", zap.Error(err))
		return
	}

	diffText, err := ct.Diffs.Fetch(ctx, target, token)
	if err != nil {
		logger.Error("failed to fetch diff", zap.Error(err))
		return
	}

	files := diff.Parse(diffText)
	if len(files) == 0 {
		logger.Info("no reviewable changes in diff")
		return
	}

	comments := ct.Reviewer.ReviewWithRetry(ctx, files, target.PRTitle)
	if len(comments) == 0 {
		logger.Info("no AI review comments generated")
		return
	}

	posted := ct.Publisher.Publish(ctx, comments, target.CommentsUrl, token)
	logger.Info("AI review completed",
		zap.Int("comments", len(comments)),
		zap.Int("posted", posted),
	)
}
