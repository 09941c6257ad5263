// Package publish posts validated review comments back to a pull request.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/femakin/CodePullAI/internal/domain"
)

// Publisher posts each comment independently to the PR's comments endpoint.
// Posting is at-most-once and best-effort: an individual failure is logged
// and the remaining comments still go out.
type Publisher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type commentBody struct {
	Body string `json:"body"`
}

// PostComment issues one authenticated POST to the comments endpoint.
func (p *Publisher) PostComment(ctx context.Context, commentsURL string, comment domain.ReviewComment, token string) error {
	body := commentBody{
		Body: fmt.Sprintf("🤖 **AI Code Review** (%s priority)\n\n**File:** `%s`\n**Line:** `%s`\n\n%s",
			comment.Severity, comment.File, comment.Line, comment.Comment),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, commentsURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating comment request: %w", err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GitHub API error: %s", resp.Status)
	}
	return nil
}

// Publish posts every comment, tolerating individual failures, and returns
// the number that went through.
func (p *Publisher) Publish(ctx context.Context, comments []domain.ReviewComment, commentsURL, token string) int {
	posted := 0
	for i, comment := range comments {
		if err := p.PostComment(ctx, commentsURL, comment, token); err != nil {
			p.logger.Error("failed to post review comment",
				zap.Int("comment", i+1),
				zap.Int("total", len(comments)),
				zap.String("file", comment.File),
				zap.Error(err),
			)
			continue
		}
		posted++
	}
	return posted
}
