package ai

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/femakin/CodePullAI/internal/domain"
)

// DefaultMaxRetries is the number of extra attempts after the first review call.
const DefaultMaxRetries = 2

// Service turns file changes into review comments by prompting an LLM
// backend and decoding its output.
type Service struct {
	provider   Provider
	maxRetries int
	backoff    func(attempt int) time.Duration
	logger     *zap.Logger
}

func NewService(provider Provider, maxRetries int, logger *zap.Logger) *Service {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Service{
		provider:   provider,
		maxRetries: maxRetries,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
		logger: logger,
	}
}

// Review performs a single review call. An empty result is not an error: a
// clean change may legitimately produce no feedback.
func (s *Service) Review(ctx context.Context, files []domain.FileChange, prTitle string) ([]domain.ReviewComment, error) {
	prompt := BuildPrompt(files, prTitle)

	text, err := s.provider.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return ParseReview(text), nil
}

// ReviewWithRetry calls Review up to maxRetries+1 times, with linear backoff
// between attempts. Empty results and transient errors trigger a retry;
// fatal configuration errors short-circuit. Errors never propagate past this
// boundary: exhaustion yields an empty result.
func (s *Service) ReviewWithRetry(ctx context.Context, files []domain.FileChange, prTitle string) []domain.ReviewComment {
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		comments, err := s.Review(ctx, files, prTitle)
		if err != nil {
			s.logger.Error("AI review attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if IsFatal(err) {
				s.logger.Error("not retrying due to configuration/format error")
				return nil
			}
			if attempt == s.maxRetries {
				s.logger.Error("all AI review attempts failed",
					zap.Int("attempts", s.maxRetries+1),
					zap.String("pr_title", prTitle),
				)
				return nil
			}
		} else if len(comments) > 0 {
			return comments
		} else {
			s.logger.Info("AI review attempt returned empty results",
				zap.Int("attempt", attempt+1),
			)
		}

		if attempt < s.maxRetries {
			delay := s.backoff(attempt + 1)
			s.logger.Info("retrying AI review", zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
		}
	}

	return nil
}
