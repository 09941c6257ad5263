package githubapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/femakin/CodePullAI/internal/domain"
)

// Diff source modes. The API mode asks the pulls endpoint for the diff media
// type; the diff_url mode fetches the payload's diff_url directly.
const (
	DiffSourceAPI     = "api"
	DiffSourceDiffURL = "diff_url"
)

// DiffFetcher retrieves a pull request's unified diff with an installation
// token.
type DiffFetcher struct {
	source     string
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewDiffFetcher(source string, logger *zap.Logger) *DiffFetcher {
	if source != DiffSourceDiffURL {
		source = DiffSourceAPI
	}
	client := httpcache.NewMemoryCacheTransport().Client()
	client.Timeout = 60 * time.Second
	return &DiffFetcher{
		source:     source,
		httpClient: client,
		logger:     logger,
	}
}

// NewDiffFetcherWithBaseURL overrides the GitHub API base URL. Intended for
// tests against an httptest server.
func NewDiffFetcherWithBaseURL(source, baseURL string, logger *zap.Logger) *DiffFetcher {
	f := NewDiffFetcher(source, logger)
	f.baseURL = baseURL
	return f
}

func (f *DiffFetcher) Fetch(ctx context.Context, target domain.ReviewTarget, token string) (string, error) {
	f.logger.Debug("fetching diff",
		zap.String("source", f.source),
		zap.String("repo", target.Repo),
		zap.Int("pr", target.PRNumber),
	)
	if f.source == DiffSourceDiffURL {
		return f.fetchDiffURL(ctx, target.DiffUrl, token)
	}
	return f.fetchAPI(ctx, target, token)
}

func (f *DiffFetcher) fetchAPI(ctx context.Context, target domain.ReviewTarget, token string) (string, error) {
	owner, repo, err := splitRepo(target.Repo)
	if err != nil {
		return "", err
	}

	client := github.NewClient(f.httpClient).WithAuthToken(token)
	if f.baseURL != "" {
		u, err := url.Parse(f.baseURL)
		if err != nil {
			return "", fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
	}

	diff, _, err := client.PullRequests.GetRaw(ctx, owner, repo, target.PRNumber,
		github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("fetching diff for %s #%d: %w", target.Repo, target.PRNumber, err)
	}
	return diff, nil
}

func (f *DiffFetcher) fetchDiffURL(ctx context.Context, diffURL, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, diffURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating diff request: %w", err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github.v3.diff")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching diff: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch diff: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading diff body: %w", err)
	}
	return string(body), nil
}

func splitRepo(fullName string) (owner, repo string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository full name %q", fullName)
	}
	return parts[0], parts[1], nil
}
