package githubapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/femakin/CodePullAI/internal/domain"
)

const sampleDiff = "diff --git a/main.go b/main.go\n+++ b/main.go\n+added\n"

func TestFetch_APIMode(t *testing.T) {
	var gotPath, gotAccept, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(sampleDiff))
	}))
	defer srv.Close()

	f := NewDiffFetcherWithBaseURL(DiffSourceAPI, srv.URL+"/", zap.NewNop())
	target := domain.ReviewTarget{Repo: "octocat/hello", PRNumber: 7}

	diff, err := f.Fetch(context.Background(), target, "tok")
	require.NoError(t, err)
	assert.Equal(t, sampleDiff, diff)
	assert.Equal(t, "/repos/octocat/hello/pulls/7", gotPath)
	assert.Contains(t, gotAccept, "diff")
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestFetch_DiffURLMode(t *testing.T) {
	var gotAccept, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(sampleDiff))
	}))
	defer srv.Close()

	f := NewDiffFetcher(DiffSourceDiffURL, zap.NewNop())
	target := domain.ReviewTarget{Repo: "octocat/hello", PRNumber: 7, DiffUrl: srv.URL + "/pull/7.diff"}

	diff, err := f.Fetch(context.Background(), target, "tok")
	require.NoError(t, err)
	assert.Equal(t, sampleDiff, diff)
	assert.Equal(t, "application/vnd.github.v3.diff", gotAccept)
	assert.Equal(t, "token tok", gotAuth)
}

func TestFetch_DiffURLNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewDiffFetcher(DiffSourceDiffURL, zap.NewNop())
	target := domain.ReviewTarget{DiffUrl: srv.URL + "/pull/7.diff"}

	_, err := f.Fetch(context.Background(), target, "tok")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "404"))
}

func TestFetch_BadRepoName(t *testing.T) {
	f := NewDiffFetcher(DiffSourceAPI, zap.NewNop())
	_, err := f.Fetch(context.Background(), domain.ReviewTarget{Repo: "norepo"}, "tok")
	require.Error(t, err)
}

func TestNewDiffFetcher_DefaultsToAPI(t *testing.T) {
	assert.Equal(t, DiffSourceAPI, NewDiffFetcher("", zap.NewNop()).source)
	assert.Equal(t, DiffSourceAPI, NewDiffFetcher("bogus", zap.NewNop()).source)
	assert.Equal(t, DiffSourceDiffURL, NewDiffFetcher(DiffSourceDiffURL, zap.NewNop()).source)
}
