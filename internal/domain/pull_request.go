package domain

type PullRequestEvent struct {
	Action       string        `json:"action"`
	PullRequest  PullRequest   `json:"pull_request"`
	Repository   Repository    `json:"repository"`
	Installation *Installation `json:"installation"`
}

type GitHubUser struct {
	Login string `json:"login"`
	Id    int    `json:"id"`
	Url   string `json:"url"`
}

type PullRequest struct {
	Id          int        `json:"id"`
	Number      int        `json:"number"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	User        GitHubUser `json:"user"`
	HTMLUrl     string     `json:"html_url"`
	DiffUrl     string     `json:"diff_url"`
	CommentsUrl string     `json:"comments_url"`
}

type Repository struct {
	Id       int        `json:"id"`
	Name     string     `json:"name"`
	FullName string     `json:"full_name"`
	Owner    GitHubUser `json:"owner"`
}

type Installation struct {
	Id int64 `json:"id"`
}

// ReviewTarget carries everything the review pipeline needs for one pull
// request. It is built once from a validated webhook payload and never
// mutated afterwards.
type ReviewTarget struct {
	Repo           string
	PRNumber       int
	PRTitle        string
	DiffUrl        string
	CommentsUrl    string
	InstallationId int64
}

func NewReviewTarget(event PullRequestEvent) ReviewTarget {
	return ReviewTarget{
		Repo:           event.Repository.FullName,
		PRNumber:       event.PullRequest.Number,
		PRTitle:        event.PullRequest.Title,
		DiffUrl:        event.PullRequest.DiffUrl,
		CommentsUrl:    event.PullRequest.CommentsUrl,
		InstallationId: event.Installation.Id,
	}
}
