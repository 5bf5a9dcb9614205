// internal/github/client.go
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/repolens/repolens/internal/model"
)

const apiBase = "https://api.github.com"

// Entry is one item from a directory listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file", "dir", "symlink", "submodule"
	Size int    `json:"size"`
}

// Commit carries the fields of a commit we care about.
type Commit struct {
	SHA        string
	AuthorDate time.Time
}

// Rate is a snapshot of the core API quota.
type Rate struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Client is a thin GitHub REST v3 client. All calls go through one
// http.Client so a RateLimitTransport can throttle globally, and every
// response's X-RateLimit headers are forwarded to the rate observer.
type Client struct {
	token    string
	baseURL  string
	client   *http.Client
	requests atomic.Int64
	onRate   func(Rate)

	loginOnce sync.Once
	login     string
	loginErr  error
}

// NewClient creates a client. An empty baseURL selects the public API;
// a nil http.Client gets a RateLimitTransport with retry only.
func NewClient(token, baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = apiBase
	}
	if client == nil {
		client = &http.Client{Transport: &RateLimitTransport{}}
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		client:  client,
	}
}

// OnRate registers a callback invoked with the quota snapshot parsed
// from each response. Must be set before concurrent use.
func (c *Client) OnRate(fn func(Rate)) {
	c.onRate = fn
}

// Requests returns the number of API requests issued so far.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

// get issues an authenticated GET and maps error statuses onto the
// package sentinels. The caller owns the response body on nil error.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	c.requests.Add(1)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github API request: %w", err)
	}
	c.observeRate(resp)

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	msg := errorMessage(resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		if strings.Contains(strings.ToLower(msg), "this repository is empty") {
			return nil, ErrEmptyRepository
		}
		return nil, ErrNotFound
	case http.StatusConflict:
		if strings.Contains(strings.ToLower(msg), "git repository is empty") {
			return nil, ErrNoCommits
		}
		return nil, fmt.Errorf("github API returned status 409: %s", msg)
	case http.StatusForbidden, http.StatusTooManyRequests:
		if strings.Contains(strings.ToLower(msg), "rate limit") {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, msg)
	default:
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, msg)
	}
}

func (c *Client) observeRate(resp *http.Response) {
	if c.onRate == nil {
		return
	}
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return
	}
	var r Rate
	r.Remaining, _ = strconv.Atoi(remaining)
	r.Limit, _ = strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	if epoch, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		r.Reset = time.Unix(epoch, 0).UTC()
	}
	c.onRate(r)
}

// errorMessage extracts the "message" field from an API error body.
func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Message
}

var linkNextRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

func parseLinkNext(header string) string {
	matches := linkNextRe.FindStringSubmatch(header)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

var linkLastPageRe = regexp.MustCompile(`<[^>]*[?&]page=(\d+)[^>]*>;\s*rel="last"`)

func parseLinkLastPage(header string) int {
	matches := linkLastPageRe.FindStringSubmatch(header)
	if len(matches) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(matches[1])
	return n
}

// ListOpts filters repository enumeration.
type ListOpts struct {
	IncludeForks    bool
	IncludeArchived bool
	Visibility      string // "all", "public", "private"
}

type apiRepo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`
	IsTemplate    bool   `json:"is_template"`
	DefaultBranch string `json:"default_branch"`
	CreatedAt     string `json:"created_at"`
	PushedAt      string `json:"pushed_at"`
	Description   string `json:"description"`
	Homepage      string `json:"homepage"`
	Size          int    `json:"size"`
	Stars         int    `json:"stargazers_count"`
	Forks         int    `json:"forks_count"`
	Watchers      int    `json:"watchers_count"`
	OpenIssues    int    `json:"open_issues_count"`
	HasWiki       bool   `json:"has_wiki"`
	Topics        []string `json:"topics"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
	License *struct {
		Name   string `json:"name"`
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

func (r apiRepo) toModel() model.Repo {
	repo := model.Repo{
		Name:          r.Name,
		FullName:      r.FullName,
		Owner:         r.Owner.Login,
		Private:       r.Private,
		DefaultBranch: r.DefaultBranch,
		Fork:          r.Fork,
		Archived:      r.Archived,
		Template:      r.IsTemplate,
		Description:   r.Description,
		Homepage:      r.Homepage,
		Topics:        r.Topics,
		Stars:         r.Stars,
		Forks:         r.Forks,
		Watchers:      r.Watchers,
		OpenIssues:    r.OpenIssues,
		HasWiki:       r.HasWiki,
		SizeKB:        r.Size,
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		repo.CreatedAt = t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, r.PushedAt); err == nil {
		repo.PushedAt = t.UTC()
	}
	if r.License != nil {
		repo.LicenseName = r.License.Name
		repo.LicenseSPDX = r.License.SPDXID
	}
	return repo
}

// authenticatedLogin resolves and caches the login of the token's own
// user.
func (c *Client) authenticatedLogin(ctx context.Context) (string, error) {
	c.loginOnce.Do(func() {
		resp, err := c.get(ctx, c.baseURL+"/user")
		if err != nil {
			c.loginErr = err
			return
		}
		defer resp.Body.Close()

		var payload struct {
			Login string `json:"login"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			c.loginErr = fmt.Errorf("decode authenticated user: %w", err)
			return
		}
		c.login = payload.Login
	})
	return c.login, c.loginErr
}

// ListRepos enumerates a user's repositories, handling Link header
// pagination. The token owner's account is listed through /user/repos
// so private repositories are included; any other account goes through
// the public per-user listing, where a missing account surfaces as
// ErrNotFound. The fork/archived/visibility filters are applied
// client-side so one code path serves all configurations.
func (c *Client) ListRepos(ctx context.Context, username string, opts ListOpts) ([]model.Repo, error) {
	visibility := opts.Visibility
	if visibility == "" {
		visibility = "all"
	}
	nextURL := fmt.Sprintf("%s/users/%s/repos?per_page=100&type=owner",
		c.baseURL, url.PathEscape(username))
	if c.token != "" {
		login, err := c.authenticatedLogin(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve authenticated user: %w", err)
		}
		if strings.EqualFold(login, username) {
			nextURL = fmt.Sprintf("%s/user/repos?per_page=100&affiliation=owner&visibility=%s",
				c.baseURL, url.QueryEscape(visibility))
		}
	}

	var all []model.Repo

	for nextURL != "" {
		resp, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		var page []apiRepo
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decode repo list: %w", err)
		}
		next := parseLinkNext(resp.Header.Get("Link"))
		resp.Body.Close()

		for _, r := range page {
			if username != "" && !strings.EqualFold(r.Owner.Login, username) {
				continue
			}
			if !opts.IncludeForks && r.Fork {
				continue
			}
			if !opts.IncludeArchived && r.Archived {
				continue
			}
			all = append(all, r.toModel())
		}
		nextURL = next
	}
	return all, nil
}

// ListDir lists one directory of a repository's default branch,
// following pagination. Returns ErrEmptyRepository when the repo has no
// content at all.
func (c *Client) ListDir(ctx context.Context, owner, repo, dirPath string) ([]Entry, error) {
	var all []Entry
	nextURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?per_page=100",
		c.baseURL, owner, repo, escapePath(dirPath))

	for nextURL != "" {
		resp, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		var page []Entry
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decode directory listing %q: %w", dirPath, err)
		}
		next := parseLinkNext(resp.Header.Get("Link"))
		resp.Body.Close()

		all = append(all, page...)
		nextURL = next
	}
	return all, nil
}

// FileContent fetches and decodes one file's content. Only base64 and
// plain encodings are understood.
func (c *Client) FileContent(ctx context.Context, owner, repo, filePath string) (string, error) {
	rawURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, owner, repo, escapePath(filePath))
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode file payload %q: %w", filePath, err)
	}

	switch payload.Encoding {
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("decode base64 content %q: %w", filePath, err)
		}
		return string(raw), nil
	default:
		return payload.Content, nil
	}
}

type apiCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

func (a apiCommit) toCommit() Commit {
	c := Commit{SHA: a.SHA}
	if t, err := time.Parse(time.RFC3339, a.Commit.Author.Date); err == nil {
		c.AuthorDate = t.UTC()
	}
	return c
}

// RecentCommits fetches the first page of commit history, newest first.
// Returns ErrNoCommits for a repository with no history.
func (c *Client) RecentCommits(ctx context.Context, owner, repo string) ([]Commit, error) {
	rawURL := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=100", c.baseURL, owner, repo)
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var page []apiCommit
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode commits: %w", err)
	}
	commits := make([]Commit, 0, len(page))
	for _, a := range page {
		commits = append(commits, a.toCommit())
	}
	return commits, nil
}

// CommitsSince fetches all commits authored after since, following
// pagination.
func (c *Client) CommitsSince(ctx context.Context, owner, repo string, since time.Time) ([]Commit, error) {
	var all []Commit
	nextURL := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=100&since=%s",
		c.baseURL, owner, repo, url.QueryEscape(since.UTC().Format(time.RFC3339)))

	for nextURL != "" {
		resp, err := c.get(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		var page []apiCommit
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("decode commits: %w", err)
		}
		next := parseLinkNext(resp.Header.Get("Link"))
		resp.Body.Close()

		for _, a := range page {
			all = append(all, a.toCommit())
		}
		nextURL = next
	}
	return all, nil
}

// countViaLastPage requests one item per page and reads the total from
// the Link rel="last" page number. One API call per count.
func (c *Client) countViaLastPage(ctx context.Context, rawURL string) (int, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if last := parseLinkLastPage(resp.Header.Get("Link")); last > 0 {
		io.Copy(io.Discard, resp.Body)
		return last, nil
	}

	// No Link header: zero or one item, the body tells which.
	var page []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return 0, fmt.Errorf("decode count page: %w", err)
	}
	return len(page), nil
}

// CountContributors returns the repository's contributor count.
func (c *Client) CountContributors(ctx context.Context, owner, repo string) (int, error) {
	rawURL := fmt.Sprintf("%s/repos/%s/%s/contributors?per_page=1&anon=true", c.baseURL, owner, repo)
	return c.countViaLastPage(ctx, rawURL)
}

// CountOpenPRs returns the open pull request count.
func (c *Client) CountOpenPRs(ctx context.Context, owner, repo string) (int, error) {
	rawURL := fmt.Sprintf("%s/repos/%s/%s/pulls?state=open&per_page=1", c.baseURL, owner, repo)
	return c.countViaLastPage(ctx, rawURL)
}

// CountClosedIssues returns the closed issue count.
func (c *Client) CountClosedIssues(ctx context.Context, owner, repo string) (int, error) {
	rawURL := fmt.Sprintf("%s/repos/%s/%s/issues?state=closed&per_page=1", c.baseURL, owner, repo)
	return c.countViaLastPage(ctx, rawURL)
}

// Languages returns the per-language byte counts reported by the API.
func (c *Client) Languages(ctx context.Context, owner, repo string) (map[string]int, error) {
	rawURL := fmt.Sprintf("%s/repos/%s/%s/languages", c.baseURL, owner, repo)
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	languages := map[string]int{}
	if err := json.NewDecoder(resp.Body).Decode(&languages); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	return languages, nil
}

// RateLimit queries the core quota. This endpoint does not itself count
// against the quota.
func (c *Client) RateLimit(ctx context.Context) (Rate, error) {
	resp, err := c.get(ctx, c.baseURL+"/rate_limit")
	if err != nil {
		return Rate{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Resources struct {
			Core struct {
				Limit     int   `json:"limit"`
				Remaining int   `json:"remaining"`
				Reset     int64 `json:"reset"`
			} `json:"core"`
		} `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Rate{}, fmt.Errorf("decode rate limit: %w", err)
	}
	core := payload.Resources.Core
	return Rate{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     time.Unix(core.Reset, 0).UTC(),
	}, nil
}

// escapePath escapes each path segment while keeping the separators.
func escapePath(p string) string {
	if p == "" {
		return ""
	}
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
