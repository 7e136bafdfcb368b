// Package version reports the hostsgen version and looks for newer releases.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

const (
	Owner = "hostsgen"
	Repo  = "hostsgen"

	defaultBaseURL = "https://api.github.com"
	requestTimeout = 5 * time.Second
)

// Release is the subset of a GitHub release the checker reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Name    string `json:"name"`
}

// Update describes a newer release.
type Update struct {
	Current string
	Latest  string
	URL     string
	Name    string
}

// String formats the update notice shown after `hostsgen version --check`.
func (u *Update) String() string {
	return fmt.Sprintf("New version available: %s (current: %s) - %s", u.Latest, u.Current, u.URL)
}

// Checker queries the latest GitHub release.
type Checker struct {
	baseURL string
	owner   string
	repo    string
	current string
	client  *http.Client
}

// NewChecker creates a checker for owner/repo at the given current version.
func NewChecker(owner, repo, current string) *Checker {
	return &Checker{
		baseURL: defaultBaseURL,
		owner:   owner,
		repo:    repo,
		current: normalize(current),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// WithBaseURL points the checker at another API root.
func (c *Checker) WithBaseURL(url string) *Checker {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

// Check returns the newer release, or nil when up to date. Network and
// decoding failures are returned so the caller can decide to ignore them.
func (c *Checker) Check(ctx context.Context) (*Update, error) {
	release, err := c.latest(ctx)
	if err != nil {
		return nil, err
	}

	latest := normalize(release.TagName)
	if !newer(latest, c.current) {
		return nil, nil
	}
	return &Update{
		Current: c.current,
		Latest:  latest,
		URL:     release.HTMLURL,
		Name:    release.Name,
	}, nil
}

func (c *Checker) latest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "hostsgen/"+c.current)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}
	return &release, nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	return strings.TrimPrefix(v, "V")
}

// newer reports whether latest is a higher dotted version than current.
// Pre-release and build suffixes are ignored.
func newer(latest, current string) bool {
	l, c := parts(latest), parts(current)
	for i := 0; i < len(l) && i < len(c); i++ {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return len(l) > len(c)
}

func parts(v string) []int {
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}
	fields := strings.Split(v, ".")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, _ := strconv.Atoi(f)
		out = append(out, n)
	}
	return out
}
