package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AssetName is the release asset holding the tools archive.
const AssetName = "tla2tools.jar"

// GitHubChecker checks for releases via the GitHub API
type GitHubChecker struct {
	githubToken string // Optional, for rate limiting
	owner       string // Repository owner
	repo        string // Repository name
	client      *http.Client
	baseURL     string // Base URL for GitHub API (for testing)
}

// GitHubRelease represents a GitHub release response
type GitHubRelease struct {
	TagName    string        `json:"tag_name"`
	Name       string        `json:"name"`
	Body       string        `json:"body"`
	HTMLURL    string        `json:"html_url"`
	Prerelease bool          `json:"prerelease"`
	Assets     []GitHubAsset `json:"assets"`
}

// GitHubAsset represents one downloadable file of a release
type GitHubAsset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	Digest             string `json:"digest"` // "sha256:<hex>" when GitHub computed one
	BrowserDownloadURL string `json:"browser_download_url"`
}

// NewGitHubChecker creates a checker for the given "owner/repo"
func NewGitHubChecker(repository string) (*GitHubChecker, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("invalid repository %q (expected owner/repo)", repository)
	}
	return &GitHubChecker{
		owner: owner,
		repo:  repo,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://api.github.com",
	}, nil
}

// WithToken sets an optional GitHub token for authentication
func (c *GitHubChecker) WithToken(token string) *GitHubChecker {
	c.githubToken = token
	return c
}

// WithBaseURL points the checker at another API endpoint
func (c *GitHubChecker) WithBaseURL(baseURL string) *GitHubChecker {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// LatestRelease fetches the latest release and locates the tools archive
func (c *GitHubChecker) LatestRelease(ctx context.Context) (*Release, error) {
	release, err := c.getLatestRelease(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest release: %w", err)
	}

	latest, err := ParseVersion(release.TagName)
	if err != nil {
		return nil, fmt.Errorf("invalid latest version: %w", err)
	}

	asset, ok := findAsset(release, AssetName)
	if !ok {
		return nil, fmt.Errorf("release %s has no %s asset", release.TagName, AssetName)
	}

	return &Release{
		Version:  latest.String(),
		Tag:      release.TagName,
		URL:      release.HTMLURL,
		Notes:    release.Body,
		AssetURL: asset.BrowserDownloadURL,
		Size:     asset.Size,
		SHA256:   sha256FromDigest(asset.Digest),
	}, nil
}

// getLatestRelease fetches the latest release from GitHub API
func (c *GitHubChecker) getLatestRelease(ctx context.Context) (*GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.githubToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.githubToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.TrimSpace(release.TagName) == "" {
		return nil, fmt.Errorf("latest release response is missing tag_name")
	}

	return &release, nil
}

// findAsset finds the named asset with a usable download URL
func findAsset(release *GitHubRelease, name string) (GitHubAsset, bool) {
	for _, asset := range release.Assets {
		if asset.Name == name && strings.TrimSpace(asset.BrowserDownloadURL) != "" {
			return asset, true
		}
	}
	return GitHubAsset{}, false
}

func sha256FromDigest(digest string) string {
	algo, sum, ok := strings.Cut(digest, ":")
	if !ok || !strings.EqualFold(algo, "sha256") {
		return ""
	}
	return strings.ToLower(sum)
}
