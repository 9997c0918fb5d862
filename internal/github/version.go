// Package github reads the reference ROM version from the upstream vendor
// repository on GitHub.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"otabot/internal/config"
	"otabot/internal/ota"
)

// VersionSource implements ota.VersionSource by reading a version makefile
// from a repository and extracting its major and minor version keys.
type VersionSource struct {
	client   *gh.Client
	owner    string
	repo     string
	ref      string
	path     string
	majorKey string
	minorKey string
}

var _ ota.VersionSource = (*VersionSource)(nil)

// NewVersionSource creates a VersionSource. An empty token makes
// unauthenticated requests. apiURL overrides api.github.com when set.
func NewVersionSource(cfg config.UpstreamConfig, token string, timeout time.Duration) (*VersionSource, error) {
	base := &http.Client{Timeout: timeout}
	httpClient := base
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	client := gh.NewClient(httpClient)
	if cfg.APIURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing upstream api_url: %w", err)
		}
		client.BaseURL = u
	}

	return &VersionSource{
		client:   client,
		owner:    cfg.Owner,
		repo:     cfg.Repo,
		ref:      cfg.Ref,
		path:     cfg.VersionPath,
		majorKey: cfg.MajorKey,
		minorKey: cfg.MinorKey,
	}, nil
}

// ReferenceVersion returns "major.minor", or "" when the file does not carry
// both keys.
func (v *VersionSource) ReferenceVersion(ctx context.Context) (string, error) {
	var opts *gh.RepositoryContentGetOptions
	if v.ref != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: v.ref}
	}

	file, _, _, err := v.client.Repositories.GetContents(ctx, v.owner, v.repo, v.path, opts)
	if err != nil {
		return "", fmt.Errorf("fetching %s/%s/%s: %w", v.owner, v.repo, v.path, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s/%s/%s is a directory", v.owner, v.repo, v.path)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", v.path, err)
	}
	return ota.ParseReferenceVersion(content, v.majorKey, v.minorKey), nil
}
