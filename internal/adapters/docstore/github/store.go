// Package github stores documents as files in a GitHub repository through the contents API.
// The blob SHA of a file is its version, so concurrent writers get a real compare-and-swap.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Config locates the data folder inside a repository.
type Config struct {
	Token    string
	Repo     string // "owner/name"
	Branch   string
	DataPath string
	// APIURL overrides the REST endpoint, e.g. for GitHub Enterprise.
	APIURL string
}

// Store reads and writes documents with the GitHub contents API.
type Store struct {
	client   *gh.Client
	owner    string
	repo     string
	branch   string
	dataPath string
}

// New builds a Store authenticated with a static token.
func New(ctx context.Context, cfg Config) (*Store, error) {
	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github repo must look like owner/name, got %q", cfg.Repo)
	}

	var httpClient *http.Client
	if cfg.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	}
	client := gh.NewClient(httpClient)

	if cfg.APIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = baseURL
	}

	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}

	return &Store{
		client:   client,
		owner:    owner,
		repo:     repo,
		branch:   branch,
		dataPath: strings.Trim(cfg.DataPath, "/"),
	}, nil
}

var _ portsrepo.VersionedDocumentStore = (*Store)(nil)

func (s *Store) Name() string { return "github" }

func (s *Store) EnforcesVersions() bool { return true }

func (s *Store) filePath(key domain.DocumentKey) string {
	return path.Join(s.dataPath, key.FileName())
}

func (s *Store) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.filePath(key),
		&gh.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: get %s: %v", apperrors.ErrBackend, key, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s is a directory", apperrors.ErrBackend, s.filePath(key))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", apperrors.ErrBackend, key, err)
	}
	return &portsrepo.Document{
		Key:     key,
		Body:    []byte(content),
		Version: portsrepo.Version(file.GetSHA()),
	}, nil
}

// Write creates the file when expected is empty and updates it otherwise.
// GitHub answers 409 for a stale sha and 422 for a create over an existing file;
// both mean another writer got there first.
func (s *Store) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String("Update " + key.FileName()),
		Content: body,
		Branch:  gh.String(s.branch),
	}

	var (
		res  *gh.RepositoryContentResponse
		resp *gh.Response
		err  error
	)
	if expected == portsrepo.NoVersion {
		res, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, s.filePath(key), opts)
	} else {
		opts.SHA = gh.String(string(expected))
		res, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, s.filePath(key), opts)
	}
	if err != nil {
		return portsrepo.NoVersion, classifyWriteError(key, resp, err)
	}
	if res == nil || res.Content == nil || res.Content.GetSHA() == "" {
		return portsrepo.NoVersion, fmt.Errorf("%w: put %s: response without sha", apperrors.ErrBackend, key)
	}
	return portsrepo.Version(res.Content.GetSHA()), nil
}

func classifyWriteError(key domain.DocumentKey, resp *gh.Response, err error) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: put %s: %v", apperrors.ErrVersionConflict, key, err)
		}
	}
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: put %s: rate limited until %s", apperrors.ErrBackend, key, rateErr.Rate.Reset.Time)
	}
	return fmt.Errorf("%w: put %s: %v", apperrors.ErrBackend, key, err)
}
