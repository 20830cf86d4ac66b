package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/NTAravind/Eustress/internal/telemetry"
)

// Uploader stores workshop thumbnails and returns a public URL
type Uploader interface {
	Upload(ctx context.Context, filename, contentBase64 string) (string, error)
}

// GitHubUploader commits images to a public GitHub repository through the
// contents API and serves them via raw.githubusercontent.com
type GitHubUploader struct {
	client *http.Client
	token  string
	owner  string
	repo   string
	branch string
	dir    string
}

// GitHubConfig holds the upload target
type GitHubConfig struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
	Dir    string
}

// NewGitHubUploader creates a new GitHubUploader
func NewGitHubUploader(config *GitHubConfig) (*GitHubUploader, error) {
	if config == nil || config.Token == "" || config.Owner == "" || config.Repo == "" {
		return nil, fmt.Errorf("github upload token, owner and repo are required")
	}

	branch := config.Branch
	if branch == "" {
		branch = "main"
	}
	dir := config.Dir
	if dir == "" {
		dir = "thumbnails"
	}

	return &GitHubUploader{
		client: &http.Client{Timeout: 15 * time.Second},
		token:  config.Token,
		owner:  config.Owner,
		repo:   config.Repo,
		branch: branch,
		dir:    dir,
	}, nil
}

// NewGitHubUploaderFromRepo builds an uploader from an "owner/repo" slug
// as it appears in configuration.
func NewGitHubUploaderFromRepo(token, ownerRepo, branch, dir string) (*GitHubUploader, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github repo must be in owner/repo form, got %q", ownerRepo)
	}

	return NewGitHubUploader(&GitHubConfig{
		Token:  token,
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
		Dir:    dir,
	})
}

type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

// Upload commits the base64-encoded file and returns its raw URL. The
// stored name is prefixed with a UUID so repeated uploads never collide.
func (u *GitHubUploader) Upload(ctx context.Context, filename, contentBase64 string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "upload.github.upload")
	defer span.End()

	name := uuid.New().String() + path.Ext(filename)
	filePath := path.Join(u.dir, name)

	span.SetAttributes(attribute.String("path", filePath))

	body, err := json.Marshal(contentsRequest{
		Message: fmt.Sprintf("Add thumbnail %s", name),
		Content: contentBase64,
		Branch:  u.branch,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode upload request: %w", err)
	}

	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/contents/%s", u.owner, u.repo, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to upload thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("github upload returned %d: %s", resp.StatusCode, payload)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	rawURL := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", u.owner, u.repo, u.branch, filePath)
	span.SetStatus(codes.Ok, "")
	return rawURL, nil
}
