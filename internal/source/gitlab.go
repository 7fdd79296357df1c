package source

import (
	"agd/internal/providers"
	"agd/internal/structures"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const userAgent = "agd/1.0 (+https://gitlab.com/Dimbreath/AnimeGameData)"

// GitLabSource reads the data repository through the GitLab commits API and
// raw file endpoints.
type GitLabSource struct {
	client     *retryablehttp.Client
	commitsURL string
	rawBaseURL string
}

func NewGitLabSource(conf *structures.Config, logger providers.Logger) *GitLabSource {
	client := retryablehttp.NewClient()
	client.RetryMax = conf.Source.RetryMax
	client.Logger = &retryLogger{logger: logger}
	if conf.Source.Timeout > 0 {
		client.HTTPClient.Timeout = conf.Source.Timeout
	}

	return &GitLabSource{
		client: client,
		commitsURL: fmt.Sprintf("%s/projects/%d/repository/commits?per_page=1",
			strings.TrimRight(conf.Source.ApiBaseUrl, "/"), conf.Source.ProjectID),
		rawBaseURL: strings.TrimRight(conf.Source.RawBaseUrl, "/"),
	}
}

func (g *GitLabSource) LatestRevision(ctx context.Context) (string, error) {
	body, err := g.get(ctx, "latest revision", g.commitsURL)
	if err != nil {
		return "", err
	}

	id := gjson.GetBytes(body, "0.id")
	if !id.Exists() || id.String() == "" {
		return "", &TransportError{Op: "latest revision", URL: g.commitsURL, Err: errors.New("no commit id in response")}
	}
	return id.String(), nil
}

func (g *GitLabSource) Fetch(ctx context.Context, revision, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s", g.rawBaseURL, revision, path)
	return g.get(ctx, "fetch", url)
}

func (g *GitLabSource) get(ctx context.Context, op, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{Op: op, URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, Err: err}
	}
	return body, nil
}

// retryLogger routes retryablehttp's leveled logging into the sync log.
type retryLogger struct {
	logger providers.Logger
}

func (r *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	r.logger.Errorf(providers.TypeSync, "%s %v", msg, keysAndValues)
}

func (r *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	r.logger.Debugf(providers.TypeSync, "%s %v", msg, keysAndValues)
}

func (r *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.logger.Debugf(providers.TypeSync, "%s %v", msg, keysAndValues)
}

func (r *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.logger.Warnf(providers.TypeSync, "%s %v", msg, keysAndValues)
}
