package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

var (
	// ErrReleaseNotFound is returned when the registry has no such release or tag.
	ErrReleaseNotFound = errors.New("release not found")
	// ErrBadHTTPStatus is returned on any other non-success registry response.
	ErrBadHTTPStatus = errors.New("unexpected http status")
)

const (
	// userAgent identifies the updater to the registry.
	userAgent = "mq-update"

	// downloadChunkSize bounds per-read memory while streaming an asset.
	downloadChunkSize = 8 * 1024
)

// ProgressFunc receives streaming progress after every chunk. Total is 0
// when the server did not announce a content length.
type ProgressFunc func(downloaded, total int64)

// Client talks to a GitHub-compatible release registry over read-only HTTP.
type Client struct {
	// baseURL is the registry API root, e.g. "https://api.github.com".
	baseURL string
	// timeout bounds metadata requests only. Asset downloads run to
	// completion or a hard error: a whole-body deadline would abort
	// large binaries on slow links mid-stream.
	timeout time.Duration
	// httpClient deliberately carries no Timeout of its own, see above.
	httpClient *http.Client
}

// NewClient creates a registry client against the provided API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Resolve fetches release metadata for the repository. When requestedTag is
// empty the most recent release is returned; otherwise the tag is normalized
// to canonical form and fetched exactly. The configured timeout applies to
// this request as a whole.
func (c *Client) Resolve(ctx context.Context, repository, requestedTag string) (*Release, error) {
	endpoint, err := c.releaseEndpoint(repository, NormalizeTag(requestedTag))
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release metadata: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", endpoint, ErrReleaseNotFound)
	case response.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s, %s: %w", endpoint, response.Status, ErrBadHTTPStatus)
	}

	var release Release
	if err = json.NewDecoder(response.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release metadata: %w", err)
	}

	return &release, nil
}

// Download streams the asset at downloadURL into memory in fixed-size
// chunks, reporting progress after each one. There is no disk spooling, no
// resumption and no deadline: the stream runs to completion or a hard,
// non-retried error.
func (c *Client) Download(ctx context.Context, downloadURL string, onProgress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download asset: %w", err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", downloadURL, response.Status, ErrBadHTTPStatus)
	}

	// ContentLength is -1 when unknown; report 0 to mean "no total".
	total := response.ContentLength
	if total < 0 {
		total = 0
	}

	var (
		buffer     bytes.Buffer
		downloaded int64
		chunk      = make([]byte, downloadChunkSize)
	)

	for {
		n, readErr := response.Body.Read(chunk)
		if n > 0 {
			buffer.Write(chunk[:n])

			downloaded += int64(n)
			if onProgress != nil {
				onProgress(downloaded, total)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}

			return nil, fmt.Errorf("read download stream: %w", readErr)
		}
	}

	return buffer.Bytes(), nil
}

// releaseEndpoint composes the metadata URL for either the latest release or
// an exact tag.
func (c *Client) releaseEndpoint(repository, tag string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse registry base URL: %w", err)
	}

	if tag == "" {
		base.Path = path.Join(base.Path, "repos", repository, "releases", "latest")
	} else {
		base.Path = path.Join(base.Path, "repos", repository, "releases", "tags", tag)
	}

	return base.String(), nil
}
