package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/storyshare/client/internal/client/models"
	"github.com/storyshare/client/internal/logging"
)

const (
	defaultTimeout = 30 * time.Second

	// Idempotent GETs are retried a couple of times before the failure is
	// reported; creates are never retried.
	getRetries      = 2
	getRetryBackoff = 200 * time.Millisecond
)

// HTTPClient is the REST implementation of Client for the story backend:
//
//	GET  {base}/stories?page&size&location
//	GET  {base}/stories/{id}
//	POST {base}/stories        (authenticated, multipart)
//	POST {base}/stories/guest  (anonymous, multipart)
//	POST {base}/login, {base}/register
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenProvider
	log     logging.Logger
}

// NewHTTPClient builds a gateway for the given base URL. A nil token provider
// means permanent anonymous mode; a zero timeout defaults to 30 seconds.
func NewHTTPClient(baseURL string, timeout time.Duration, token TokenProvider, log logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if token == nil {
		token = func(context.Context) string { return "" }
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		token:   token,
		log:     log,
	}
}

func (c *HTTPClient) authorize(ctx context.Context, req *http.Request) bool {
	if t := c.token(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
		return true
	}
	return false
}

// getJSON issues a GET with bounded fibonacci retries and decodes the JSON
// body into out. All failures come back as one error; the caller folds it
// into its envelope.
func (c *HTTPClient) getJSON(ctx context.Context, rawURL string, out any) error {
	backoff := retry.WithMaxRetries(getRetries, retry.NewFibonacci(getRetryBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		c.authorize(ctx, req)

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("malformed response (%s): %w", resp.Status, err)
		}
		return nil
	})
}

func (c *HTTPClient) ListStories(ctx context.Context, opts ListOptions) *models.StoryList {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Size <= 0 {
		opts.Size = 10
	}
	location := 0
	if opts.LocationOnly {
		location = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(opts.Page))
	q.Set("size", strconv.Itoa(opts.Size))
	q.Set("location", strconv.Itoa(location))

	result := &models.StoryList{}
	if err := c.getJSON(ctx, c.baseURL+"/stories?"+q.Encode(), result); err != nil {
		c.log.Warn(ctx, "list stories request failed", "err", err)
		return &models.StoryList{
			Error:       true,
			Message:     "failed to fetch stories",
			Stories:     []models.Story{},
			Unreachable: true,
		}
	}
	if result.Stories == nil {
		result.Stories = []models.Story{}
	}
	return result
}

func (c *HTTPClient) GetStory(ctx context.Context, id string) *models.StoryDetail {
	result := &models.StoryDetail{}
	if err := c.getJSON(ctx, c.baseURL+"/stories/"+url.PathEscape(id), result); err != nil {
		c.log.Warn(ctx, "get story request failed", "id", id, "err", err)
		return &models.StoryDetail{
			Error:       true,
			Message:     "failed to fetch story detail",
			Unreachable: true,
		}
	}
	return result
}

func (c *HTTPClient) CreateStory(ctx context.Context, story models.NewStory) *models.CreateResult {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("description", story.Description); err != nil {
		return transportCreateFailure(ctx, c.log, err)
	}
	name := story.PhotoName
	if name == "" {
		name = "photo.jpg"
	}
	fw, err := mw.CreateFormFile("photo", name)
	if err != nil {
		return transportCreateFailure(ctx, c.log, err)
	}
	if _, err := fw.Write(story.Photo); err != nil {
		return transportCreateFailure(ctx, c.log, err)
	}
	if story.Lat != nil {
		if err := mw.WriteField("lat", strconv.FormatFloat(*story.Lat, 'f', -1, 64)); err != nil {
			return transportCreateFailure(ctx, c.log, err)
		}
	}
	if story.Lon != nil {
		if err := mw.WriteField("lon", strconv.FormatFloat(*story.Lon, 'f', -1, 64)); err != nil {
			return transportCreateFailure(ctx, c.log, err)
		}
	}
	if err := mw.Close(); err != nil {
		return transportCreateFailure(ctx, c.log, err)
	}

	// Authenticated submissions go to /stories, anonymous ones to the guest
	// endpoint.
	token := c.token(ctx)
	endpoint := c.baseURL + "/stories/guest"
	if token != "" {
		endpoint = c.baseURL + "/stories"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return transportCreateFailure(ctx, c.log, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return transportCreateFailure(ctx, c.log, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportCreateFailure(ctx, c.log, err)
	}

	result := &models.CreateResult{}
	if err := json.Unmarshal(body, result); err != nil {
		return transportCreateFailure(ctx, c.log, fmt.Errorf("malformed response (%s): %w", resp.Status, err))
	}
	return result
}

func transportCreateFailure(ctx context.Context, log logging.Logger, err error) *models.CreateResult {
	log.Warn(ctx, "create story request failed", "err", err)
	return &models.CreateResult{
		Error:       true,
		Message:     "failed to submit story",
		Unreachable: true,
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) *models.AuthResult {
	return c.postAuth(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) *models.AuthResult {
	return c.postAuth(ctx, "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *HTTPClient) postAuth(ctx context.Context, path string, payload map[string]string) *models.AuthResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return &models.AuthResult{Error: true, Message: "failed to encode request", Unreachable: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &models.AuthResult{Error: true, Message: "failed to build request", Unreachable: true}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "auth request failed", "path", path, "err", err)
		return &models.AuthResult{Error: true, Message: "server unreachable", Unreachable: true}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.AuthResult{Error: true, Message: "server unreachable", Unreachable: true}
	}

	result := &models.AuthResult{}
	if err := json.Unmarshal(raw, result); err != nil {
		return &models.AuthResult{Error: true, Message: "malformed response", Unreachable: true}
	}
	return result
}

// Ping issues a HEAD against the stories endpoint. It returns ErrUnavailable
// on transport failure and nil on any HTTP response at all.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/stories", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_ = resp.Body.Close()
	return nil
}
