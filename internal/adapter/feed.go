package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/amishk599/jobfeed/internal/model"
)

// Ensure FeedClient implements model.FeedSource.
var _ model.FeedSource = (*FeedClient)(nil)

var errNoData = errors.New("envelope has no data")

// envelope is the response shape shared by the bulk and detail endpoints.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// FeedClient reads the remote job listing over HTTP.
type FeedClient struct {
	feedURL   string
	detailURL string
	client    *http.Client
	logger    *slog.Logger
}

// NewFeedClient creates a client for the bulk listing at feedURL. Detail
// lookups go to detailURL?jobId=<id>; an empty detailURL reuses feedURL.
func NewFeedClient(feedURL, detailURL string, client *http.Client, logger *slog.Logger) *FeedClient {
	if detailURL == "" {
		detailURL = feedURL
	}
	return &FeedClient{
		feedURL:   feedURL,
		detailURL: detailURL,
		client:    client,
		logger:    logger,
	}
}

// FetchFeed retrieves every raw record of the bulk listing. A non-2xx status,
// success=false, or a payload that is not the expected envelope is an error.
// Individual records that are not JSON objects are skipped.
func (c *FeedClient) FetchFeed(ctx context.Context) ([]model.RawJob, error) {
	data, err := c.get(ctx, c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("feed fetch: %w", &model.DecodeError{Err: fmt.Errorf("data is not a list: %w", err)})
	}

	raws := make([]model.RawJob, 0, len(items))
	skipped := 0
	for _, item := range items {
		raw, ok := decodeRecord(item)
		if !ok {
			skipped++
			continue
		}
		raws = append(raws, raw)
	}
	if skipped > 0 {
		c.logger.Debug("skipped non-object feed records", "skipped", skipped, "kept", len(raws))
	}
	return raws, nil
}

// FetchJob retrieves one raw record through the detail endpoint.
func (c *FeedClient) FetchJob(ctx context.Context, id string) (model.RawJob, error) {
	u, err := url.Parse(c.detailURL)
	if err != nil {
		return model.RawJob{}, fmt.Errorf("job fetch for %s: %w", id, err)
	}
	q := u.Query()
	q.Set("jobId", id)
	u.RawQuery = q.Encode()

	data, err := c.get(ctx, u.String())
	if err != nil {
		if errors.Is(err, model.ErrSourceRejected) || errors.Is(err, errNoData) {
			return model.RawJob{}, fmt.Errorf("job fetch for %s: %w", id, model.ErrJobNotFound)
		}
		var httpErr *model.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return model.RawJob{}, fmt.Errorf("job fetch for %s: %w", id, model.ErrJobNotFound)
		}
		return model.RawJob{}, fmt.Errorf("job fetch for %s: %w", id, err)
	}

	raw, ok := decodeRecord(data)
	if !ok {
		return model.RawJob{}, fmt.Errorf("job fetch for %s: %w", id, model.ErrJobNotFound)
	}
	return raw, nil
}

// get performs the GET and unwraps the envelope, returning its data field.
func (c *FeedClient) get(ctx context.Context, target string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &model.DecodeError{Err: err}
	}
	if env.Success == nil {
		return nil, &model.DecodeError{Err: errors.New("envelope has no success field")}
	}
	if !*env.Success {
		return nil, model.ErrSourceRejected
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return nil, &model.DecodeError{Err: errNoData}
	}
	return env.Data, nil
}

func decodeRecord(data json.RawMessage) (model.RawJob, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.RawJob{}, false
	}
	var raw model.RawJob
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return model.RawJob{}, false
	}
	return raw, true
}
