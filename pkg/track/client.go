// Package track talks to the activity service: it fetches an activity's task
// list and reports share events.
//
// Share tracking is a beacon. Callers fire it after a successful export and
// must never let a tracking failure affect the user-visible outcome; the
// client still returns errors so callers can log them.
package track

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/httputil"
	"github.com/kestrelhq/sharecard/pkg/observability"
)

const httpTimeout = 10 * time.Second

// Client is an HTTP client for the activity service.
type Client struct {
	base   string
	http   *http.Client
	logger *log.Logger

	// Namespaced views of one shared response cache, so activity records
	// and task lists for the same id never collide.
	activities *httputil.Cache
	tasks      *httputil.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables file-backed caching of activity and task list responses.
func WithCache(cache *httputil.Cache) Option {
	return func(c *Client) {
		c.activities = cache.Namespace("activity:")
		c.tasks = cache.Namespace("tasks:")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the activity service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimSuffix(baseURL, "/"),
		http:   &http.Client{Timeout: httpTimeout},
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Activity is the service-side record a share card is built from.
type Activity struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Category      string      `json:"category"`
	CreatorName   string      `json:"creator_name,omitempty"`
	CreatorHandle string      `json:"creator_handle,omitempty"`
	PlanSummary   string      `json:"plan_summary,omitempty"`
	Tasks         []card.Task `json:"tasks"`
}

// RenderRequest converts the activity into a card render request.
func (a Activity) RenderRequest() card.RenderRequest {
	return card.RenderRequest{
		ActivityID:    a.ID,
		Title:         a.Title,
		Category:      a.Category,
		CreatorName:   a.CreatorName,
		CreatorHandle: a.CreatorHandle,
		PlanSummary:   a.PlanSummary,
		Tasks:         a.Tasks,
	}
}

// ShareEvent is the payload reported after a successful export.
// Platform carries either a platform template ID (single export) or a pack ID
// (batch export). Count is the number of assets exported; zero means one.
type ShareEvent struct {
	Platform string `json:"platform"`
	Count    int    `json:"count,omitempty"`
}

// TrackShare reports a share event for an activity.
//
// Transient failures (network errors, 5xx) are retried with backoff. A
// missing activity maps to ACTIVITY_NOT_FOUND; everything else surfaces as
// TRACKING_FAILED.
func (c *Client) TrackShare(ctx context.Context, activityID string, event ShareEvent) error {
	if activityID == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "activity id is required")
	}
	if event.Platform == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "platform is required")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTrackingFailed, err, "encode share event")
	}

	endpoint := fmt.Sprintf("%s/api/activities/%s/track-share", c.base, url.PathEscape(activityID))
	err = httputil.RetryWithBackoff(ctx, func() error {
		return c.post(ctx, endpoint, body)
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeTrackingFailed, err, "track share for activity %s", activityID)
	}

	c.logger.Debug("tracked share", "activity", activityID, "platform", event.Platform, "count", event.Count)
	return nil
}

// Activity fetches the full activity record.
//
// Responses are cached like task lists; refresh bypasses the cache.
func (c *Client) Activity(ctx context.Context, activityID string, refresh bool) (Activity, error) {
	if activityID == "" {
		return Activity{}, errors.New(errors.ErrCodeInvalidRequest, "activity id is required")
	}

	var a Activity
	if c.activities != nil && !refresh {
		if ok, _ := c.activities.Get(activityID, &a); ok {
			observability.Cache().OnCacheHit(ctx, "activity")
			return a, nil
		}
		observability.Cache().OnCacheMiss(ctx, "activity")
	}

	endpoint := fmt.Sprintf("%s/api/activities/%s", c.base, url.PathEscape(activityID))
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.getJSON(ctx, endpoint, &a)
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return Activity{}, err
		}
		return Activity{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetch activity %s", activityID)
	}

	if c.activities != nil {
		if err := c.activities.Set(activityID, a); err == nil {
			observability.Cache().OnCacheSet(ctx, "activity", 1)
		}
	}
	return a, nil
}

// Tasks fetches an activity's task list.
//
// Responses are cached when the client was built with a cache; refresh
// bypasses the cache and always hits the service.
func (c *Client) Tasks(ctx context.Context, activityID string, refresh bool) ([]card.Task, error) {
	if activityID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "activity id is required")
	}

	var tasks []card.Task
	if c.tasks != nil && !refresh {
		if ok, _ := c.tasks.Get(activityID, &tasks); ok {
			observability.Cache().OnCacheHit(ctx, "tasks")
			return tasks, nil
		}
		observability.Cache().OnCacheMiss(ctx, "tasks")
	}

	endpoint := fmt.Sprintf("%s/api/activities/%s/tasks", c.base, url.PathEscape(activityID))
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.getJSON(ctx, endpoint, &tasks)
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch tasks for activity %s", activityID)
	}

	if c.tasks != nil {
		if err := c.tasks.Set(activityID, tasks); err == nil {
			observability.Cache().OnCacheSet(ctx, "tasks", len(tasks))
		}
	}
	return tasks, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

// do executes the request, emits HTTP hooks, and maps the status code.
// 5xx responses and transport failures come back retryable.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", req.Method, req.URL.Path))
	}
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeActivityNotFound, "activity not found")
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}
