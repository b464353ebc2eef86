package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/timesheet-grid/internal/model"
)

// DefaultTimeout bounds every request when the caller sets none.
const DefaultTimeout = 15 * time.Second

// Client talks to the project-management backend's timesheet endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Options configures a Client.
type Options struct {
	// Token is sent as a bearer credential when non-empty.
	Token   string
	Timeout time.Duration
	// HTTPClient is the base transport; oauth2 wraps it. Nil uses
	// http.DefaultClient.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a client for the backend at baseURL.
func NewClient(ctx context.Context, baseURL string, opts Options) *Client {
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	var hc *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"})
		hc = oauth2.NewClient(ctx, ts)
	} else if opts.HTTPClient != nil {
		c := *opts.HTTPClient
		hc = &c
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = opts.Timeout
	if hc.Timeout <= 0 {
		hc.Timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		log:        log,
	}
}

// FetchTimesheet returns subjectID's full timesheet.
func (c *Client) FetchTimesheet(ctx context.Context, subjectID string) (model.Document, error) {
	var resp model.FetchResponse
	if err := c.do(ctx, http.MethodGet, "/api/fetch-times/"+url.PathEscape(subjectID), nil, &resp); err != nil {
		return model.Document{}, err
	}
	if resp.TimeData.Time == nil {
		resp.TimeData.Time = []model.TimeEntry{}
	}
	return resp.TimeData, nil
}

// UpdateTimesheet replaces subjectID's timesheet and returns the backend's
// confirmation message.
func (c *Client) UpdateTimesheet(ctx context.Context, subjectID string, doc model.Document) (string, error) {
	body := model.UpdateRequest{TimeData: doc.Time, Comment: doc.Comment}
	if body.TimeData == nil {
		body.TimeData = []model.TimeEntry{}
	}
	var resp model.MessageResponse
	if err := c.do(ctx, http.MethodPut, "/api/times/"+url.PathEscape(subjectID), body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// do sends a JSON request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	c.log.Debug("request done", zap.String("method", method), zap.String("path", path),
		zap.String("request_id", requestID), zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(method, path, resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
