package practicumclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pkgerrors "hwbot/pkg/errors"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultTimeout  = 30 * time.Second

	maxBodySnippet = 512
	maxBodyBytes   = 8 << 20
)

// Config configures the Practicum API client.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Client fetches homework statuses from the Practicum API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	now      func() time.Time
	maxBody  int64
}

// New creates a Client. Zero fields fall back to the defaults.
func New(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		token:    cfg.Token,
		http:     &http.Client{Timeout: timeout},
		now:      time.Now,
		maxBody:  maxBodyBytes,
	}
}

// WithClock replaces the wall clock used when fromDate is zero.
func (c *Client) WithClock(now func() time.Time) *Client {
	if now != nil {
		c.now = now
	}
	return c
}

// GetStatuses requests every status change since fromDate (unix seconds).
// The decoded body is returned untouched, numbers kept as json.Number.
func (c *Client) GetStatuses(ctx context.Context, fromDate int64) (any, error) {
	if fromDate == 0 {
		fromDate = c.now().Unix()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.APIRequestFailed, "invalid endpoint %q", c.endpoint)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.APIRequestFailed)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.APIRequestFailed).
			WithDetail("endpoint", c.endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.APIRequestFailed)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.Newf(pkgerrors.APIUnexpectedStatus,
			"Homework API returned status %d", resp.StatusCode).
			WithDetail("status_code", resp.StatusCode).
			WithDetail("body", snippet(body))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.APIDecodeFailed).
			WithDetail("body", snippet(body))
	}
	return payload, nil
}

func snippet(body []byte) string {
	if len(body) <= maxBodySnippet {
		return string(body)
	}
	return string(body[:maxBodySnippet]) + "..."
}
