// Package source lists the sites fronted by the load balancer through its
// domain-listing API.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hamed0406/webmonitorsync/internal/domain"
)

// ErrUnavailable wraps transport failures and non-2xx responses. Callers
// may treat it as "no data this run"; any other error is a contract
// violation by the API.
var ErrUnavailable = errors.New("domain api unavailable")

// ErrMissingDomain is returned when a record has no "domain" value.
var ErrMissingDomain = errors.New(`record has no "domain"`)

const domainsPath = "/api/get_domains"

type Client struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Sites returns https://<domain> for every record, in API order.
func (c *Client) Sites(ctx context.Context) ([]string, error) {
	recs, err := c.Domains(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SiteURLs(recs), nil
}

func (c *Client) Domains(ctx context.Context) ([]domain.DomainRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+domainsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		// drain a little so the error carries the API's complaint
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	// A body cut short is an outage; only a complete body that does not
	// parse is a contract violation.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	var recs []domain.DomainRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", domainsPath, err)
	}
	for i, r := range recs {
		if r.Domain == "" {
			return nil, fmt.Errorf("decode %s: record %d: %w", domainsPath, i, ErrMissingDomain)
		}
	}
	return recs, nil
}

// StatusError is returned for non-2xx responses. It matches ErrUnavailable.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("domain api returned %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Is(target error) bool { return target == ErrUnavailable }
