package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"everia/pkg/config"
	errs "everia/pkg/errors"
	"everia/pkg/logger"
)

// DefaultTimeout bounds every single request
const DefaultTimeout = 5 * time.Minute

// Fetcher issues single GET requests
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Response is a fully read HTTP response
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// UTF8 returns the body converted to UTF-8 according to the declared charset.
// The raw body is returned when no conversion applies.
func (r *Response) UTF8() []byte {
	reader, err := charset.NewReader(bytes.NewReader(r.Body), r.Header.Get("Content-Type"))
	if err != nil {
		return r.Body
	}
	converted, err := io.ReadAll(reader)
	if err != nil {
		return r.Body
	}
	return converted
}

// Client is an HTTP client that never follows redirects and never retries
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a fetch client with the given timeout and default headers
func NewClient(timeout time.Duration, httpCfg config.HTTPConfig, log logger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.GetLogger()
	}

	headers := map[string]string{}
	if httpCfg.UserAgent != "" {
		headers["User-Agent"] = httpCfg.UserAgent
	}
	if httpCfg.Accept != "" {
		headers["Accept"] = httpCfg.Accept
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		headers: headers,
		logger:  log,
	}
}

// Fetch performs one GET request.
//
// A 3xx response is returned together with a redirect error; any other
// non-2xx status is a status error. Transport failures and body read
// failures are typed as network and body errors.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, url, fmt.Errorf("failed to create request: %w", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogFetch(c.logger, url, 0, err)
		return nil, errs.Wrap(errs.ErrorTypeNetwork, url, err)
	}
	defer resp.Body.Close()

	response := &Response{
		URL:        url,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		err := errs.New(errs.ErrorTypeRedirect, resp.StatusCode, url, resp.Header.Get("Location"))
		logger.LogFetch(c.logger, url, resp.StatusCode, err)
		return response, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := errs.New(errs.ErrorTypeStatus, resp.StatusCode, url, http.StatusText(resp.StatusCode))
		logger.LogFetch(c.logger, url, resp.StatusCode, err)
		return response, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.LogFetch(c.logger, url, resp.StatusCode, err)
		return nil, errs.Wrap(errs.ErrorTypeBody, url, err)
	}
	response.Body = body

	logger.LogFetch(c.logger, url, resp.StatusCode, nil)
	return response, nil
}
