/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package docgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jerry-enebeli/paydocs/config"
	"github.com/jerry-enebeli/paydocs/internal/request"
	"github.com/jerry-enebeli/paydocs/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	StatementPath = "/generate-bank-statement"
	PayslipPath   = "/api/payslip/generate"

	defaultContentType = "application/pdf"
	maxErrorBody       = 4 << 10
)

// Renderer turns statement and payslip payloads into downloadable documents.
type Renderer interface {
	RenderStatement(ctx context.Context, doc model.StatementDocument) (model.Document, error)
	RenderPayslip(ctx context.Context, doc model.PayslipDocument) (model.Document, error)
}

// UpstreamError is a rejection from the document service, or the last failure once retries
// are used up. StatusCode is the upstream status, or 502 when no response was received.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document service responded with %d: %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("document service responded with %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client talks to the remote document generation service.
type Client struct {
	baseURL         string
	headers         map[string]string
	httpClient      *http.Client
	maxRetries      uint64
	initialInterval time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithInitialInterval sets the first backoff interval between retries.
func WithInitialInterval(d time.Duration) Option {
	return func(cl *Client) { cl.initialInterval = d }
}

func NewClient(cfg config.DocumentServiceConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(cfg.Url, "/"),
		headers:         cfg.Headers,
		httpClient:      &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		maxRetries:      uint64(max(cfg.MaxRetries, 0)),
		initialInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) RenderStatement(ctx context.Context, doc model.StatementDocument) (model.Document, error) {
	return c.render(ctx, StatementPath, doc, doc.Filename())
}

func (c *Client) RenderPayslip(ctx context.Context, doc model.PayslipDocument) (model.Document, error) {
	return c.render(ctx, PayslipPath, doc, doc.Filename())
}

func (c *Client) render(ctx context.Context, path string, payload interface{}, fallbackName string) (model.Document, error) {
	var result model.Document
	url := c.baseURL + path

	operation := func() error {
		req, err := request.NewJSONRequest(ctx, http.MethodPost, url, payload, c.headers)
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, "failed to build document request"))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return errors.Wrapf(err, "failed to call document service at %s", url)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			upstream := &UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMessage(body, resp.Status)}
			if resp.StatusCode >= http.StatusInternalServerError {
				return upstream
			}
			return backoff.Permanent(upstream)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "failed to read document body")
		}

		result = model.Document{
			Filename:    filenameFrom(resp.Header.Get("Content-Disposition"), fallbackName),
			ContentType: contentTypeFrom(resp.Header.Get("Content-Type")),
			Body:        body,
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		logrus.WithFields(logrus.Fields{
			"url":  url,
			"wait": wait.String(),
		}).WithError(err).Warn("retrying document service call")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) || ctx.Err() != nil {
			return model.Document{}, err
		}
		return model.Document{}, &UpstreamError{StatusCode: http.StatusBadGateway, Message: "document service unreachable", Err: err}
	}
	return result, nil
}

func upstreamMessage(body []byte, status string) string {
	msg := strings.TrimSpace(string(bytes.ToValidUTF8(body, nil)))
	if msg == "" {
		return status
	}
	return msg
}

func filenameFrom(disposition, fallback string) string {
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}

func contentTypeFrom(header string) string {
	if header == "" {
		return defaultContentType
	}
	return header
}
