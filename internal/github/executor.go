// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/machinebox/graphql"
	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/giterror"
)

// Executor runs one GraphQL query document against GitHub and returns the
// data object of the response. It owns transport, authentication headers
// and any HTTP-level behavior; the Client only builds queries and maps results.
type Executor interface {
	Execute(ctx context.Context, query string) (json.RawMessage, error)
}

// maxResponseBytes caps a single GraphQL response body.
const maxResponseBytes = 10 * 1024 * 1024

// GraphQLExecutor implements Executor over an authenticated *http.Client.
// GraphQL errors, non-2xx statuses and transport failures are returned
// wrapped in ErrUpstreamQuery with the original error kept in the chain.
type GraphQLExecutor struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLExecutor creates an executor posting to endpoint through httpClient.
// httpClient is expected to authenticate requests; the constructors in this
// package layer it over apiTransport so non-2xx responses arrive as *StatusError.
func NewGraphQLExecutor(endpoint string, httpClient *http.Client, logger *log.Logger) *GraphQLExecutor {
	client := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	if logger != nil {
		client.Log = func(s string) { logger.Debug(s) }
	}

	return &GraphQLExecutor{
		client:    client,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// Execute implements Executor.
func (e *GraphQLExecutor) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	var data json.RawMessage
	if err := e.client.Run(ctx, graphql.NewRequest(query), &data); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if e.inspector.IsNetworkError(err) {
			return nil, fmt.Errorf("%w: %w: %w", relaierrors.ErrUpstreamQuery, relaierrors.ErrNetworkFailure, err)
		}
		return nil, fmt.Errorf("%w: %w", relaierrors.ErrUpstreamQuery, err)
	}
	return data, nil
}

// StatusError is a non-2xx HTTP response from the GitHub API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("github api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsAuthError reports whether the status is an authentication or permission failure.
func (e *StatusError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized ||
		(e.StatusCode == http.StatusForbidden && !e.IsRateLimitError())
}

// IsNotFoundError reports a 404.
func (e *StatusError) IsNotFoundError() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimitError reports a 429, or a 403 whose message names the rate limit.
func (e *StatusError) IsRateLimitError() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		(e.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(e.Message), "rate limit"))
}

// apiTransport sets the User-Agent, turns non-2xx responses into *StatusError
// and caps response bodies. It sits directly above the network transport,
// below any authenticating transport.
type apiTransport struct {
	base      http.RoundTripper
	userAgent string
}

func newAPITransport(base http.RoundTripper, userAgent string) *apiTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &apiTransport{base: base, userAgent: userAgent}
}

// RoundTrip implements http.RoundTripper
func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}
	return resp, nil
}

// errorMessage extracts the "message" field GitHub puts in error bodies,
// falling back to the first line of the body.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(raw)), "\n")
	return line
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}
