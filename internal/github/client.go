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
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"github.com/sirseerhq/sirseer-discussions/internal/giterror"
)

const (
	// DefaultAPIURL is the GitHub REST API root used for App authentication.
	DefaultAPIURL = "https://api.github.com"

	// DefaultGraphQLURL is the GitHub GraphQL endpoint.
	DefaultGraphQLURL = "https://api.github.com/graphql"

	defaultUserAgent = "sirseer-discussions"
)

// Client reads GitHub Discussions through an Executor. Each method builds one
// query, runs it and maps the response; the client holds no per-call state
// and is safe for concurrent use when its Executor is.
type Client struct {
	exec      Executor
	logger    *log.Logger
	inspector giterror.Inspector
}

// Option configures a Client.
type Option func(*options)

type options struct {
	logger     *log.Logger
	apiURL     string
	graphqlURL string
	transport  http.RoundTripper
	userAgent  string
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:     log.New(io.Discard),
		apiURL:     DefaultAPIURL,
		graphqlURL: DefaultGraphQLURL,
		transport:  http.DefaultTransport,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for operation and transport debug output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEndpoints points the client at a GitHub Enterprise Server or a test
// server. Empty values keep the defaults.
func WithEndpoints(apiURL, graphqlURL string) Option {
	return func(o *options) {
		if apiURL != "" {
			o.apiURL = apiURL
		}
		if graphqlURL != "" {
			o.graphqlURL = graphqlURL
		}
	}
}

// WithTransport sets the base HTTP transport under authentication.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// NewClient returns a client that runs its queries through exec.
// Only WithLogger applies; the transport options configure the constructors
// that build their own Executor.
func NewClient(exec Executor, opts ...Option) *Client {
	return newClient(exec, newOptions(opts))
}

func newClient(exec Executor, o *options) *Client {
	return &Client{
		exec:      exec,
		logger:    o.logger,
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

// GetDiscussionCategories returns up to the first 10 discussion categories
// of owner/repo, in the order GitHub lists them.
func (c *Client) GetDiscussionCategories(ctx context.Context, owner, repo string) ([]DiscussionCategory, error) {
	return execute(ctx, c, OpGetDiscussionCategories, owner, repo,
		func() (string, error) { return BuildDiscussionCategoriesQuery(owner, repo) },
		MapDiscussionCategories,
	)
}

// ListDiscussionCategories returns one page of discussion categories. Walk
// PageInfo.EndCursor with opts.After to read past the first page.
func (c *Client) ListDiscussionCategories(ctx context.Context, owner, repo string, opts PageOptions) (*DiscussionCategoryConnection, error) {
	return execute(ctx, c, OpListDiscussionCategories, owner, repo,
		func() (string, error) { return BuildCategoryConnectionQuery(owner, repo, opts) },
		MapDiscussionCategoryConnection,
	)
}

// GetDiscussionByID returns discussion number of owner/repo. A number that
// does not exist yields an error wrapping ErrNotFound.
func (c *Client) GetDiscussionByID(ctx context.Context, owner, repo string, number int) (*Discussion, error) {
	return execute(ctx, c, OpGetDiscussion, owner, repo,
		func() (string, error) { return BuildDiscussionQuery(owner, repo, number) },
		MapDiscussion,
	)
}

// GetDiscussionsByCategoryID returns one page of the discussions in a category.
func (c *Client) GetDiscussionsByCategoryID(ctx context.Context, owner, repo, categoryID string, opts ListOptions) (*DiscussionConnection, error) {
	return execute(ctx, c, OpGetDiscussions, owner, repo,
		func() (string, error) { return BuildDiscussionsQuery(owner, repo, categoryID, opts) },
		MapDiscussionConnection,
	)
}

// execute runs one build, execute, map cycle.
func execute[T any](
	ctx context.Context,
	c *Client,
	op, owner, repo string,
	build func() (string, error),
	mapResponse func(json.RawMessage) (T, error),
) (T, error) {
	var zero T

	query, err := build()
	if err != nil {
		return zero, fmt.Errorf("%s %s/%s: %w", op, owner, repo, err)
	}

	start := time.Now()
	data, err := c.exec.Execute(ctx, query)
	if err != nil {
		err = c.classify(err)
		c.logger.Warn("query failed", "op", op, "owner", owner, "repo", repo, "err", err)
		return zero, fmt.Errorf("%s %s/%s: %w", op, owner, repo, err)
	}
	c.logger.Debug("query complete", "op", op, "owner", owner, "repo", repo, "duration", time.Since(start))

	result, err := mapResponse(data)
	if err != nil {
		c.logger.Warn("unexpected response", "op", op, "owner", owner, "repo", repo, "err", err)
		return zero, fmt.Errorf("%s %s/%s: %w", op, owner, repo, err)
	}
	return result, nil
}

// classify adds ErrNotFound or ErrAuthentication to an upstream failure that
// names a missing resource or rejected credentials. The upstream error stays
// in the chain unchanged.
func (c *Client) classify(err error) error {
	if !errors.Is(err, relaierrors.ErrUpstreamQuery) || c.inspector.IsRateLimitError(err) {
		return err
	}
	switch {
	case c.inspector.IsAuthError(err) && !errors.Is(err, relaierrors.ErrAuthentication):
		return fmt.Errorf("%w: %w", relaierrors.ErrAuthentication, err)
	case c.inspector.IsNotFoundError(err) && !errors.Is(err, relaierrors.ErrNotFound):
		return fmt.Errorf("%w: %w", relaierrors.ErrNotFound, err)
	}
	return err
}
