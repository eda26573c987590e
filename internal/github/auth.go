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
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v68/github"
	relaierrors "github.com/sirseerhq/sirseer-discussions/internal/errors"
	"golang.org/x/oauth2"
)

// AppCredentials identify a GitHub App and the organization whose
// installation the client acts as.
type AppCredentials struct {
	// AppID is the numeric GitHub App ID.
	AppID int64

	// PrivateKey is the App's PEM-encoded RSA private key.
	PrivateKey []byte

	// Organization is the login of the organization the App is installed on.
	Organization string
}

// NewAppClient authenticates as a GitHub App installation and returns a
// client that runs queries with the installation's token.
//
// It makes two requests: one to find the App's installation on
// creds.Organization (GET /orgs/{org}/installation, signed with the App JWT)
// and one to exchange it for an installation access token. Any failure is
// returned wrapped in ErrAuthentication and is not retried. Token renewal
// after expiry is handled by the installation transport.
func NewAppClient(ctx context.Context, creds AppCredentials, opts ...Option) (*Client, error) {
	o := newOptions(opts)

	httpClient, err := installationHTTPClient(ctx, creds, o)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("authenticated as app installation", "app_id", creds.AppID, "organization", creds.Organization)
	return newClient(NewGraphQLExecutor(o.graphqlURL, httpClient, o.logger), o), nil
}

// NewTokenClient returns a client that authenticates every query with a
// static token, such as a personal access token or an installation token
// obtained elsewhere.
func NewTokenClient(token string, opts ...Option) *Client {
	o := newOptions(opts)

	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   newAPITransport(o.transport, o.userAgent),
		},
	}
	return newClient(NewGraphQLExecutor(o.graphqlURL, httpClient, o.logger), o)
}

// installationHTTPClient performs the App-to-installation handshake.
func installationHTTPClient(ctx context.Context, creds AppCredentials, o *options) (*http.Client, error) {
	if creds.AppID <= 0 {
		return nil, fmt.Errorf("%w: app id must be positive, got %d", relaierrors.ErrAuthentication, creds.AppID)
	}
	if creds.Organization == "" {
		return nil, fmt.Errorf("%w: organization is required", relaierrors.ErrAuthentication)
	}

	base := newAPITransport(o.transport, o.userAgent)
	apiURL := strings.TrimSuffix(o.apiURL, "/")

	// App identity: every request is signed with a short-lived JWT.
	appTransport, err := ghinstallation.NewAppsTransport(base, creds.AppID, creds.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid app private key: %w", relaierrors.ErrAuthentication, err)
	}
	appTransport.BaseURL = apiURL

	apps := gogithub.NewClient(&http.Client{Transport: appTransport})
	baseURL, err := url.Parse(apiURL + "/")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid api endpoint %q: %w", relaierrors.ErrAuthentication, o.apiURL, err)
	}
	apps.BaseURL = baseURL
	apps.UserAgent = o.userAgent

	installation, _, err := apps.Apps.FindOrganizationInstallation(ctx, creds.Organization)
	if err != nil {
		return nil, fmt.Errorf("%w: find installation for organization %s: %w", relaierrors.ErrAuthentication, creds.Organization, err)
	}

	installationTransport := ghinstallation.NewFromAppsTransport(appTransport, installation.GetID())
	installationTransport.BaseURL = apiURL

	// Exchange now so bad credentials surface here rather than on the first query.
	if _, err := installationTransport.Token(ctx); err != nil {
		return nil, fmt.Errorf("%w: create token for installation %d: %w", relaierrors.ErrAuthentication, installation.GetID(), err)
	}

	return &http.Client{Transport: installationTransport}, nil
}
