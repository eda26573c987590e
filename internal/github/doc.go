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

// Package github reads GitHub Discussions through the GraphQL API.
//
// A Client is built from three parts:
//   - an authenticator (NewAppClient) that exchanges GitHub App credentials
//     for an installation token on one organization
//   - query builders (Build*) that render typed options into GraphQL text
//   - response mappers (Map*) that check and project the JSON data object
//     into domain types
//
// Queries are executed by an Executor. GraphQLExecutor is the HTTP
// implementation; MockExecutor serves canned responses in tests.
//
// Basic usage:
//
//	client, err := github.NewAppClient(ctx, github.AppCredentials{
//	    AppID:        12345,
//	    PrivateKey:   pem,
//	    Organization: "acme",
//	})
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.GetDiscussionsByCategoryID(ctx, "acme", "docs", categoryID, github.ListOptions{
//	    PageOptions: github.PageOptions{First: github.Ptr(20)},
//	})
package github
