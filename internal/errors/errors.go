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

// Package errors defines sentinel errors for consistent error handling across the application.
// Every failure returned by the discussions client wraps exactly one of these, so callers
// can branch with errors.Is while the underlying cause stays reachable through the chain.
// The CLI maps them to exit codes for scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrAuthentication indicates the GitHub App credential exchange or the
	// installation lookup for the organization failed.
	// Maps to exit code 2.
	ErrAuthentication = errors.New("github app authentication failed")

	// ErrNotFound indicates the requested repository or discussion does not exist
	// (null at an expected nesting level of the response).
	// Maps to exit code 2.
	ErrNotFound = errors.New("resource not found")

	// ErrMalformedResponse indicates the response shape does not match the fields
	// the query selected.
	// Maps to exit code 4.
	ErrMalformedResponse = errors.New("malformed graphql response")

	// ErrUpstreamQuery indicates the query execution itself failed: a GraphQL error,
	// a non-2xx HTTP status or a transport failure. The original error is kept in the chain.
	// Maps to exit code 4.
	ErrUpstreamQuery = errors.New("graphql query failed")

	// ErrInvalidArgument indicates a caller-supplied value that cannot be placed
	// into a query safely.
	// Maps to exit code 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")
)
